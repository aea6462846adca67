package lockout

import (
	"testing"
	"time"

	"github.com/agoradata/agora-auth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestRecordFailure_LocksAtThreshold(t *testing.T) {
	m := Default
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var s domain.SecurityState
	for i := 1; i <= 4; i++ {
		s = m.RecordFailure(s, now)
		require.Equal(t, i, s.FailedLoginAttempts)
		require.Nil(t, s.LockedUntil, "no lock before the threshold")
	}

	s = m.RecordFailure(s, now)
	require.Equal(t, 5, s.FailedLoginAttempts)
	require.NotNil(t, s.LockedUntil)
	require.Equal(t, now.Add(30*time.Minute), *s.LockedUntil)
}

func TestRecordFailure_BeyondThresholdExtendsLock(t *testing.T) {
	m := Default
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var s domain.SecurityState
	for range 5 {
		s = m.RecordFailure(s, now)
	}

	// A further failure later pushes the deadline out from its own now.
	later := now.Add(10 * time.Minute)
	s = m.RecordFailure(s, later)
	require.Equal(t, 6, s.FailedLoginAttempts)
	require.Equal(t, later.Add(30*time.Minute), *s.LockedUntil)
}

func TestIsLocked_ExpiryByComparison(t *testing.T) {
	m := Default
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var s domain.SecurityState
	for range 5 {
		s = m.RecordFailure(s, now)
	}

	require.True(t, m.IsLocked(s, now))
	require.True(t, m.IsLocked(s, now.Add(30*time.Minute-time.Second)))

	// Nothing clears LockedUntil; the lock simply stops applying.
	require.False(t, m.IsLocked(s, now.Add(30*time.Minute)))
	require.NotNil(t, s.LockedUntil)
	require.Equal(t, 5, s.FailedLoginAttempts)
}

func TestIsLocked_ZeroState(t *testing.T) {
	require.False(t, Default.IsLocked(domain.SecurityState{}, time.Now()))
}

func TestRecordSuccess_ResetsState(t *testing.T) {
	m := Default
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var s domain.SecurityState
	for range 5 {
		s = m.RecordFailure(s, now)
	}

	meta := domain.RequestMeta{IP: "203.0.113.7", UserAgent: "test"}
	loginAt := now.Add(45 * time.Minute)
	s = m.RecordSuccess(s, loginAt, meta)

	require.Equal(t, 0, s.FailedLoginAttempts)
	require.Nil(t, s.LockedUntil)
	require.Equal(t, loginAt, *s.LastLoginAt)
	require.Equal(t, "203.0.113.7", s.LastLoginIP)
}

func TestCustomPolicy(t *testing.T) {
	m := Machine{Threshold: 3, Duration: 5 * time.Minute}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var s domain.SecurityState
	s = m.RecordFailure(s, now)
	s = m.RecordFailure(s, now)
	require.Nil(t, s.LockedUntil)

	s = m.RecordFailure(s, now)
	require.Equal(t, now.Add(5*time.Minute), *s.LockedUntil)
}

func TestZeroValueUsesDefaults(t *testing.T) {
	var m Machine
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var s domain.SecurityState
	for range 5 {
		s = m.RecordFailure(s, now)
	}
	require.NotNil(t, s.LockedUntil)
	require.Equal(t, now.Add(30*time.Minute), *s.LockedUntil)
}
