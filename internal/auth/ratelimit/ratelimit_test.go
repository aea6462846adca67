package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheck_CountsDown(t *testing.T) {
	l := New(5, 15*time.Minute)

	for want := 4; want >= 0; want-- {
		res := l.Check("user@example.com")
		require.True(t, res.Allowed)
		require.Equal(t, want, res.Remaining)
	}

	// Sixth attempt inside the window is refused without consuming anything.
	res := l.Check("user@example.com")
	require.False(t, res.Allowed)
	require.Equal(t, 0, res.Remaining)
	require.Greater(t, res.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, res.RetryAfter, 15*time.Minute)
}

func TestCheck_IdentifiersIndependent(t *testing.T) {
	l := New(2, 15*time.Minute)

	require.True(t, l.Check("a@example.com").Allowed)
	require.True(t, l.Check("a@example.com").Allowed)
	require.False(t, l.Check("a@example.com").Allowed)

	// A different identifier has its own window.
	res := l.Check("b@example.com")
	require.True(t, res.Allowed)
	require.Equal(t, 1, res.Remaining)
}

func TestCheck_WindowExpiry(t *testing.T) {
	l := New(2, 15*time.Minute)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return now })

	require.True(t, l.Check("user@example.com").Allowed)
	require.True(t, l.Check("user@example.com").Allowed)

	blocked := l.Check("user@example.com")
	require.False(t, blocked.Allowed)
	require.Equal(t, 15*time.Minute, blocked.RetryAfter)

	// One second before the window ends the identifier is still refused.
	now = now.Add(15*time.Minute - time.Second)
	blocked = l.Check("user@example.com")
	require.False(t, blocked.Allowed)
	require.Equal(t, time.Second, blocked.RetryAfter)

	// At the window boundary the record expires and a fresh window starts.
	now = now.Add(time.Second)
	res := l.Check("user@example.com")
	require.True(t, res.Allowed)
	require.Equal(t, 1, res.Remaining)
}

func TestReset(t *testing.T) {
	l := New(2, 15*time.Minute)

	require.True(t, l.Check("user@example.com").Allowed)
	require.True(t, l.Check("user@example.com").Allowed)
	require.False(t, l.Check("user@example.com").Allowed)

	l.Reset("user@example.com")

	res := l.Check("user@example.com")
	require.True(t, res.Allowed)
	require.Equal(t, 1, res.Remaining)
}

func TestPurgeExpired(t *testing.T) {
	l := New(5, 15*time.Minute)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return now })

	l.Check("stale@example.com")
	now = now.Add(10 * time.Minute)
	l.Check("fresh@example.com")

	// Only the record whose window has ended is removed.
	now = now.Add(6 * time.Minute)
	require.Equal(t, 1, l.PurgeExpired())
	require.Equal(t, 0, l.PurgeExpired())

	// The surviving record still counts attempts.
	res := l.Check("fresh@example.com")
	require.True(t, res.Allowed)
	require.Equal(t, 3, res.Remaining)
}

func TestNew_Defaults(t *testing.T) {
	l := New(0, 0)

	res := l.Check("user@example.com")
	require.True(t, res.Allowed)
	require.Equal(t, 4, res.Remaining)
}
