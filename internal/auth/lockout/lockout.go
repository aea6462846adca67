// Package lockout implements the per-account failure-count and lockout
// state machine. All transitions are pure functions of (state, now); the
// caller persists the returned state as a single atomic write.
package lockout

import (
	"time"

	"github.com/agoradata/agora-auth/internal/auth/domain"
)

// Machine holds the lockout policy. The threshold is configured separately
// from the login rate limiter's attempt cap even though both default to 5;
// the two protect different things (an account vs an identifier).
type Machine struct {
	Threshold int
	Duration  time.Duration
}

// Default locks an account for 30 minutes after 5 consecutive failures.
var Default = Machine{Threshold: 5, Duration: 30 * time.Minute}

func (m Machine) threshold() int {
	if m.Threshold <= 0 {
		return Default.Threshold
	}
	return m.Threshold
}

func (m Machine) duration() time.Duration {
	if m.Duration <= 0 {
		return Default.Duration
	}
	return m.Duration
}

// IsLocked reports whether the account is locked at now. Expiry is decided
// by comparison only; nothing ever clears LockedUntil in the background.
func (m Machine) IsLocked(s domain.SecurityState, now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// RecordFailure increments the failure counter and, once the counter reaches
// the threshold, sets the lockout deadline relative to now.
func (m Machine) RecordFailure(s domain.SecurityState, now time.Time) domain.SecurityState {
	s.FailedLoginAttempts++
	if s.FailedLoginAttempts >= m.threshold() {
		until := now.Add(m.duration())
		s.LockedUntil = &until
	}
	return s
}

// RecordSuccess clears the failure counter and any lock, and stamps the
// login metadata.
func (m Machine) RecordSuccess(s domain.SecurityState, now time.Time, meta domain.RequestMeta) domain.SecurityState {
	s.FailedLoginAttempts = 0
	s.LockedUntil = nil
	loginAt := now
	s.LastLoginAt = &loginAt
	s.LastLoginIP = meta.IP
	return s
}
