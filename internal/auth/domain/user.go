package domain

import "time"

// SecurityState tracks per-account brute-force protection. It lives on the
// user record and is mutated only through lockout.Machine transitions; the
// whole struct is written back in a single update per login attempt.
type SecurityState struct {
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	LastLoginIP         string
}

type User struct {
	ID              string
	Email           string
	Name            string
	PasswordHash    string // argon2 encoded
	IsActive        bool
	IsEmailVerified bool
	Security        SecurityState
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
