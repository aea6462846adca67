package domain

import "time"

// Session is the persistent half of an issued session token. The signed
// token references the row by ID so revocation takes effect immediately.
type Session struct {
	ID        string
	UserID    string
	IP        string
	UserAgent string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
