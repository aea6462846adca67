package domain

import "time"

// AuditAction enumerates the security-relevant actions this service records.
type AuditAction string

const (
	AuditLoginSuccess AuditAction = "LOGIN_SUCCESS"
	AuditLoginFailed  AuditAction = "LOGIN_FAILED"
	AuditLogout       AuditAction = "LOGOUT"
	AuditUserCreated  AuditAction = "USER_CREATED"
)

// RequestMeta carries transport-level context into the engine. The caller
// extracts it from its own transport; the engine never reads headers itself.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuditEvent is an immutable forensic record. Events are append-only;
// nothing in this service mutates or deletes them once written.
type AuditEvent struct {
	ID        string
	UserID    string // empty when no account is involved
	Action    AuditAction
	IP        string
	UserAgent string
	Metadata  map[string]string
	CreatedAt time.Time
}
