package store

import (
	"context"
	"errors"

	"github.com/agoradata/agora-auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Users() Users
	Sessions() Sessions
	Audit() Audit

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle multi-step atomic operations.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is the login-time lookup; email is the identifier.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateSecurityState writes the whole security state in one statement
	// and bumps updated_at. The engine performs exactly one such write per
	// login attempt that reaches credential verification.
	UpdateSecurityState(ctx context.Context, userID string, s domain.SecurityState) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// CreateSession stores a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID fetches a session regardless of expiry or revocation;
	// callers decide what still counts as valid.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// RevokeSession sets revoked_at for a session. Revoking an already
	// revoked session is a no-op.
	RevokeSession(ctx context.Context, id string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type Audit interface {
	// Append writes one immutable audit event. There is deliberately no
	// update or delete on this interface.
	Append(ctx context.Context, e domain.AuditEvent) error

	// ListByUser returns the newest events for a subject, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEvent, error)
}
