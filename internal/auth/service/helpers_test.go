package service

import (
	"context"
	"testing"
	"time"

	"github.com/agoradata/agora-auth/internal/auth/domain"
	"github.com/agoradata/agora-auth/internal/auth/lockout"
	"github.com/agoradata/agora-auth/internal/auth/ratelimit"
	"github.com/agoradata/agora-auth/internal/auth/store"
	"github.com/agoradata/agora-auth/internal/auth/store/drivers/sqlite"
	"github.com/agoradata/agora-auth/pkg/cryptox"
	"github.com/agoradata/agora-auth/pkg/idx"
	"github.com/stretchr/testify/require"
)

// testHasher keeps Argon2id cheap so the suite stays fast.
var testHasher = &cryptox.Hasher{
	Params: cryptox.Argon2Params{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1},
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// testClock is a manually-advanced time source shared by a test's services.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newAuthService(t *testing.T, st store.Store, clock *testClock) *AuthService {
	t.Helper()

	limiter := ratelimit.New(5, 15*time.Minute)
	limiter.SetClock(clock.Now)

	return &AuthService{
		Store:   st,
		Limiter: limiter,
		Hasher:  testHasher,
		Lockout: lockout.Default,
		Now:     clock.Now,
	}
}

func seedUser(t *testing.T, st store.Store, email, password string, active bool) domain.User {
	t.Helper()

	hash, err := testHasher.Hash(password)
	require.NoError(t, err)

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	user := domain.User{
		ID:              idx.New().String(),
		Email:           email,
		Name:            "Test User",
		PasswordHash:    hash,
		IsActive:        active,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func auditActions(t *testing.T, st store.Store, userID string) []domain.AuditAction {
	t.Helper()

	events, err := st.Audit().ListByUser(context.Background(), userID, 50)
	require.NoError(t, err)

	actions := make([]domain.AuditAction, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}
