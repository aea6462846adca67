package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agoradata/agora-auth/internal/auth/domain"
	"github.com/agoradata/agora-auth/internal/auth/store"
	"github.com/agoradata/agora-auth/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession covers every way a presented session token can be bad:
// malformed, tampered, expired, revoked, or referencing a purged row.
var ErrInvalidSession = errors.New("invalid_session")

// DefaultSessionTTL matches the platform's 30-day session lifetime.
const DefaultSessionTTL = 30 * 24 * time.Hour

// SessionService is the consumer of AuthResult: it issues HS256-signed
// session tokens whose jti references a revocable database row. A token is
// only valid while its signature, its expiry, and its backing row all are.
type SessionService struct {
	Store  store.Store
	Secret []byte
	Issuer string
	TTL    time.Duration

	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

// Issue creates a session for the authenticated user and returns the signed
// token.
func (s *SessionService) Issue(ctx context.Context, userID string, meta domain.RequestMeta) (string, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl())
	sessionID := idx.New().String()

	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		Issuer:    s.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	session := domain.Session{
		ID:        sessionID,
		UserID:    userID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	return signed, nil
}

// Validate checks a presented token and returns the backing session.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.Session, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.Secret, nil
		},
		jwt.WithIssuer(s.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return domain.Session{}, ErrInvalidSession
	}

	session, err := s.Store.Sessions().GetSessionByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidSession
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	now := s.now()
	if session.RevokedAt != nil || !session.ExpiresAt.After(now) {
		return domain.Session{}, ErrInvalidSession
	}

	return session, nil
}

// Revoke ends the session behind a presented token and appends a LOGOUT
// audit event.
func (s *SessionService) Revoke(ctx context.Context, token string, meta domain.RequestMeta) error {
	session, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}

	event := domain.AuditEvent{
		ID:        idx.New().String(),
		UserID:    session.UserID,
		Action:    domain.AuditLogout,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: s.now(),
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().RevokeSession(ctx, session.ID); err != nil {
			return err
		}
		return tx.Audit().Append(ctx, event)
	})
}
