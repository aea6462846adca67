package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agoradata/agora-auth/internal/auth/domain"
	"github.com/agoradata/agora-auth/internal/auth/lockout"
	"github.com/agoradata/agora-auth/internal/auth/ratelimit"
	"github.com/agoradata/agora-auth/internal/auth/store"
	"github.com/agoradata/agora-auth/pkg/cryptox"
	"github.com/agoradata/agora-auth/pkg/idx"
	"github.com/agoradata/agora-auth/pkg/slogx"
)

var (
	ErrMissingCredentials = errors.New("missing_credentials")
	ErrRateLimited        = errors.New("rate_limited")

	// ErrInvalidCredentials covers both "no such account" and "wrong
	// password". Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrAccountLocked   = errors.New("account_locked")
	ErrAccountInactive = errors.New("account_inactive")
)

// RetryAfterError decorates a rejection with a retry hint. The boundary may
// disclose the hint but never attempt counts.
type RetryAfterError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RetryAfterError) Error() string { return e.Err.Error() }
func (e *RetryAfterError) Unwrap() error { return e.Err }

// AuthResult identifies the authenticated account. Session issuance is the
// caller's concern.
type AuthResult struct {
	UserID string
	Email  string
	Name   string
}

// AuthService composes the hasher, login rate limiter, and lockout machine
// into the login decision, and emits audit events.
type AuthService struct {
	Store   store.Store
	Limiter *ratelimit.Limiter
	Hasher  *cryptox.Hasher
	Lockout lockout.Machine

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Authenticate runs the login decision procedure for one attempt.
//
// The checks are ordered so that cheaper, less revealing rejections come
// first: the rate limiter runs before any account lookup (a throttled
// caller learns nothing about account existence), the lockout and active
// checks run before password verification, and only a verification outcome
// mutates account state or the audit trail.
func (s *AuthService) Authenticate(
	ctx context.Context,
	email, password string,
	meta domain.RequestMeta,
) (*AuthResult, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	rl := s.Limiter.Check(email)
	if !rl.Allowed {
		log.Warn("login attempt rate limited", "retry_after", rl.RetryAfter)
		return nil, &RetryAfterError{Err: ErrRateLimited, RetryAfter: rl.RetryAfter}
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if s.Lockout.IsLocked(user.Security, now) {
		return nil, &RetryAfterError{
			Err:        ErrAccountLocked,
			RetryAfter: user.Security.LockedUntil.Sub(now),
		}
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		newState := s.Lockout.RecordFailure(user.Security, now)
		if err := s.Store.Users().UpdateSecurityState(ctx, user.ID, newState); err != nil {
			return nil, fmt.Errorf("record login failure: %w", err)
		}
		if newState.LockedUntil != nil {
			log.Warn("account locked after repeated failures",
				"user_id", user.ID,
				"failed_attempts", newState.FailedLoginAttempts,
			)
		}

		// Best effort: a broken audit trail must not change the verdict,
		// but it is an operational incident worth shouting about.
		event := s.newEvent(user.ID, domain.AuditLoginFailed, meta, now, map[string]string{
			"email":  email,
			"reason": "invalid password",
		})
		if err := s.Store.Audit().Append(ctx, event); err != nil {
			log.Error("failed to append login failure audit event", "error", err, "user_id", user.ID)
		}

		return nil, ErrInvalidCredentials
	}

	newState := s.Lockout.RecordSuccess(user.Security, now, meta)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateSecurityState(ctx, user.ID, newState); err != nil {
			return err
		}
		return tx.Audit().Append(ctx, s.newEvent(user.ID, domain.AuditLoginSuccess, meta, now, nil))
	})
	if err != nil {
		return nil, fmt.Errorf("record login success: %w", err)
	}

	s.Limiter.Reset(email)

	return &AuthResult{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

func (s *AuthService) newEvent(
	userID string,
	action domain.AuditAction,
	meta domain.RequestMeta,
	now time.Time,
	metadata map[string]string,
) domain.AuditEvent {
	return domain.AuditEvent{
		ID:        idx.New().String(),
		UserID:    userID,
		Action:    action,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Metadata:  metadata,
		CreatedAt: now,
	}
}
