package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agoradata/agora-auth/internal/auth/domain"
	"github.com/agoradata/agora-auth/internal/auth/store"
	"github.com/agoradata/agora-auth/pkg/cryptox"
	"github.com/agoradata/agora-auth/pkg/idx"
)

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrEmailTaken   = errors.New("email_taken")
)

// WeakPasswordError reports which policy rules a candidate password failed,
// in the order they are checked.
type WeakPasswordError struct {
	Violations []cryptox.Violation
}

func (e *WeakPasswordError) Error() string { return "weak_password" }

type UserService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
	Policy cryptox.PasswordPolicy

	Now func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateUserParams are the inputs for provisioning a new account.
type CreateUserParams struct {
	Email         string
	Name          string
	Password      string
	EmailVerified bool

	// CreatedBy names the provisioning actor for the audit trail,
	// e.g. "create-admin".
	CreatedBy string
	Meta      domain.RequestMeta
}

// Create validates the password against the strength policy, hashes it, and
// inserts the account together with a USER_CREATED audit event.
func (s *UserService) Create(ctx context.Context, p CreateUserParams) (domain.User, error) {
	email := strings.TrimSpace(p.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidEmail
	}

	if result := s.Policy.Validate(p.Password); !result.Valid {
		return domain.User{}, &WeakPasswordError{Violations: result.Violations}
	}

	hash, err := s.Hasher.Hash(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:              idx.New().String(),
		Email:           email,
		Name:            strings.TrimSpace(p.Name),
		PasswordHash:    hash,
		IsActive:        true,
		IsEmailVerified: p.EmailVerified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	event := domain.AuditEvent{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Action:    domain.AuditUserCreated,
		IP:        p.Meta.IP,
		UserAgent: p.Meta.UserAgent,
		Metadata: map[string]string{
			"email":      email,
			"created_by": p.CreatedBy,
		},
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Audit().Append(ctx, event)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// GetUserByEmail fetches a user by its login identifier.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.Store.Users().GetUserByEmail(ctx, email)
}
