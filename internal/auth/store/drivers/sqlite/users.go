package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/agoradata/agora-auth/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, name, password_hash, is_active, is_email_verified,
	failed_login_attempts, locked_until, last_login_at, last_login_ip,
	created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, password_hash, is_active, is_email_verified,
			failed_login_attempts, locked_until, last_login_at, last_login_ip,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.IsActive,
		u.IsEmailVerified,
		u.Security.FailedLoginAttempts,
		mapOptionalTime(u.Security.LockedUntil),
		mapOptionalTime(u.Security.LastLoginAt),
		u.Security.LastLoginIP,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateSecurityState(ctx context.Context, userID string, s domain.SecurityState) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			failed_login_attempts = ?,
			locked_until = ?,
			last_login_at = ?,
			last_login_ip = ?,
			updated_at = ?
		WHERE id = ?`,
		s.FailedLoginAttempts,
		mapOptionalTime(s.LockedUntil),
		mapOptionalTime(s.LastLoginAt),
		s.LastLoginIP,
		time.Now().UTC(),
		userID,
	)
	return requireRowAffected(res, err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	return requireRowAffected(res, err)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var lockedUntil, lastLoginAt sql.NullTime

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsEmailVerified,
		&u.Security.FailedLoginAttempts,
		&lockedUntil,
		&lastLoginAt,
		&u.Security.LastLoginIP,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Security.LockedUntil = mapNullTimePtr(lockedUntil)
	u.Security.LastLoginAt = mapNullTimePtr(lastLoginAt)
	return u, nil
}
