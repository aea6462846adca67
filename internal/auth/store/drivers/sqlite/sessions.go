package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/agoradata/agora-auth/internal/auth/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, ip, user_agent, expires_at, revoked_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID,
		s.UserID,
		s.IP,
		s.UserAgent,
		s.ExpiresAt,
		mapOptionalTime(s.RevokedAt),
		s.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, ip, user_agent, expires_at, revoked_at, created_at
		FROM sessions WHERE id = ?`, id)

	var s domain.Session
	var revokedAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.IP, &s.UserAgent, &s.ExpiresAt, &revokedAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.RevokedAt = mapNullTimePtr(revokedAt)
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "already revoked" (no-op) from "no such session".
		_, err := r.GetSessionByID(ctx, id)
		return err
	}
	return nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
