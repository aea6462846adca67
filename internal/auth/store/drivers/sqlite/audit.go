package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/agoradata/agora-auth/internal/auth/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) Append(ctx context.Context, e domain.AuditEvent) error {
	var metadata sql.NullString
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, user_id, action, ip_address, user_agent, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		mapOptionalString(e.UserID),
		string(e.Action),
		e.IP,
		e.UserAgent,
		metadata,
		e.CreatedAt,
	)
	return err
}

func (r *auditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, action, ip_address, user_agent, metadata, created_at
		FROM audit_log
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var subject, metadata sql.NullString
		var action string

		if err := rows.Scan(&e.ID, &subject, &action, &e.IP, &e.UserAgent, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}

		e.UserID = mapNullString(subject)
		e.Action = domain.AuditAction(action)
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &e.Metadata); err != nil {
				return nil, err
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
