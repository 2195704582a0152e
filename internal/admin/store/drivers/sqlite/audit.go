package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/vantasec/adminauth/internal/admin/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) Append(ctx context.Context, e domain.AuditEntry) error {
	meta := []byte("{}")
	if len(e.Metadata) > 0 {
		var err error
		meta, err = json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (
			id, actor_id, actor_email, action, success, ip, user_agent, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, mapOptionalString(e.ActorID), mapOptionalString(e.ActorEmail),
		e.Action, e.Success, e.IP, e.UserAgent, string(meta), e.CreatedAt,
	)
	return err
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_email, action, success, ip, user_agent, metadata, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e          domain.AuditEntry
			actorID    sql.NullString
			actorEmail sql.NullString
			meta       string
		)
		if err := rows.Scan(
			&e.ID, &actorID, &actorEmail, &e.Action, &e.Success,
			&e.IP, &e.UserAgent, &meta, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.ActorID = mapNullStringPtr(actorID)
		e.ActorEmail = mapNullStringPtr(actorEmail)
		if meta != "" && meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
