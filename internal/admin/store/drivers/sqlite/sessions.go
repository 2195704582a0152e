package sqlite

import (
	"context"
	"time"

	"github.com/vantasec/adminauth/internal/admin/domain"
)

type sessionsRepo struct {
	db dbtx
}

const sessionColumns = `id, token_hash, account_id, status, created_at, expires_at,
	last_used_at, ip, user_agent`

func (r *sessionsRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (
			id, token_hash, account_id, status, created_at, expires_at,
			last_used_at, ip, user_agent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TokenHash, s.AccountID, string(s.Status), s.CreatedAt,
		s.ExpiresAt, s.LastUsedAt, s.IP, s.UserAgent,
	)
	return err
}

func (r *sessionsRepo) GetByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	var (
		s      domain.Session
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM admin_sessions WHERE token_hash = ?`, hash,
	).Scan(
		&s.ID, &s.TokenHash, &s.AccountID, &status, &s.CreatedAt,
		&s.ExpiresAt, &s.LastUsedAt, &s.IP, &s.UserAgent,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Status = domain.SessionStatus(status)
	return s, nil
}

func (r *sessionsRepo) UpdateStatus(ctx context.Context, id string, status domain.SessionStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_sessions SET status = ? WHERE id = ?`, string(status), id)
	return err
}

func (r *sessionsRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_sessions SET last_used_at = ? WHERE id = ?`, at, id)
	return err
}

func (r *sessionsRepo) RevokeExpired(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_sessions
		SET status = ?
		WHERE status != ? AND expires_at <= ?`,
		string(domain.SessionRevoked), string(domain.SessionRevoked), now)
	return err
}

func (r *sessionsRepo) DeleteRevokedBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM admin_sessions
		WHERE status = ? AND expires_at < ?`,
		string(domain.SessionRevoked), cutoff)
	return err
}
