package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/vantasec/adminauth/internal/admin/domain"
	"github.com/vantasec/adminauth/internal/admin/store"
)

type accountsRepo struct {
	db dbtx
}

const accountColumns = `id, email, display_name, role, password_hash, totp_secret,
	totp_enabled, failed_login_count, locked_until, active, created_at, last_login_at`

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM admin_accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM admin_accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_accounts (
			id, email, display_name, role, password_hash, totp_secret,
			totp_enabled, failed_login_count, locked_until, active, created_at, last_login_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.DisplayName, string(a.Role), a.PasswordHash,
		mapOptionalString(a.TOTPSecret), a.TOTPEnabled, a.FailedLoginCount,
		mapOptionalTime(a.LockedUntil), a.Active, a.CreatedAt,
		mapOptionalTime(a.LastLoginAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *accountsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM admin_accounts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_accounts`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// RecordLoginFailure is a single conditional UPDATE so two concurrent
// failures both land on the counter; the read-modify-write variant loses
// increments under interleaving.
func (r *accountsRepo) RecordLoginFailure(ctx context.Context, id string, threshold int, lockUntil time.Time) (int, bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		UPDATE admin_accounts
		SET failed_login_count = failed_login_count + 1,
		    locked_until = CASE
		        WHEN failed_login_count + 1 >= ? THEN ?
		        ELSE locked_until
		    END
		WHERE id = ?
		RETURNING failed_login_count`,
		threshold, lockUntil, id,
	).Scan(&count)
	if err != nil {
		return 0, false, mapNotFound(err)
	}
	return count, count >= threshold, nil
}

func (r *accountsRepo) ClearLoginFailures(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_accounts
		SET failed_login_count = 0, locked_until = NULL
		WHERE id = ?`, id)
	return err
}

func (r *accountsRepo) SetTOTPSecret(ctx context.Context, id string, secret string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_accounts SET totp_secret = ? WHERE id = ?`, secret, id)
	return err
}

func (r *accountsRepo) EnableTOTP(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_accounts
		SET totp_enabled = 1, last_login_at = ?, failed_login_count = 0, locked_until = NULL
		WHERE id = ?`, at, id)
	return err
}

func (r *accountsRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_accounts SET last_login_at = ? WHERE id = ?`, at, id)
	return err
}

func (r *accountsRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_accounts SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		a           domain.Account
		role        string
		totpSecret  sql.NullString
		lockedUntil sql.NullTime
		lastLogin   sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.DisplayName, &role, &a.PasswordHash, &totpSecret,
		&a.TOTPEnabled, &a.FailedLoginCount, &lockedUntil, &a.Active,
		&a.CreatedAt, &lastLogin,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.Role = domain.Role(role)
	a.TOTPSecret = mapNullStringPtr(totpSecret)
	a.LockedUntil = mapNullTimePtr(lockedUntil)
	a.LastLoginAt = mapNullTimePtr(lastLogin)
	return a, nil
}
