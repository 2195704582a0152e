package store

import (
	"context"
	"errors"
	"time"

	"github.com/vantasec/adminauth/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. Sub-repositories keep concerns tidy and let tests fake
// one surface at a time.
type Store interface {
	Accounts() Accounts
	Sessions() Sessions
	AuditLog() AuditLog

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Accounts() Accounts
	Sessions() Sessions
	AuditLog() AuditLog
}

type Accounts interface {
	// GetByID returns an account by id.
	GetByID(ctx context.Context, id string) (domain.Account, error)

	// GetByEmail looks up by normalized (trimmed, lowercased) email.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// Create inserts a new account (id supplied by the caller as a ULID).
	Create(ctx context.Context, a domain.Account) error

	// Delete removes an account; its sessions cascade per schema.
	Delete(ctx context.Context, id string) error

	// List returns all accounts, newest first.
	List(ctx context.Context) ([]domain.Account, error)

	// IsEmpty reports whether no accounts exist (bootstrap gate).
	IsEmpty(ctx context.Context) (bool, error)

	// RecordLoginFailure increments the failure counter and, when the
	// post-increment count reaches threshold, applies lockUntil — as a
	// single atomic update so concurrent failures cannot under-count.
	// Returns the new counter value and whether a lock was applied.
	RecordLoginFailure(ctx context.Context, id string, threshold int, lockUntil time.Time) (count int, locked bool, err error)

	// ClearLoginFailures resets the failure counter and lock.
	ClearLoginFailures(ctx context.Context, id string) error

	// SetTOTPSecret stores a provisioned (not yet verified) TOTP secret.
	SetTOTPSecret(ctx context.Context, id string, secret string) error

	// EnableTOTP marks 2FA enabled, records the login time, and clears
	// residual failure state in one update.
	EnableTOTP(ctx context.Context, id string, at time.Time) error

	// TouchLastLogin records a successful login time.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// SetActive enables or disables an account.
	SetActive(ctx context.Context, id string, active bool) error
}

type Sessions interface {
	// Create stores a new session record.
	Create(ctx context.Context, s domain.Session) error

	// GetByTokenHash returns the session with the given token fingerprint.
	GetByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// UpdateStatus transitions a session's lifecycle state.
	UpdateStatus(ctx context.Context, id string, status domain.SessionStatus) error

	// TouchLastUsed bumps last_used_at; best effort on the hot path.
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// RevokeExpired flips every expired non-revoked session to revoked
	// (housekeeping).
	RevokeExpired(ctx context.Context, now time.Time) error

	// DeleteRevokedBefore prunes revoked sessions older than cutoff.
	DeleteRevokedBefore(ctx context.Context, cutoff time.Time) error
}

type AuditLog interface {
	// Append writes one entry. The log is append-only; there is no update
	// or delete surface.
	Append(ctx context.Context, e domain.AuditEntry) error

	// ListRecent returns the most recent entries up to limit.
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
