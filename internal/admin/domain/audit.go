package domain

import "time"

// Audit action names. Every security-relevant operation writes exactly one
// entry after its outcome is known.
const (
	AuditBootstrap        = "bootstrap"
	AuditLoginRateLimited = "login_rate_limited"
	AuditLoginFailed      = "login_failed"
	AuditLoginBlocked     = "login_blocked"
	AuditLoginLocked      = "login_locked"
	AuditLogin2FARequired = "login_2fa_required"
	AuditLogin2FASetup    = "login_2fa_setup_required"
	AuditTOTPFailed       = "2fa_failed"
	AuditTOTPVerified     = "2fa_verified"
	AuditLogout           = "logout"
	AuditSessionExpired   = "session_expired"
	AuditAccountCreated   = "account_created"
	AuditAccountDeleted   = "account_deleted"
)

// AuditEntry is an append-only record of an authentication-relevant event.
// Actor fields are nil for anonymous failures (e.g. unknown email).
// Secrets and code values are never recorded, only outcomes.
type AuditEntry struct {
	ID         string
	ActorID    *string
	ActorEmail *string
	Action     string
	Success    bool
	IP         string
	UserAgent  string
	Metadata   map[string]any
	CreatedAt  time.Time
}
