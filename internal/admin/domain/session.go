package domain

import "time"

// SessionStatus is the lifecycle state of an admin session.
type SessionStatus string

const (
	// SessionPending2FA grants access to nothing but the 2FA-verification
	// endpoint.
	SessionPending2FA SessionStatus = "pending_2fa"
	// SessionActive grants access to protected resources until expiry or
	// revocation.
	SessionActive SessionStatus = "active"
	// SessionRevoked is terminal.
	SessionRevoked SessionStatus = "revoked"
)

// Session is a server-side admin session. The bearer token itself is
// returned to the caller exactly once; only its SHA-256 fingerprint is
// stored, keyed for lookup.
type Session struct {
	ID        string
	TokenHash string
	AccountID string
	Status    SessionStatus

	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastUsedAt time.Time

	// Recorded at creation for the audit trail.
	IP        string
	UserAgent string
}

// Expired reports whether the session's TTL has elapsed at the given
// instant. Expiry is enforced on every validation and the session is
// eagerly revoked when detected.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
