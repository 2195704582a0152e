package domain

import "time"

// Account is an administrator account. Email is stored trimmed and
// lowercased; lookups normalize the same way.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	Role         Role
	PasswordHash string // argon2id PHC encoded

	// TOTP state. The secret is provisioned on first successful login;
	// TOTPEnabled only flips after the first successful code check.
	TOTPSecret  *string
	TOTPEnabled bool

	// Failure state. LockedUntil is set once FailedLoginCount reaches the
	// configured threshold and cleared on any successful password check.
	FailedLoginCount int
	LockedUntil      *time.Time

	Active      bool
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// Locked reports whether the account is under a login lock at the given
// instant.
func (a Account) Locked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}
