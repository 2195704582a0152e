package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vantasec/adminauth/internal/admin/domain"
	"github.com/vantasec/adminauth/internal/admin/store"
	"github.com/vantasec/adminauth/pkg/cryptox"
	"github.com/vantasec/adminauth/pkg/idx"
	"github.com/vantasec/adminauth/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrAccountLocked      = errors.New("account locked")
	ErrRateLimited        = errors.New("too many attempts")
	ErrInvalidTOTPCode    = errors.New("invalid TOTP code")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
	Err2FARequired        = errors.New("2FA verification required")
)

// AuthService drives the login state machine: credentials take a caller to
// a pending session, a TOTP code promotes it to active, and every protected
// request re-checks the session and its account.
type AuthService struct {
	Store      store.Store
	Limiter    *LoginLimiter
	Audit      *AuditService
	SessionTTL time.Duration

	// Account lockout policy.
	MaxLoginAttempts int
	LockDuration     time.Duration

	TOTPIssuer string

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RequestMeta carries the caller attribution recorded on sessions and
// audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// TOTPSetup is returned on first login, before the account has confirmed
// an authenticator. The secret is only ever surfaced here.
type TOTPSetup struct {
	Secret string
	URL    string
}

// LoginResult is the outcome of a successful password check. The session
// is pending until VerifyTOTP promotes it.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   domain.Account
	Setup     *TOTPSetup // non-nil when the account still has to enrol 2FA
}

// NormalizeEmail trims whitespace and lowercases, so lookups and
// uniqueness agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and opens a pending session. Every failure path
// maps to ErrInvalidCredentials unless the caller already proved who they
// are (disabled and locked accounts answer honestly, the account name gave
// nothing away).
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)
	now := s.now()

	// Every attempt counts against the IP window, before any lookup.
	if limited, _ := s.Limiter.RecordAttempt(meta.IP); limited {
		s.Audit.Record(ctx, domain.AuditEntry{
			ActorEmail: &email,
			Action:     domain.AuditLoginRateLimited,
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
		return LoginResult{}, ErrRateLimited
	}

	acct, err := s.Store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash anyway so unknown emails cost as much as wrong
			// passwords.
			_ = cryptox.VerifyPassword(password, dummyHash)
			s.Audit.Record(ctx, domain.AuditEntry{
				ActorEmail: &email,
				Action:     domain.AuditLoginFailed,
				IP:         meta.IP,
				UserAgent:  meta.UserAgent,
				Metadata:   map[string]any{"reason": "unknown_email"},
			})
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("failed to look up account: %w", err)
	}

	// Disabled wins over everything else, including a wrong password.
	if !acct.Active {
		s.Audit.Record(ctx, domain.AuditEntry{
			ActorID:    &acct.ID,
			ActorEmail: &acct.Email,
			Action:     domain.AuditLoginBlocked,
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
		return LoginResult{}, ErrAccountDisabled
	}

	if acct.Locked(now) {
		s.Audit.Record(ctx, domain.AuditEntry{
			ActorID:    &acct.ID,
			ActorEmail: &acct.Email,
			Action:     domain.AuditLoginLocked,
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
			Metadata:   map[string]any{"locked_until": acct.LockedUntil},
		})
		return LoginResult{}, ErrAccountLocked
	}

	if err := cryptox.VerifyPassword(password, acct.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, fmt.Errorf("failed to verify password: %w", err)
		}
		count, locked, err := s.Store.Accounts().RecordLoginFailure(
			ctx, acct.ID, s.MaxLoginAttempts, now.Add(s.LockDuration))
		if err != nil {
			l.Error("failed to record login failure", slog.Any("error", err))
		}
		s.Audit.Record(ctx, domain.AuditEntry{
			ActorID:    &acct.ID,
			ActorEmail: &acct.Email,
			Action:     domain.AuditLoginFailed,
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
			Metadata:   map[string]any{"failed_count": count, "locked": locked},
		})
		return LoginResult{}, ErrInvalidCredentials
	}

	// Password accepted. Clear the failure state right away; a proven
	// credential check must not leave the account one slip from a lock.
	if acct.FailedLoginCount > 0 || acct.LockedUntil != nil {
		if err := s.Store.Accounts().ClearLoginFailures(ctx, acct.ID); err != nil {
			l.Error("failed to clear login failures", slog.Any("error", err))
		}
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	sess := domain.Session{
		ID:         idx.New().String(),
		TokenHash:  cryptox.FingerprintToken(token),
		AccountID:  acct.ID,
		Status:     domain.SessionPending2FA,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.SessionTTL),
		LastUsedAt: now,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	}

	result := LoginResult{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		Account:   acct,
	}

	if !acct.TOTPEnabled {
		// First login: provision a fresh secret for the enrolment screen.
		// Re-provisioning on every pre-enrolment login is deliberate, a
		// half-finished setup should never strand the account.
		secret, url, err := generateTOTPKey(s.TOTPIssuer, acct.Email)
		if err != nil {
			return LoginResult{}, fmt.Errorf("failed to generate TOTP key: %w", err)
		}
		if err := s.Store.Accounts().SetTOTPSecret(ctx, acct.ID, secret); err != nil {
			return LoginResult{}, fmt.Errorf("failed to store TOTP secret: %w", err)
		}
		result.Setup = &TOTPSetup{Secret: secret, URL: url}
	}

	if err := s.Store.Sessions().Create(ctx, sess); err != nil {
		return LoginResult{}, fmt.Errorf("failed to create session: %w", err)
	}

	action := domain.AuditLogin2FARequired
	if result.Setup != nil {
		action = domain.AuditLogin2FASetup
	}
	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID:    &acct.ID,
		ActorEmail: &acct.Email,
		Action:     action,
		Success:    true,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	})

	l.Info("password accepted, awaiting 2FA",
		slog.String("account_id", acct.ID),
		slog.Bool("enrolment", result.Setup != nil),
	)
	return result, nil
}

// VerifyTOTP promotes a pending session to active when the code checks
// out. On first verification it also flips the account's 2FA flag.
func (s *AuthService) VerifyTOTP(ctx context.Context, token, code string, meta RequestMeta) (domain.Account, domain.Session, error) {
	now := s.now()

	sess, err := s.lookupSession(ctx, token, meta)
	if err != nil {
		return domain.Account{}, domain.Session{}, err
	}
	if sess.Status != domain.SessionPending2FA {
		return domain.Account{}, domain.Session{}, ErrInvalidSession
	}

	acct, err := s.Store.Accounts().GetByID(ctx, sess.AccountID)
	if err != nil {
		return domain.Account{}, domain.Session{}, fmt.Errorf("failed to load account: %w", err)
	}
	if !acct.Active {
		return domain.Account{}, domain.Session{}, ErrAccountDisabled
	}
	if acct.TOTPSecret == nil || *acct.TOTPSecret == "" {
		return domain.Account{}, domain.Session{}, ErrInvalidSession
	}

	if !validateTOTPCode(code, *acct.TOTPSecret, now) {
		s.Audit.Record(ctx, domain.AuditEntry{
			ActorID:    &acct.ID,
			ActorEmail: &acct.Email,
			Action:     domain.AuditTOTPFailed,
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
		return domain.Account{}, domain.Session{}, ErrInvalidTOTPCode
	}

	enrolled := !acct.TOTPEnabled
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().UpdateStatus(ctx, sess.ID, domain.SessionActive); err != nil {
			return fmt.Errorf("failed to activate session: %w", err)
		}
		if enrolled {
			if err := tx.Accounts().EnableTOTP(ctx, acct.ID, now); err != nil {
				return fmt.Errorf("failed to enable TOTP: %w", err)
			}
			return nil
		}
		if err := tx.Accounts().ClearLoginFailures(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to clear login failures: %w", err)
		}
		return tx.Accounts().TouchLastLogin(ctx, acct.ID, now)
	})
	if err != nil {
		return domain.Account{}, domain.Session{}, err
	}

	sess.Status = domain.SessionActive
	acct.TOTPEnabled = true
	acct.FailedLoginCount = 0
	acct.LockedUntil = nil
	acct.LastLoginAt = &now

	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID:    &acct.ID,
		ActorEmail: &acct.Email,
		Action:     domain.AuditTOTPVerified,
		Success:    true,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Metadata:   map[string]any{"enrolment": enrolled},
	})

	slogx.FromContext(ctx).Info("2FA verified, session active",
		slog.String("account_id", acct.ID),
		slog.String("session_id", sess.ID),
	)
	return acct, sess, nil
}

// Authenticate resolves a bearer token to an active session and its
// account. It is the check behind every protected route.
func (s *AuthService) Authenticate(ctx context.Context, token string, meta RequestMeta) (domain.Account, domain.Session, error) {
	sess, err := s.lookupSession(ctx, token, meta)
	if err != nil {
		return domain.Account{}, domain.Session{}, err
	}

	switch sess.Status {
	case domain.SessionActive:
	case domain.SessionPending2FA:
		return domain.Account{}, domain.Session{}, Err2FARequired
	default:
		return domain.Account{}, domain.Session{}, ErrInvalidSession
	}

	acct, err := s.Store.Accounts().GetByID(ctx, sess.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, domain.Session{}, ErrInvalidSession
		}
		return domain.Account{}, domain.Session{}, fmt.Errorf("failed to load account: %w", err)
	}
	if !acct.Active {
		return domain.Account{}, domain.Session{}, ErrAccountDisabled
	}

	// Best effort; a failed touch must not fail the request.
	if err := s.Store.Sessions().TouchLastUsed(ctx, sess.ID, s.now()); err != nil {
		slogx.FromContext(ctx).Warn("failed to touch session",
			slog.String("session_id", sess.ID),
			slog.Any("error", err),
		)
	}

	return acct, sess, nil
}

// Logout revokes the caller's session. Unknown or already-revoked tokens
// succeed quietly; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string, meta RequestMeta) error {
	hash := cryptox.FingerprintToken(token)
	sess, err := s.Store.Sessions().GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if sess.Status == domain.SessionRevoked {
		return nil
	}

	if err := s.Store.Sessions().UpdateStatus(ctx, sess.ID, domain.SessionRevoked); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID:   &sess.AccountID,
		Action:    domain.AuditLogout,
		Success:   true,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
	return nil
}

// lookupSession resolves a token to its session, eagerly revoking it when
// the expiry has passed so a later database browse shows the true state.
func (s *AuthService) lookupSession(ctx context.Context, token string, meta RequestMeta) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrInvalidSession
	}

	hash := cryptox.FingerprintToken(token)
	sess, err := s.Store.Sessions().GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidSession
		}
		return domain.Session{}, fmt.Errorf("failed to look up session: %w", err)
	}

	if sess.Status != domain.SessionRevoked && sess.Expired(s.now()) {
		if err := s.Store.Sessions().UpdateStatus(ctx, sess.ID, domain.SessionRevoked); err != nil {
			slogx.FromContext(ctx).Warn("failed to revoke expired session",
				slog.String("session_id", sess.ID),
				slog.Any("error", err),
			)
		}
		s.Audit.Record(ctx, domain.AuditEntry{
			ActorID:   &sess.AccountID,
			Action:    domain.AuditSessionExpired,
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
		})
		return domain.Session{}, ErrSessionExpired
	}

	return sess, nil
}

// dummyHash is a valid argon2id hash of an unguessable throwaway value,
// used to equalize timing when the email does not exist.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$tZ6BubFVTVBhdhxIUU2sxF4zL1b8tOdK0V8dV7GArWM"
