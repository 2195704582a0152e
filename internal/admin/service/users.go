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

const minPasswordLength = 12

var (
	ErrEmailTaken       = errors.New("email already in use")
	ErrInvalidRole      = errors.New("invalid role")
	ErrWeakPassword     = errors.New("password too short")
	ErrSelfDelete       = errors.New("cannot delete own account")
	ErrAccountNotFound  = errors.New("account not found")
	ErrForbidden        = errors.New("insufficient role")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrMissingDisplayed = errors.New("display name required")
)

// AccountService manages admin accounts. Role checks live here rather than
// in the HTTP layer so every caller gets them.
type AccountService struct {
	Store store.Store
	Audit *AuditService
}

type CreateAccountInput struct {
	Email       string
	DisplayName string
	Role        string
	Password    string
}

// CreateAccount provisions a new admin. Only super admins may call it.
// The new account starts without 2FA; enrolment happens on first login.
func (s *AccountService) CreateAccount(ctx context.Context, actor domain.Account, in CreateAccountInput, meta RequestMeta) (domain.Account, error) {
	if !actor.Role.CanManageAccounts() {
		return domain.Account{}, ErrForbidden
	}

	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Account{}, ErrInvalidEmail
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return domain.Account{}, ErrMissingDisplayed
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return domain.Account{}, ErrInvalidRole
	}
	if len(in.Password) < minPasswordLength {
		return domain.Account{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	acct := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Role:         role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Accounts().Create(ctx, acct); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID:    &actor.ID,
		ActorEmail: &actor.Email,
		Action:     domain.AuditAccountCreated,
		Success:    true,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Metadata:   map[string]any{"account_id": acct.ID, "email": acct.Email, "role": string(role)},
	})

	slogx.FromContext(ctx).Info("admin account created",
		slog.String("account_id", acct.ID),
		slog.String("role", string(role)),
	)
	return acct, nil
}

// DeleteAccount removes an admin and, via cascade, all of its sessions.
// Actors cannot delete themselves; the last super admin locking everyone
// out by accident is a support call nobody wants.
func (s *AccountService) DeleteAccount(ctx context.Context, actor domain.Account, id string, meta RequestMeta) error {
	if !actor.Role.CanManageAccounts() {
		return ErrForbidden
	}
	if actor.ID == id {
		return ErrSelfDelete
	}

	target, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	if err := s.Store.Accounts().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID:    &actor.ID,
		ActorEmail: &actor.Email,
		Action:     domain.AuditAccountDeleted,
		Success:    true,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Metadata:   map[string]any{"account_id": target.ID, "email": target.Email},
	})
	return nil
}

// ListAccounts returns every admin account, newest first.
func (s *AccountService) ListAccounts(ctx context.Context, actor domain.Account) ([]domain.Account, error) {
	if !actor.Role.CanManageAccounts() {
		return nil, ErrForbidden
	}
	return s.Store.Accounts().List(ctx)
}

// GetAccount fetches one account by id.
func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	acct, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return acct, nil
}
