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

var ErrBootstrapAlready = errors.New("system already bootstrapped")

// BootstrapService creates the first super admin. It only works while the
// accounts table is empty; once anyone exists the endpoint goes dead.
type BootstrapService struct {
	Store store.Store
	Audit *AuditService
}

type BootstrapInput struct {
	Email       string
	DisplayName string
	Password    string
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the founding super admin account. The emptiness check
// and insert run in one transaction so two racing bootstraps cannot both
// succeed.
func (s *BootstrapService) Bootstrap(ctx context.Context, in BootstrapInput, meta RequestMeta) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Account{}, ErrInvalidEmail
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return domain.Account{}, ErrMissingDisplayed
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
		Role:         domain.RoleSuperAdmin,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Accounts().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return tx.Accounts().Create(ctx, acct)
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
			return domain.Account{}, ErrBootstrapAlready
		}
		return domain.Account{}, fmt.Errorf("failed to bootstrap: %w", err)
	}

	s.Audit.Record(ctx, domain.AuditEntry{
		ActorID:    &acct.ID,
		ActorEmail: &acct.Email,
		Action:     domain.AuditBootstrap,
		Success:    true,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	})

	l.Info("system bootstrapped", slog.String("account_id", acct.ID))
	return acct, nil
}
