package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vantasec/adminauth/internal/admin/domain"
)

func TestCreateAccountValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AccountService{Store: st, Audit: &AuditService{Store: st}}
	super := domain.Account{ID: "super", Role: domain.RoleSuperAdmin}

	t.Run("sd role may not create accounts", func(t *testing.T) {
		sd := domain.Account{ID: "helpdesk", Role: domain.RoleSD}
		_, err := svc.CreateAccount(ctx, sd, CreateAccountInput{
			Email: "x@example.com", DisplayName: "X", Role: "sd", Password: testPassword,
		}, RequestMeta{})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, super, CreateAccountInput{
			Email: "x@example.com", DisplayName: "X", Role: "root", Password: testPassword,
		}, RequestMeta{})
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, super, CreateAccountInput{
			Email: "x@example.com", DisplayName: "X", Role: "sd", Password: "short",
		}, RequestMeta{})
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, super, CreateAccountInput{
			Email: "not-an-email", DisplayName: "X", Role: "sd", Password: testPassword,
		}, RequestMeta{})
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("normalizes email and detects duplicates", func(t *testing.T) {
		acct, err := svc.CreateAccount(ctx, super, CreateAccountInput{
			Email: " Dup@Example.COM ", DisplayName: "Dup", Role: "sd", Password: testPassword,
		}, RequestMeta{})
		require.NoError(t, err)
		require.Equal(t, "dup@example.com", acct.Email)

		_, err = svc.CreateAccount(ctx, super, CreateAccountInput{
			Email: "dup@example.com", DisplayName: "Dup2", Role: "sd", Password: testPassword,
		}, RequestMeta{})
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AccountService{Store: st, Audit: &AuditService{Store: st}}
	super := domain.Account{ID: "super", Role: domain.RoleSuperAdmin}

	target, err := svc.CreateAccount(ctx, super, CreateAccountInput{
		Email: "target@example.com", DisplayName: "Target", Role: "sd", Password: testPassword,
	}, RequestMeta{})
	require.NoError(t, err)

	t.Run("actor cannot delete itself", func(t *testing.T) {
		self := domain.Account{ID: target.ID, Role: domain.RoleSuperAdmin}
		err := svc.DeleteAccount(ctx, self, target.ID, RequestMeta{})
		require.ErrorIs(t, err, ErrSelfDelete)
	})

	t.Run("sd role may not delete", func(t *testing.T) {
		sd := domain.Account{ID: "helpdesk", Role: domain.RoleSD}
		err := svc.DeleteAccount(ctx, sd, target.ID, RequestMeta{})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delete removes account and its sessions", func(t *testing.T) {
		require.NoError(t, svc.DeleteAccount(ctx, super, target.ID, RequestMeta{}))
		err := svc.DeleteAccount(ctx, super, target.ID, RequestMeta{})
		require.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestDeleteAccountRevokesAccess(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	clock := newFakeClock()
	auth := newTestAuth(t, st, clock)
	svc := &AccountService{Store: st, Audit: auth.Audit}
	super := domain.Account{ID: "super", Role: domain.RoleSuperAdmin}

	acct := createAccount(t, st, "victim@example.com", testPassword, true)

	res, err := auth.Login(ctx, acct.Email, testPassword, RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, super, acct.ID, RequestMeta{}))

	// Sessions cascade with the account; the token is dead immediately.
	_, _, err = auth.Authenticate(ctx, res.Token, RequestMeta{IP: "10.0.0.1"})
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Audit: &AuditService{Store: st}}

	ok, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	acct, err := svc.Bootstrap(ctx, BootstrapInput{
		Email:       "founder@example.com",
		DisplayName: "Founder",
		Password:    testPassword,
	}, RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperAdmin, acct.Role)

	ok, err = svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// Once anyone exists the endpoint goes dead.
	_, err = svc.Bootstrap(ctx, BootstrapInput{
		Email:       "second@example.com",
		DisplayName: "Second",
		Password:    testPassword,
	}, RequestMeta{IP: "10.0.0.1"})
	require.ErrorIs(t, err, ErrBootstrapAlready)
}
