package admin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vantasec/adminauth/pkg/adminsdk"
)

func TestAccountManagement(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := adminsdk.NewClient(baseURL)
	ctx := t.Context()

	founder := bootstrapFounder(t, client)
	session, _ := loginAndVerify(t, client, founderEmail, founderPassword, "")

	const (
		sdEmail    = "helpdesk@example.com"
		sdPassword = "a long helpdesk password"
	)

	t.Run("super admin creates an sd account", func(t *testing.T) {
		acct, err := session.CreateAccount(ctx, adminsdk.CreateAccountRequest{
			Email:       sdEmail,
			DisplayName: "Helpdesk",
			Role:        "sd",
			Password:    sdPassword,
		})
		require.NoError(t, err)
		require.Equal(t, "sd", acct.Role)
		require.False(t, acct.TOTPEnabled, "new accounts enrol on first login")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := session.CreateAccount(ctx, adminsdk.CreateAccountRequest{
			Email:       sdEmail,
			DisplayName: "Helpdesk Two",
			Role:        "sd",
			Password:    sdPassword,
		})
		requireAPIError(t, err, adminsdk.ErrorCodeEmailTaken)
	})

	t.Run("sd role cannot manage accounts", func(t *testing.T) {
		sdSession, _ := loginAndVerify(t, client, sdEmail, sdPassword, "")

		_, err := sdSession.ListAccounts(ctx)
		requireAPIError(t, err, adminsdk.ErrorCodeForbidden)

		_, err = sdSession.CreateAccount(ctx, adminsdk.CreateAccountRequest{
			Email:       "sneaky@example.com",
			DisplayName: "Sneaky",
			Role:        "sd",
			Password:    sdPassword,
		})
		requireAPIError(t, err, adminsdk.ErrorCodeForbidden)
	})

	t.Run("self-deletion is rejected", func(t *testing.T) {
		err := session.DeleteAccount(ctx, founder.ID)
		requireAPIError(t, err, adminsdk.ErrorCodeSelfDelete)
	})

	t.Run("deleting an account revokes its sessions", func(t *testing.T) {
		accounts, err := session.ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)

		var sdID string
		for _, a := range accounts {
			if a.Email == sdEmail {
				sdID = a.ID
			}
		}
		require.NotEmpty(t, sdID)

		sdSession, _ := loginAndVerify(t, client, sdEmail, sdPassword, "")

		require.NoError(t, session.DeleteAccount(ctx, sdID))

		_, err = sdSession.Me(ctx)
		requireAPIError(t, err, adminsdk.ErrorCodeInvalidToken)
	})
}

func TestAuditTrail(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := adminsdk.NewClient(baseURL)
	ctx := t.Context()

	bootstrapFounder(t, client)

	// A failed login before the successful one, so both outcomes land in
	// the trail.
	_, _, err := client.Login(ctx, founderEmail, "wrong password!")
	requireAPIError(t, err, adminsdk.ErrorCodeInvalidCredentials)

	session, _ := loginAndVerify(t, client, founderEmail, founderPassword, "")

	entries, err := session.AuditLog(ctx, 50)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	actions := make(map[string]bool, len(entries))
	for _, e := range entries {
		actions[e.Action] = true
	}
	require.True(t, actions["bootstrap"], "bootstrap should be audited")
	require.True(t, actions["login_failed"], "failed login should be audited")
	require.True(t, actions["2fa_verified"], "2FA success should be audited")
}
