package admin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vantasec/adminauth/pkg/adminsdk"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := adminsdk.NewClient(baseURL)

	t.Run("livez reports ok", func(t *testing.T) {
		health, err := client.Livez(t.Context())
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
		require.NotEmpty(t, health.Version)
	})

	t.Run("readyz reports database ok", func(t *testing.T) {
		health, err := client.Readyz(t.Context())
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
	})
}
