package admin_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vantasec/adminauth/pkg/adminsdk"
)

/*
 * Common constants and helper functions for admin auth end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "adminauth-test:latest"

	founderEmail    = "founder@example.com"
	founderName     = "Founding Admin"
	founderPassword = "correct horse battery staple"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building admin auth Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up admin auth Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/adminauth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// setupContainer starts the service with relaxed route-level rate limits
// so rapid test traffic does not trip them. The login fixed-window limiter
// is raised too; dedicated tests use setupContainerWithEnv.
func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	return setupContainerWithEnv(t, map[string]string{
		"IP_MAX_ATTEMPTS":             "1000",
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	})
}

// setupContainerWithEnv starts the service with extra environment
// variables layered over the test defaults.
func setupContainerWithEnv(t *testing.T, extra map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"ADMIN_DATABASE_FILE": "/tmp/admin.db",
		"ADMIN_PEPPER_FILE":   "/tmp/pepper",
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
	}
	for k, v := range extra {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// bootstrapFounder creates the founding super admin.
func bootstrapFounder(t *testing.T, client *adminsdk.Client) adminsdk.AccountSummary {
	t.Helper()

	acct, err := client.Bootstrap(t.Context(), adminsdk.BootstrapRequest{
		Email:       founderEmail,
		DisplayName: founderName,
		Password:    founderPassword,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.NotEmpty(t, acct.ID)
	require.Equal(t, "super_admin", acct.Role)

	return acct
}

// loginAndVerify walks the full login flow for an account, computing the
// TOTP code from the enrolment secret (first login) or a known secret.
// Returns the active session and the TOTP secret for later logins.
func loginAndVerify(t *testing.T, client *adminsdk.Client, email, password, knownSecret string) (*adminsdk.Session, string) {
	t.Helper()
	ctx := t.Context()

	session, resp, err := client.Login(ctx, email, password)
	require.NoError(t, err, "Login should succeed")

	secret := knownSecret
	if resp.TOTPSetup != nil {
		secret = resp.TOTPSetup.Secret
	}
	require.NotEmpty(t, secret, "need a TOTP secret to complete login")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	_, err = session.VerifyTOTP(ctx, code)
	require.NoError(t, err, "TOTP verification should succeed")

	return session, secret
}

// requireAPIError asserts err is an *adminsdk.APIError with the given code.
func requireAPIError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *adminsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
}
