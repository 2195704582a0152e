package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/vantasec/adminauth/internal/admin/service"
	"github.com/vantasec/adminauth/internal/admin/store"
	"github.com/vantasec/adminauth/internal/admin/store/drivers/sqlite"
	"github.com/vantasec/adminauth/pkg/adminsdk"
	"github.com/vantasec/adminauth/pkg/cryptox"
	"github.com/vantasec/adminauth/pkg/httpx"
	"github.com/vantasec/adminauth/pkg/slogx"
)

func TestMain(m *testing.M) {
	cryptox.SetPepperPath(filepath.Join(os.TempDir(), "adminauth-http-test-pepper"))
	os.Exit(m.Run())
}

const testPassword = "correct horse battery staple"

func newTestRouter(t *testing.T) (*Router, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	audit := &service.AuditService{Store: st}
	auth := &service.AuthService{
		Store:            st,
		Limiter:          service.NewLoginLimiter(1000, time.Minute, nil),
		Audit:            audit,
		SessionTTL:       time.Hour,
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		TOTPIssuer:       "Router Test",
	}

	logger := slogx.New(slogx.Config{Service: "admin-auth-test", Level: "error", Format: "text"})
	r := NewRouter("test", st, logger, httpx.IPAllowlistConfig{})
	r.AuthService = auth
	r.AccountService = &service.AccountService{Store: st, Audit: audit}
	r.BootstrapService = &service.BootstrapService{Store: st, Audit: audit}
	r.AuditService = audit
	r.ApplyRoutes()

	return r, st
}

func doJSON(t *testing.T, r *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:54321"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[adminsdk.ErrorResponse](t, w).Error
}

func TestRouterFullFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	// Bootstrap the founder.
	w := doJSON(t, r, http.MethodPost, "/v1/bootstrap", "", adminsdk.BootstrapRequest{
		Email:       "founder@example.com",
		DisplayName: "Founder",
		Password:    testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	founder := decodeBody[adminsdk.AccountSummary](t, w)
	require.Equal(t, "super_admin", founder.Role)

	// Second bootstrap conflicts.
	w = doJSON(t, r, http.MethodPost, "/v1/bootstrap", "", adminsdk.BootstrapRequest{
		Email:       "other@example.com",
		DisplayName: "Other",
		Password:    testPassword,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Login opens a pending session with enrolment material.
	w = doJSON(t, r, http.MethodPost, "/v1/login", "", adminsdk.LoginRequest{
		Email:    "founder@example.com",
		Password: testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	login := decodeBody[adminsdk.LoginResponse](t, w)
	require.NotEmpty(t, login.Token)
	require.NotNil(t, login.TOTPSetup)

	// A pending token cannot reach /me, and the rejection is the same
	// generic one an unknown token gets.
	w = doJSON(t, r, http.MethodGet, "/v1/me", login.Token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, adminsdk.ErrorCodeInvalidToken, errorCode(t, w))

	// Verify with a real code. The response echoes the elevated token.
	code, err := totp.GenerateCode(login.TOTPSetup.Secret, time.Now())
	require.NoError(t, err)
	w = doJSON(t, r, http.MethodPost, "/v1/2fa/verify", login.Token, adminsdk.TOTPVerifyRequest{Code: code})
	require.Equal(t, http.StatusOK, w.Code)
	verified := decodeBody[adminsdk.TOTPVerifyResponse](t, w)
	require.Equal(t, login.Token, verified.Token)

	// Now /me works.
	w = doJSON(t, r, http.MethodGet, "/v1/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody[adminsdk.AccountSummary](t, w)
	require.Equal(t, "founder@example.com", me.Email)
	require.True(t, me.TOTPEnabled)

	// Account management.
	w = doJSON(t, r, http.MethodPost, "/v1/accounts", login.Token, adminsdk.CreateAccountRequest{
		Email:       "helpdesk@example.com",
		DisplayName: "Helpdesk",
		Role:        "sd",
		Password:    testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[adminsdk.AccountSummary](t, w)

	w = doJSON(t, r, http.MethodGet, "/v1/accounts", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[adminsdk.AccountListResponse](t, w)
	require.Len(t, list.Accounts, 2)

	// Self-deletion is a 400, not a 403.
	w = doJSON(t, r, http.MethodDelete, "/v1/accounts/"+founder.ID, login.Token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, adminsdk.ErrorCodeSelfDelete, errorCode(t, w))

	w = doJSON(t, r, http.MethodDelete, "/v1/accounts/"+created.ID, login.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Audit trail is reachable for super admins.
	w = doJSON(t, r, http.MethodGet, "/v1/audit", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	auditList := decodeBody[adminsdk.AuditListResponse](t, w)
	require.NotEmpty(t, auditList.Entries)

	// Logout revokes the token.
	w = doJSON(t, r, http.MethodPost, "/v1/logout", login.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/me", login.Token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, adminsdk.ErrorCodeInvalidToken, errorCode(t, w))
}

func TestRouterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("malformed login body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/login", bytes.NewBufferString("{not json"))
		req.RemoteAddr = "127.0.0.1:54321"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login with empty fields", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/login", "", adminsdk.LoginRequest{})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing bearer token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/v1/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage bearer token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/v1/me", "not-a-real-token", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, adminsdk.ErrorCodeInvalidToken, errorCode(t, w))
	})

	t.Run("2fa verify without a token is malformed", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/2fa/verify", "", adminsdk.TOTPVerifyRequest{Code: "123456"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, adminsdk.ErrorCodeInvalidRequest, errorCode(t, w))
	})

	t.Run("options preflight bypasses auth", func(t *testing.T) {
		w := doJSON(t, r, http.MethodOptions, "/v1/me", "", nil)
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown login is generic", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/login", "", adminsdk.LoginRequest{
			Email:    "ghost@example.com",
			Password: "whatever-password",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, adminsdk.ErrorCodeInvalidCredentials, errorCode(t, w))
	})

	t.Run("health endpoints are open", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, r, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})
}
