package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vantasec/adminauth/pkg/httpx"
)

func allowlisted(cfg httpx.IPAllowlistConfig) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httpx.Chain(ok, httpx.IPAllowlist(cfg))
}

func TestIPAllowlist(t *testing.T) {
	t.Run("empty allowlist admits everyone", func(t *testing.T) {
		h := allowlisted(httpx.IPAllowlistConfig{})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.99:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admits on peer address match", func(t *testing.T) {
		h := allowlisted(httpx.IPAllowlistConfig{Allowed: []string{"203.0.113.5"}})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.5:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admits when any forwarded header matches", func(t *testing.T) {
		h := allowlisted(httpx.IPAllowlistConfig{Allowed: []string{"198.51.100.3"}})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		req.Header.Set("CF-Connecting-IP", "198.51.100.3")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects JSON clients with error body", func(t *testing.T) {
		h := allowlisted(httpx.IPAllowlistConfig{Allowed: []string{"198.51.100.3"}})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		require.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())
		require.NotContains(t, rec.Body.String(), "198.51.100.3",
			"allowlist contents must never leak")
	})

	t.Run("rejects browsers with HTML page", func(t *testing.T) {
		h := allowlisted(httpx.IPAllowlistConfig{Allowed: []string{"198.51.100.3"}})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:1000"
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		require.Contains(t, rec.Body.String(), "Access denied")
		require.NotContains(t, rec.Body.String(), "detected:",
			"debug echo must be off by default")
	})

	t.Run("debug echo lists detected addresses when enabled", func(t *testing.T) {
		h := allowlisted(httpx.IPAllowlistConfig{
			Allowed:   []string{"198.51.100.3"},
			DebugEcho: true,
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:1000"
		req.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "203.0.113.9")
	})
}
