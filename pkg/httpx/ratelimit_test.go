package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vantasec/adminauth/pkg/httpx"
)

func limitedHandler(config httpx.RateLimitConfig) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httpx.Chain(ok, httpx.RateLimitByIP(config))
}

func TestRateLimitByIP(t *testing.T) {
	t.Run("allows requests within burst", func(t *testing.T) {
		h := limitedHandler(httpx.RateLimitConfig{
			RequestsPerWindow: 5,
			Window:            time.Minute,
			Burst:             5,
		})

		for i := range 5 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.1:1000"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
		}
	})

	t.Run("rejects requests over burst with 429", func(t *testing.T) {
		h := limitedHandler(httpx.RateLimitConfig{
			RequestsPerWindow: 2,
			Window:            time.Minute,
			Burst:             2,
		})

		for range 2 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.2:1000"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.2:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("limits are per source address", func(t *testing.T) {
		h := limitedHandler(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		})

		first := httptest.NewRequest(http.MethodGet, "/", nil)
		first.RemoteAddr = "203.0.113.3:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, first)
		require.Equal(t, http.StatusOK, rec.Code)

		blocked := httptest.NewRequest(http.MethodGet, "/", nil)
		blocked.RemoteAddr = "203.0.113.3:1000"
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, blocked)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		other := httptest.NewRequest(http.MethodGet, "/", nil)
		other.RemoteAddr = "203.0.113.4:1000"
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, other)
		require.Equal(t, http.StatusOK, rec.Code, "different IP should not be limited")
	})
}
