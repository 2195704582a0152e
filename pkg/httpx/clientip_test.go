package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vantasec/adminauth/pkg/httpx"
)

func TestClientIP(t *testing.T) {
	t.Run("falls back to RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		require.Equal(t, "192.168.1.1", httpx.ClientIP(req))
	})

	t.Run("prefers X-Forwarded-For first entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		req.Header.Set("X-Real-IP", "203.0.113.9")

		require.Equal(t, "203.0.113.1", httpx.ClientIP(req))
	})

	t.Run("uses X-Real-IP when X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")

		require.Equal(t, "203.0.113.2", httpx.ClientIP(req))
	})

	t.Run("consults CDN headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:80"
		req.Header.Set("CF-Connecting-IP", "198.51.100.7")

		require.Equal(t, "198.51.100.7", httpx.ClientIP(req))
	})

	t.Run("strips IPv4-mapped-IPv6 prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "::ffff:203.0.113.5")

		require.Equal(t, "203.0.113.5", httpx.ClientIP(req))
	})
}

func TestCandidateIPs(t *testing.T) {
	t.Run("unions all headers and peer address", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 203.0.113.2")
		req.Header.Set("True-Client-IP", "198.51.100.3")

		ips := httpx.CandidateIPs(req)
		require.Equal(t, []string{"203.0.113.1", "203.0.113.2", "198.51.100.3", "10.0.0.1"}, ips)
	})

	t.Run("deduplicates repeated addresses", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.1:443"
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		req.Header.Set("X-Real-IP", "::ffff:203.0.113.1")

		require.Equal(t, []string{"203.0.113.1"}, httpx.CandidateIPs(req))
	})
}
