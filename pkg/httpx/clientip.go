package httpx

import (
	"net"
	"net/http"
	"strings"
)

// forwardedHeaders lists the proxy headers consulted for the client
// address, in precedence order. Each may carry a comma-separated list.
var forwardedHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",
	"CF-Connecting-IP",
	"True-Client-IP",
	"Fly-Client-IP",
}

// ClientIP returns the best-effort source address for a request: the first
// entry of the first non-empty forwarded header, falling back to the
// transport peer address. Used as the rate-limiting key.
func ClientIP(r *http.Request) string {
	for _, h := range forwardedHeaders {
		if v := r.Header.Get(h); v != "" {
			if ips := splitIPList(v); len(ips) > 0 {
				return ips[0]
			}
		}
	}
	return peerIP(r)
}

// CandidateIPs returns the union of every address found across all
// forwarded headers plus the transport peer address, deduplicated in
// encounter order. The allowlist filter matches against this union: any
// hit admits the request. That trusts client-supplied headers and is only
// safe behind a reverse proxy that strips or overwrites them.
func CandidateIPs(r *http.Request) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)

	add := func(ip string) {
		if ip == "" {
			return
		}
		if _, ok := seen[ip]; ok {
			return
		}
		seen[ip] = struct{}{}
		out = append(out, ip)
	}

	for _, h := range forwardedHeaders {
		for _, ip := range splitIPList(r.Header.Get(h)) {
			add(ip)
		}
	}
	add(peerIP(r))

	return out
}

func splitIPList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if ip := normalizeIP(p); ip != "" {
			out = append(out, ip)
		}
	}
	return out
}

// normalizeIP trims whitespace and strips the IPv4-mapped-IPv6 prefix so
// "::ffff:203.0.113.9" and "203.0.113.9" compare equal.
func normalizeIP(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "::ffff:")
	return s
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalizeIP(r.RemoteAddr)
	}
	return normalizeIP(host)
}
