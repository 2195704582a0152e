package httpx

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/vantasec/adminauth/pkg/slogx"
)

// IPAllowlistConfig configures the source-IP gate applied before any other
// request processing.
type IPAllowlistConfig struct {
	// Allowed is the set of permitted source addresses. Empty disables
	// the filter entirely.
	Allowed []string
	// DebugEcho, when true, includes the detected candidate IPs in the
	// HTML rejection page. Must never be enabled in production builds.
	DebugEcho bool
}

var deniedPage = template.Must(template.New("denied").Parse(`<!doctype html>
<html>
<head><title>Access denied</title></head>
<body>
<h1>Access denied</h1>
<p>Your network location is not permitted to access this service.</p>
{{if .Detected}}<pre>detected: {{range .Detected}}{{.}} {{end}}</pre>{{end}}
</body>
</html>
`))

// IPAllowlist admits a request when the allowlist is empty or when any
// candidate source address matches an allowlist entry. The union across
// all forwarded headers is deliberate (availability over strict header
// trust); the deployment must sit behind a proxy that controls those
// headers. The allowlist contents are never revealed to the caller.
func IPAllowlist(cfg IPAllowlistConfig) Middleware {
	allowed := make(map[string]struct{}, len(cfg.Allowed))
	for _, ip := range cfg.Allowed {
		if ip = normalizeIP(ip); ip != "" {
			allowed[ip] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			candidates := CandidateIPs(r)
			for _, ip := range candidates {
				if _, ok := allowed[ip]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			log := slogx.FromContext(r.Context())
			log.Warn("request rejected by ip allowlist", "candidates", candidates)

			if wantsHTML(r) {
				writeDeniedPage(w, cfg.DebugEcho, candidates)
				return
			}
			WriteError(w, http.StatusForbidden, "forbidden")
		})
	}
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func writeDeniedPage(w http.ResponseWriter, debugEcho bool, candidates []string) {
	var data struct{ Detected []string }
	if debugEcho {
		data.Detected = candidates
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = deniedPage.Execute(w, data)
}
