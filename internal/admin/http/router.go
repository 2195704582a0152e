package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vantasec/adminauth/internal/admin/service"
	"github.com/vantasec/adminauth/internal/admin/store"
	"github.com/vantasec/adminauth/pkg/httpx"
	"github.com/vantasec/adminauth/pkg/slogx"

	_ "github.com/vantasec/adminauth/api/admin" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService      *service.AuthService
	AccountService   *service.AccountService
	BootstrapService *service.BootstrapService
	AuditService     *service.AuditService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	allowlist httpx.IPAllowlistConfig,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// The allowlist runs outermost: callers off the list never reach a
	// handler, not even the health checks.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.IPAllowlist(allowlist),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccounts()
	r.registerSystem()

	// CORS preflights carry no credentials; answer them before any auth
	// check instead of letting the method-scoped patterns 405 them.
	r.Mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Admin Authentication Service API
//	@version		0.1.0
//	@description	Authentication and session security for the admin panel: password plus
//	@description	mandatory TOTP login, opaque bearer sessions, IP allowlisting, per-IP rate
//	@description	limiting, account lockout, and an append-only audit trail.
//
//	@contact.name				VantaSec Platform Team
//	@contact.url				https://github.com/vantasec/adminauth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit (authentication attempts). The
	// service keeps its own fixed-window counter on top; this bucket just
	// shields the handler itself.
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /2fa/verify - strict rate limit (six digit codes brute-force
	// cheaply; the route bucket is the only brake since codes never lock
	// the account).
	twoFAHandler := &TwoFAHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/2fa/verify",
		httpx.Chain(twoFAHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	sessionHandler := &SessionHandler{AuthService: r.AuthService}

	// GET /me - authenticated, lenient limit
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(sessionHandler.HandleMe),
			requireAuth(r.AuthService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /logout - no auth middleware; revocation works on any token
	// state and stays idempotent
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(http.HandlerFunc(sessionHandler.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		requireAuth(r.AuthService),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		requireAuth(r.AuthService),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDelete),
		requireAuth(r.AuthService),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/accounts", securedCreate)
	r.Mux.Handle("GET /v1/accounts", securedList)
	r.Mux.Handle("DELETE /v1/accounts/{id}", securedDelete)
}

func (r *Router) registerSystem() {
	// POST /bootstrap - strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /audit - authenticated, super admin only (checked in handler)
	auditHandler := &AuditHandler{AuditService: r.AuditService}
	r.Mux.Handle("GET /v1/audit",
		httpx.Chain(auditHandler,
			requireAuth(r.AuthService),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Health check endpoints - lenient rate limits (monitoring systems
	// may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
