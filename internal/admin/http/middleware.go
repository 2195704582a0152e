package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vantasec/adminauth/internal/admin/domain"
	"github.com/vantasec/adminauth/internal/admin/service"
	"github.com/vantasec/adminauth/pkg/adminsdk"
	"github.com/vantasec/adminauth/pkg/httpx"
)

type ctxKey int

const (
	ctxKeyAccount ctxKey = iota
	ctxKeySession
)

// AccountFromContext returns the authenticated account injected by
// requireAuth.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	acct, ok := ctx.Value(ctxKeyAccount).(domain.Account)
	return acct, ok
}

// SessionFromContext returns the session behind the current request.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(ctxKeySession).(domain.Session)
	return sess, ok
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// requestMeta captures the caller attribution passed down to the services.
func requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{
		IP:        httpx.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// requireAuth resolves the bearer token to an active session and injects
// the account and session into the request context. Anything short of an
// active session gets a generic 401.
func requireAuth(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				adminsdk.ErrInvalidToken.WriteError(w)
				return
			}

			acct, sess, err := auth.Authenticate(r.Context(), token, requestMeta(r))
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAccount, acct)
			ctx = context.WithValue(ctx, ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError maps service-level authentication errors onto the wire.
// Pending sessions get the same generic response as unknown tokens; a
// distinct body would confirm to a token thief that 2FA is all that is
// left.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.Err2FARequired):
		adminsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrSessionExpired):
		adminsdk.ErrSessionExpired.WriteError(w)
	case errors.Is(err, service.ErrAccountDisabled):
		adminsdk.ErrAccountDisabled.WriteError(w)
	case errors.Is(err, service.ErrInvalidSession):
		adminsdk.ErrInvalidToken.WriteError(w)
	default:
		adminsdk.ErrServerError.WriteError(w)
	}
}
