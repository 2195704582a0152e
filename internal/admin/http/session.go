package http

import (
	"net/http"

	"github.com/vantasec/adminauth/internal/admin/service"
	"github.com/vantasec/adminauth/pkg/adminsdk"
	"github.com/vantasec/adminauth/pkg/httpx"
	"github.com/vantasec/adminauth/pkg/slogx"
)

// SessionHandler serves the authenticated self-service endpoints.
type SessionHandler struct {
	AuthService *service.AuthService
}

// HandleMe handles GET /v1/me
//
//	@Summary		Current account
//	@Description	Returns the account behind the active session.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	adminsdk.AccountSummary
//	@Failure		401	{object}	adminsdk.ErrorResponse	"invalid or pending session"
//	@Router			/v1/me [get].
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	acct, ok := AccountFromContext(r.Context())
	if !ok {
		adminsdk.ErrInvalidToken.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSummary(acct))
}

// HandleLogout handles POST /v1/logout
//
//	@Summary		Log out
//	@Description	Revokes the session behind the bearer token. Idempotent; revoking an
//	@Description	already-dead token still returns 204.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"session revoked"
//	@Failure		500	{object}	adminsdk.ErrorResponse
//	@Router			/v1/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := bearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.AuthService.Logout(ctx, token, requestMeta(r)); err != nil {
		slogx.FromContext(ctx).Error("logout failed", "err", err)
		adminsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
