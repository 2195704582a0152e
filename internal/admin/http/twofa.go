package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vantasec/adminauth/internal/admin/service"
	"github.com/vantasec/adminauth/pkg/adminsdk"
	"github.com/vantasec/adminauth/pkg/httpx"
	"github.com/vantasec/adminauth/pkg/slogx"
)

// TwoFAHandler promotes pending sessions with a verified TOTP code.
type TwoFAHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /v1/2fa/verify
//
//	@Summary		Verify a TOTP code
//	@Description	Promotes the pending session behind the bearer token to active. On first
//	@Description	verification this also completes authenticator enrolment for the account.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.TOTPVerifyRequest	true	"six-digit code"
//	@Success		200		{object}	adminsdk.TOTPVerifyResponse	"session active"
//	@Failure		400		{object}	adminsdk.ErrorResponse		"malformed request"
//	@Failure		401		{object}	adminsdk.ErrorResponse		"invalid token or code"
//	@Failure		403		{object}	adminsdk.ErrorResponse		"account disabled"
//	@Router			/v1/2fa/verify [post].
func (h *TwoFAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Both the bearer token and the code are inputs here; missing either
	// is a malformed request, not an authentication failure.
	token := bearerToken(r)
	if token == "" {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	var req adminsdk.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Code == "" {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	acct, sess, err := h.AuthService.VerifyTOTP(ctx, token, req.Code, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTOTPCode):
			adminsdk.ErrInvalidCode.WriteError(w)
		case errors.Is(err, service.ErrSessionExpired):
			adminsdk.ErrSessionExpired.WriteError(w)
		case errors.Is(err, service.ErrAccountDisabled):
			adminsdk.ErrAccountDisabled.WriteError(w)
		case errors.Is(err, service.ErrInvalidSession):
			adminsdk.ErrInvalidToken.WriteError(w)
		default:
			log.Error("2FA verification failed", "err", err)
			adminsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.TOTPVerifyResponse{
		Token:     token,
		Account:   toSummary(acct),
		ExpiresAt: sess.ExpiresAt,
	})
}
