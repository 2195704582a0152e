package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vantasec/adminauth/internal/admin/domain"
	"github.com/vantasec/adminauth/internal/admin/service"
	"github.com/vantasec/adminauth/pkg/adminsdk"
	"github.com/vantasec/adminauth/pkg/httpx"
	"github.com/vantasec/adminauth/pkg/slogx"
)

// LoginHandler handles the password step of authentication.
type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /v1/login
//
//	@Summary		Log in with email and password
//	@Description	Checks credentials and opens a pending session. The returned token cannot reach
//	@Description	protected routes until the TOTP code is verified. On first login the response
//	@Description	carries enrolment material for the authenticator app.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.LoginRequest	true	"credentials"
//	@Success		200		{object}	adminsdk.LoginResponse	"pending session token"
//	@Failure		400		{object}	adminsdk.ErrorResponse	"malformed request"
//	@Failure		401		{object}	adminsdk.ErrorResponse	"invalid credentials"
//	@Failure		403		{object}	adminsdk.ErrorResponse	"account disabled"
//	@Failure		429		{object}	adminsdk.ErrorResponse	"rate limited or account locked"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req adminsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.AuthService.Login(ctx, req.Email, req.Password, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			adminsdk.ErrRateLimited.WriteError(w)
		case errors.Is(err, service.ErrAccountLocked):
			adminsdk.ErrAccountLocked.WriteError(w)
		case errors.Is(err, service.ErrAccountDisabled):
			adminsdk.ErrAccountDisabled.WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			adminsdk.ErrInvalidCredentials.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			adminsdk.ErrServerError.WriteError(w)
		}
		return
	}

	resp := adminsdk.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Account:   toSummary(res.Account),
	}
	if res.Setup != nil {
		resp.TOTPSetup = &adminsdk.TOTPSetup{
			Secret:     res.Setup.Secret,
			OTPAuthURL: res.Setup.URL,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// toSummary builds the wire projection of an account. Hashes, secrets and
// failure counters stay server-side.
func toSummary(a domain.Account) adminsdk.AccountSummary {
	return adminsdk.AccountSummary{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
		TOTPEnabled: a.TOTPEnabled,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}
