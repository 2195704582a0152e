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

// BootstrapHandler creates the founding super admin.
type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles POST /v1/bootstrap
//
//	@Summary		Bootstrap the first super admin
//	@Description	Creates the founding super_admin account. Only available while the accounts
//	@Description	table is empty; once anyone exists this endpoint returns 409.
//	@Tags			System
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.BootstrapRequest	true	"founding account"
//	@Success		201		{object}	adminsdk.AccountSummary
//	@Failure		400		{object}	adminsdk.ErrorResponse	"validation failure"
//	@Failure		409		{object}	adminsdk.ErrorResponse	"already bootstrapped"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req adminsdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	acct, err := h.BootstrapService.Bootstrap(ctx, service.BootstrapInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	}, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			adminsdk.ErrAlreadyBootstrapped.WriteError(w)
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrWeakPassword),
			errors.Is(err, service.ErrMissingDisplayed):
			adminsdk.NewAPIError(http.StatusBadRequest, adminsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		default:
			log.Error("bootstrap failed", "err", err)
			adminsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSummary(acct))
}
