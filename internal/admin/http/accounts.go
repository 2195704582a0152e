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

// AccountsHandler serves the account management endpoints. Role checks
// live in the service; this layer only translates errors to the wire.
type AccountsHandler struct {
	AccountService *service.AccountService
}

// HandleCreate handles POST /v1/accounts
//
//	@Summary		Create an admin account
//	@Description	Provisions a new admin. Requires the super_admin role. The account enrols
//	@Description	its authenticator on first login.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.CreateAccountRequest	true	"new account"
//	@Success		201		{object}	adminsdk.AccountSummary
//	@Failure		400		{object}	adminsdk.ErrorResponse	"validation failure"
//	@Failure		403		{object}	adminsdk.ErrorResponse	"insufficient role"
//	@Failure		409		{object}	adminsdk.ErrorResponse	"email already in use"
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := AccountFromContext(ctx)
	if !ok {
		adminsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req adminsdk.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	acct, err := h.AccountService.CreateAccount(ctx, actor, service.CreateAccountInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Password:    req.Password,
	}, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			adminsdk.ErrForbidden.WriteError(w)
		case errors.Is(err, service.ErrEmailTaken):
			adminsdk.ErrEmailTaken.WriteError(w)
		case errors.Is(err, service.ErrInvalidRole),
			errors.Is(err, service.ErrWeakPassword),
			errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrMissingDisplayed):
			adminsdk.NewAPIError(http.StatusBadRequest, adminsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		default:
			log.Error("account creation failed", "err", err)
			adminsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSummary(acct))
}

// HandleList handles GET /v1/accounts
//
//	@Summary		List admin accounts
//	@Description	Returns every admin account, newest first. Requires the super_admin role.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	adminsdk.AccountListResponse
//	@Failure		403	{object}	adminsdk.ErrorResponse	"insufficient role"
//	@Router			/v1/accounts [get].
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := AccountFromContext(ctx)
	if !ok {
		adminsdk.ErrInvalidToken.WriteError(w)
		return
	}

	accounts, err := h.AccountService.ListAccounts(ctx, actor)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			adminsdk.ErrForbidden.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("account listing failed", "err", err)
		adminsdk.ErrServerError.WriteError(w)
		return
	}

	out := adminsdk.AccountListResponse{Accounts: make([]adminsdk.AccountSummary, 0, len(accounts))}
	for _, a := range accounts {
		out.Accounts = append(out.Accounts, toSummary(a))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /v1/accounts/{id}
//
//	@Summary		Delete an admin account
//	@Description	Removes an account and revokes all of its sessions. Requires the super_admin
//	@Description	role; self-deletion is rejected.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Param			id	path	string	true	"account id"
//	@Success		204	"account deleted"
//	@Failure		400	{object}	adminsdk.ErrorResponse	"self-deletion"
//	@Failure		403	{object}	adminsdk.ErrorResponse	"insufficient role"
//	@Failure		404	{object}	adminsdk.ErrorResponse	"unknown account"
//	@Router			/v1/accounts/{id} [delete].
func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := AccountFromContext(ctx)
	if !ok {
		adminsdk.ErrInvalidToken.WriteError(w)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AccountService.DeleteAccount(ctx, actor, id, requestMeta(r)); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			adminsdk.ErrForbidden.WriteError(w)
		case errors.Is(err, service.ErrSelfDelete):
			adminsdk.ErrSelfDelete.WriteError(w)
		case errors.Is(err, service.ErrAccountNotFound):
			adminsdk.ErrNotFound.WriteError(w)
		default:
			slogx.FromContext(ctx).Error("account deletion failed", "err", err)
			adminsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
