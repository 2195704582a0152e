package http

import (
	"net/http"
	"strconv"

	"github.com/vantasec/adminauth/internal/admin/service"
	"github.com/vantasec/adminauth/pkg/adminsdk"
	"github.com/vantasec/adminauth/pkg/httpx"
	"github.com/vantasec/adminauth/pkg/slogx"
)

// AuditHandler exposes the audit trail to super admins.
type AuditHandler struct {
	AuditService *service.AuditService
}

// ServeHTTP handles GET /v1/audit
//
//	@Summary		Recent audit entries
//	@Description	Returns the newest audit entries, newest first. Requires the super_admin role.
//	@Tags			System
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"max entries (default 100, cap 1000)"
//	@Success		200		{object}	adminsdk.AuditListResponse
//	@Failure		403		{object}	adminsdk.ErrorResponse	"insufficient role"
//	@Router			/v1/audit [get].
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := AccountFromContext(ctx)
	if !ok {
		adminsdk.ErrInvalidToken.WriteError(w)
		return
	}
	if !actor.Role.CanManageAccounts() {
		adminsdk.ErrForbidden.WriteError(w)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			adminsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		limit = n
	}

	entries, err := h.AuditService.ListRecent(ctx, limit)
	if err != nil {
		slogx.FromContext(ctx).Error("audit listing failed", "err", err)
		adminsdk.ErrServerError.WriteError(w)
		return
	}

	out := adminsdk.AuditListResponse{Entries: make([]adminsdk.AuditEntry, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, adminsdk.AuditEntry{
			ID:         e.ID,
			ActorID:    e.ActorID,
			ActorEmail: e.ActorEmail,
			Action:     e.Action,
			Success:    e.Success,
			IP:         e.IP,
			UserAgent:  e.UserAgent,
			Metadata:   e.Metadata,
			CreatedAt:  e.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
