package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vantasec/adminauth/internal/admin/domain"
	"github.com/vantasec/adminauth/internal/admin/store"
	"github.com/vantasec/adminauth/pkg/idx"
	"github.com/vantasec/adminauth/pkg/slogx"
)

type AuditService struct {
	Store store.Store
}

// Record appends one audit entry, filling in ID and timestamp. A failed
// write is logged and swallowed; an audit hiccup must never turn a
// successful login into an error for the caller.
func (s *AuditService) Record(ctx context.Context, e domain.AuditEntry) {
	e.ID = idx.New().String()
	e.CreatedAt = time.Now().UTC()

	if err := s.Store.AuditLog().Append(ctx, e); err != nil {
		slogx.FromContext(ctx).Error("failed to append audit entry",
			slog.String("action", e.Action),
			slog.Any("error", err),
		)
	}
}

// ListRecent returns the newest entries up to limit (default 100, max 1000).
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return s.Store.AuditLog().ListRecent(ctx, limit)
}
