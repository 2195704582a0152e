package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vantasec/adminauth/internal/admin/store"
)

// revokedRetention is how long revoked sessions linger before the pruner
// removes them. They stay around for a while so the audit trail and the
// session table can still be cross-referenced after an incident.
const revokedRetention = 30 * 24 * time.Hour

// HousekeepingService periodically revokes expired sessions, prunes old
// revoked ones, and sweeps stale rate limiter windows.
type HousekeepingService struct {
	Store    store.Store
	Limiter  *LoginLimiter
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 5 minutes.
func NewHousekeepingService(store store.Store, limiter *LoginLimiter, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &HousekeepingService{
		Store:    store,
		Limiter:  limiter,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() for a
// graceful shutdown.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker, blocking until any in-progress
// cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs one housekeeping pass. Each step is independent;
// failures in one won't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.Store.Sessions().RevokeExpired(ctx, now); err != nil {
		s.Logger.Error("failed to revoke expired sessions", "error", err)
	}

	if err := s.Store.Sessions().DeleteRevokedBefore(ctx, now.Add(-revokedRetention)); err != nil {
		s.Logger.Error("failed to prune revoked sessions", "error", err)
	}

	if s.Limiter != nil {
		s.Limiter.Sweep()
	}

	s.Logger.Debug("housekeeping cleanup completed")
}
