package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/vantasec/adminauth/internal/admin/http"
	"github.com/vantasec/adminauth/internal/admin/service"
	"github.com/vantasec/adminauth/internal/admin/store"
	"github.com/vantasec/adminauth/internal/admin/store/drivers/sqlite"
	"github.com/vantasec/adminauth/pkg/cryptox"
	"github.com/vantasec/adminauth/pkg/httpx"
	"github.com/vantasec/adminauth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the admin auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	// Services
	authService         *service.AuthService
	accountService      *service.AccountService
	bootstrapService    *service.BootstrapService
	auditService        *service.AuditService
	housekeepingService *service.HousekeepingService
	limiter             *service.LoginLimiter

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "admin-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("admin auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"allowlist_entries", len(app.cfg.IPAllowlist),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down admin auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("admin auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.limiter = service.NewLoginLimiter(app.cfg.IPMaxAttempts, app.cfg.IPWindow, nil)
	app.auditService = &service.AuditService{Store: app.db}

	app.authService = &service.AuthService{
		Store:            app.db,
		Limiter:          app.limiter,
		Audit:            app.auditService,
		SessionTTL:       app.cfg.SessionTTL,
		MaxLoginAttempts: app.cfg.MaxLoginAttempts,
		LockDuration:     app.cfg.LockDuration,
		TOTPIssuer:       app.cfg.TOTPIssuer,
	}

	app.accountService = &service.AccountService{
		Store: app.db,
		Audit: app.auditService,
	}

	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Audit: app.auditService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.limiter,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		httpx.IPAllowlistConfig{
			Allowed:   app.cfg.IPAllowlist,
			DebugEcho: app.cfg.AllowlistDebug,
		},
	)

	// Wire services to router
	router.AuthService = app.authService
	router.AccountService = app.accountService
	router.BootstrapService = app.bootstrapService
	router.AuditService = app.auditService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
