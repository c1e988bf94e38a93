package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/credvault/internal/vault/http"
	"github.com/aussiebroadwan/credvault/internal/vault/metrics"
	"github.com/aussiebroadwan/credvault/internal/vault/service"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	"github.com/aussiebroadwan/credvault/internal/vault/store/drivers/mysql"
	"github.com/aussiebroadwan/credvault/internal/vault/store/drivers/sqlite"
	"github.com/aussiebroadwan/credvault/pkg/cryptox"
	"github.com/aussiebroadwan/credvault/pkg/jwtx"
	"github.com/aussiebroadwan/credvault/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the vault service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	hasher     *cryptox.PasswordHasher
	box        *cryptox.SecretBox
	metrics    *metrics.Metrics

	// Services
	tokenService         *service.TokenService
	sessionService       *service.SessionService
	administratorService *service.AdministratorService
	accountService       *service.AccountService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "credvault",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg:     cfg,
		logger:  NewLogger(cfg),
		metrics: metrics.Default(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initCrypto(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("vault service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
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
	app.logger.Info("shutting down vault service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("vault service stopped")
	return nil
}

// OpenStore connects to the configured database without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverMySQL:
		db, err := mysql.NewStore(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverSQLite:
		db, err := sqlite.NewStore(sqlite.DSN(cfg.DatabaseFile))
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// Migrate applies all pending migrations to the configured database.
func Migrate(ctx context.Context, cfg Config, logger *slog.Logger) error {
	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)
	return nil
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initCrypto loads the pepper and master key and creates the signing key
func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrGeneratePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	app.box, err = InitSecretBox(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize master key: %w", err)
	}

	app.keyManager, err = InitKeyManager(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session keys: %w", err)
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	limits := app.cfg.Limits()

	app.tokenService = service.NewTokenService(app.keyManager, app.cfg.Issuer, app.cfg.TokenTTL)
	app.tokenService.Metrics = app.metrics

	app.sessionService = &service.SessionService{
		Store:   app.db,
		Hasher:  app.hasher,
		Tokens:  app.tokenService,
		Metrics: app.metrics,
	}
	app.administratorService = &service.AdministratorService{
		Store:   app.db,
		Hasher:  app.hasher,
		Box:     app.box,
		Limits:  limits,
		Metrics: app.metrics,
	}
	app.accountService = &service.AccountService{
		Store:   app.db,
		Box:     app.box,
		Limits:  limits,
		Metrics: app.metrics,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.CORS.AllowedOrigins = app.cfg.CORSAllowedOrigins
	router.Metrics = app.metrics
	router.MetricsHandler = metrics.Handler(prometheus.DefaultGatherer)
	router.SessionService = app.sessionService
	router.AdministratorService = app.administratorService
	router.AccountService = app.accountService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
