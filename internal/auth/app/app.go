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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/otpauth/internal/auth/delivery"
	httpapi "github.com/aussiebroadwan/otpauth/internal/auth/http"
	"github.com/aussiebroadwan/otpauth/internal/auth/observability"
	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	ledger   store.Challenges // nil when the ledger is off
	redis    *goredis.Client  // nil unless REDIS_URL is set
	probe    httpapi.Pinger   // readiness probe for an external ledger
	codec    *jwtx.Codec
	sender   delivery.Sender
	metrics  *observability.Metrics
	registry *prometheus.Registry

	// Services
	sessionService      *service.SessionService
	registrationService *service.RegistrationService
	challengeService    *service.ChallengeService
	identityService     *service.IdentityService
	housekeepingService *service.HousekeepingService // nil unless the ledger lives in the database
	workersStarted      bool

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "otpauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	if err := app.initCodec(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initLedger(ctx); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.initSender(); err != nil {
		app.closeStores()
		return nil, err
	}

	app.initMetrics()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
		app.workersStarted = true
	}

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"database", app.cfg.DatabaseDriver,
		"sms_provider", app.cfg.SMSProvider,
		"ledger", app.ledgerMode(),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopWorkers()
			app.closeStores()
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
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		slogx.LogError(app.logger, "graceful server shutdown failed", err)
		if err := app.server.Close(); err != nil {
			slogx.LogError(app.logger, "error closing server", err)
		}
	}

	app.stopWorkers()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// Handler exposes the fully wired router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

func (app *Application) stopWorkers() {
	if app.workersStarted {
		app.housekeepingService.Stop()
		app.workersStarted = false
	}
}

func (app *Application) closeStores() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			slogx.LogError(app.logger, "error closing redis", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			slogx.LogError(app.logger, "error closing database", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (app *Application) ledgerMode() string {
	switch {
	case app.ledger == nil:
		return LedgerOff
	case app.redis != nil:
		return "redis"
	default:
		return app.cfg.DatabaseDriver
	}
}

func (app *Application) initCodec() error {
	secret, err := app.cfg.SigningSecret()
	if err != nil {
		return err
	}

	codec, err := jwtx.NewCodec(secret, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec
	return nil
}

func (app *Application) initSender() error {
	switch app.cfg.SMSProvider {
	case ProviderTwilio:
		s, err := delivery.NewTwilioSender(app.cfg.Twilio)
		if err != nil {
			return err
		}
		app.sender = s
	default:
		app.logger.Warn("SMS delivery is logged, not sent; login codes will appear in the log")
		app.sender = delivery.NewLogSender(app.logger)
	}
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app.metrics = observability.NewMetrics()
	app.metrics.Register(app.registry)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Codec: app.codec,
		TTL:   app.cfg.SessionTTL,
	}

	app.registrationService = &service.RegistrationService{
		Store:      app.db,
		Sessions:   app.sessionService,
		Metrics:    app.metrics,
		SessionTTL: app.cfg.SignupSessionTTL,
	}

	app.challengeService = &service.ChallengeService{
		Store:       app.db,
		Ledger:      app.ledger,
		Codec:       app.codec,
		Sessions:    app.sessionService,
		Sender:      app.sender,
		Metrics:     app.metrics,
		Provider:    app.cfg.SMSProvider,
		CountryCode: app.cfg.CountryCode,
		TTL:         app.cfg.ChallengeTTL,
		SingleUse:   app.cfg.SingleUse,
		MaxAttempts: app.cfg.MaxAttempts,
	}

	app.identityService = &service.IdentityService{Store: app.db}

	// Redis expires its own keys; only a database ledger needs pruning.
	if app.ledger != nil && app.redis == nil {
		app.housekeepingService = service.NewHousekeepingService(
			app.ledger,
			app.logger,
			app.cfg.HousekeepingInterval,
		)
		app.housekeepingService.Metrics = app.metrics
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.CORSAllowedOrigins,
	)

	router.RegistrationService = app.registrationService
	router.ChallengeService = app.challengeService
	router.IdentityService = app.identityService
	router.Gatherer = app.registry
	router.LedgerCheck = app.probe
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
