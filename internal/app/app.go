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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"plugingate/internal/audit"
	"plugingate/internal/config"
	"plugingate/internal/gate"
	"plugingate/internal/infrastructure"
	"plugingate/internal/license"
	"plugingate/internal/metrics"
	customMiddleware "plugingate/internal/middleware"
	handlers "plugingate/internal/transport/http"
)

const (
	Version = "v1.0.0"
	AppName = "plugingate"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Gate          *gate.Service
	Registry      *license.Registry
	Dispatcher    *audit.Dispatcher
	OTelProviders *infrastructure.OTelProviders
	Logger        *slog.Logger
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := infrastructure.InitializeLogger(cfg.Logging)

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	// Audit sink: Discord webhook when configured, application log
	// otherwise. Either way delivery stays fire-and-forget.
	var sink audit.Sink
	if cfg.Gate.DiscordWebhookURL != "" {
		sink = audit.NewDiscordSink(cfg.Gate.DiscordWebhookURL, nil, logger)
	} else {
		logger.Warn("No audit webhook configured, audit events go to the application log")
		sink = audit.NewSlogSink(logger)
	}
	dispatcher := audit.NewDispatcher(sink, cfg.Gate.AuditBufferSize)

	var gateMetrics *metrics.Gate
	if otelProviders.Meter != nil {
		gateMetrics, err = metrics.NewGate(otelProviders.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create gate metrics: %w", err)
		}
		if err := metrics.RegisterAuditDropped(otelProviders.Meter, dispatcher.Dropped); err != nil {
			return nil, fmt.Errorf("failed to register audit metrics: %w", err)
		}
	}

	registry := cfg.Registry()
	logger.Info("License registry loaded",
		slog.Int("licenses", registry.Len()),
		slog.Int("blacklisted_addresses", len(cfg.Gate.BlacklistedAddresses)),
		slog.Int64("idle_session_lifespan_seconds", cfg.Gate.IdleSessionLifespan))

	gateService := gate.NewService(gate.Config{
		IdleSessionLifespan:  cfg.Gate.IdleSessionLifespan,
		BlacklistedAddresses: cfg.Gate.BlacklistedAddresses,
	}, registry, dispatcher, gateMetrics, logger)

	app := &Application{
		Config:        cfg,
		Gate:          gateService,
		Registry:      registry,
		Dispatcher:    dispatcher,
		OTelProviders: otelProviders,
		Logger:        logger,
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	sessionHandler := handlers.NewSessionHandler(a.Gate, a.Logger)
	pluginHandler := handlers.NewPluginHandler(a.Gate, a.Logger)
	healthHandler := handlers.NewHealthHandler(Version, a.Registry.Len(), a.Gate, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Method(http.MethodGet, "/metrics", a.OTelProviders.PrometheusHTTP)
	}

	// The two gate operations. Session issuance lives at the root; the
	// download route carries the session token and license name as path
	// parameters.
	r.Get("/", sessionHandler.Create)
	r.Get("/{session_id}/{license}", pluginHandler.Download)

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout.Std(),
		WriteTimeout:   a.Config.Server.WriteTimeout.Std(),
		IdleTimeout:    a.Config.Server.IdleTimeout.Std(),
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run runs the application until interrupted, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("Server listening",
			slog.String("address", a.Server.Addr),
			slog.Int("port", a.Config.Server.Port))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application: the server first, then the audit
// queue is drained, then telemetry is flushed.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout.Std())
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Dispatcher.Close()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.Info("Application shutdown complete")
	return nil
}
