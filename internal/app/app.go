// Package app assembles the application: configuration, logging, the
// Postgres store, the import and analytics services, and the HTTP
// server with its middleware chain.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cryptopulse/internal/config"
	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/importer"
	"cryptopulse/internal/infrastructure"
	custommw "cryptopulse/internal/middleware"
	"cryptopulse/internal/observability"
	"cryptopulse/internal/relations"
	"cryptopulse/internal/services"
	"cryptopulse/internal/store/postgres"
	handlers "cryptopulse/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application is the top-level dependency container.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router *chi.Mux
	Server *http.Server

	Store     *postgres.PostgresStore
	Metrics   *observability.Metrics
	Analytics *services.AnalyticsService
	Import    *services.ImportService
	Health    *services.HealthService

	errorHandler *apierrors.ErrorHandler
}

// NewApplication loads configuration and wires every service. The
// returned application owns the database connection until Stop.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	st, err := postgres.New(postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	metrics := observability.New(prometheus.DefaultRegisterer)

	builder := relations.NewBuilder(st, logger)
	builder.SetBatchSize(cfg.Analytics.BatchSize)

	analytics := services.NewAnalyticsService(st, builder, metrics, logger)
	analytics.SetRankLimits(cfg.Analytics.DefaultLimit, cfg.Analytics.MaxLimit)

	// The analytics service doubles as the rebuilder so post-import
	// rebuilds are recorded in the run metrics.
	imp := importer.New(st, analytics, logger)
	importSvc := services.NewImportService(imp, metrics, logger)
	health := services.NewHealthService(Version, st, logger)

	a := &Application{
		Config:       cfg,
		Logger:       logger,
		Store:        st,
		Metrics:      metrics,
		Analytics:    analytics,
		Import:       importSvc,
		Health:       health,
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.Timeout(a.Config.Server.WriteTimeout, a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.CORS(custommw.CORSConfig{Logger: a.Logger}))
	r.Use(custommw.Compress(5))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", handlers.NewHealthHandler(a.Health, a.Logger).Routes())
		r.Mount("/import", handlers.NewImportHandler(a.Import, a.Config.Import.MaxBodyBytes, a.Logger, a.errorHandler).Routes())
		r.Mount("/analytics", handlers.NewAnalyticsHandler(a.Analytics, a.Logger, a.errorHandler).Routes())
		r.Mount("/relations", handlers.NewRelationsHandler(a.Analytics, a.Logger, a.errorHandler).Routes())
		r.Mount("/impact", handlers.NewImpactHandler(a.Analytics, a.Logger, a.errorHandler).Routes())
		r.Mount("/export", handlers.NewExportHandler(a.Analytics, a.Logger, a.errorHandler).Routes())
	})

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	// Outside the middleware chain so scrapes stay cheap.
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start begins serving. It returns once the listener stops; a listener
// failure cancels ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	go func() {
		a.Logger.InfoContext(ctx, "http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop gracefully shuts the server down and releases the store.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "server shutdown error", slog.String("error", err.Error()))
		firstErr = err
	}

	if err := a.Store.Close(); err != nil {
		a.Logger.ErrorContext(ctx, "store close error", slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return firstErr
}

// Run starts the application and blocks until an interrupt signal or a
// listener failure, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case sig := <-sigChan:
		a.Logger.Info("received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
