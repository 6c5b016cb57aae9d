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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/AALVAREZG/contraidos-processor/internal/analysis"
	"github.com/AALVAREZG/contraidos-processor/internal/config"
	"github.com/AALVAREZG/contraidos-processor/internal/contraidos"
	"github.com/AALVAREZG/contraidos-processor/internal/dataprocessing"
	apierrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	"github.com/AALVAREZG/contraidos-processor/internal/infrastructure"
	customMiddleware "github.com/AALVAREZG/contraidos-processor/internal/middleware"
	"github.com/AALVAREZG/contraidos-processor/internal/services"
	handlers "github.com/AALVAREZG/contraidos-processor/internal/transport/http"
	ws "github.com/AALVAREZG/contraidos-processor/internal/websocket"
)

// purgeInterval is how often expired uploads and exports are removed
const purgeInterval = time.Hour

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	WebSocketHub  *ws.Hub
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	errorHandler *apierrors.ErrorHandler
	validation   *customMiddleware.ValidationMiddleware
}

// ServiceContainer holds the wired services
type ServiceContainer struct {
	Store    *services.ResultStore
	Files    *services.FileService
	Analysis *services.AnalysisService
	Export   *services.ExportService
	Health   *services.HealthService
}

// NewApplication loads the configuration, logger and telemetry and wires
// the application on top of them
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths := cfg.GetPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logCfg := cfg.Logging
	logCfg.FilePath = cfg.LogFile()
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("upload_dir", paths.UploadDir),
		slog.String("export_dir", paths.ExportDir))

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	return New(cfg, logger, providers)
}

// New wires services, handlers and the router from explicit dependencies
func New(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if providers == nil {
		return nil, errors.New("telemetry providers are required")
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	errorHandler := apierrors.NewErrorHandler(logger, false)
	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		errorHandler:  errorHandler,
		validation:    customMiddleware.NewValidationMiddleware(logger, errorHandler),
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

func (a *Application) initializeServices() error {
	paths := a.Config.GetPaths()

	a.WebSocketHub = ws.NewHub(a.Config.WebSocket, a.allowedOrigins(), a.Logger)

	analyzers := analysis.NewRegistry()
	if err := analyzers.Register(contraidos.Definition(a.Logger)); err != nil {
		return fmt.Errorf("failed to register analyzers: %w", err)
	}
	parsers := dataprocessing.NewParserRegistry(dataprocessing.NewContraidosExcelParser(a.Logger))

	store := services.NewResultStore()
	files := services.NewFileService(a.Config.Upload, paths, a.WebSocketHub, a.Metrics, a.Logger)

	a.Services = &ServiceContainer{
		Store:    store,
		Files:    files,
		Analysis: services.NewAnalysisService(files, parsers, analyzers, store, a.Config.Analysis, a.WebSocketHub, a.Metrics, a.Logger),
		Export:   services.NewExportService(files, store, a.WebSocketHub, a.Metrics, a.Logger),
		Health:   services.NewHealthService(config.AppVersion, paths, store, a.WebSocketHub, a.Logger),
	}
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID must run first so every log line carries the id
	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)

	// The WebSocket route stays outside the wrapping middleware
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", a.WebSocketHub)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(a.errorHandler.Recoverer)
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}
		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.errorHandler).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))

		r.NotFound(a.errorHandler.NotFound)
		r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

		health := handlers.NewHealthHandler(a.Services.Health, config.AppName, config.AppVersion, a.Logger)
		r.Get("/", health.Info)
		r.Get("/health", health.HealthCheck)

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes mounts the versioned API
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route(config.APIPrefix, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.AuditLog(a.Logger))

		upload := handlers.NewUploadHandler(a.Services.Files, a.Config.Upload.MaxUploadSize, a.Logger, a.errorHandler)
		r.With(customMiddleware.TraceMiddleware("api.upload")).Mount("/upload", upload.Routes())

		r.Group(func(r chi.Router) {
			r.Use(a.validation.ValidateRequest)
			r.Use(customMiddleware.ContentTypeValidator(a.errorHandler, "application/json"))

			analysisHandler := handlers.NewAnalysisHandler(a.Services.Analysis, a.validation, a.Logger, a.errorHandler)
			r.With(customMiddleware.TraceMiddleware("api.analysis")).Mount("/analysis", analysisHandler.Routes())

			exportHandler := handlers.NewExportHandler(a.Services.Export, a.validation, a.Logger, a.errorHandler)
			r.With(customMiddleware.TraceMiddleware("api.export")).Mount("/export", exportHandler.Routes())
		})
	})
}

func (a *Application) allowedOrigins() []string {
	if !a.Config.Security.EnableCORS {
		return nil
	}
	return a.Config.Security.AllowedOrigins
}

func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			customMiddleware.RequestIDHeader,
			"X-Requested-With",
		},
		ExposedHeaders:   []string{customMiddleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start launches the hub, the purge loop and the HTTP server. cancel is
// called if the server stops unexpectedly.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go a.WebSocketHub.Run(ctx)
	go a.purgeLoop(ctx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// purgeLoop removes uploads and exports past the retention period
func (a *Application) purgeLoop(ctx context.Context) {
	if a.Config.Upload.RetentionDays <= 0 {
		return
	}

	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		a.purgeOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *Application) purgeOnce(ctx context.Context) {
	removed, err := a.Services.Files.PurgeExpired(ctx, time.Now())
	if err != nil {
		a.Logger.WarnContext(ctx, "purge failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		a.Logger.InfoContext(ctx, "expired files removed", slog.Int("count", removed))
	}
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	// the hub stops with ctx; wait for it so clients are closed cleanly
	<-a.WebSocketHub.Done()

	return a.Stop(ctx)
}
