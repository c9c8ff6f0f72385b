package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"upscdash/internal/config"
	"upscdash/internal/dashboard"
	"upscdash/internal/dataset"
	apierrors "upscdash/internal/errors"
	"upscdash/internal/exporter"
	"upscdash/internal/infrastructure"
	customMiddleware "upscdash/internal/middleware"
	"upscdash/internal/services"
	handlers "upscdash/internal/transport/http"
	ws "upscdash/internal/websocket"
	"upscdash/pkg/contracts"
	"upscdash/pkg/contracts/domain"
)

// systemMetricsInterval is how often runtime gauges are sampled.
const systemMetricsInterval = 15 * time.Second

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Collector     *infrastructure.SystemMetricsCollector
	ErrorHandler  *apierrors.ErrorHandler

	Store         *dataset.Store
	Loader        *dataset.Loader
	Dashboard     *services.DashboardService
	HealthService *services.HealthService
	WebSocketHub  *ws.Hub
	Exporter      *exporter.Exporter
}

// Bootstrap loads the configuration and initializes the global logger.
// An empty configFile falls back to the standard search locations. adjust,
// when set, may modify the configuration before the logger is created.
func Bootstrap(configFile string, adjust func(*config.Config)) (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if adjust != nil {
		adjust(cfg)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// New wires every component from cfg. Nothing is started and no dataset is
// loaded; see LoadDataset and Run.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetVersionString()))

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := a.initializeServices(); err != nil {
		return nil, err
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices creates the dataset, dashboard and realtime services.
func (a *Application) initializeServices() error {
	if a.OTelProviders.Meter != nil {
		metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create business metrics: %w", err)
		}
		a.Metrics = metrics
	}

	collector, err := infrastructure.NewSystemMetricsCollector(a.OTelProviders.Meter, systemMetricsInterval)
	if err != nil {
		return err
	}
	a.Collector = collector

	a.Store = dataset.NewStore()
	a.Loader = dataset.NewLoader(dataset.LoaderOptions{
		Delimiter: a.Config.Dataset.DelimiterRune(),
		Sheet:     a.Config.Dataset.Sheet,
	}, a.Logger, a.Metrics)

	renderer := dashboard.NewRenderer(dashboardSettings(a.Config.Dashboard))
	a.Dashboard = services.NewDashboardService(a.Store, renderer, a.Metrics, a.Logger)

	validation := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler)
	a.WebSocketHub = ws.NewHub(a.Dashboard, validation, a.Metrics, ws.Options{
		PingPeriod:     a.Config.WebSocket.PingPeriod,
		PongWait:       a.Config.WebSocket.PongWait,
		MaxMessageSize: a.Config.WebSocket.MaxMessageSize,
		StatsInterval:  ws.DefaultOptions().StatsInterval,
	}, a.Logger)

	a.HealthService = services.NewHealthService(a.Store, a.WebSocketHub, a.Collector, a.Logger)
	a.Exporter = exporter.New(a.Paths, a.Logger)

	a.Store.Subscribe(func(ds *dataset.Dataset) {
		a.WebSocketHub.DatasetReloaded(ds.Info())
	})

	return nil
}

func dashboardSettings(c config.DashboardConfig) dashboard.Settings {
	return dashboard.Settings{
		ScoreStep:     c.ScoreStep,
		YearStep:      c.YearStep,
		RankStep:      c.RankStep,
		YearBounds:    domain.Range{Lo: c.YearMin, Hi: c.YearMax},
		RankBounds:    domain.Range{Lo: c.RankMin, Hi: c.RankMax},
		HistogramBins: c.HistogramBins,
	}
}

// LoadDataset reads the configured results file and publishes it.
func (a *Application) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	ds, err := a.Loader.Load(ctx, a.Paths.DatasetFile)
	if err != nil {
		return nil, err
	}
	a.Store.Publish(ds)
	a.Logger.InfoContext(ctx, "dataset published",
		slog.String("snapshot_id", ds.SnapshotID()),
		slog.Int("rows", ds.Len()),
		slog.Int("categories", len(ds.Categories())))
	return ds, nil
}

// setupRouter builds the HTTP router. /ws and /metrics sit outside the main
// middleware group so that nothing wraps the hijacked connection or slows
// scraping.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, handlers.WebSocketConfig{
		AllowedOrigins:  a.getCORSConfig().AllowedOrigins,
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
	}, a.Logger, a.ErrorHandler)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Mount("/metrics", handlers.NewMetricsHandler(a.Collector, a.WebSocketHub).Routes())

		dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger, a.ErrorHandler)
		r.Mount("/dashboard", dashboardHandler.Routes())
	})
}

// getCORSConfig returns the configured origins plus the service's own
// address.
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	origins := []string{
		fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
		fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
	}
	for _, o := range a.Config.Security.AllowedOrigins {
		if o != origins[0] && o != origins[1] {
			origins = append(origins, o)
		}
	}

	return customMiddleware.CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
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

// Run loads the dataset and serves until ctx is cancelled, then shuts down
// gracefully. A failed initial load is fatal unless the file is watched, in
// which case the service starts unready and waits for a valid file.
func (a *Application) Run(ctx context.Context) error {
	if _, err := a.LoadDataset(ctx); err != nil {
		if !a.Config.Dataset.Watch {
			return fmt.Errorf("initial dataset load: %w", err)
		}
		a.Logger.WarnContext(ctx, "initial dataset load failed, waiting for file changes",
			slog.String("path", a.Paths.DatasetFile),
			slog.String("error", err.Error()))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.WebSocketHub.Run(gctx) })
	g.Go(func() error { return a.Collector.Run(gctx) })

	if a.Config.Dataset.Watch {
		watcher := dataset.NewWatcher(dataset.WatcherConfig{
			Path:     a.Paths.DatasetFile,
			Debounce: a.Config.Dataset.WatchDebounce,
		}, a.Loader, a.Store, a.Logger)
		g.Go(func() error { return watcher.Run(gctx) })
	}

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "http server listening",
			slog.String("address", a.Server.Addr),
			slog.Bool("dataset_ready", a.Store.Ready()))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop()
	})

	err := g.Wait()
	a.shutdownTelemetry()
	return err
}

// Stop gracefully stops the HTTP server.
func (a *Application) Stop() error {
	a.Logger.Info("shutting down application")

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Close releases telemetry providers. It is safe to call after Run.
func (a *Application) Close() {
	a.shutdownTelemetry()
}

func (a *Application) shutdownTelemetry() {
	if a.OTelProviders == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.Error("error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}
	a.OTelProviders = nil
}
