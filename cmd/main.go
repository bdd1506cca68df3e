package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/summitgap/internal/adapters/http/api"
	"github.com/okian/summitgap/internal/adapters/http/site"
	"github.com/okian/summitgap/internal/adapters/http/swagger"
	"github.com/okian/summitgap/internal/adapters/remote"
	app "github.com/okian/summitgap/internal/app"
	"github.com/okian/summitgap/internal/config"
	"github.com/okian/summitgap/pkg/logger"
	"github.com/okian/summitgap/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> .env -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(logger.WithJSON(cfg.LogJSON)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("region", cfg.Region),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(context.Background(), "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// newService builds the reconciliation service over the live endpoints.
func newService(cfg *config.Config, l logger.Logger) *app.Service {
	client := remote.New(
		remote.WithCompletesURL(cfg.CompletesURL),
		remote.WithSummitsURL(cfg.SummitsURL),
		remote.WithS2SURL(cfg.S2SURL),
		remote.WithTimeout(cfg.HTTPTimeout()),
		remote.WithLogger(l.Named("remote")),
	)
	return app.New(
		app.WithFetcher(client),
		app.WithUserID(cfg.UserID),
		app.WithRegion(cfg.Region),
		app.WithCacheTTL(cfg.CacheTTL()),
		app.WithCacheSize(cfg.CacheSize),
		app.WithLogger(l.Named("service")),
	)
}

// newHandler registers every route and wraps the mux with request ids.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, l logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Register API docs under /api-docs and /openapi.yaml
	swagger.Register(ctx, mux)

	// Static assets under /static/
	site.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc,
		api.WithTitle(cfg.Title),
		api.WithTagline(cfg.Tagline),
		api.WithMapZoom(cfg.MapZoom),
		api.WithLogger(l.Named("http")),
	)
	apiServer.Register(ctx, mux)

	return api.RequestID(mux)
}

// writeTimeout leaves room for the three sequential upstream fetches a
// dashboard request can make.
func writeTimeout(cfg *config.Config) time.Duration {
	return 3*cfg.HTTPTimeout() + 5*time.Second
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
