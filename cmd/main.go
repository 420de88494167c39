package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/sheetcount/internal/adapters/http/api"
	"github.com/okian/sheetcount/internal/adapters/sheets"
	app "github.com/okian/sheetcount/internal/app"
	"github.com/okian/sheetcount/internal/config"
	"github.com/okian/sheetcount/pkg/logger"
	"github.com/okian/sheetcount/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return errors.New("failed to load config: " + err.Error())
	}

	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		return errors.New("failed to initialize logging: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		return errors.New("failed to load env file: " + err.Error())
	}

	// Sheet settings are re-read from the environment on every lookup, so a
	// missing value only logs here instead of blocking startup.
	if sheet, err := config.LoadSheet(ctx); err == nil && sheet.Validate() != nil {
		log.Warn(ctx, "SHEETS_API_KEY and SHEET_ID are not both set; lookups will fail until they are")
	}

	svc := newService(cfg, log)

	go startSystemMetricsUpdater(ctx, metrics.Default())

	mux := http.NewServeMux()
	api.NewServer(svc, api.WithLogger(log.Named("http"))).Register(ctx, mux)

	// WriteTimeout is left unset so an upstream call is bounded only by
	// upstream_timeout and the client's own deadline.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return errors.New("HTTP server failed: " + err.Error())
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService wires the Sheets client and the row-count service from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	client := sheets.New(
		sheets.WithBaseURL(cfg.UpstreamBaseURL),
		sheets.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		sheets.WithLogger(log.Named("sheets")),
	)
	return app.New(
		app.WithFetcher(client),
		app.WithMetrics(metrics.Default()),
		app.WithLogger(log.Named("rowcount")),
	)
}

// startSystemMetricsUpdater refreshes system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, m *metrics.Manager) {
	ticker := time.NewTicker(m.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics(m)
		}
	}
}

func updateSystemMetrics(m *metrics.Manager) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.UpdateSystem(ms.Alloc, runtime.NumGoroutine())
}
