package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "PortfolioOne/internal/domain/repository"
	"PortfolioOne/internal/usecase"
	pkgch "PortfolioOne/pkg/clickhouse"
	"PortfolioOne/pkg/config"
	xhttp "PortfolioOne/pkg/http"
	applogger "PortfolioOne/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	monitor    *usecase.Monitor
	chClient   *pkgch.Client
	publisher  drepo.RegimePublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. ClickHouse client and
// publisher may be nil when disabled.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	monitor *usecase.Monitor,
	chClient *pkgch.Client,
	publisher drepo.RegimePublisher,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		monitor:   monitor,
		chClient:  chClient,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// aggregate error logs onto the shared Kafka producer when available
	if p, ok := a.publisher.(applogger.Publisher); ok && a.cfg.Kafka.LogsTopic != "" {
		a.logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogsTopic,
			Publisher:      p,
		})
		defer a.logger.RemoveCollector()
	}

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(a.logger))
	}
	a.httpServer = xhttp.NewServer(a.handler, opts...)

	if a.monitor != nil && a.cfg.Monitor.Enabled {
		go func() {
			if err := a.monitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("monitor error", applogger.Error(err))
			}
		}()
		a.logger.Info("monitor started",
			applogger.String("ticker", a.cfg.MarketData.IndexTicker),
			applogger.Duration("interval_ms", a.cfg.Monitor.Interval))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
