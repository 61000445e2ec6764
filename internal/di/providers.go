package di

import (
	"context"
	"fmt"
	"time"

	"PortfolioOne/internal/domain/repository"
	"PortfolioOne/internal/handler/api"
	internalrepo "PortfolioOne/internal/repository"
	"PortfolioOne/internal/service/marketdata"
	"PortfolioOne/internal/service/ratelimit"
	"PortfolioOne/internal/service/stream"
	"PortfolioOne/internal/services/engine"
	"PortfolioOne/internal/universe"
	"PortfolioOne/internal/usecase"
	"PortfolioOne/pkg/cache"
	pkgch "PortfolioOne/pkg/clickhouse"
	"PortfolioOne/pkg/config"
	xhttp "PortfolioOne/pkg/http"
	pkgkafka "PortfolioOne/pkg/kafka"
	applogger "PortfolioOne/pkg/logger"
	"PortfolioOne/pkg/metrics"
	"PortfolioOne/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the cache backend: memory only, or layered over Redis
// when enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(1024))
	if !cfg.Redis.Enabled {
		return mem, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideThresholds reads classifier thresholds from config.
func ProvideThresholds(cfg *config.Config) engine.Thresholds {
	return engine.Thresholds{
		DrawdownB:        cfg.Engine.DrawdownB,
		DrawdownC:        cfg.Engine.DrawdownC,
		SpreadElevated:   cfg.Engine.SpreadElevated,
		SpreadExtreme:    cfg.Engine.SpreadExtreme,
		VolatilityStress: cfg.Engine.VolatilityStress,
	}
}

// ProvideClock returns the wall clock.
func ProvideClock() repository.Clock {
	return repository.SystemClock{}
}

// ProvideMarketDataService wires the full market data pipeline.
func ProvideMarketDataService(
	cfg *config.Config,
	logger *applogger.Logger,
	c cache.Service,
	m repository.Metrics,
) (*marketdata.Service, error) {
	if err := universe.Validate(); err != nil {
		return nil, err
	}

	httpClient := xhttp.NewClient(xhttp.WithTimeout(cfg.MarketData.RequestTimeout))
	yahoo := marketdata.NewYahooClient(httpClient, cfg.MarketData.ChartBaseURL,
		cfg.MarketData.HistoryRange, cfg.MarketData.Interval)
	fred := marketdata.NewFredClient(httpClient, cfg.MarketData.FredBaseURL,
		cfg.MarketData.FredSeries, cfg.MarketData.FredAPIKey)

	return marketdata.NewService(logger, yahoo, fred, c, ratelimit.New(), m, marketdata.Config{
		IndexTicker: cfg.MarketData.IndexTicker,
		VolTicker:   cfg.MarketData.VolTicker,
		CacheTTL:    cfg.MarketData.CacheTTL,
		ChartPoints: cfg.MarketData.ChartPoints,
	}), nil
}

// ProvideClickHouseClient creates a ClickHouse client with schema init, or nil
// when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	table := cfg.ClickHouse.Database + ".regime_evaluations"
	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database, table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideEvaluationHistory creates the ClickHouse-backed history, or nil.
func ProvideEvaluationHistory(chClient *pkgch.Client, cfg *config.Config) repository.EvaluationHistory {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseHistory(chClient.DB(), cfg.ClickHouse.Database+".regime_evaluations")
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideRegimePublisher creates the Kafka regime change publisher, or nil.
func ProvideRegimePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.RegimePublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaRegimePublisher(producer, cfg.Kafka.Topic)
}

// ProvideMarketStream creates the live price WebSocket stream, or nil.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	sc := cfg.MarketData.Stream
	if !sc.Enabled {
		return nil
	}
	symbols := sc.Symbols
	if len(symbols) == 0 {
		symbols = []string{cfg.MarketData.IndexTicker}
	}
	return stream.New(sc.APIKey, sc.URL, symbols, sc.ReconnectDelay, sc.PingInterval)
}

// ProvideWeightStore creates the weight override store.
func ProvideWeightStore(c cache.Service) repository.WeightStore {
	return internalrepo.NewCacheWeightStore(c)
}

// ProvideDashboardUsecase creates the dashboard usecase.
func ProvideDashboardUsecase(logger *applogger.Logger, market *marketdata.Service, th engine.Thresholds) *usecase.DashboardUsecase {
	return usecase.NewDashboardUsecase(logger, market, th)
}

// ProvideAllocationUsecase creates the allocation usecase.
func ProvideAllocationUsecase(logger *applogger.Logger, market *marketdata.Service, store repository.WeightStore, th engine.Thresholds) *usecase.AllocationUsecase {
	return usecase.NewAllocationUsecase(logger, market, store, th)
}

// ProvideMonitor creates the background monitor.
func ProvideMonitor(
	cfg *config.Config,
	logger *applogger.Logger,
	market *marketdata.Service,
	th engine.Thresholds,
	m repository.Metrics,
	history repository.EvaluationHistory,
	publisher repository.RegimePublisher,
	ms repository.MarketStream,
	clock repository.Clock,
) *usecase.Monitor {
	return usecase.NewMonitor(logger, market, th, m, history, publisher, ms, clock,
		cfg.MarketData.IndexTicker, cfg.Monitor.Interval)
}

// ProvideHandler creates the HTTP handler with routes.
func ProvideHandler(
	logger *applogger.Logger,
	dash *usecase.DashboardUsecase,
	alloc *usecase.AllocationUsecase,
	history repository.EvaluationHistory,
	ms repository.MarketStream,
) xhttp.Handler {
	h := api.NewPortfolioHandler(logger, dash, alloc)
	if history != nil {
		h.SetHistory(history)
	}
	if ms != nil {
		h.SetStream(ms)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	monitor *usecase.Monitor,
	chClient *pkgch.Client,
	publisher repository.RegimePublisher,
) *server.App {
	return server.New(cfg, logger, handler, monitor, chClient, publisher)
}
