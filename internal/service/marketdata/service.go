package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"PortfolioOne/internal/domain/models"
	drepo "PortfolioOne/internal/domain/repository"
	"PortfolioOne/internal/service/ratelimit"
	"PortfolioOne/internal/services/engine"
	"PortfolioOne/pkg/cache"
	applogger "PortfolioOne/pkg/logger"
)

// ErrUnavailable wraps any upstream failure that prevents building market data.
var ErrUnavailable = errors.New("market data unavailable")

const (
	cacheKeyPrefix = "market_data"
	limiterKey     = "yahoo_chart"
	limiterBurst   = 5
	limiterRefill  = 0.2 // one request per 5s sustained

	// how long a streamed tick may stand in for the daily close
	liveFreshness = 15 * time.Minute
)

// Config holds the service's fetch parameters.
type Config struct {
	IndexTicker string
	VolTicker   string
	CacheTTL    time.Duration
	ChartPoints int
}

// Service assembles the full market snapshot: index history and drawdown,
// volatility, credit spread, and the dashboard chart series. Results are
// cached; upstreams are only hit when the cache expires.
type Service struct {
	log     *applogger.Logger
	yahoo   *YahooClient
	fred    *FredClient
	cache   cache.Service
	limiter *ratelimit.Limiter
	metrics drepo.Metrics
	cfg     Config

	mu        sync.Mutex
	livePrice float64
	liveAt    time.Time
}

// NewService creates the market data service.
func NewService(log *applogger.Logger, yahoo *YahooClient, fred *FredClient,
	c cache.Service, limiter *ratelimit.Limiter, metrics drepo.Metrics, cfg Config) *Service {
	return &Service{
		log:     log,
		yahoo:   yahoo,
		fred:    fred,
		cache:   c,
		limiter: limiter,
		metrics: metrics,
		cfg:     cfg,
	}
}

// SetLivePrice records a streamed trade price. It overlays the last daily
// close until it goes stale or the next full fetch replaces it.
func (s *Service) SetLivePrice(price float64, at time.Time) {
	if price <= 0 {
		return
	}
	s.mu.Lock()
	s.livePrice = price
	s.liveAt = at
	s.mu.Unlock()
}

// Fetch returns the current market snapshot, from cache when fresh.
func (s *Service) Fetch(ctx context.Context) (*models.MarketData, error) {
	key := cache.GenerateKey(cacheKeyPrefix, s.cfg.IndexTicker)

	var md models.MarketData
	if err := s.cache.Get(ctx, key, &md); err == nil {
		return s.applyLive(&md), nil
	}

	if !s.limiter.Allow(limiterKey, limiterBurst, limiterRefill) {
		s.metrics.RecordFetchError("rate_limit")
		return nil, fmt.Errorf("%w: upstream rate limit reached", ErrUnavailable)
	}

	start := time.Now()
	fresh, err := s.assemble(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLatency("market_fetch", time.Since(start).Seconds())

	if err := s.cache.Set(ctx, key, fresh, s.cfg.CacheTTL); err != nil {
		s.log.Warn("market data cache set failed", applogger.Error(err))
	}

	return s.applyLive(fresh), nil
}

func (s *Service) assemble(ctx context.Context) (*models.MarketData, error) {
	series, err := s.yahoo.History(ctx, s.cfg.IndexTicker)
	if err != nil {
		s.metrics.RecordFetchError("chart")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	snap, err := engine.AnalyzeDrawdown(series)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// secondary indicators are best-effort: classification tolerates absence
	var vol *float64
	if v, err := s.yahoo.LatestClose(ctx, s.cfg.VolTicker); err != nil {
		s.metrics.RecordFetchError("volatility")
		s.log.Warn("volatility fetch failed", applogger.Error(err))
	} else {
		vol = &v
	}

	var spread *float64
	switch v, err := s.fred.LatestValue(ctx); {
	case err == nil:
		spread = &v
	case errors.Is(err, ErrNoAPIKey) && vol != nil:
		est := SpreadFromVolatility(*vol)
		spread = &est
		s.log.Debug("credit spread estimated from volatility",
			applogger.Any("spread", est), applogger.Any("vix", *vol))
	default:
		s.metrics.RecordFetchError("credit_spread")
		s.log.Warn("credit spread fetch failed", applogger.Error(err))
	}

	priceChart := make([]models.ChartPoint, 0, len(series))
	for _, p := range series {
		priceChart = append(priceChart, models.ChartPoint{
			Date:  p.Date.Format("2006-01-02"),
			Price: p.Close,
		})
	}
	ddChart := engine.DrawdownSeries(series)
	if n := s.cfg.ChartPoints; n > 0 && len(priceChart) > n {
		priceChart = priceChart[len(priceChart)-n:]
		ddChart = ddChart[len(ddChart)-n:]
	}

	return &models.MarketData{
		Drawdown:      snap,
		Volatility:    vol,
		CreditSpread:  spread,
		PriceChart:    priceChart,
		DrawdownChart: ddChart,
		LastUpdated:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// applyLive overlays a fresh streamed tick onto a copy of the snapshot. The
// input, which may be the cached object, is never mutated, so once the tick
// goes stale Fetch serves the daily closes again. The trough stays as computed
// from daily closes; a live tick above the ATH is a new high.
func (s *Service) applyLive(md *models.MarketData) *models.MarketData {
	s.mu.Lock()
	price, at := s.livePrice, s.liveAt
	s.mu.Unlock()

	if price <= 0 || time.Since(at) > liveFreshness {
		return md
	}

	out := *md // chart slices are shared but read-only past this point
	out.Drawdown.CurrentPrice = price
	if price > out.Drawdown.ATH {
		out.Drawdown.ATH = price
		out.Drawdown.ATHDate = at.UTC().Format("2006-01-02")
	}
	out.Drawdown.DrawdownPct = (price - out.Drawdown.ATH) / out.Drawdown.ATH * 100
	return &out
}
