package usecase

import (
	"context"
	"time"

	"PortfolioOne/internal/domain/models"
	drepo "PortfolioOne/internal/domain/repository"
	"PortfolioOne/internal/service/marketdata"
	"PortfolioOne/internal/services/engine"
	applogger "PortfolioOne/pkg/logger"
)

// Monitor periodically re-evaluates the regime, records metrics and history,
// and publishes transition events. History and publisher are optional; the
// loop degrades to metrics-only when they are nil.
type Monitor struct {
	log       *applogger.Logger
	market    *marketdata.Service
	th        engine.Thresholds
	metrics   drepo.Metrics
	history   drepo.EvaluationHistory
	publisher drepo.RegimePublisher
	stream    drepo.MarketStream
	clock     drepo.Clock

	ticker   string
	interval time.Duration

	lastRegime string
}

// NewMonitor creates the background monitor.
func NewMonitor(
	log *applogger.Logger,
	market *marketdata.Service,
	th engine.Thresholds,
	metrics drepo.Metrics,
	history drepo.EvaluationHistory,
	publisher drepo.RegimePublisher,
	stream drepo.MarketStream,
	clock drepo.Clock,
	ticker string,
	interval time.Duration,
) *Monitor {
	return &Monitor{
		log:       log,
		market:    market,
		th:        th,
		metrics:   metrics,
		history:   history,
		publisher: publisher,
		stream:    stream,
		clock:     clock,
		ticker:    ticker,
		interval:  interval,
	}
}

// Start runs the evaluation loop until the context is cancelled. Blocks.
func (m *Monitor) Start(ctx context.Context) error {
	if m.stream != nil {
		go m.streamLoop(ctx)
	}

	// evaluate once up front so metrics are live before the first tick
	if _, err := m.Evaluate(ctx); err != nil {
		m.log.Warn("initial evaluation failed", applogger.Error(err))
	}

	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if _, err := m.Evaluate(ctx); err != nil {
				m.log.Warn("evaluation failed", applogger.Error(err))
			}
		}
	}
}

// Evaluate runs one full evaluation cycle and returns the recorded row.
func (m *Monitor) Evaluate(ctx context.Context) (*models.RegimeEvaluation, error) {
	md, err := m.market.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	reg := engine.Classify(md.Drawdown.DrawdownPct, md.Indicators(), m.th)

	m.metrics.RecordEvaluation(reg.ID)
	m.metrics.SetRegime(reg.ID)
	m.metrics.SetDrawdown(md.Drawdown.DrawdownPct)
	if md.Volatility != nil {
		m.metrics.SetIndicator("volatility", *md.Volatility)
	}
	if md.CreditSpread != nil {
		m.metrics.SetIndicator("credit_spread", *md.CreditSpread)
	}

	ev := &models.RegimeEvaluation{
		Timestamp:    m.clock.Now().UTC(),
		Ticker:       m.ticker,
		Price:        md.Drawdown.CurrentPrice,
		ATH:          md.Drawdown.ATH,
		DrawdownPct:  md.Drawdown.DrawdownPct,
		Volatility:   md.Volatility,
		CreditSpread: md.CreditSpread,
		RegimeID:     reg.ID,
	}
	if m.history != nil {
		if err := m.history.Append(ctx, ev); err != nil {
			m.log.Warn("history append failed", applogger.Error(err))
		}
	}

	if m.lastRegime != "" && m.lastRegime != reg.ID {
		m.log.Info("regime transition",
			applogger.String("from", m.lastRegime),
			applogger.String("to", reg.ID),
			applogger.Any("drawdown_pct", md.Drawdown.DrawdownPct))
		if m.publisher != nil {
			change := &models.RegimeChangeEvent{
				Timestamp:   ev.Timestamp,
				Ticker:      m.ticker,
				FromRegime:  m.lastRegime,
				ToRegime:    reg.ID,
				DrawdownPct: md.Drawdown.DrawdownPct,
				EquityPct:   reg.EquityPct,
				ReservePct:  reg.ReservePct,
				Triggers:    reg.TriggersMet,
			}
			if err := m.publisher.PublishChange(ctx, change); err != nil {
				m.log.Warn("regime change publish failed", applogger.Error(err))
			}
		}
	}
	m.lastRegime = reg.ID

	return ev, nil
}

// streamLoop keeps the live price overlay fresh from the trade websocket,
// reconnecting on read errors.
func (m *Monitor) streamLoop(ctx context.Context) {
	if err := m.stream.Connect(ctx); err != nil {
		m.log.Warn("stream connect failed", applogger.Error(err))
		return
	}
	if err := m.stream.Subscribe(ctx); err != nil {
		m.log.Warn("stream subscribe failed", applogger.Error(err))
		return
	}
	defer func() { _ = m.stream.Close() }()

	for {
		ticks, errs := m.stream.Read(ctx)
	read:
		for {
			select {
			case <-ctx.Done():
				return
			case tick, ok := <-ticks:
				if !ok {
					break read
				}
				m.market.SetLivePrice(tick.Close, tick.Date)
			case err, ok := <-errs:
				if !ok {
					break read
				}
				m.log.Warn("stream read error", applogger.Error(err))
				break read
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := m.stream.Reconnect(ctx); err != nil {
			m.log.Warn("stream reconnect failed", applogger.Error(err))
			return
		}
	}
}
