package repository

import (
	"context"
	"time"

	"PortfolioOne/internal/domain/models"
)

// MarketStream is a live trade feed used to keep the current index price fresh
// between daily closes.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.PricePoint, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// WeightStore persists user weight-table overrides. Load returns (nil, nil)
// when no override has been saved.
type WeightStore interface {
	Load(ctx context.Context) (*models.WeightsRequest, error)
	Save(ctx context.Context, w *models.WeightsRequest) error
	Clear(ctx context.Context) error
}

// EvaluationHistory appends monitor evaluations to durable storage.
type EvaluationHistory interface {
	Append(ctx context.Context, ev *models.RegimeEvaluation) error
	Recent(ctx context.Context, ticker string, limit int) ([]models.RegimeEvaluation, error)
	Health(ctx context.Context) error
}

// RegimePublisher emits regime-transition events.
type RegimePublisher interface {
	PublishChange(ctx context.Context, ev *models.RegimeChangeEvent) error
	Close() error
}

// Metrics records domain observability signals.
type Metrics interface {
	RecordEvaluation(regimeID string)
	RecordFetchError(source string)
	SetRegime(regimeID string)
	SetDrawdown(pct float64)
	SetIndicator(name string, value float64)
	RecordLatency(op string, seconds float64)
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
