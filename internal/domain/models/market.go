package models

import "time"

// PricePoint is a single daily close in a chronological price series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// DrawdownSnapshot describes the current decline from the running all-time high.
// Recomputed on every evaluation; never persisted.
type DrawdownSnapshot struct {
	CurrentPrice float64 `json:"current_price"`
	ATH          float64 `json:"ath"`
	ATHDate      string  `json:"ath_date"`
	DrawdownPct  float64 `json:"drawdown_pct"`
	TroughPrice  float64 `json:"trough_price"`
	TroughDate   string  `json:"trough_date"`
}

// StressIndicators carries the secondary stress confirmations. Either value may be
// absent, in which case its confirmation test fails.
type StressIndicators struct {
	Volatility   *float64 `json:"volatility,omitempty"`
	CreditSpread *float64 `json:"credit_spread,omitempty"`
}

// ChartPoint is one sample of the dashboard chart series.
type ChartPoint struct {
	Date     string  `json:"date"`
	Price    float64 `json:"price,omitempty"`
	Drawdown float64 `json:"drawdown,omitempty"`
}

// MarketData aggregates everything the dashboard needs for one evaluation.
type MarketData struct {
	Drawdown      DrawdownSnapshot `json:"drawdown"`
	Volatility    *float64         `json:"vix"`
	CreditSpread  *float64         `json:"credit_spread"`
	PriceChart    []ChartPoint     `json:"price_chart"`
	DrawdownChart []ChartPoint     `json:"drawdown_chart"`
	LastUpdated   string           `json:"last_updated"`
}

// Indicators returns the snapshot's stress indicators in classifier form.
func (m *MarketData) Indicators() StressIndicators {
	return StressIndicators{Volatility: m.Volatility, CreditSpread: m.CreditSpread}
}
