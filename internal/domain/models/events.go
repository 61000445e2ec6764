package models

import "time"

// RegimeEvaluation is one row of monitor history: the inputs and the outcome of
// a single periodic classification.
type RegimeEvaluation struct {
	Timestamp    time.Time `json:"ts"`
	Ticker       string    `json:"ticker"`
	Price        float64   `json:"price"`
	ATH          float64   `json:"ath"`
	DrawdownPct  float64   `json:"drawdown_pct"`
	Volatility   *float64  `json:"volatility,omitempty"`
	CreditSpread *float64  `json:"credit_spread,omitempty"`
	RegimeID     string    `json:"regime_id"`
}

// RegimeChangeEvent is published when the monitor observes a transition.
type RegimeChangeEvent struct {
	Timestamp   time.Time `json:"ts"`
	Ticker      string    `json:"ticker"`
	FromRegime  string    `json:"from_regime"`
	ToRegime    string    `json:"to_regime"`
	DrawdownPct float64   `json:"drawdown_pct"`
	EquityPct   float64   `json:"equity_pct"`
	ReservePct  float64   `json:"reserve_pct"`
	Triggers    []string  `json:"triggers_met"`
}
