package models

// Requests for the allocation HTTP endpoints. Defined in domain for consistency and reuse.

type AllocateRequest struct {
	PortfolioValue  float64            `json:"portfolio_value" default:"100000" validate:"gte=0"`
	CurrentHoldings map[string]float64 `json:"current_holdings"`
	EquityWeights   map[string]float64 `json:"equity_weights"`
	ReserveWeights  map[string]float64 `json:"reserve_weights"`
}

type SimulateRequest struct {
	DrawdownPct    float64            `json:"drawdown_pct"`
	CreditSpread   *float64           `json:"credit_spread"`
	Volatility     *float64           `json:"vix"`
	PortfolioValue float64            `json:"portfolio_value" default:"100000" validate:"gte=0"`
	EquityWeights  map[string]float64 `json:"equity_weights"`
	ReserveWeights map[string]float64 `json:"reserve_weights"`
}

// WeightsRequest persists custom default weight tables. At least one table must
// be supplied; handler enforces that since validator cannot express either-or.
type WeightsRequest struct {
	EquityWeights  map[string]float64 `json:"equity_weights"`
	ReserveWeights map[string]float64 `json:"reserve_weights"`
}

func (r *SimulateRequest) Indicators() StressIndicators {
	return StressIndicators{Volatility: r.Volatility, CreditSpread: r.CreditSpread}
}
