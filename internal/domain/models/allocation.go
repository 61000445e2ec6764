package models

// WeightTable maps instrument key to raw weight. Raw weights are non-negative;
// they are normalized within their sleeve at allocation time and never mutated.
type WeightTable map[string]float64

// Clone returns an independent copy of the table.
func (w WeightTable) Clone() WeightTable {
	out := make(WeightTable, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Sum returns the total raw weight.
func (w WeightTable) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Position is one target holding produced by an allocation call.
type Position struct {
	Key          string  `json:"instrument_key"`
	Name         string  `json:"name"`
	ISIN         string  `json:"isin"`
	Index        string  `json:"index"`
	ExpenseRatio float64 `json:"expense_ratio"`
	TargetWeight float64 `json:"target_weight"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value"`
	TradeDelta   float64 `json:"trade_delta"`
}

// AllocationResult is the full output of one allocation call: the 10-instrument
// breakdown, the simplified 3-instrument view and the blended cost estimate.
type AllocationResult struct {
	RegimeID        string     `json:"regime_id"`
	PortfolioValue  float64    `json:"portfolio_value"`
	EquityPct       float64    `json:"equity_pct"`
	ReservePct      float64    `json:"reserve_pct"`
	EquityValue     float64    `json:"equity_value"`
	ReserveValue    float64    `json:"reserve_value"`
	Positions       []Position `json:"positions"`
	SimplePositions []Position `json:"simple_positions"`
	WeightedER      float64    `json:"weighted_expense_ratio"`
	RebalanceNotes  []string   `json:"rebalance_actions,omitempty"`
}
