package models

// Dashboard is the full evaluation snapshot served to the UI.
type Dashboard struct {
	Market   *MarketData    `json:"market"`
	Regime   Regime         `json:"regime"`
	Recovery *RecoveryState `json:"recovery,omitempty"`
}

// Simulation is the what-if evaluation result: the regime the supplied inputs
// would produce and the allocation under it.
type Simulation struct {
	Regime     Regime           `json:"regime"`
	Allocation AllocationResult `json:"allocation"`
}

// Reference is the static configuration view: effective and shipped weight
// tables, instrument metadata, and the simplified model.
type Reference struct {
	EquityWeights         WeightTable               `json:"equity_weights"`
	ReserveWeights        WeightTable               `json:"reserve_weights"`
	DefaultEquityWeights  WeightTable               `json:"default_equity_weights"`
	DefaultReserveWeights WeightTable               `json:"default_reserve_weights"`
	Instruments           map[string]InstrumentMeta `json:"instruments"`
	SimpleModel           map[string]SimpleModelLeg `json:"simple_model"`
	HasSavedDefaults      bool                      `json:"has_saved_defaults"`
}

// InstrumentMeta mirrors universe metadata for the reference endpoint.
type InstrumentMeta struct {
	Name         string  `json:"name"`
	ISIN         string  `json:"isin"`
	Ticker       string  `json:"ticker"`
	Index        string  `json:"index"`
	ExpenseRatio float64 `json:"expense_ratio"`
}

// SimpleModelLeg is one leg of the simplified three-instrument model.
type SimpleModelLeg struct {
	Name       string  `json:"name"`
	BaseWeight float64 `json:"base_weight"`
}
