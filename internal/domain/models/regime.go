package models

// Regime identifiers, rank-ordered by severity.
const (
	RegimeA = "A" // Normal
	RegimeB = "B" // Equity Scarcity
	RegimeC = "C" // Escalation
)

// Regime is the outcome of one stateless classification. Exactly one regime is
// active per evaluation; EquityPct+ReservePct is always 1.0.
type Regime struct {
	ID           string   `json:"regime_id"`
	Label        string   `json:"label"`
	Description  string   `json:"description"`
	EquityPct    float64  `json:"equity_pct"`
	ReservePct   float64  `json:"reserve_pct"`
	DrawdownPct  float64  `json:"drawdown_pct"`
	Volatility   *float64 `json:"volatility,omitempty"`
	CreditSpread *float64 `json:"credit_spread,omitempty"`
	TriggersMet  []string `json:"triggers_met"`
}

// RecoveryState tracks rally progress from the trough back toward the normal
// regime. ProgressToA is nil until the C->B checkpoint price has been reached,
// so callers can tell "not yet started" from "started at 0%".
type RecoveryState struct {
	TroughPrice  float64  `json:"trough_price"`
	CurrentPrice float64  `json:"current_price"`
	CToBPrice    float64  `json:"c_to_b_price"`
	BToAPrice    float64  `json:"b_to_a_price"`
	ProgressToB  float64  `json:"progress_to_b"`
	ProgressToA  *float64 `json:"progress_to_a,omitempty"`
}
