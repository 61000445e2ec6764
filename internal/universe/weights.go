package universe

import (
	"fmt"
	"math"

	"PortfolioOne/internal/domain/models"
)

// Default regional equity weights (share of the equity sleeve, equal-value
// methodology as of July 2025). Not required to sum to 1; normalized at use time.
func DefaultEquityWeights() models.WeightTable {
	return models.WeightTable{
		NorthAmerica:    0.4848,
		Europe:          0.1615,
		EmergingMarkets: 0.0814,
		SmallCaps:       0.0777,
		Japan:           0.0587,
		PacificExJapan:  0.0175,
	}
}

// Default reserve composition (share of the reserve sleeve). Must sum to 1.
func DefaultReserveWeights() models.WeightTable {
	return models.WeightTable{
		InflationLinked: 0.50,
		MoneyMarket:     0.40,
		Gold:            0.05,
		Cash:            0.05,
	}
}

// ValidateWeights checks a weight table against the closed instrument set and,
// for reserve tables, the sum-to-one invariant.
func ValidateWeights(w models.WeightTable, reserve bool) error {
	for k, v := range w {
		if _, ok := instruments[k]; !ok {
			return fmt.Errorf("universe: unknown instrument key %q", k)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("universe: invalid weight %v for %q", v, k)
		}
	}
	if reserve {
		if s := w.Sum(); math.Abs(s-1.0) > 1e-9 {
			return fmt.Errorf("universe: reserve weights sum to %v, want 1.0", s)
		}
	}
	return nil
}
