package engine

import (
	"fmt"
	"math"
	"sort"

	"PortfolioOne/internal/domain/models"
	"PortfolioOne/internal/universe"
)

// Allocate translates a regime's equity/reserve split, the sleeve weight tables
// and a portfolio value into concrete target positions, optionally diffed
// against current holdings. Pure and deterministic: identical inputs always
// produce identical output, and the supplied tables are never mutated.
func Allocate(
	reg models.Regime,
	equityWeights, reserveWeights models.WeightTable,
	portfolioValue float64,
	currentHoldings map[string]float64,
) (models.AllocationResult, error) {
	var res models.AllocationResult

	if portfolioValue < 0 || math.IsNaN(portfolioValue) || math.IsInf(portfolioValue, 0) {
		return res, fmt.Errorf("%w: %v", ErrInvalidPortfolioValue, portfolioValue)
	}
	if err := checkWeights(equityWeights); err != nil {
		return res, err
	}
	if err := checkWeights(reserveWeights); err != nil {
		return res, err
	}

	equityValue := portfolioValue * reg.EquityPct
	reserveValue := portfolioValue * reg.ReservePct

	positions := make([]models.Position, 0, len(equityWeights)+len(reserveWeights))
	positions = append(positions, sleevePositions(equityWeights, universe.EquityOrder, equityValue, currentHoldings)...)
	positions = append(positions, sleevePositions(reserveWeights, universe.ReserveOrder, reserveValue, currentHoldings)...)

	// Holdings with no target are reported as full liquidations, never dropped.
	if len(currentHoldings) > 0 {
		targeted := make(map[string]bool, len(positions))
		for _, p := range positions {
			targeted[p.Key] = true
		}
		var orphans []string
		for k := range currentHoldings {
			if !targeted[k] {
				orphans = append(orphans, k)
			}
		}
		sort.Strings(orphans)
		for _, k := range orphans {
			p := newPosition(k, 0, 0)
			p.CurrentValue = currentHoldings[k]
			p.TradeDelta = -currentHoldings[k]
			positions = append(positions, p)
		}
	}

	// Blended cost is weighted by each position's share of the WHOLE portfolio;
	// sleeve-relative weights alone would overstate it.
	var weightedER float64
	if portfolioValue > 0 {
		for _, p := range positions {
			weightedER += p.TargetValue / portfolioValue * p.ExpenseRatio
		}
	}

	res = models.AllocationResult{
		RegimeID:        reg.ID,
		PortfolioValue:  portfolioValue,
		EquityPct:       reg.EquityPct,
		ReservePct:      reg.ReservePct,
		EquityValue:     equityValue,
		ReserveValue:    reserveValue,
		Positions:       positions,
		SimplePositions: simplePositions(reg, portfolioValue),
		WeightedER:      round4(weightedER * 100),
	}

	if currentHoldings != nil {
		res.RebalanceNotes = rebalanceNotes(positions, portfolioValue)
	}
	return res, nil
}

func checkWeights(w models.WeightTable) error {
	for k, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v for %q", ErrInvalidWeights, v, k)
		}
	}
	return nil
}

// sleevePositions normalizes one sleeve's raw weights against their own total
// and scales them into the sleeve's monetary value. A zero total degrades to
// all-zero weights rather than an error.
func sleevePositions(weights models.WeightTable, canonical []string, sleeveValue float64, holdings map[string]float64) []models.Position {
	keys := orderedKeys(weights, canonical)
	sum := weights.Sum()

	out := make([]models.Position, 0, len(keys))
	for _, k := range keys {
		var share float64
		if sum > 0 {
			share = weights[k] / sum
		}
		p := newPosition(k, share, share*sleeveValue)
		if holdings != nil {
			p.CurrentValue = holdings[k]
			p.TradeDelta = p.TargetValue - p.CurrentValue
		}
		out = append(out, p)
	}
	return out
}

// orderedKeys returns the table's keys in canonical universe order, with any
// extra keys appended alphabetically, so output ordering is deterministic.
func orderedKeys(w models.WeightTable, canonical []string) []string {
	keys := make([]string, 0, len(w))
	seen := make(map[string]bool, len(w))
	for _, k := range canonical {
		if _, ok := w[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extra []string
	for k := range w {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func newPosition(key string, weight, value float64) models.Position {
	p := models.Position{Key: key, Name: key, TargetWeight: weight, TargetValue: value}
	if meta, ok := universe.Lookup(key); ok {
		p.Name = meta.Name
		p.ISIN = meta.ISIN
		p.Index = meta.Index
		p.ExpenseRatio = meta.ExpenseRatio
	}
	return p
}

// simplePositions computes the coarse 3-instrument view. It is an independent
// alternate model scaled by the regime split, not a subset-sum of the full
// breakdown. Weights here are shares of the whole portfolio.
func simplePositions(reg models.Regime, portfolioValue float64) []models.Position {
	smallCapW := 0.10 * (reg.EquityPct / 0.80)

	out := make([]models.Position, 0, len(universe.SimpleOrder))
	for _, key := range universe.SimpleOrder {
		leg, _ := universe.SimpleLookup(key)
		var w float64
		switch key {
		case universe.Cash:
			w = reg.ReservePct
		case universe.SmallCaps:
			w = smallCapW
		default:
			w = leg.BaseWeight * (reg.EquityPct / 0.80)
			if reg.ReservePct < 0.20 {
				// equity share left after the small-cap tilt
				w = reg.EquityPct - smallCapW
			}
		}
		out = append(out, models.Position{
			Key:          leg.Key,
			Name:         leg.Name,
			ISIN:         leg.ISIN,
			Index:        leg.Index,
			ExpenseRatio: leg.ExpenseRatio,
			TargetWeight: w,
			TargetValue:  portfolioValue * w,
		})
	}
	return out
}

// rebalanceNotes renders display strings for trades above 1% of portfolio value.
func rebalanceNotes(positions []models.Position, portfolioValue float64) []string {
	notes := make([]string, 0)
	for _, p := range positions {
		if math.Abs(p.TradeDelta) <= 0.01*portfolioValue {
			continue
		}
		direction := "BUY"
		if p.TradeDelta < 0 {
			direction = "SELL"
		}
		notes = append(notes, fmt.Sprintf("%s EUR %.0f of %s (%s)", direction, math.Abs(p.TradeDelta), p.Name, p.Key))
	}
	return notes
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
