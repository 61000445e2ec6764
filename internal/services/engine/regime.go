package engine

import (
	"fmt"

	"PortfolioOne/internal/domain/models"
)

// Thresholds configures regime classification. Drawdown bounds are percentages
// (negative); spread tiers are OAS percentage points.
type Thresholds struct {
	DrawdownB        float64 `yaml:"drawdown_b"`
	DrawdownC        float64 `yaml:"drawdown_c"`
	SpreadElevated   float64 `yaml:"spread_elevated"`
	SpreadExtreme    float64 `yaml:"spread_extreme"`
	VolatilityStress float64 `yaml:"volatility_stress"`
}

// DefaultThresholds returns the published three-regime trigger levels.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DrawdownB:        -20,
		DrawdownC:        -40,
		SpreadElevated:   2.5,
		SpreadExtreme:    4.5,
		VolatilityStress: 30,
	}
}

// Classify maps drawdown depth plus stress confirmations onto one of the three
// regimes. Stateless and total: any real drawdown with any combination of
// (possibly absent) indicators yields a regime. A breached drawdown bound with
// no stress confirmation stays in regime A; the confirmation separates genuine
// stress from an ordinary pullback.
//
// The volatility threshold serves as both the elevated and the extreme
// confirmation tier. That asymmetry with the two-tier credit spread is kept as
// observed in production behavior.
func Classify(drawdownPct float64, ind models.StressIndicators, th Thresholds) models.Regime {
	var triggers []string

	spreadElevated := false
	spreadExtreme := false
	if ind.CreditSpread != nil {
		switch s := *ind.CreditSpread; {
		case s >= th.SpreadExtreme:
			spreadExtreme = true
			spreadElevated = true
			triggers = append(triggers, fmt.Sprintf("Credit spread %.2f%% >= %.2f%% (extreme)", s, th.SpreadExtreme))
		case s >= th.SpreadElevated:
			spreadElevated = true
			triggers = append(triggers, fmt.Sprintf("Credit spread %.2f%% >= %.2f%% (elevated)", s, th.SpreadElevated))
		}
	}

	volStressed := ind.Volatility != nil && *ind.Volatility >= th.VolatilityStress
	if volStressed {
		triggers = append(triggers, fmt.Sprintf("VIX %.1f >= %.0f", *ind.Volatility, th.VolatilityStress))
	}

	stressConfirmed := spreadElevated || volStressed

	// C is tested first so a deep drawdown with an extreme confirmation is
	// never mis-classified as B. The volatility threshold doubles as the
	// extreme tier; an elevated-but-not-extreme spread does not.
	if drawdownPct <= th.DrawdownC && (spreadExtreme || volStressed) {
		triggers = prependTrigger(triggers, drawdownPct, th.DrawdownC)
		return regimeResult(models.RegimeC, "Escalation", 1.00, 0.00,
			"Full-scale market panic detected. Deploy ALL remaining reserves into equities. "+
				"Target allocation: 100% Equity / 0% Reserve.",
			drawdownPct, ind, triggers)
	}

	if drawdownPct <= th.DrawdownB && stressConfirmed {
		triggers = prependTrigger(triggers, drawdownPct, th.DrawdownB)
		return regimeResult(models.RegimeB, "Equity Scarcity", 0.90, 0.10,
			"Equity scarcity detected. Deploy 50% of the Investment Reserve into equities. "+
				"Target allocation: 90% Equity / 10% Reserve.",
			drawdownPct, ind, triggers)
	}

	if len(triggers) == 0 {
		triggers = []string{"No crisis triggers active"}
	}
	return regimeResult(models.RegimeA, "Normal", 0.80, 0.20,
		"Markets operating normally. Maintain standard allocation: 80% Equity / 20% Reserve. "+
			"Rebalance quarterly.",
		drawdownPct, ind, triggers)
}

func prependTrigger(triggers []string, drawdownPct, bound float64) []string {
	t := fmt.Sprintf("Drawdown %.1f%% <= %.0f%%", drawdownPct, bound)
	return append([]string{t}, triggers...)
}

func regimeResult(id, label string, equityPct, reservePct float64, description string,
	drawdownPct float64, ind models.StressIndicators, triggers []string) models.Regime {
	return models.Regime{
		ID:           id,
		Label:        label,
		Description:  description,
		EquityPct:    equityPct,
		ReservePct:   reservePct,
		DrawdownPct:  drawdownPct,
		Volatility:   ind.Volatility,
		CreditSpread: ind.CreditSpread,
		TriggersMet:  triggers,
	}
}
