package engine

import (
	"fmt"
	"math"

	"PortfolioOne/internal/domain/models"
)

// Rally multipliers for the two de-escalation checkpoints.
const (
	recoveryCToBRally = 0.50 // +50% from trough
	recoveryBToARally = 0.25 // additional +25% beyond the C->B level
)

// Recovery computes the two de-escalation price checkpoints from the trough and
// the 0-100% progress toward each. ProgressToA stays nil until the current
// price has reached the C->B checkpoint. Recovery is informational only; it
// never drives the classifier, and the two signals may disagree transiently.
func Recovery(troughPrice, currentPrice float64) (models.RecoveryState, error) {
	var st models.RecoveryState

	if troughPrice <= 0 || math.IsNaN(troughPrice) || math.IsInf(troughPrice, 0) {
		return st, fmt.Errorf("%w: trough %v", ErrInvalidPrice, troughPrice)
	}

	cToB := troughPrice * (1 + recoveryCToBRally)
	bToA := cToB * (1 + recoveryBToARally)

	st.TroughPrice = troughPrice
	st.CurrentPrice = currentPrice
	st.CToBPrice = cToB
	st.BToAPrice = bToA
	st.ProgressToB = clampPct((currentPrice - troughPrice) / (cToB - troughPrice) * 100)

	if currentPrice >= cToB {
		p := clampPct((currentPrice - cToB) / (bToA - cToB) * 100)
		st.ProgressToA = &p
	}
	return st, nil
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
