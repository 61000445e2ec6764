package engine

import (
	"fmt"
	"math"

	"PortfolioOne/internal/domain/models"
)

const dateLayout = "2006-01-02"

// AnalyzeDrawdown computes the current decline from the running all-time high
// over a chronological close-price series, plus the deepest point (trough) of
// the full series. Each point's drawdown is measured against its own running
// ATH, not the final one; trough ties resolve to the earliest date.
func AnalyzeDrawdown(series []models.PricePoint) (models.DrawdownSnapshot, error) {
	var snap models.DrawdownSnapshot

	if len(series) < 2 {
		return snap, fmt.Errorf("%w: need at least 2 points, got %d", ErrInsufficientData, len(series))
	}
	for i, p := range series {
		if p.Close <= 0 || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return snap, fmt.Errorf("%w: %v at index %d", ErrInvalidPrice, p.Close, i)
		}
	}

	runningMax := series[0].Close
	athDate := series[0].Date

	troughDD := math.Inf(1)
	var troughPrice float64
	troughDate := series[0].Date

	for _, p := range series {
		if p.Close > runningMax {
			runningMax = p.Close
			athDate = p.Date
		}
		dd := (p.Close - runningMax) / runningMax
		// strict < keeps the earliest date on ties
		if dd < troughDD {
			troughDD = dd
			troughPrice = p.Close
			troughDate = p.Date
		}
	}

	last := series[len(series)-1]
	snap.CurrentPrice = last.Close
	snap.ATH = runningMax
	snap.ATHDate = athDate.Format(dateLayout)
	snap.DrawdownPct = (last.Close - runningMax) / runningMax * 100
	snap.TroughPrice = troughPrice
	snap.TroughDate = troughDate.Format(dateLayout)
	return snap, nil
}

// DrawdownSeries returns the per-point drawdown percentage against the running
// ATH for the whole series, used by the dashboard chart. The series must
// already have passed AnalyzeDrawdown validation.
func DrawdownSeries(series []models.PricePoint) []models.ChartPoint {
	out := make([]models.ChartPoint, 0, len(series))
	var runningMax float64
	for _, p := range series {
		if p.Close > runningMax {
			runningMax = p.Close
		}
		out = append(out, models.ChartPoint{
			Date:     p.Date.Format(dateLayout),
			Drawdown: round2((p.Close - runningMax) / runningMax * 100),
		})
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
