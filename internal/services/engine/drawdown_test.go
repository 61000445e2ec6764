package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"PortfolioOne/internal/domain/models"
)

func series(prices ...float64) []models.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, 0, len(prices))
	for i, p := range prices {
		out = append(out, models.PricePoint{Date: base.AddDate(0, 0, i), Close: p})
	}
	return out
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAnalyzeDrawdown_Basic(t *testing.T) {
	snap, err := AnalyzeDrawdown(series(100, 120, 150, 90, 95))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.ATH != 150 {
		t.Fatalf("ath = %v, want 150", snap.ATH)
	}
	if snap.CurrentPrice != 95 {
		t.Fatalf("current = %v, want 95", snap.CurrentPrice)
	}
	want := (95.0 - 150.0) / 150.0 * 100
	if !almostEqual(snap.DrawdownPct, want) {
		t.Fatalf("drawdown = %v, want %v", snap.DrawdownPct, want)
	}
	// trough is the deepest per-point drawdown (90 vs its running ATH of 150)
	if snap.TroughPrice != 90 {
		t.Fatalf("trough = %v, want 90", snap.TroughPrice)
	}
	if snap.TroughDate != "2024-01-04" {
		t.Fatalf("trough date = %q, want 2024-01-04", snap.TroughDate)
	}
	if snap.ATHDate != "2024-01-03" {
		t.Fatalf("ath date = %q, want 2024-01-03", snap.ATHDate)
	}
}

func TestAnalyzeDrawdown_AtHigh(t *testing.T) {
	snap, err := AnalyzeDrawdown(series(100, 110, 120))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.DrawdownPct != 0 {
		t.Fatalf("drawdown at ATH = %v, want 0", snap.DrawdownPct)
	}
	if snap.ATH != snap.CurrentPrice {
		t.Fatalf("ath %v should equal current %v", snap.ATH, snap.CurrentPrice)
	}
}

func TestAnalyzeDrawdown_TroughTieEarliestDate(t *testing.T) {
	// two points hit the same -50% drawdown; the earlier one wins
	snap, err := AnalyzeDrawdown(series(100, 50, 80, 50, 60))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TroughDate != "2024-01-02" {
		t.Fatalf("trough date = %q, want earliest 2024-01-02", snap.TroughDate)
	}
}

func TestAnalyzeDrawdown_TroughUsesRunningATH(t *testing.T) {
	// 90 after the 150 high is deeper (-40%) than 80 before it (-20% vs ATH 100)
	snap, err := AnalyzeDrawdown(series(100, 80, 150, 90, 140))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TroughPrice != 90 {
		t.Fatalf("trough = %v, want 90", snap.TroughPrice)
	}
}

func TestAnalyzeDrawdown_ATHNonDecreasing(t *testing.T) {
	prices := []float64{100, 95, 140, 120, 160, 90, 130}
	var prevATH float64
	for n := 2; n <= len(prices); n++ {
		snap, err := AnalyzeDrawdown(series(prices[:n]...))
		if err != nil {
			t.Fatalf("unexpected error at n=%d: %v", n, err)
		}
		if snap.ATH < prevATH {
			t.Fatalf("ath decreased from %v to %v at n=%d", prevATH, snap.ATH, n)
		}
		if snap.ATH < snap.CurrentPrice {
			t.Fatalf("ath %v below current %v at n=%d", snap.ATH, snap.CurrentPrice, n)
		}
		if snap.DrawdownPct > 0 {
			t.Fatalf("positive drawdown %v at n=%d", snap.DrawdownPct, n)
		}
		prevATH = snap.ATH
	}
}

func TestAnalyzeDrawdown_Errors(t *testing.T) {
	tests := []struct {
		name   string
		series []models.PricePoint
		want   error
	}{
		{"empty", nil, ErrInsufficientData},
		{"single point", series(100), ErrInsufficientData},
		{"zero price", series(100, 0), ErrInvalidPrice},
		{"negative price", series(100, -5), ErrInvalidPrice},
		{"nan price", series(100, math.NaN()), ErrInvalidPrice},
		{"inf price", series(100, math.Inf(1)), ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AnalyzeDrawdown(tt.series)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDrawdownSeries(t *testing.T) {
	pts := DrawdownSeries(series(100, 120, 90))
	if len(pts) != 3 {
		t.Fatalf("len = %d, want 3", len(pts))
	}
	if pts[0].Drawdown != 0 || pts[1].Drawdown != 0 {
		t.Fatalf("points at running high should be 0, got %v %v", pts[0].Drawdown, pts[1].Drawdown)
	}
	if pts[2].Drawdown != -25 {
		t.Fatalf("last drawdown = %v, want -25", pts[2].Drawdown)
	}
}
