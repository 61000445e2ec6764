package repository

import (
	"context"
	"testing"

	"PortfolioOne/internal/domain/models"
	"PortfolioOne/pkg/cache"
)

func TestCacheWeightStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCacheWeightStore(cache.NewMemoryCache())

	// no override saved yet
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil before save, got %+v", got)
	}

	w := &models.WeightsRequest{
		EquityWeights:  map[string]float64{"north_america": 0.6, "europe": 0.4},
		ReserveWeights: map[string]float64{"cash": 1.0},
	}
	if err := store.Save(ctx, w); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.EquityWeights["north_america"] != 0.6 || got.ReserveWeights["cash"] != 1.0 {
		t.Fatalf("unexpected load result: %+v", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after clear, got %+v", got)
	}
}
