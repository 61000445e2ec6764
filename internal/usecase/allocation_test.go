package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioOne/internal/domain/models"
	internalrepo "PortfolioOne/internal/repository"
	"PortfolioOne/internal/services/engine"
	"PortfolioOne/pkg/cache"
	applogger "PortfolioOne/pkg/logger"
)

func newAllocationUsecase(t *testing.T) *AllocationUsecase {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	store := internalrepo.NewCacheWeightStore(cache.NewMemoryCache())
	return NewAllocationUsecase(log, nil, store, engine.DefaultThresholds())
}

func TestSimulate_RegimeAndAllocation(t *testing.T) {
	u := newAllocationUsecase(t)
	ctx := context.Background()

	vol := 35.0
	sim, err := u.Simulate(ctx, &models.SimulateRequest{
		DrawdownPct:    -46.67,
		Volatility:     &vol,
		PortfolioValue: 100000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegimeC, sim.Regime.ID)
	assert.Equal(t, models.RegimeC, sim.Allocation.RegimeID)
	assert.InDelta(t, 100000, sim.Allocation.EquityValue, 1e-9)
	assert.InDelta(t, 0, sim.Allocation.ReserveValue, 1e-9)
}

func TestSimulate_DefaultWeightsWhenNoneSupplied(t *testing.T) {
	u := newAllocationUsecase(t)

	sim, err := u.Simulate(context.Background(), &models.SimulateRequest{
		DrawdownPct:    -5,
		PortfolioValue: 100000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegimeA, sim.Regime.ID)
	// default universe: 6 equity + 4 reserve positions
	assert.Len(t, sim.Allocation.Positions, 10)
}

func TestSimulate_SavedOverridesApply(t *testing.T) {
	u := newAllocationUsecase(t)
	ctx := context.Background()

	require.NoError(t, u.SaveWeights(ctx, &models.WeightsRequest{
		EquityWeights: map[string]float64{"north_america": 1.0},
	}))

	sim, err := u.Simulate(ctx, &models.SimulateRequest{
		DrawdownPct:    -5,
		PortfolioValue: 100000,
	})
	require.NoError(t, err)

	// single equity position takes the whole equity sleeve
	var naValue float64
	equityCount := 0
	for _, p := range sim.Allocation.Positions {
		if p.Key == "north_america" {
			naValue = p.TargetValue
		}
		if p.Key != "inflation_linked" && p.Key != "money_market" && p.Key != "gold" && p.Key != "cash" {
			equityCount++
		}
	}
	assert.Equal(t, 1, equityCount)
	assert.InDelta(t, 80000, naValue, 1e-9)
}

func TestSimulate_RequestWeightsBeatSaved(t *testing.T) {
	u := newAllocationUsecase(t)
	ctx := context.Background()

	require.NoError(t, u.SaveWeights(ctx, &models.WeightsRequest{
		EquityWeights: map[string]float64{"north_america": 1.0},
	}))

	sim, err := u.Simulate(ctx, &models.SimulateRequest{
		DrawdownPct:    -5,
		PortfolioValue: 100000,
		EquityWeights:  map[string]float64{"europe": 1.0},
	})
	require.NoError(t, err)
	for _, p := range sim.Allocation.Positions {
		if p.Key == "europe" {
			assert.InDelta(t, 80000, p.TargetValue, 1e-9)
		}
		assert.NotEqual(t, "north_america", p.Key)
	}
}

func TestSimulate_InvalidWeightsRejected(t *testing.T) {
	u := newAllocationUsecase(t)

	_, err := u.Simulate(context.Background(), &models.SimulateRequest{
		DrawdownPct:    -5,
		PortfolioValue: 100000,
		EquityWeights:  map[string]float64{"not_a_fund": 1.0},
	})
	require.ErrorIs(t, err, engine.ErrInvalidWeights)

	// reserve tables must sum to 1
	_, err = u.Simulate(context.Background(), &models.SimulateRequest{
		DrawdownPct:    -5,
		PortfolioValue: 100000,
		ReserveWeights: map[string]float64{"cash": 0.5},
	})
	require.ErrorIs(t, err, engine.ErrInvalidWeights)
}

func TestSaveWeights_Validation(t *testing.T) {
	u := newAllocationUsecase(t)
	ctx := context.Background()

	assert.ErrorIs(t, u.SaveWeights(ctx, &models.WeightsRequest{}), engine.ErrInvalidWeights)
	assert.ErrorIs(t, u.SaveWeights(ctx, &models.WeightsRequest{
		EquityWeights: map[string]float64{"bogus": 1.0},
	}), engine.ErrInvalidWeights)
	assert.ErrorIs(t, u.SaveWeights(ctx, &models.WeightsRequest{
		ReserveWeights: map[string]float64{"cash": 0.7},
	}), engine.ErrInvalidWeights)
}

func TestReference_ReflectsOverrides(t *testing.T) {
	u := newAllocationUsecase(t)
	ctx := context.Background()

	ref, err := u.Reference(ctx)
	require.NoError(t, err)
	assert.False(t, ref.HasSavedDefaults)
	assert.Len(t, ref.Instruments, 10)
	assert.Len(t, ref.SimpleModel, 3)

	require.NoError(t, u.SaveWeights(ctx, &models.WeightsRequest{
		EquityWeights: map[string]float64{"japan": 1.0},
	}))

	ref, err = u.Reference(ctx)
	require.NoError(t, err)
	assert.True(t, ref.HasSavedDefaults)
	assert.Equal(t, models.WeightTable{"japan": 1.0}, ref.EquityWeights)
	// untouched sleeve keeps the shipped defaults
	assert.InDelta(t, 1.0, ref.ReserveWeights.Sum(), 1e-9)

	require.NoError(t, u.ClearWeights(ctx))
	ref, err = u.Reference(ctx)
	require.NoError(t, err)
	assert.False(t, ref.HasSavedDefaults)
}
