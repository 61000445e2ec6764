package usecase

import (
	"context"
	"fmt"

	"PortfolioOne/internal/domain/models"
	drepo "PortfolioOne/internal/domain/repository"
	"PortfolioOne/internal/service/marketdata"
	"PortfolioOne/internal/services/engine"
	"PortfolioOne/internal/universe"
	applogger "PortfolioOne/pkg/logger"
)

// AllocationUsecase resolves effective weight tables and runs the allocation
// calculator, either against the live regime or a simulated one.
//
// Weight precedence per sleeve: request body > saved override > shipped default.
type AllocationUsecase struct {
	log    *applogger.Logger
	market *marketdata.Service
	store  drepo.WeightStore
	th     engine.Thresholds
}

// NewAllocationUsecase creates the allocation usecase.
func NewAllocationUsecase(log *applogger.Logger, market *marketdata.Service, store drepo.WeightStore, th engine.Thresholds) *AllocationUsecase {
	return &AllocationUsecase{log: log, market: market, store: store, th: th}
}

// AllocateLive classifies the current market and allocates under that regime.
func (u *AllocationUsecase) AllocateLive(ctx context.Context, req *models.AllocateRequest) (*models.AllocationResult, error) {
	md, err := u.market.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	reg := engine.Classify(md.Drawdown.DrawdownPct, md.Indicators(), u.th)

	eq, rw, err := u.effectiveWeights(ctx, req.EquityWeights, req.ReserveWeights)
	if err != nil {
		return nil, err
	}

	res, err := engine.Allocate(reg, eq, rw, req.PortfolioValue, req.CurrentHoldings)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Simulate evaluates a hypothetical market state without touching upstreams.
func (u *AllocationUsecase) Simulate(ctx context.Context, req *models.SimulateRequest) (*models.Simulation, error) {
	reg := engine.Classify(req.DrawdownPct, req.Indicators(), u.th)

	eq, rw, err := u.effectiveWeights(ctx, req.EquityWeights, req.ReserveWeights)
	if err != nil {
		return nil, err
	}

	res, err := engine.Allocate(reg, eq, rw, req.PortfolioValue, nil)
	if err != nil {
		return nil, err
	}
	return &models.Simulation{Regime: reg, Allocation: res}, nil
}

// Reference returns the effective weight tables alongside the shipped defaults
// and the instrument metadata.
func (u *AllocationUsecase) Reference(ctx context.Context) (*models.Reference, error) {
	saved, err := u.store.Load(ctx)
	if err != nil {
		u.log.Warn("weight override load failed", applogger.Error(err))
		saved = nil
	}

	ref := &models.Reference{
		EquityWeights:         universe.DefaultEquityWeights(),
		ReserveWeights:        universe.DefaultReserveWeights(),
		DefaultEquityWeights:  universe.DefaultEquityWeights(),
		DefaultReserveWeights: universe.DefaultReserveWeights(),
		Instruments:           make(map[string]models.InstrumentMeta),
		SimpleModel:           make(map[string]models.SimpleModelLeg),
	}
	if saved != nil {
		ref.HasSavedDefaults = true
		if len(saved.EquityWeights) > 0 {
			ref.EquityWeights = saved.EquityWeights
		}
		if len(saved.ReserveWeights) > 0 {
			ref.ReserveWeights = saved.ReserveWeights
		}
	}

	for k, m := range universe.Instruments() {
		ref.Instruments[k] = models.InstrumentMeta{
			Name:         m.Name,
			ISIN:         m.ISIN,
			Ticker:       m.Ticker,
			Index:        m.Index,
			ExpenseRatio: m.ExpenseRatio,
		}
	}
	for k, m := range universe.SimpleModel() {
		ref.SimpleModel[k] = models.SimpleModelLeg{Name: m.Name, BaseWeight: m.BaseWeight}
	}
	return ref, nil
}

// SaveWeights validates and persists weight overrides. At least one table must
// be present.
func (u *AllocationUsecase) SaveWeights(ctx context.Context, req *models.WeightsRequest) error {
	if len(req.EquityWeights) == 0 && len(req.ReserveWeights) == 0 {
		return fmt.Errorf("%w: no weight tables supplied", engine.ErrInvalidWeights)
	}
	if len(req.EquityWeights) > 0 {
		if err := universe.ValidateWeights(req.EquityWeights, false); err != nil {
			return fmt.Errorf("%w: %v", engine.ErrInvalidWeights, err)
		}
	}
	if len(req.ReserveWeights) > 0 {
		if err := universe.ValidateWeights(req.ReserveWeights, true); err != nil {
			return fmt.Errorf("%w: %v", engine.ErrInvalidWeights, err)
		}
	}
	return u.store.Save(ctx, req)
}

// ClearWeights removes saved overrides, reverting to shipped defaults.
func (u *AllocationUsecase) ClearWeights(ctx context.Context) error {
	return u.store.Clear(ctx)
}

// effectiveWeights resolves each sleeve independently. Request-supplied tables
// are validated against the closed instrument set; saved overrides were
// validated when stored.
func (u *AllocationUsecase) effectiveWeights(ctx context.Context, reqEq, reqRes map[string]float64) (models.WeightTable, models.WeightTable, error) {
	var saved *models.WeightsRequest
	if len(reqEq) == 0 || len(reqRes) == 0 {
		var err error
		saved, err = u.store.Load(ctx)
		if err != nil {
			u.log.Warn("weight override load failed", applogger.Error(err))
		}
	}

	eq := universe.DefaultEquityWeights()
	switch {
	case len(reqEq) > 0:
		if err := universe.ValidateWeights(reqEq, false); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", engine.ErrInvalidWeights, err)
		}
		eq = models.WeightTable(reqEq).Clone()
	case saved != nil && len(saved.EquityWeights) > 0:
		eq = models.WeightTable(saved.EquityWeights).Clone()
	}

	rw := universe.DefaultReserveWeights()
	switch {
	case len(reqRes) > 0:
		if err := universe.ValidateWeights(reqRes, true); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", engine.ErrInvalidWeights, err)
		}
		rw = models.WeightTable(reqRes).Clone()
	case saved != nil && len(saved.ReserveWeights) > 0:
		rw = models.WeightTable(saved.ReserveWeights).Clone()
	}

	return eq, rw, nil
}
