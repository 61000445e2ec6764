package usecase

import (
	"context"

	"PortfolioOne/internal/domain/models"
	"PortfolioOne/internal/service/marketdata"
	"PortfolioOne/internal/services/engine"
	applogger "PortfolioOne/pkg/logger"
)

// DashboardUsecase assembles the full evaluation snapshot: live market data,
// the classified regime, and recovery progress.
type DashboardUsecase struct {
	log    *applogger.Logger
	market *marketdata.Service
	th     engine.Thresholds
}

// NewDashboardUsecase creates the dashboard usecase.
func NewDashboardUsecase(log *applogger.Logger, market *marketdata.Service, th engine.Thresholds) *DashboardUsecase {
	return &DashboardUsecase{log: log, market: market, th: th}
}

// Build fetches market data and runs the full evaluation pipeline.
func (u *DashboardUsecase) Build(ctx context.Context) (*models.Dashboard, error) {
	md, err := u.market.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	reg := engine.Classify(md.Drawdown.DrawdownPct, md.Indicators(), u.th)

	dash := &models.Dashboard{Market: md, Regime: reg}
	rec, err := engine.Recovery(md.Drawdown.TroughPrice, md.Drawdown.CurrentPrice)
	if err != nil {
		// informational section only; the dashboard stays useful without it
		u.log.Warn("recovery computation failed", applogger.Error(err))
	} else {
		dash.Recovery = &rec
	}
	return dash, nil
}
