//go:build wireinject
// +build wireinject

package di

import (
	"PortfolioOne/pkg/config"
	"PortfolioOne/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideThresholds,
		ProvideClock,

		// Market data pipeline
		ProvideMarketDataService,
		ProvideMarketStream,

		// Optional infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideEvaluationHistory,
		ProvideRegimePublisher,
		ProvideWeightStore,

		// Use cases
		ProvideDashboardUsecase,
		ProvideAllocationUsecase,
		ProvideMonitor,

		// HTTP and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
