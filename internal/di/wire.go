//go:build wireinject
// +build wireinject

package di

import (
	"MarketLens/pkg/config"
	"MarketLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp builds the application graph.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideProvider,
		ProvideLimiter,
		ProvideMarketData,
		ProvideHandler,
		ProvideServer,
		ProvideRunners,
		ProvideApp,
	)
	return nil, nil
}
