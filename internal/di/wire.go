//go:build wireinject
// +build wireinject

package di

import (
	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/internal/services/strategy"
	"FinSignal/internal/usecase"
	"FinSignal/pkg/config"
	"FinSignal/pkg/metrics"
	"FinSignal/pkg/server"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	wire.Bind(new(domrepo.Metrics), new(*metrics.Recorder)),
	ProvideCache,
)

var providerSet = wire.NewSet(
	ProvideCandleProvider,
	ProvideSentimentProvider,
)

var signalsSet = wire.NewSet(
	ProvideStrategyRegistry,
	wire.Bind(new(usecase.StrategyRegistry), new(*strategy.Registry)),
	ProvideAggregator,
	ProvideHub,
	ProvidePublishers,
	ProvideSignalsUseCase,
	ProvideRefresher,
)

var httpSet = wire.NewSet(
	ProvideRefreshLimiter,
	ProvideSignalsHandler,
	ProvideHTTPServer,
)

// InitializeApp wires up all dependencies and returns the application.
// The returned cleanup releases publishers, caches and database clients.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		infraSet,
		providerSet,
		signalsSet,
		httpSet,
		ProvideApp,
	)
	return nil, nil, nil
}
