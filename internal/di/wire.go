//go:build wireinject
// +build wireinject

package di

import (
	"github.com/skymike/crypto-risk-dashboard/pkg/config"
	"github.com/skymike/crypto-risk-dashboard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up the API server.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvidePostgresClient,
		ProvideStore,
		ProvideCache,
		ProvideVerdictCache,
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeWorker wires up the one-shot pipeline worker.
func InitializeWorker(cfg *config.Config) (*server.Worker, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvidePostgresClient,
		ProvideStore,
		ProvideCache,
		ProvideVerdictCache,
		ProvidePublisher,
		ProvideSources,
		ProvideIngestor,
		ProvideEngine,
		ProvideWorker,
	)
	return &server.Worker{}, nil
}
