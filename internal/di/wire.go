//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/sandeepkv93/catalog-service/internal/app"
	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/service"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		RuntimeInfraSet,
		RepositorySet,
		SecuritySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}

func InitializeMigrationRunner(cfg *config.Config) (*MigrationRunner, error) {
	panic(wire.Build(
		provideToolLogger,
		provideOpenDB,
		NewMigrationRunner,
	))
}

func InitializeSeedService(cfg *config.Config) (*service.SeedService, error) {
	panic(wire.Build(SeedSet))
}
