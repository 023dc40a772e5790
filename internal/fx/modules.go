package fx

import (
	"go.uber.org/fx"

	"sc2-rankings/internal/config"
	"sc2-rankings/internal/database"
	"sc2-rankings/internal/dataset"
	"sc2-rankings/internal/export"
	"sc2-rankings/internal/logger"
	"sc2-rankings/internal/service"
	"sc2-rankings/internal/store"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// stores
	fx.Provide(store.NewSeedStore),
	// collaborators
	fx.Provide(dataset.NewLoader),
	fx.Provide(export.NewExporter),
	// svc
	fx.Provide(service.NewRankingService),
)
