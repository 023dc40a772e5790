package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	fxmodules "sc2-rankings/internal/fx"
	"sc2-rankings/internal/service"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runRankings),
	).Run()
}

// runRankings performs one full recalculation and shuts the app down. A
// failed run exits non-zero; partial results are never left behind as if
// they were a complete ranking.
func runRankings(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	svc *service.RankingService,
	db *sql.DB,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				summary, err := svc.Run(context.Background())
				if err != nil {
					logger.Error().Err(err).Msg("ranking run failed")
					shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				logger.Info().
					Str("run_id", summary.RunID).
					Int("tournaments", summary.Tournaments).
					Int("matches", summary.Matches).
					Int("failed_datasets", summary.FailedDatasets).
					Msg("ranking run completed")
				shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing seed database")
			}
			return nil
		},
	})
}
