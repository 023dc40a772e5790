package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sc2-rankings/internal/config"
	"sc2-rankings/internal/dataset"
	"sc2-rankings/internal/domain"
	"sc2-rankings/internal/export"
	"sc2-rankings/internal/ordering"
	"sc2-rankings/internal/ranking"
	"sc2-rankings/internal/store"
)

// RankingService runs one full recalculation: load all datasets, order every
// match, fold the four drivers over the ordered list, and export the
// results. Recalculation is all-or-nothing; every run starts from empty
// state and replays the complete history.
type RankingService struct {
	loader    *dataset.Loader
	seedStore *store.SeedStore
	exporter  *export.Exporter
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewRankingService(loader *dataset.Loader, seedStore *store.SeedStore, exporter *export.Exporter, cfg *config.Config, logger zerolog.Logger) *RankingService {
	return &RankingService{
		loader:    loader,
		seedStore: seedStore,
		exporter:  exporter,
		cfg:       cfg,
		logger:    logger,
	}
}

// RunSummary reports what a recalculation covered. FailedDatasets > 0 means
// the rankings describe an incomplete world; callers decide whether that is
// acceptable.
type RunSummary struct {
	RunID           string
	Tournaments     int
	FailedDatasets  int
	Matches         int
	ExcludedMatches int
}

func (s *RankingService) Run(ctx context.Context) (*RunSummary, error) {
	runID := uuid.New().String()
	log := s.logger.With().Str("run_id", runID).Logger()

	report, err := s.loader.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}
	for _, failed := range report.Failed {
		log.Warn().Str("path", failed.Path).Err(failed.Err).Msg("rankings will not cover this dataset")
	}

	matches := dataset.Filter(report.Tournaments, s.cfg.Season, s.cfg.MainCircuitOnly)
	ordered := ordering.Sort(matches)
	log.Info().
		Int("tournaments", len(report.Tournaments)).
		Int("matches", len(ordered)).
		Msg("matches ordered")

	if err := s.runTeams(ctx, log, ordered); err != nil {
		return nil, err
	}
	if err := s.runPlayers(ctx, log, ordered); err != nil {
		return nil, err
	}
	if err := s.runRaces(log, ordered); err != nil {
		return nil, err
	}
	if err := s.runCombos(log, ordered); err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:           runID,
		Tournaments:     len(report.Tournaments),
		FailedDatasets:  len(report.Failed),
		Matches:         len(ordered),
		ExcludedMatches: report.ExcludedMatches,
	}
	log.Info().
		Int("matches", summary.Matches).
		Int("excluded_matches", summary.ExcludedMatches).
		Int("failed_datasets", summary.FailedDatasets).
		Msg("recalculation complete")
	return summary, nil
}

// seedCorpus selects the ordered subset of matches belonging to the
// configured seeding tournaments.
func (s *RankingService) seedCorpus(ordered []domain.Match) []domain.Match {
	if len(s.cfg.SeedingSlugs) == 0 {
		return nil
	}
	slugs := make(map[string]bool, len(s.cfg.SeedingSlugs))
	for _, slug := range s.cfg.SeedingSlugs {
		slugs[slug] = true
	}
	var corpus []domain.Match
	for _, m := range ordered {
		if slugs[m.TournamentSlug] {
			corpus = append(corpus, m)
		}
	}
	return corpus
}

// resolveSeeds computes fresh seeds from the configured corpus, persisting
// them for later runs, or falls back to previously stored seeds.
func (s *RankingService) resolveSeeds(ctx context.Context, log zerolog.Logger, kind string, ordered []domain.Match, newDriver func() ranking.Driver) (map[string]float64, error) {
	corpus := s.seedCorpus(ordered)
	if len(corpus) > 0 {
		seeds := ranking.ComputeSeeds(corpus, newDriver)
		log.Info().
			Str("driver", kind).
			Int("corpus_matches", len(corpus)).
			Int("seeded_entities", len(seeds)).
			Msg("seeds computed")
		if err := s.seedStore.Save(ctx, kind, seeds); err != nil {
			return nil, fmt.Errorf("failed to persist %s seeds: %w", kind, err)
		}
		return seeds, nil
	}

	seeds, err := s.seedStore.Load(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored %s seeds: %w", kind, err)
	}
	if len(seeds) > 0 {
		log.Info().Str("driver", kind).Int("seeded_entities", len(seeds)).Msg("using stored seeds")
	}
	return seeds, nil
}

func (s *RankingService) runTeams(ctx context.Context, log zerolog.Logger, ordered []domain.Match) error {
	seeds, err := s.resolveSeeds(ctx, log, "team", ordered, func() ranking.Driver {
		return ranking.NewTeamDriver(nil, log)
	})
	if err != nil {
		return err
	}

	driver := ranking.NewTeamDriver(seeds, log)
	for _, m := range ordered {
		driver.Process(m)
	}
	return s.exportDriver(log, driver)
}

func (s *RankingService) runPlayers(ctx context.Context, log zerolog.Logger, ordered []domain.Match) error {
	seeds, err := s.resolveSeeds(ctx, log, "player", ordered, func() ranking.Driver {
		return ranking.NewPlayerDriver(nil, log)
	})
	if err != nil {
		return err
	}

	driver := ranking.NewPlayerDriver(seeds, log)
	for _, m := range ordered {
		driver.Process(m)
	}
	return s.exportDriver(log, driver)
}

func (s *RankingService) runRaces(log zerolog.Logger, ordered []domain.Match) error {
	driver := ranking.NewRaceDriver(log)
	for _, m := range ordered {
		driver.Process(m)
	}
	if err := s.exportDriver(log, driver); err != nil {
		return err
	}
	// The combined per-race statistic rides along with the matchup run.
	if err := s.exporter.WriteRankings("race_combined", driver.CombinedRankings()); err != nil {
		return fmt.Errorf("failed to export combined race rankings: %w", err)
	}
	return nil
}

func (s *RankingService) runCombos(log zerolog.Logger, ordered []domain.Match) error {
	driver := ranking.NewComboDriver(log)
	for _, m := range ordered {
		driver.Process(m)
	}
	if err := s.exportDriver(log, driver); err != nil {
		return err
	}
	if err := s.exporter.WriteComboMatchups(driver.Matchups()); err != nil {
		return fmt.Errorf("failed to export composition matchups: %w", err)
	}
	return nil
}

func (s *RankingService) exportDriver(log zerolog.Logger, driver ranking.Driver) error {
	kind := driver.Kind()
	rankings := driver.Rankings()
	history := driver.History()

	if err := s.exporter.WriteRankings(kind, rankings); err != nil {
		return fmt.Errorf("failed to export %s rankings: %w", kind, err)
	}
	if err := s.exporter.WriteHistory(kind, history); err != nil {
		return fmt.Errorf("failed to export %s history: %w", kind, err)
	}

	log.Info().
		Str("driver", kind).
		Int("entities", len(rankings)).
		Int("history_entries", len(history)).
		Msg("driver run complete")
	return nil
}
