// Package dataset loads the scraper's tournament JSON files and applies the
// season/main-circuit pre-filters. Loading many independent files is the one
// place parallelism is allowed: it completes fully, and merges into a single
// ordered sequence, before any rating computation begins.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"sc2-rankings/internal/config"
	"sc2-rankings/internal/constants"
	"sc2-rankings/internal/domain"
)

// Wire format of one scraped tournament file.
type tournamentFile struct {
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	StartDate   string        `json:"start_date"`
	Season      string        `json:"season"`
	MainCircuit bool          `json:"main_circuit"`
	Matches     []matchRecord `json:"matches"`
}

type matchRecord struct {
	MatchID    string         `json:"match_id"`
	Stage      string         `json:"stage"`
	Team1      []playerRecord `json:"team1"`
	Team2      []playerRecord `json:"team2"`
	Team1Score *int           `json:"team1_score"`
	Team2Score *int           `json:"team2_score"`
	BestOf     int            `json:"best_of"`
	Date       string         `json:"date"`
	Games      []gameRecord   `json:"games"`
}

type playerRecord struct {
	Name string `json:"name"`
	Race string `json:"race"`
}

type gameRecord struct {
	Number  int    `json:"game_number"`
	MapName string `json:"map_name"`
	Winner  int    `json:"winner"`
}

// DatasetError is a dataset that failed to load. The failure is fatal to
// that dataset only, but must be surfaced so a ranking over an incomplete
// world is never produced silently.
type DatasetError struct {
	Path string
	Err  error
}

// LoadReport is the outcome of loading one data directory.
type LoadReport struct {
	Tournaments []domain.Tournament
	Failed      []DatasetError
	// ExcludedMatches counts matches dropped for missing scores.
	ExcludedMatches int
}

type Loader struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func NewLoader(cfg *config.Config, logger zerolog.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logger}
}

// LoadAll reads every *.json file under the data directory concurrently.
func (l *Loader) LoadAll(ctx context.Context) (*LoadReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.LoadTimeout)
	defer cancel()

	paths, err := filepath.Glob(filepath.Join(l.cfg.DataDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no tournament files found in %s", l.cfg.DataDir)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.LoaderConcurrency)

	var mu sync.Mutex
	report := &LoadReport{}

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			t, excluded, err := l.loadFile(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.logger.Error().Err(err).Str("path", path).Msg("failed to load tournament dataset")
				report.Failed = append(report.Failed, DatasetError{Path: path, Err: err})
				return nil
			}
			report.Tournaments = append(report.Tournaments, *t)
			report.ExcludedMatches += excluded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dataset loading aborted: %w", err)
	}

	// Deterministic report order regardless of goroutine completion order.
	sort.Slice(report.Tournaments, func(i, j int) bool {
		return report.Tournaments[i].Slug < report.Tournaments[j].Slug
	})
	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].Path < report.Failed[j].Path
	})

	l.logger.Info().
		Int("tournaments", len(report.Tournaments)).
		Int("failed", len(report.Failed)).
		Int("excluded_matches", report.ExcludedMatches).
		Msg("tournament datasets loaded")
	return report, nil
}

func (l *Loader) loadFile(path string) (*domain.Tournament, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}

	var file tournamentFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, 0, fmt.Errorf("failed to parse tournament JSON: %w", err)
	}

	slug := file.Slug
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	t := &domain.Tournament{
		Name:        file.Name,
		Slug:        slug,
		Date:        parseDate(file.StartDate),
		Season:      file.Season,
		MainCircuit: file.MainCircuit,
	}

	excluded := 0
	for _, rec := range file.Matches {
		if rec.Team1Score == nil || rec.Team2Score == nil {
			// Excluded input, not an error: a match with unset scores
			// never reaches the engine.
			excluded++
			continue
		}
		t.Matches = append(t.Matches, toDomain(rec, t))
	}

	l.logger.Debug().
		Str("slug", slug).
		Int("matches", len(t.Matches)).
		Int("excluded", excluded).
		Msg("tournament file parsed")
	return t, excluded, nil
}

func toDomain(rec matchRecord, t *domain.Tournament) domain.Match {
	m := domain.Match{
		MatchID:        rec.MatchID,
		Stage:          rec.Stage,
		Team1Score:     rec.Team1Score,
		Team2Score:     rec.Team2Score,
		BestOf:         rec.BestOf,
		Date:           parseDate(rec.Date),
		TournamentSlug: t.Slug,
		TournamentDate: t.Date,
	}
	for _, p := range rec.Team1 {
		m.Team1 = append(m.Team1, domain.PlayerRef{Name: p.Name, Race: p.Race})
	}
	for _, p := range rec.Team2 {
		m.Team2 = append(m.Team2, domain.PlayerRef{Name: p.Name, Race: p.Race})
	}
	for _, g := range rec.Games {
		m.Games = append(m.Games, domain.Game{Number: g.Number, MapName: g.MapName, Winner: g.Winner})
	}
	return m
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "January 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Filter flattens the loaded tournaments into one match list, applying the
// season and main-circuit pre-filters. Filtering decides only which matches
// are fed in; the engine itself never looks at these fields.
func Filter(tournaments []domain.Tournament, season string, mainCircuitOnly bool) []domain.Match {
	var matches []domain.Match
	for _, t := range tournaments {
		if season != "" && t.Season != season {
			continue
		}
		if mainCircuitOnly && !t.MainCircuit {
			continue
		}
		matches = append(matches, t.Matches...)
	}
	return matches
}
