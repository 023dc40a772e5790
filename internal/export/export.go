// Package export writes the final rankings and match histories as JSON for
// the persistence/API collaborators downstream.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"sc2-rankings/internal/config"
	"sc2-rankings/internal/ranking"
	"sc2-rankings/internal/rating"
)

type Exporter struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func NewExporter(cfg *config.Config, logger zerolog.Logger) *Exporter {
	return &Exporter{cfg: cfg, logger: logger}
}

type rankingRow struct {
	Rank       int      `json:"rank"`
	Key        string   `json:"key"`
	Players    []string `json:"players,omitempty"`
	Matches    int      `json:"matches"`
	Wins       int      `json:"wins"`
	Losses     int      `json:"losses"`
	Draws      int      `json:"draws"`
	Points     float64  `json:"points"`
	Confidence float64  `json:"confidence"`
	Seeded     bool     `json:"is_seeded"`
	// Established marks rows whose confidence cleared the configured
	// fraction of the population's average confidence.
	Established bool `json:"established"`
}

type historyRow struct {
	ID             string               `json:"id"`
	MatchID        string               `json:"match_id"`
	TournamentSlug string               `json:"tournament_slug"`
	Stage          string               `json:"stage"`
	Date           *time.Time           `json:"date,omitempty"`
	Team1          []string             `json:"team1"`
	Team2          []string             `json:"team2"`
	Team1Score     int                  `json:"team1_score"`
	Team2Score     int                  `json:"team2_score"`
	Impacts        map[string]impactRow `json:"impacts"`
}

type impactRow struct {
	RatingBefore   float64   `json:"rating_before"`
	RatingChange   float64   `json:"rating_change"`
	Won            bool      `json:"won"`
	Lost           bool      `json:"lost"`
	Draw           bool      `json:"draw"`
	OpponentRating float64   `json:"opponent_rating"`
	Detail         detailRow `json:"calculation"`
}

type detailRow struct {
	ExpectedWin          float64 `json:"expected_win"`
	BaseK                float64 `json:"base_k"`
	AdjustedK            float64 `json:"adjusted_k"`
	ConfidenceMultiplier float64 `json:"confidence_multiplier"`
	Confidence           float64 `json:"confidence"`
	OpponentConfidence   float64 `json:"opponent_confidence"`
	MatchCount           int     `json:"match_count"`
	OpponentMatchCount   *int    `json:"opponent_match_count,omitempty"`
	PopulationStdDev     float64 `json:"population_stddev"`
}

// WriteRankings writes rankings_<kind>.json in canonical order.
func (e *Exporter) WriteRankings(kind string, states []rating.State) error {
	threshold := e.establishedThreshold(states)

	rows := make([]rankingRow, 0, len(states))
	for i, s := range states {
		row := rankingRow{
			Rank:        i + 1,
			Key:         s.Key,
			Matches:     s.Matches,
			Wins:        s.Wins,
			Losses:      s.Losses,
			Draws:       s.Draws,
			Points:      s.Points,
			Confidence:  s.Confidence,
			Seeded:      s.Seeded,
			Established: s.Confidence >= threshold,
		}
		if s.Players[0] != "" || s.Players[1] != "" {
			row.Players = []string{s.Players[0], s.Players[1]}
		}
		rows = append(rows, row)
	}
	return e.writeJSON(fmt.Sprintf("rankings_%s.json", kind), rows)
}

// establishedThreshold is the confidence-eligibility cut: the population's
// average confidence scaled by the configured policy factor.
func (e *Exporter) establishedThreshold(states []rating.State) float64 {
	if len(states) == 0 {
		return 0
	}
	var sum float64
	for _, s := range states {
		sum += s.Confidence
	}
	return sum / float64(len(states)) * e.cfg.ConfidenceThresholdFactor
}

// WriteHistory writes history_<kind>.json: the full ordered audit trail.
func (e *Exporter) WriteHistory(kind string, entries []ranking.MatchHistoryEntry) error {
	rows := make([]historyRow, 0, len(entries))
	for _, entry := range entries {
		row := historyRow{
			ID:             entry.ID,
			MatchID:        entry.MatchID,
			TournamentSlug: entry.TournamentSlug,
			Stage:          entry.Stage,
			Date:           entry.Date,
			Team1:          entry.Team1,
			Team2:          entry.Team2,
			Team1Score:     entry.Team1Score,
			Team2Score:     entry.Team2Score,
			Impacts:        make(map[string]impactRow, len(entry.Impacts)),
		}
		for key, impact := range entry.Impacts {
			row.Impacts[key] = impactRow{
				RatingBefore:   impact.RatingBefore,
				RatingChange:   impact.RatingChange,
				Won:            impact.Won,
				Lost:           impact.Lost,
				Draw:           impact.Draw,
				OpponentRating: impact.OpponentRating,
				Detail: detailRow{
					ExpectedWin:          impact.Detail.ExpectedWin,
					BaseK:                impact.Detail.BaseK,
					AdjustedK:            impact.Detail.AdjustedK,
					ConfidenceMultiplier: impact.Detail.ConfidenceMultiplier,
					Confidence:           impact.Detail.Confidence,
					OpponentConfidence:   impact.Detail.OpponentConfidence,
					MatchCount:           impact.Detail.MatchCount,
					OpponentMatchCount:   impact.Detail.OpponentMatchCount,
					PopulationStdDev:     impact.Detail.PopulationStdDev,
				},
			}
		}
		rows = append(rows, row)
	}
	return e.writeJSON(fmt.Sprintf("history_%s.json", kind), rows)
}

// WriteComboMatchups writes the composition-vs-composition tallies.
func (e *Exporter) WriteComboMatchups(matchups []ranking.ComboMatchup) error {
	type matchupRow struct {
		First  string `json:"first"`
		Second string `json:"second"`
		Wins   int    `json:"wins"`
		Losses int    `json:"losses"`
		Draws  int    `json:"draws"`
	}
	rows := make([]matchupRow, 0, len(matchups))
	for _, m := range matchups {
		rows = append(rows, matchupRow{First: m.First, Second: m.Second, Wins: m.Wins, Losses: m.Losses, Draws: m.Draws})
	}
	return e.writeJSON("matchups_racecombo.json", rows)
}

func (e *Exporter) writeJSON(name string, v any) error {
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(e.cfg.OutputDir, name)

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	e.logger.Debug().Str("path", path).Msg("export written")
	return nil
}
