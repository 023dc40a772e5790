package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sc2-rankings/internal/config"
	"sc2-rankings/internal/rating"
)

func TestWriteRankingsMarksEstablishedRows(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{OutputDir: dir, ConfidenceThresholdFactor: 2.0 / 3.0}
	e := NewExporter(cfg, zerolog.Nop())

	states := []rating.State{
		{Key: "A+B", Points: 50, Wins: 3, Confidence: 60},
		{Key: "C+D", Points: 10, Wins: 1, Confidence: 30},
		{Key: "E+F", Points: -20, Confidence: 0},
	}
	require.NoError(t, e.WriteRankings("team", states))

	raw, err := os.ReadFile(filepath.Join(dir, "rankings_team.json"))
	require.NoError(t, err)

	var rows []struct {
		Rank        int     `json:"rank"`
		Key         string  `json:"key"`
		Confidence  float64 `json:"confidence"`
		Established bool    `json:"established"`
	}
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 3)

	// average confidence 30, threshold 20
	require.Equal(t, 1, rows[0].Rank)
	require.True(t, rows[0].Established)
	require.True(t, rows[1].Established)
	require.False(t, rows[2].Established)
}

func TestWriteRankingsUnmodifiedAverageVariant(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{OutputDir: dir, ConfidenceThresholdFactor: 1.0}
	e := NewExporter(cfg, zerolog.Nop())

	states := []rating.State{
		{Key: "A+B", Confidence: 60},
		{Key: "C+D", Confidence: 30},
	}
	require.NoError(t, e.WriteRankings("team", states))

	raw, err := os.ReadFile(filepath.Join(dir, "rankings_team.json"))
	require.NoError(t, err)

	var rows []struct {
		Established bool `json:"established"`
	}
	require.NoError(t, json.Unmarshal(raw, &rows))

	// threshold is the unmodified average (45)
	require.True(t, rows[0].Established)
	require.False(t, rows[1].Established)
}
