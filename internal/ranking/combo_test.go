package ranking

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sc2-rankings/internal/domain"
)

func TestComboKeyIsSorted(t *testing.T) {
	require.Equal(t, "PT", ComboKey("T", "P"))
	require.Equal(t, "PT", ComboKey("P", "T"))
	require.Equal(t, "ZZ", ComboKey("Z", "Z"))
}

func TestComboDriverRatesCompositions(t *testing.T) {
	d := NewComboDriver(zerolog.Nop())
	d.Process(raceMatch("m1",
		[2]domain.PlayerRef{{Name: "A", Race: "P"}, {Name: "B", Race: "T"}},
		[2]domain.PlayerRef{{Name: "C", Race: "Z"}, {Name: "D", Race: "Z"}},
		2, 0))

	pt := findState(t, d, "PT")
	require.Equal(t, 1, pt.Wins)
	require.Greater(t, pt.Points, 0.0)

	zz := findState(t, d, "ZZ")
	require.Equal(t, 1, zz.Losses)
	require.Less(t, zz.Points, 0.0)

	impacts := d.History()[0].Impacts
	require.Contains(t, impacts, "PT")
	require.Contains(t, impacts, "ZZ")
	require.InDelta(t, impacts["PT"].RatingChange, -impacts["ZZ"].RatingChange, 1e-9)
}

func TestComboDriverSkipsMirrorCompositions(t *testing.T) {
	d := NewComboDriver(zerolog.Nop())
	d.Process(raceMatch("m1",
		[2]domain.PlayerRef{{Name: "A", Race: "P"}, {Name: "B", Race: "T"}},
		[2]domain.PlayerRef{{Name: "C", Race: "T"}, {Name: "D", Race: "P"}},
		2, 0))

	require.Empty(t, d.Rankings())
	require.Empty(t, d.Matchups())
}

func TestComboDriverMatchupTally(t *testing.T) {
	d := NewComboDriver(zerolog.Nop())
	win := func(score1, score2 int) domain.Match {
		return raceMatch("m", // same pairing each time
			[2]domain.PlayerRef{{Name: "A", Race: "P"}, {Name: "B", Race: "T"}},
			[2]domain.PlayerRef{{Name: "C", Race: "Z"}, {Name: "D", Race: "Z"}},
			score1, score2)
	}
	d.Process(win(2, 0))
	d.Process(win(0, 2))
	d.Process(win(1, 1))
	d.Process(win(2, 1))

	matchups := d.Matchups()
	require.Len(t, matchups, 1)
	mu := matchups[0]
	require.Equal(t, "PT", mu.First)
	require.Equal(t, "ZZ", mu.Second)
	require.Equal(t, 2, mu.Wins)
	require.Equal(t, 1, mu.Losses)
	require.Equal(t, 1, mu.Draws)
}
