package ranking

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sc2-rankings/internal/domain"
)

func raceMatch(id string, side1, side2 [2]domain.PlayerRef, score1, score2 int) domain.Match {
	return domain.Match{
		MatchID:        id,
		Stage:          "Round 1",
		TournamentSlug: "test-cup",
		Team1:          []domain.PlayerRef{side1[0], side1[1]},
		Team2:          []domain.PlayerRef{side2[0], side2[1]},
		Team1Score:     intp(score1),
		Team2Score:     intp(score2),
	}
}

func TestMatchupKeyIsAlphabetical(t *testing.T) {
	require.Equal(t, "PvZ", MatchupKey("Z", "P"))
	require.Equal(t, "PvZ", MatchupKey("P", "Z"))
	require.Equal(t, "PvT", MatchupKey("T", "P"))
}

func TestRaceDriverPositionalPairing(t *testing.T) {
	d := NewRaceDriver(zerolog.Nop())
	// side 1 ordered by name: Ann(P), Bob(T); side 2: Cid(Z), Dan(P)
	// events: P vs Z and T vs P
	d.Process(raceMatch("m1",
		[2]domain.PlayerRef{{Name: "Bob", Race: "Terran"}, {Name: "Ann", Race: "Protoss"}},
		[2]domain.PlayerRef{{Name: "Dan", Race: "Protoss"}, {Name: "Cid", Race: "Zerg"}},
		2, 0))

	keys := make(map[string]bool)
	for _, s := range d.Rankings() {
		keys[s.Key] = true
	}
	require.True(t, keys["PvZ"])
	require.True(t, keys["PvT"])
	require.Len(t, keys, 2)
}

func TestRaceDriverMatchupOrientation(t *testing.T) {
	d := NewRaceDriver(zerolog.Nop())
	// P (team 1) beats Z; matchup "PvZ" is oriented to P, so it records a win
	d.Process(raceMatch("m1",
		[2]domain.PlayerRef{{Name: "A", Race: "P"}, {Name: "B", Race: "P"}},
		[2]domain.PlayerRef{{Name: "C", Race: "Z"}, {Name: "D", Race: "Z"}},
		2, 1))

	pvz := findState(t, d, "PvZ")
	require.Equal(t, 2, pvz.Matches, "both positional events hit the same matchup")
	require.Equal(t, 2, pvz.Wins)
	require.Greater(t, pvz.Points, 0.0)

	// Z (team 1) beats P: same matchup entity, now a loss for the P side
	d.Process(raceMatch("m2",
		[2]domain.PlayerRef{{Name: "C", Race: "Z"}, {Name: "D", Race: "Z"}},
		[2]domain.PlayerRef{{Name: "A", Race: "P"}, {Name: "B", Race: "P"}},
		2, 0))

	pvz = findState(t, d, "PvZ")
	require.Equal(t, 4, pvz.Matches)
	require.Equal(t, 2, pvz.Losses)
}

func TestRaceDriverCombinedStatistics(t *testing.T) {
	d := NewRaceDriver(zerolog.Nop())
	d.Process(raceMatch("m1",
		[2]domain.PlayerRef{{Name: "Ann", Race: "P"}, {Name: "Bob", Race: "T"}},
		[2]domain.PlayerRef{{Name: "Cid", Race: "Z"}, {Name: "Dan", Race: "P"}},
		2, 0))

	combined := make(map[string]int)
	for _, s := range d.CombinedRankings() {
		combined[s.Key] = s.Matches
	}
	// events P-vs-Z and T-vs-P touch P twice, T and Z once each
	require.Equal(t, 2, combined["P"])
	require.Equal(t, 1, combined["T"])
	require.Equal(t, 1, combined["Z"])
}

func TestRaceDriverSkipsMirrorEvents(t *testing.T) {
	d := NewRaceDriver(zerolog.Nop())
	d.Process(raceMatch("m1",
		[2]domain.PlayerRef{{Name: "A", Race: "P"}, {Name: "B", Race: "T"}},
		[2]domain.PlayerRef{{Name: "C", Race: "P"}, {Name: "D", Race: "T"}},
		2, 0))

	// positional events are P vs P and T vs T, both mirrors
	require.Empty(t, d.Rankings())
	require.Empty(t, d.CombinedRankings())
}

func TestRaceDriverSkipsUnknownRaces(t *testing.T) {
	d := NewRaceDriver(zerolog.Nop())
	d.Process(raceMatch("m1",
		[2]domain.PlayerRef{{Name: "A", Race: ""}, {Name: "B", Race: "T"}},
		[2]domain.PlayerRef{{Name: "C", Race: "P"}, {Name: "D", Race: "Z"}},
		2, 0))

	require.Empty(t, d.Rankings())
	require.Empty(t, d.History())
}

func TestRaceDriverDuplicateImpactKeysStayVisible(t *testing.T) {
	d := NewRaceDriver(zerolog.Nop())
	d.Process(raceMatch("m1",
		[2]domain.PlayerRef{{Name: "Ann", Race: "P"}, {Name: "Bob", Race: "T"}},
		[2]domain.PlayerRef{{Name: "Cid", Race: "Z"}, {Name: "Dan", Race: "P"}},
		2, 0))

	impacts := d.History()[0].Impacts
	require.Contains(t, impacts, "P")
	require.Contains(t, impacts, "P#2")
}
