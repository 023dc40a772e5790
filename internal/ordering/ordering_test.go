package ordering

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sc2-rankings/internal/domain"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestRoundOrderBrackets(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"Early Round 1", 1},
		{"Early Round 3", 3},
		{"Group Stage Round 2", 102},
		{"Group A", 100},
		{"Round 1", 202},
		{"Upper Bracket Round 2", 204},
		{"Winners Round 2", 204},
		{"Lower Bracket Round 2", 205},
		{"Losers Round 2", 205},
		{"Round of 32", 968},
		{"Round of 16", 984},
		{"Ro16", 984},
		{"Round of 8", 992},
		{"Quarterfinals", 1100},
		{"Lower Bracket Quarterfinals", 1101},
		{"Semifinals", 1110},
		{"Losers Semifinals", 1111},
		{"Final", 1120},
		{"Grand Final", 1120},
		{"Lower Bracket Final", 1121},
		{"Some Showmatch", UnknownRoundOrder},
		{"", UnknownRoundOrder},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, RoundOrder(tt.label), "label=%q", tt.label)
	}
}

func TestRoundOrderLowerBracketFollowsUpperCounterpart(t *testing.T) {
	require.Equal(t, RoundOrder("Upper Bracket Round 3")+1, RoundOrder("Lower Bracket Round 3"))
	require.Equal(t, RoundOrder("Quarterfinals")+1, RoundOrder("Lower Bracket Quarterfinals"))
	require.Equal(t, RoundOrder("Semifinals")+1, RoundOrder("Lower Bracket Semifinals"))
	require.Equal(t, RoundOrder("Grand Final")+1, RoundOrder("Lower Bracket Final"))
}

func TestSortByRoundDepthWithinSameDate(t *testing.T) {
	d := date("2023-04-01")
	mk := func(id, stage string) domain.Match {
		return domain.Match{MatchID: id, Stage: stage, TournamentSlug: "t", TournamentDate: d}
	}
	matches := []domain.Match{
		mk("m1", "Final"),
		mk("m2", "Round of 16"),
		mk("m3", "Quarterfinals"),
		mk("m4", "Semifinals"),
	}

	ordered := Sort(matches)

	stages := make([]string, len(ordered))
	for i, m := range ordered {
		stages[i] = m.Stage
	}
	require.Equal(t, []string{"Round of 16", "Quarterfinals", "Semifinals", "Final"}, stages)
}

func TestSortTournamentDateDominates(t *testing.T) {
	matches := []domain.Match{
		{MatchID: "b", Stage: "Final", TournamentDate: date("2023-01-01")},
		{MatchID: "a", Stage: "Round of 16", TournamentDate: date("2023-02-01")},
	}

	ordered := Sort(matches)

	require.Equal(t, "b", ordered[0].MatchID, "earlier tournament goes first regardless of round")
}

func TestSortDatedMatchPrecedesUndated(t *testing.T) {
	matches := []domain.Match{
		{MatchID: "undated", Stage: "Final"},
		{MatchID: "dated", Stage: "Final", TournamentDate: date("2030-01-01")},
	}

	ordered := Sort(matches)

	require.Equal(t, "dated", ordered[0].MatchID)
}

func TestSortExplicitMatchDateBreaksTournamentTies(t *testing.T) {
	d := date("2023-04-01")
	matches := []domain.Match{
		{MatchID: "late", Stage: "Round 1", TournamentDate: d, Date: date("2023-04-02")},
		{MatchID: "early", Stage: "Round 1", TournamentDate: d, Date: date("2023-04-01")},
	}

	ordered := Sort(matches)

	require.Equal(t, "early", ordered[0].MatchID)
}

func TestSortMatchIDIsFinalTieBreak(t *testing.T) {
	d := date("2023-04-01")
	matches := []domain.Match{
		{MatchID: "m2", Stage: "Round 1", TournamentDate: d},
		{MatchID: "m1", Stage: "Round 1", TournamentDate: d},
	}

	ordered := Sort(matches)

	require.Equal(t, "m1", ordered[0].MatchID)
	require.Equal(t, "m2", ordered[1].MatchID)
}

func TestSortIsDeterministicUnderShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var matches []domain.Match
	stages := []string{"Round 1", "Round 2", "Quarterfinals", "Semifinals", "Final", "weird"}
	for i := 0; i < 200; i++ {
		m := domain.Match{
			MatchID: string(rune('a'+i%26)) + string(rune('a'+(i/26)%26)),
			Stage:   stages[i%len(stages)],
		}
		if i%3 != 0 {
			m.TournamentDate = date("2023-01-02")
		}
		matches = append(matches, m)
	}

	reference := Sort(matches)
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]domain.Match, len(matches))
		copy(shuffled, matches)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		require.Equal(t, reference, Sort(shuffled), "trial %d", trial)
	}

	// the input must not be reordered in place
	require.Equal(t, "Round 1", matches[0].Stage)
}
