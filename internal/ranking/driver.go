// Package ranking contains the four ranking drivers (player, team, race,
// race-composition) and the three-pass seeding procedure. Each driver folds
// the globally ordered match list into an entity state map it owns; separate
// runs never share state.
package ranking

import (
	"fmt"
	"sort"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"sc2-rankings/internal/domain"
	"sc2-rankings/internal/rating"
)

// Driver is the shared shape of all ranking drivers: fed matches strictly in
// chronological order, it accumulates entity states and a per-match audit
// trail.
type Driver interface {
	Kind() string
	Process(m domain.Match)
	Rankings() []rating.State
	History() []MatchHistoryEntry
}

// Impact records how one processed match moved one entity.
type Impact struct {
	RatingBefore   float64
	RatingChange   float64
	Won            bool
	Lost           bool
	Draw           bool
	OpponentRating float64
	Detail         rating.Detail
}

// MatchHistoryEntry is the audit record for one processed match: the match
// context plus an impact per participating entity.
type MatchHistoryEntry struct {
	ID             string
	MatchID        string
	TournamentSlug string
	Stage          string
	Date           *time.Time
	Team1          []string
	Team2          []string
	Team1Score     int
	Team2Score     int
	Impacts        map[string]Impact
}

func newHistoryEntry(m domain.Match) MatchHistoryEntry {
	id, err := gonanoid.New()
	if err != nil {
		id = fmt.Sprintf("%s/%s", m.TournamentSlug, m.MatchID)
	}
	date := m.Date
	if date == nil {
		date = m.TournamentDate
	}
	return MatchHistoryEntry{
		ID:             id,
		MatchID:        m.MatchID,
		TournamentSlug: m.TournamentSlug,
		Stage:          m.Stage,
		Date:           date,
		Team1:          rosterNames(m.Team1),
		Team2:          rosterNames(m.Team2),
		Team1Score:     scoreOf(m.Team1Score),
		Team2Score:     scoreOf(m.Team2Score),
		Impacts:        make(map[string]Impact),
	}
}

func rosterNames(side []domain.PlayerRef) []string {
	names := make([]string, 0, len(side))
	for _, p := range side {
		names = append(names, p.Name)
	}
	return names
}

func scoreOf(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}

// roster returns the two player names of one side, sorted alphabetically.
// ok is false when the side does not have exactly two named players.
func roster(side []domain.PlayerRef) ([2]string, bool) {
	if len(side) != 2 || side[0].Name == "" || side[1].Name == "" {
		return [2]string{}, false
	}
	names := [2]string{side[0].Name, side[1].Name}
	if names[1] < names[0] {
		names[0], names[1] = names[1], names[0]
	}
	return names, true
}

// outcome reports side 1's result. A missing score means the match is
// excluded input and must not be processed.
func outcome(m domain.Match) (won1, lost1, ok bool) {
	if !m.HasScores() {
		return false, false, false
	}
	return *m.Team1Score > *m.Team2Score, *m.Team1Score < *m.Team2Score, true
}

// sortedRankings is the canonical ranking order surfaced to consumers:
// points descending, wins descending, key ascending.
func sortedRankings(states map[string]*rating.State) []rating.State {
	out := make([]rating.State, 0, len(states))
	for _, s := range states {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Key < out[j].Key
	})
	return out
}
