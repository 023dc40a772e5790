package domain

import (
	"sort"
	"strings"
	"time"
)

// PlayerRef identifies one player on one side of a match, as produced by the
// scraper. Race is the scraped race string ("Protoss", "p", ...) and may be empty.
type PlayerRef struct {
	Name string
	Race string
}

// Game is a single map within a best-of-N series. Winner is 1 or 2.
type Game struct {
	Number  int
	MapName string
	Winner  int
}

// Match is one best-of-N result between two fixed 2-player teams.
// MatchID is unique only within its tournament; TournamentSlug and
// TournamentDate are attached by the dataset loader.
type Match struct {
	MatchID    string
	Stage      string
	Team1      []PlayerRef
	Team2      []PlayerRef
	Team1Score *int
	Team2Score *int
	BestOf     int
	Games      []Game
	Date       *time.Time

	TournamentSlug string
	TournamentDate *time.Time
}

// HasScores reports whether both sides carry a recorded score. Matches
// without one are excluded input and never reach the rating engine.
func (m *Match) HasScores() bool {
	return m.Team1Score != nil && m.Team2Score != nil
}

// Tournament is one scraped dataset: a single event and its matches.
type Tournament struct {
	Name        string
	Slug        string
	Date        *time.Time
	Season      string
	MainCircuit bool
	Matches     []Match
}

// TeamKey builds the canonical identity for a fixed 2-player team: the two
// names sorted alphabetically and joined with "+", so roster order in the
// source never produces two entities for the same team.
func TeamKey(name1, name2 string) string {
	names := []string{name1, name2}
	sort.Strings(names)
	return strings.Join(names, "+")
}

// NormalizeRace collapses the scraped race strings to the single-letter keys
// used for race and race-composition entities. Unknown races map to "".
func NormalizeRace(race string) string {
	switch strings.ToLower(strings.TrimSpace(race)) {
	case "p", "protoss":
		return "P"
	case "t", "terran":
		return "T"
	case "z", "zerg":
		return "Z"
	case "r", "random":
		return "R"
	}
	return ""
}
