package ranking

import (
	"fmt"

	"github.com/rs/zerolog"

	"sc2-rankings/internal/domain"
	"sc2-rankings/internal/rating"
)

// RaceDriver rates race-vs-race matchups. A 2v2 match yields two independent
// race events, paired positionally after sorting each side's players by
// name: side1[0] vs side2[0] and side1[1] vs side2[1]. Each event updates a
// matchup entity keyed by the alphabetically ordered race pair ("PvZ", win
// meaning the first race won) and, in parallel, the combined per-race states
// ("Protoss against everyone") derived from the same events. Mirror events
// (PvP) carry no matchup information and are not rated.
type RaceDriver struct {
	matchups map[string]*rating.State
	combined map[string]*rating.State
	history  []MatchHistoryEntry
	logger   zerolog.Logger
}

func NewRaceDriver(logger zerolog.Logger) *RaceDriver {
	return &RaceDriver{
		matchups: make(map[string]*rating.State),
		combined: make(map[string]*rating.State),
		logger:   logger,
	}
}

func (d *RaceDriver) Kind() string { return "race" }

// MatchupKey is the canonical key for a race pair: alphabetical order,
// joined with "v" (e.g. "PvZ").
func MatchupKey(race1, race2 string) string {
	if race2 < race1 {
		race1, race2 = race2, race1
	}
	return race1 + "v" + race2
}

func (d *RaceDriver) Process(m domain.Match) {
	races1, ok1 := sideRaces(m.Team1)
	races2, ok2 := sideRaces(m.Team2)
	if !ok1 || !ok2 {
		d.logger.Warn().
			Str("tournament", m.TournamentSlug).
			Str("match_id", m.MatchID).
			Msg("skipping match with missing race information")
		return
	}
	won1, lost1, ok := outcome(m)
	if !ok {
		d.logger.Debug().
			Str("tournament", m.TournamentSlug).
			Str("match_id", m.MatchID).
			Msg("skipping match without scores")
		return
	}

	entry := newHistoryEntry(m)
	for i := 0; i < 2; i++ {
		d.processEvent(&entry, races1[i], races2[i], won1, lost1)
	}
	d.history = append(d.history, entry)
}

// processEvent applies one race-vs-race event: the matchup entity first,
// then the two combined per-race states.
func (d *RaceDriver) processEvent(entry *MatchHistoryEntry, race1, race2 string, won1, lost1 bool) {
	if race1 == race2 {
		return
	}

	// Matchup entity: win means the alphabetically-first race won. There is
	// no opposing entity, so the prediction compares against rating 0 and
	// the stored points measure the pure imbalance of the pair.
	firstWon, firstLost := won1, lost1
	if race2 < race1 {
		firstWon, firstLost = lost1, won1
	}
	key := MatchupKey(race1, race2)

	pop := rating.Snapshot(d.matchups)
	s, ok := d.matchups[key]
	if !ok {
		s = rating.NewState(key, 0)
		d.matchups[key] = s
		pop = rating.Snapshot(d.matchups)
	}
	before := s.Points
	ch, det := rating.Update(s, firstWon, firstLost, rating.Opponent{Rating: 0}, pop, nil)
	addImpact(entry, key, Impact{
		RatingBefore: before,
		RatingChange: ch,
		Won:          firstWon,
		Lost:         firstLost,
		Draw:         !firstWon && !firstLost,
		Detail:       det,
	})

	// Combined per-race states, updated symmetrically from the same event.
	prePop := rating.Snapshot(d.combined)
	c1 := d.ensureCombined(race1, prePop.Mean)
	c2 := d.ensureCombined(race2, prePop.Mean)
	cpop := rating.Snapshot(d.combined)

	r1, r2 := c1.Points, c2.Points
	conf1, conf2 := c1.Confidence, c2.Confidence
	n1, n2 := c1.Matches, c2.Matches

	cch1, cdet1 := rating.Update(c1, won1, lost1, rating.Opponent{Rating: r2, Confidence: conf2, Matches: &n2}, cpop, nil)
	cch2, cdet2 := rating.Update(c2, lost1, won1, rating.Opponent{Rating: r1, Confidence: conf1, Matches: &n1}, cpop, nil)

	addImpact(entry, race1, Impact{
		RatingBefore:   r1,
		RatingChange:   cch1,
		Won:            won1,
		Lost:           lost1,
		Draw:           !won1 && !lost1,
		OpponentRating: r2,
		Detail:         cdet1,
	})
	addImpact(entry, race2, Impact{
		RatingBefore:   r2,
		RatingChange:   cch2,
		Won:            lost1,
		Lost:           won1,
		Draw:           !won1 && !lost1,
		OpponentRating: r1,
		Detail:         cdet2,
	})
}

func (d *RaceDriver) ensureCombined(race string, preMean float64) *rating.State {
	if s, ok := d.combined[race]; ok {
		return s
	}
	s := rating.NewState(race, preMean)
	d.combined[race] = s
	return s
}

// addImpact keeps both events of a match visible when they touch the same
// entity by suffixing the second occurrence.
func addImpact(entry *MatchHistoryEntry, key string, impact Impact) {
	if _, exists := entry.Impacts[key]; exists {
		key = fmt.Sprintf("%s#2", key)
	}
	entry.Impacts[key] = impact
}

// sideRaces returns the normalized races of one side, ordered by player name
// so the positional pairing is deterministic.
func sideRaces(side []domain.PlayerRef) ([2]string, bool) {
	if len(side) != 2 {
		return [2]string{}, false
	}
	ordered := [2]domain.PlayerRef{side[0], side[1]}
	if ordered[1].Name < ordered[0].Name {
		ordered[0], ordered[1] = ordered[1], ordered[0]
	}
	var races [2]string
	for i, p := range ordered {
		races[i] = domain.NormalizeRace(p.Race)
		if races[i] == "" {
			return [2]string{}, false
		}
	}
	return races, true
}

// Rankings returns the matchup entities in canonical order.
func (d *RaceDriver) Rankings() []rating.State { return sortedRankings(d.matchups) }

// CombinedRankings returns the per-race "against everyone" entities.
func (d *RaceDriver) CombinedRankings() []rating.State { return sortedRankings(d.combined) }

func (d *RaceDriver) History() []MatchHistoryEntry { return d.history }
