package ranking

import (
	"github.com/rs/zerolog"

	"sc2-rankings/internal/domain"
	"sc2-rankings/internal/rating"
)

// PlayerDriver rates individual players. All four players of a 2v2 match are
// updated; a player's opponent rating is the average of the two opposing
// players' pre-match ratings, not a 1v1 comparison. Unlike the team driver,
// new players are initialized at 0 (strict fixed-anchor policy), not at the
// population mean.
type PlayerDriver struct {
	states  map[string]*rating.State
	history []MatchHistoryEntry
	seeds   map[string]float64
	logger  zerolog.Logger
}

// NewPlayerDriver creates a fresh player run. seeds may be nil.
func NewPlayerDriver(seeds map[string]float64, logger zerolog.Logger) *PlayerDriver {
	return &PlayerDriver{
		states: make(map[string]*rating.State),
		seeds:  seeds,
		logger: logger,
	}
}

func (d *PlayerDriver) Kind() string { return "player" }

func (d *PlayerDriver) Process(m domain.Match) {
	names1, ok1 := roster(m.Team1)
	names2, ok2 := roster(m.Team2)
	if !ok1 || !ok2 {
		d.logger.Warn().
			Str("tournament", m.TournamentSlug).
			Str("match_id", m.MatchID).
			Msg("skipping match with incomplete roster")
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

	// New players start at 0 under the fixed-anchor policy, so no pre-init
	// mean is needed; the snapshot is fixed after initialization.
	side1 := [2]*rating.State{d.ensure(names1[0]), d.ensure(names1[1])}
	side2 := [2]*rating.State{d.ensure(names2[0]), d.ensure(names2[1])}
	pop := rating.Snapshot(d.states)

	pre := func(side [2]*rating.State) (ratings [2]float64, confs [2]float64, counts [2]int) {
		for i, s := range side {
			ratings[i] = s.Points
			confs[i] = s.Confidence
			counts[i] = s.Matches
		}
		return
	}
	r1, c1, n1 := pre(side1)
	r2, c2, n2 := pre(side2)

	opp1 := sideOpponent(r2, c2, n2)
	opp2 := sideOpponent(r1, c1, n1)

	entry := newHistoryEntry(m)
	for _, s := range side1 {
		before := s.Points
		ch, det := rating.Update(s, won1, lost1, opp1, pop, nil)
		entry.Impacts[s.Key] = Impact{
			RatingBefore:   before,
			RatingChange:   ch,
			Won:            won1,
			Lost:           lost1,
			Draw:           !won1 && !lost1,
			OpponentRating: opp1.Rating,
			Detail:         det,
		}
	}
	for _, s := range side2 {
		before := s.Points
		ch, det := rating.Update(s, lost1, won1, opp2, pop, nil)
		entry.Impacts[s.Key] = Impact{
			RatingBefore:   before,
			RatingChange:   ch,
			Won:            lost1,
			Lost:           won1,
			Draw:           !won1 && !lost1,
			OpponentRating: opp2.Rating,
			Detail:         det,
		}
	}
	d.history = append(d.history, entry)
}

// sideOpponent collapses a 2-player side into the single opponent the rating
// core expects: averaged rating and confidence, and the smaller of the two
// match counts so the newness dampener protects against the least proven
// opponent.
func sideOpponent(ratings [2]float64, confs [2]float64, counts [2]int) rating.Opponent {
	matches := min(counts[0], counts[1])
	return rating.Opponent{
		Rating:     (ratings[0] + ratings[1]) / 2,
		Confidence: (confs[0] + confs[1]) / 2,
		Matches:    &matches,
	}
}

func (d *PlayerDriver) ensure(name string) *rating.State {
	if s, ok := d.states[name]; ok {
		return s
	}
	var s *rating.State
	if seed, ok := d.seeds[name]; ok {
		s = rating.NewSeededState(name, seed)
	} else {
		s = rating.NewState(name, 0)
	}
	d.states[name] = s
	return s
}

func (d *PlayerDriver) Rankings() []rating.State { return sortedRankings(d.states) }

func (d *PlayerDriver) History() []MatchHistoryEntry { return d.history }
