package ranking

import (
	"github.com/rs/zerolog"

	"sc2-rankings/internal/domain"
	"sc2-rankings/internal/rating"
)

// TeamDriver rates fixed 2-player teams. The entity key is the sorted
// player names joined with "+". New teams are initialized at the pre-match
// population mean.
type TeamDriver struct {
	states  map[string]*rating.State
	history []MatchHistoryEntry
	seeds   map[string]float64
	logger  zerolog.Logger
}

// NewTeamDriver creates a fresh team run. seeds may be nil; entities present
// in it start at their seed rating on first appearance.
func NewTeamDriver(seeds map[string]float64, logger zerolog.Logger) *TeamDriver {
	return &TeamDriver{
		states: make(map[string]*rating.State),
		seeds:  seeds,
		logger: logger,
	}
}

func (d *TeamDriver) Kind() string { return "team" }

func (d *TeamDriver) Process(m domain.Match) {
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

	key1 := domain.TeamKey(names1[0], names1[1])
	key2 := domain.TeamKey(names2[0], names2[1])
	if key1 == key2 {
		d.logger.Warn().
			Str("tournament", m.TournamentSlug).
			Str("match_id", m.MatchID).
			Str("team", key1).
			Msg("skipping match where a team faces itself")
		return
	}

	// Initialize unseen teams at the pre-match mean, then fix the snapshot
	// used for this match's calculations.
	pre := rating.Snapshot(d.states)
	s1 := d.ensure(key1, names1, pre.Mean)
	s2 := d.ensure(key2, names2, pre.Mean)
	pop := rating.Snapshot(d.states)

	// Both updates must see the same pre-match values.
	r1, r2 := s1.Points, s2.Points
	conf1, conf2 := s1.Confidence, s2.Confidence
	m1, m2 := s1.Matches, s2.Matches

	ch1, det1 := rating.Update(s1, won1, lost1, rating.Opponent{Rating: r2, Confidence: conf2, Matches: &m2}, pop, nil)
	ch2, det2 := rating.Update(s2, lost1, won1, rating.Opponent{Rating: r1, Confidence: conf1, Matches: &m1}, pop, nil)

	entry := newHistoryEntry(m)
	entry.Impacts[key1] = Impact{
		RatingBefore:   r1,
		RatingChange:   ch1,
		Won:            won1,
		Lost:           lost1,
		Draw:           !won1 && !lost1,
		OpponentRating: r2,
		Detail:         det1,
	}
	entry.Impacts[key2] = Impact{
		RatingBefore:   r2,
		RatingChange:   ch2,
		Won:            lost1,
		Lost:           won1,
		Draw:           !won1 && !lost1,
		OpponentRating: r1,
		Detail:         det2,
	}
	d.history = append(d.history, entry)
}

func (d *TeamDriver) ensure(key string, players [2]string, preMean float64) *rating.State {
	if s, ok := d.states[key]; ok {
		return s
	}
	var s *rating.State
	if seed, ok := d.seeds[key]; ok {
		s = rating.NewSeededState(key, seed)
	} else {
		s = rating.NewState(key, preMean)
	}
	s.Players = players
	d.states[key] = s
	return s
}

func (d *TeamDriver) Rankings() []rating.State { return sortedRankings(d.states) }

func (d *TeamDriver) History() []MatchHistoryEntry { return d.history }
