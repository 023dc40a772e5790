package ranking

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"sc2-rankings/internal/domain"
	"sc2-rankings/internal/rating"
)

// ComboDriver rates team race compositions ("PT" for a Protoss+Terran
// team). It has the team driver's shape with the composition as the entity
// key, and in parallel tallies composition-vs-composition results as a
// plain statistic.
type ComboDriver struct {
	states   map[string]*rating.State
	matchups map[string]*ComboMatchup
	history  []MatchHistoryEntry
	logger   zerolog.Logger
}

// ComboMatchup is the parallel "this composition against that one" tally,
// oriented to the alphabetically-first composition.
type ComboMatchup struct {
	First  string
	Second string
	Wins   int
	Losses int
	Draws  int
}

func NewComboDriver(logger zerolog.Logger) *ComboDriver {
	return &ComboDriver{
		states:   make(map[string]*rating.State),
		matchups: make(map[string]*ComboMatchup),
		logger:   logger,
	}
}

func (d *ComboDriver) Kind() string { return "racecombo" }

// ComboKey is a team's race composition: the two normalized races sorted
// and concatenated (e.g. "PT", "ZZ").
func ComboKey(race1, race2 string) string {
	races := []string{race1, race2}
	sort.Strings(races)
	return strings.Join(races, "")
}

func (d *ComboDriver) Process(m domain.Match) {
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

	key1 := ComboKey(races1[0], races1[1])
	key2 := ComboKey(races2[0], races2[1])
	if key1 == key2 {
		// Mirror composition: both sides map to the same entity, so the
		// result says nothing about the composition's strength.
		d.logger.Debug().
			Str("tournament", m.TournamentSlug).
			Str("match_id", m.MatchID).
			Str("composition", key1).
			Msg("skipping mirror-composition match")
		return
	}
	d.tallyMatchup(key1, key2, won1, lost1)

	pre := rating.Snapshot(d.states)
	s1 := d.ensure(key1, pre.Mean)
	s2 := d.ensure(key2, pre.Mean)
	pop := rating.Snapshot(d.states)

	r1, r2 := s1.Points, s2.Points
	conf1, conf2 := s1.Confidence, s2.Confidence
	n1, n2 := s1.Matches, s2.Matches

	entry := newHistoryEntry(m)
	ch1, det1 := rating.Update(s1, won1, lost1, rating.Opponent{Rating: r2, Confidence: conf2, Matches: &n2}, pop, nil)
	ch2, det2 := rating.Update(s2, lost1, won1, rating.Opponent{Rating: r1, Confidence: conf1, Matches: &n1}, pop, nil)

	addImpact(&entry, key1, Impact{
		RatingBefore:   r1,
		RatingChange:   ch1,
		Won:            won1,
		Lost:           lost1,
		Draw:           !won1 && !lost1,
		OpponentRating: r2,
		Detail:         det1,
	})
	addImpact(&entry, key2, Impact{
		RatingBefore:   r2,
		RatingChange:   ch2,
		Won:            lost1,
		Lost:           won1,
		Draw:           !won1 && !lost1,
		OpponentRating: r1,
		Detail:         det2,
	})
	d.history = append(d.history, entry)
}

func (d *ComboDriver) tallyMatchup(key1, key2 string, won1, lost1 bool) {
	first, second, firstWon, firstLost := key1, key2, won1, lost1
	if key2 < key1 {
		first, second, firstWon, firstLost = key2, key1, lost1, won1
	}
	mk := first + "-" + second
	mu, ok := d.matchups[mk]
	if !ok {
		mu = &ComboMatchup{First: first, Second: second}
		d.matchups[mk] = mu
	}
	switch {
	case firstWon:
		mu.Wins++
	case firstLost:
		mu.Losses++
	default:
		mu.Draws++
	}
}

func (d *ComboDriver) ensure(key string, preMean float64) *rating.State {
	if s, ok := d.states[key]; ok {
		return s
	}
	s := rating.NewState(key, preMean)
	d.states[key] = s
	return s
}

// Matchups returns the composition-vs-composition tallies in a stable order.
func (d *ComboDriver) Matchups() []ComboMatchup {
	keys := make([]string, 0, len(d.matchups))
	for k := range d.matchups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]ComboMatchup, 0, len(keys))
	for _, k := range keys {
		out = append(out, *d.matchups[k])
	}
	return out
}

func (d *ComboDriver) Rankings() []rating.State { return sortedRankings(d.states) }

func (d *ComboDriver) History() []MatchHistoryEntry { return d.history }
