// Package rating implements the prediction-based, confidence-adaptive rating
// core: entity state, population statistics, and the per-match update rule.
// Everything here is pure computation over explicit inputs; the drivers in
// internal/ranking own the state maps and the processing order.
package rating

type anchor int

const (
	// anchorFresh entities predict their first match from a fixed rating of
	// 0, even when their stored points were initialized at the population
	// mean. This keeps a brand-new entity from inheriting a possibly
	// negative mean as its perceived strength.
	anchorFresh anchor = iota
	// anchorSeeded entities predict their first match from their seed.
	anchorSeeded
	// anchorEstablished entities predict from their stored points.
	anchorEstablished
)

// State is the rating state of one entity (player, team, race matchup or
// race composition). States are created lazily by a driver the first time a
// match references the entity and are mutated exactly once per match, in
// chronological order.
type State struct {
	Key     string
	Players [2]string // constituent player names, team-like entities only

	Matches int
	Wins    int
	Losses  int
	Draws   int

	Points     float64
	Confidence float64 // 0..100
	Seeded     bool

	anchor       anchor
	anchorRating float64
}

// NewState creates an unseeded entity. startPoints is the driver's
// initialization policy (population mean, or 0 for fixed-anchor drivers);
// the first prediction still uses a rating of 0 regardless.
func NewState(key string, startPoints float64) *State {
	return &State{Key: key, Points: startPoints, anchor: anchorFresh}
}

// NewSeededState creates an entity that starts at a pre-computed seed rating.
// Seeding affects only the rating anchor; confidence still starts at 0.
func NewSeededState(key string, seed float64) *State {
	return &State{
		Key:          key,
		Points:       seed,
		Seeded:       true,
		anchor:       anchorSeeded,
		anchorRating: seed,
	}
}

// predictionRating resolves the rating the win-probability formula should
// see for this entity's next match.
func (s *State) predictionRating() float64 {
	if s.anchor == anchorEstablished {
		return s.Points
	}
	return s.anchorRating
}
