package rating

import "math"

const (
	// KFloor is the long-run K-factor a stable entity converges toward.
	KFloor = 32.0
	// logisticBase flattens the win-probability curve relative to classic
	// Elo's base 10: one population standard deviation of rating gap maps
	// to a 75% win expectation, two to 90%.
	logisticBase = 3.0
	// confidenceStep is the maximum confidence movement per match.
	confidenceStep = 5.0
)

// Opponent carries the opposing side's pre-match values. Matches is optional;
// when present it enables the opponent-newness dampener.
type Opponent struct {
	Rating     float64
	Confidence float64
	Matches    *int
}

// Detail is the full calculation record attached to a match impact so any
// consumer can reconstruct why a rating moved.
type Detail struct {
	ExpectedWin          float64
	BaseK                float64
	AdjustedK            float64
	ConfidenceMultiplier float64
	Confidence           float64 // after this update
	OpponentConfidence   float64
	MatchCount           int
	OpponentMatchCount   *int
	PopulationStdDev     float64
}

// Update applies one match result to s and returns the rating change plus
// the calculation detail. won and lost both false means a draw. override,
// when non-nil, forces the pre-match rating used in the prediction instead
// of the stored one.
//
// The entity's match count is incremented before K is computed, so the very
// first match sees count 1.
func Update(s *State, won, lost bool, opp Opponent, pop Population, override *float64) (float64, Detail) {
	s.Matches++

	baseK := baseKFactor(s.Matches)

	combined := (clamp(s.Confidence, 0, 100) + clamp(opp.Confidence, 0, 100)) / 2
	confMult := 0.9 + combined/100*0.2
	if !isFinite(confMult) {
		confMult = 1.0
	}
	k := baseK * confMult

	if opp.Matches != nil {
		protection := opponentProtection(*opp.Matches)
		if s.Matches <= 4 && *opp.Matches <= 4 {
			// two brand-new entities still need to calibrate against
			// each other at near-full K
			protection /= 2
		}
		k *= 1 - protection
	}

	myRating := s.predictionRating()
	if override != nil {
		myRating = *override
	}

	stddev := pop.StdDev
	if !isFinite(stddev) || stddev <= 0 {
		stddev = StdDevFallback
	}
	expected := 1 / (1 + math.Pow(logisticBase, (opp.Rating-myRating)/stddev))
	if !isFinite(expected) {
		expected = 0.5
	}

	actual := 0.5
	switch {
	case won:
		actual = 1.0
	case lost:
		actual = 0.0
	}

	change := k * (actual - expected)
	if !isFinite(change) {
		change = 0
	}

	s.Confidence = nextConfidence(s.Confidence, predictionCorrect(expected, won, lost))

	switch {
	case won:
		s.Wins++
	case lost:
		s.Losses++
	default:
		s.Draws++
	}
	s.Points += change
	s.anchor = anchorEstablished

	return change, Detail{
		ExpectedWin:          expected,
		BaseK:                baseK,
		AdjustedK:            k,
		ConfidenceMultiplier: confMult,
		Confidence:           s.Confidence,
		OpponentConfidence:   opp.Confidence,
		MatchCount:           s.Matches,
		OpponentMatchCount:   opp.Matches,
		PopulationStdDev:     stddev,
	}
}

// baseKFactor is the match-count "newness" schedule: large fast corrections
// during placement, then damping, then a slow decay toward KFloor.
func baseKFactor(count int) float64 {
	switch {
	case count <= 2:
		return 80
	case count <= 4:
		return 60
	case count <= 8:
		return 50
	default:
		return math.Min(50, KFloor+100/float64(count))
	}
}

// opponentProtection shrinks K based on how unproven the opponent's own
// rating is. Returned as the protected fraction of K (0.9 means K*0.1).
func opponentProtection(opponentMatches int) float64 {
	switch {
	case opponentMatches <= 1:
		return 0.90
	case opponentMatches <= 2:
		return 0.70
	case opponentMatches <= 4:
		return 0.50
	case opponentMatches <= 8:
		return 0.30
	case opponentMatches <= 16:
		return 0.15
	default:
		return 0
	}
}

// predictionCorrect decides whether the model's expectation held up. A draw
// counts as correct when the model predicted a close match.
func predictionCorrect(expected float64, won, lost bool) bool {
	if won || lost {
		return (expected > 0.5) == won
	}
	return expected >= 0.4 && expected <= 0.6
}

// nextConfidence moves confidence toward 100 on a correct prediction and
// toward 0 on an incorrect one, in steps proportional to the remaining
// distance. A corrupted value would otherwise poison every later match for
// this entity, so non-finite results reset to 0.
func nextConfidence(confidence float64, correct bool) float64 {
	if correct {
		confidence += confidenceStep * (1 - confidence/100)
	} else {
		confidence -= confidenceStep * confidence / 100
	}
	if !isFinite(confidence) {
		return 0
	}
	return clamp(confidence, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if !isFinite(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
