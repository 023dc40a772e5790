// Package ordering establishes the single global processing order over all
// matches across all tournaments. Every rating depends on both participants
// having seen the correct prior history, so the order must be deterministic:
// two runs over the same input always visit matches in the same sequence.
package ordering

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"sc2-rankings/internal/domain"
)

// UnknownRoundOrder sorts unrecognized round labels after everything else.
const UnknownRoundOrder = 9999

var (
	earlyRoundRe = regexp.MustCompile(`(?i)^early round (\d+)`)
	groupRoundRe = regexp.MustCompile(`(?i)group.*?round (\d+)`)
	upperRoundRe = regexp.MustCompile(`(?i)(?:upper|winners?)(?: bracket)? round (\d+)`)
	lowerRoundRe = regexp.MustCompile(`(?i)(?:lower|losers?)(?: bracket)? round (\d+)`)
	plainRoundRe = regexp.MustCompile(`(?i)^round (\d+)$`)
	roundOfRe    = regexp.MustCompile(`(?i)^(?:round of\s*|ro)(\d+)$`)
)

// RoundOrder maps a free-form round label to its depth in the bracket.
// Smaller values are played earlier. Bands, earliest to latest:
// early rounds, group-stage rounds, numbered bracket rounds (a lower-bracket
// round sits just after its upper counterpart), "Round of K" at 1000-K,
// then Quarterfinals < Semifinals < Final, again with lower-bracket variants
// immediately after their upper counterpart.
func RoundOrder(stage string) int {
	s := strings.TrimSpace(stage)
	if s == "" {
		return UnknownRoundOrder
	}
	lower := strings.ToLower(s)

	if m := earlyRoundRe.FindStringSubmatch(s); m != nil {
		return atoi(m[1])
	}
	if m := groupRoundRe.FindStringSubmatch(s); m != nil {
		return 100 + atoi(m[1])
	}
	if m := upperRoundRe.FindStringSubmatch(s); m != nil {
		return 200 + 2*atoi(m[1])
	}
	if m := lowerRoundRe.FindStringSubmatch(s); m != nil {
		return 201 + 2*atoi(m[1])
	}
	if m := plainRoundRe.FindStringSubmatch(s); m != nil {
		return 200 + 2*atoi(m[1])
	}
	if m := roundOfRe.FindStringSubmatch(s); m != nil {
		return 1000 - atoi(m[1])
	}
	if strings.Contains(lower, "group") {
		return 100
	}

	fromLower := strings.Contains(lower, "lower") || strings.Contains(lower, "loser")
	switch {
	case strings.Contains(lower, "quarterfinal"):
		if fromLower {
			return 1101
		}
		return 1100
	case strings.Contains(lower, "semifinal"):
		if fromLower {
			return 1111
		}
		return 1110
	case strings.Contains(lower, "final"): // includes "Grand Final"
		if fromLower {
			return 1121
		}
		return 1120
	}
	return UnknownRoundOrder
}

// Compare orders two matches by tournament date, then explicit match date,
// then round depth, then match id. A match with a tournament date precedes
// one without.
func Compare(a, b domain.Match) int {
	if c := compareDates(a.TournamentDate, b.TournamentDate); c != 0 {
		return c
	}
	if a.Date != nil && b.Date != nil {
		if c := a.Date.Compare(*b.Date); c != 0 {
			return c
		}
	}
	if c := RoundOrder(a.Stage) - RoundOrder(b.Stage); c != 0 {
		return c
	}
	return strings.Compare(a.MatchID, b.MatchID)
}

// Sort returns the matches in global chronological order. The input slice is
// not modified.
func Sort(matches []domain.Match) []domain.Match {
	ordered := slices.Clone(matches)
	slices.SortStableFunc(ordered, Compare)
	return ordered
}

func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
