package ranking

import "sc2-rankings/internal/domain"

// ComputeSeeds runs the two preliminary seeding passes over the seeding
// corpus: one forward in chronological order, one over the exact reverse.
// The seed for every entity seen is the arithmetic mean of its final points
// across the passes it appeared in. Both passes' match histories and rating
// deltas are discarded; only the seed map survives into the authoritative
// third pass.
//
// Running only forward would let the earliest tournament's results dominate
// the perceived strength distribution, since everyone starts equal; the
// reversed pass removes that directional bias.
func ComputeSeeds(corpus []domain.Match, newDriver func() Driver) map[string]float64 {
	forward := newDriver()
	for _, m := range corpus {
		forward.Process(m)
	}

	backward := newDriver()
	for i := len(corpus) - 1; i >= 0; i-- {
		backward.Process(corpus[i])
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, pass := range []Driver{forward, backward} {
		for _, s := range pass.Rankings() {
			sums[s.Key] += s.Points
			counts[s.Key]++
		}
	}

	seeds := make(map[string]float64, len(sums))
	for key, sum := range sums {
		seeds[key] = sum / float64(counts[key])
	}
	return seeds
}
