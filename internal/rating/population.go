package rating

import "math"

const (
	// StdDevFloor keeps the win-probability curve from becoming
	// hypersensitive while ratings are still clustered together.
	StdDevFloor = 50.0
	// StdDevFallback is used when there is no population to measure yet.
	StdDevFallback = 350.0
)

// Population is a snapshot of the rating spread across one entity map.
// Drivers recompute it before every match so that entities initialized by
// that same match cannot bias the snapshot used to predict its outcome.
type Population struct {
	Mean   float64
	StdDev float64
}

// Snapshot computes the mean and population standard deviation of all
// current points. An empty map yields {0, StdDevFallback}; a non-empty one
// never reports a standard deviation below StdDevFloor.
func Snapshot(states map[string]*State) Population {
	if len(states) == 0 {
		return Population{Mean: 0, StdDev: StdDevFallback}
	}

	var sum float64
	for _, s := range states {
		sum += s.Points
	}
	mean := sum / float64(len(states))

	var sqDiff float64
	for _, s := range states {
		d := s.Points - mean
		sqDiff += d * d
	}
	stddev := math.Sqrt(sqDiff / float64(len(states)))

	return Population{Mean: mean, StdDev: math.Max(stddev, StdDevFloor)}
}
