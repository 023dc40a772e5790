package rating

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotEmptyPopulation(t *testing.T) {
	pop := Snapshot(map[string]*State{})

	require.Equal(t, 0.0, pop.Mean)
	require.Equal(t, StdDevFallback, pop.StdDev)
}

func TestSnapshotIdenticalPointsHitsFloor(t *testing.T) {
	states := map[string]*State{
		"a": {Key: "a", Points: 42},
		"b": {Key: "b", Points: 42},
		"c": {Key: "c", Points: 42},
	}

	pop := Snapshot(states)

	require.Equal(t, 42.0, pop.Mean)
	require.Equal(t, StdDevFloor, pop.StdDev, "clustered ratings must report the floor, never 0")
}

func TestSnapshotComputesPopulationStdDev(t *testing.T) {
	states := map[string]*State{
		"a": {Key: "a", Points: 0},
		"b": {Key: "b", Points: 200},
	}

	pop := Snapshot(states)

	require.Equal(t, 100.0, pop.Mean)
	// population (not sample) stddev of {0, 200} is 100
	require.InDelta(t, 100.0, pop.StdDev, 1e-9)
}

func TestSnapshotSingleEntity(t *testing.T) {
	states := map[string]*State{
		"a": {Key: "a", Points: -30},
	}

	pop := Snapshot(states)

	require.Equal(t, -30.0, pop.Mean)
	require.Equal(t, StdDevFloor, pop.StdDev)
}
