package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTeamKeySortsNames(t *testing.T) {
	require.Equal(t, "Alice+Bob", TeamKey("Bob", "Alice"))
	require.Equal(t, "Alice+Bob", TeamKey("Alice", "Bob"))
}

func TestNormalizeRace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Protoss", "P"},
		{"protoss", "P"},
		{"p", "P"},
		{" Terran ", "T"},
		{"z", "Z"},
		{"Random", "R"},
		{"", ""},
		{"Xel'Naga", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeRace(tt.in), "in=%q", tt.in)
	}
}

func TestHasScores(t *testing.T) {
	score := 2
	m := Match{}
	require.False(t, m.HasScores())
	m.Team1Score = &score
	require.False(t, m.HasScores())
	m.Team2Score = &score
	require.True(t, m.HasScores())
}
