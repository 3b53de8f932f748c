package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranspositionTableProbeStoreRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0xDEADBEEFCAFEBABE)

	_, _, _, _, ok := tt.Probe(key, 0)
	require.False(t, ok)

	move := MakeMove(E2, E4, DoublePawnPush)
	tt.Store(key, move, 123, 4, BoundExact, 0)

	got, score, depth, bound, ok := tt.Probe(key, 0)
	require.True(t, ok)
	require.Equal(t, move, got)
	require.Equal(t, 123, score)
	require.Equal(t, 4, depth)
	require.Equal(t, BoundExact, bound)
}

func TestTranspositionTableKeepsBestMoveOnBoundOnlyUpdate(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(12345)
	move := MakeMove(G1, F3, Quiet)

	tt.Store(key, move, 50, 3, BoundExact, 0)
	tt.Store(key, NoMove, 10, 4, BoundUpper, 0)

	got, _, depth, bound, ok := tt.Probe(key, 0)
	require.True(t, ok)
	require.Equal(t, move, got, "move should be preserved across a bound-only restore")
	require.Equal(t, 4, depth)
	require.Equal(t, BoundUpper, bound)
}

func TestScoreToFromTTAdjustsMateDistance(t *testing.T) {
	mateAtPly := MateScore - 3
	stored := scoreToTT(mateAtPly, 5)
	require.Equal(t, mateAtPly+5, stored)
	require.Equal(t, mateAtPly, scoreFromTT(stored, 5))

	// Ordinary scores pass through untouched.
	require.Equal(t, 57, scoreToTT(57, 9))
	require.Equal(t, 57, scoreFromTT(57, 9))
}

func TestShouldReplaceAcceptsStaleAgeRegardlessOfDepth(t *testing.T) {
	tt := NewTranspositionTable(1)
	var deep ttEntry
	deep.key, deep.depth, deep.age = 999, 10, tt.age

	tt.NewSearch()
	require.True(t, tt.shouldReplace(&deep, 1234, 1), "an entry from a previous search generation must be replaceable even by a shallower write")
}
