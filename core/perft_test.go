package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerftStartingPosition(t *testing.T) {
	want := []uint64{20, 400, 8_902, 197_281, 4_865_609}
	if testing.Short() {
		want = want[:3]
	}

	for depth, expect := range want {
		b, err := NewBoard(FENStartPosition)
		require.NoError(t, err)
		require.Equal(t, expect, Perft(b, depth+1), "perft(%d) from starting position", depth+1)
	}
}

func TestPerftKiwipete(t *testing.T) {
	want := []uint64{48, 2_039, 97_862}
	if !testing.Short() {
		want = append(want, 4_085_603)
	}

	for depth, expect := range want {
		b, err := NewBoard(FENKiwiPete)
		require.NoError(t, err)
		require.Equal(t, expect, Perft(b, depth+1), "perft(%d) from kiwipete", depth+1)
	}
}

func TestPerftPositionThree(t *testing.T) {
	const fen = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	want := []uint64{14, 191, 2_812, 43_238}
	if !testing.Short() {
		want = append(want, 674_624)
	}

	for depth, expect := range want {
		b, err := NewBoard(fen)
		require.NoError(t, err)
		require.Equal(t, expect, Perft(b, depth+1), "perft(%d) from position three", depth+1)
	}
}
