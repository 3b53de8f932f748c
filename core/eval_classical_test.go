package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mirrorFEN vertically flips a FEN's piece placement and swaps the
// colour of every piece and the side to move, producing the position
// that a correct evaluator must score identically in magnitude.
func mirrorFEN(t *testing.T, b *Board) *Board {
	t.Helper()
	mirrored := emptyBoard()
	for sq := 0; sq < 64; sq++ {
		p := b.Pieces[sq]
		if p.Type == NoPieceType {
			continue
		}
		mirrored.putPiece(p.Color.Other(), p.Type, sq^56)
	}
	mirrored.SideToMove = b.SideToMove.Other()
	mirrored.EPSquare = NoSquare
	return mirrored
}

// whiteRelative converts a side-to-move-relative score into White's
// point of view, the convention the mirror law is stated in.
func whiteRelative(b *Board, score int) int {
	if b.SideToMove == Black {
		return -score
	}
	return score
}

func TestEvaluateClassicalIsMirrorSymmetric(t *testing.T) {
	positions := []string{
		FENStartPosition,
		FENKiwiPete,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r1bqk2r/pppp1ppp/2n2n2/2b1p3/2B1P3/2N2N2/PPPP1PPP/R1BQK2R w KQkq - 6 5",
	}

	for _, fen := range positions {
		b, err := NewBoard(fen)
		require.NoError(t, err)
		m := mirrorFEN(t, b)
		require.Equal(t, whiteRelative(b, EvaluateClassical(b)), -whiteRelative(m, EvaluateClassical(m)), "mirror symmetry for %q", fen)
	}
}

func TestEvaluateClassicalFavoursMaterialAdvantage(t *testing.T) {
	// White is up a rook and a queen.
	b, err := NewBoard("4k3/8/8/8/8/8/8/R3K2Q w Q - 0 1")
	require.NoError(t, err)
	require.Greater(t, EvaluateClassical(b), 0)
}

func TestIsEndgameThreshold(t *testing.T) {
	b, err := NewBoard(FENStartPosition)
	require.NoError(t, err)
	require.False(t, isEndgame(b))

	bare, err := NewBoard("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.True(t, isEndgame(bare))
}
