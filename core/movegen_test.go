package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePseudoLegalMovesFromStartingPosition(t *testing.T) {
	b, err := NewBoard(FENStartPosition)
	require.NoError(t, err)

	var list MoveList
	b.GeneratePseudoLegalMoves(&list)
	require.Equal(t, 20, list.Len(), "the opening position has exactly 20 legal moves")
}

func TestCaptureGenerationIsSubsetOfPseudoLegal(t *testing.T) {
	b, err := NewBoard(FENKiwiPete)
	require.NoError(t, err)

	var all, captures MoveList
	b.GeneratePseudoLegalMoves(&all)
	b.GenerateCaptureAndPromotionMoves(&captures)

	allSet := make(map[Move]bool, all.Len())
	for i := 0; i < all.Len(); i++ {
		allSet[all.At(i)] = true
	}
	for i := 0; i < captures.Len(); i++ {
		m := captures.At(i)
		require.True(t, m.IsCapture() || m.IsPromotion(), "%s should be a capture or promotion", m)
		require.True(t, allSet[m], "%s from capture generation missing from full generation", m)
	}
}

func TestCaptureGenerationIncludesQuietPromotions(t *testing.T) {
	// White's a7 pawn can promote straight ahead with no capture
	// available; quiescence still needs to see it, since promoting
	// always produces a non-pawn piece.
	b, err := NewBoard("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var captures MoveList
	b.GenerateCaptureAndPromotionMoves(&captures)

	found := 0
	for i := 0; i < captures.Len(); i++ {
		m := captures.At(i)
		if m.From() == A7 && m.To() == A8 {
			found++
			require.True(t, m.IsPromotion())
			require.False(t, m.IsCapture())
		}
	}
	require.Equal(t, 4, found, "all four quiet promotion pieces should be generated")
}

func TestBitboardsAgreeWithMailboxAfterRandomPlay(t *testing.T) {
	b, err := NewBoard(FENStartPosition)
	require.NoError(t, err)

	var walk func(depth int)
	walk = func(depth int) {
		if depth == 0 {
			return
		}
		var list MoveList
		b.GeneratePseudoLegalMoves(&list)
		for i := 0; i < list.Len() && i < 8; i++ { // sample, not exhaustive
			m := list.At(i)
			if !b.MakeMove(m, nil) {
				b.UnmakeMove(m, nil)
				continue
			}
			assertBitboardMailboxCoherent(t, b)
			walk(depth - 1)
			b.UnmakeMove(m, nil)
		}
	}
	walk(3)
}

func assertBitboardMailboxCoherent(t *testing.T, b *Board) {
	t.Helper()
	for sq := 0; sq < 64; sq++ {
		p := b.Pieces[sq]
		if p.Type == NoPieceType {
			for c := White; c <= Black; c++ {
				for pt := Pawn; pt <= King; pt++ {
					require.Zero(t, b.byType[c][pt]&squareBB(sq), "square %d empty in mailbox but set in byType[%d][%d]", sq, c, pt)
				}
			}
			continue
		}
		require.NotZero(t, b.byType[p.Color][p.Type]&squareBB(sq))
		require.NotZero(t, b.byColor[p.Color]&squareBB(sq))
	}
}

func TestCastlingMoveRequiresEmptyAndUnattackedSquares(t *testing.T) {
	b, err := NewBoard("r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var list MoveList
	b.GeneratePseudoLegalMoves(&list)
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		require.NotEqual(t, CastleWKS, m.MoveType(), "kingside castle is blocked through check on e1/f1/g1 file attacks")
	}
}
