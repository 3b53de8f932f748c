package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFENRoundTrip(t *testing.T) {
	positions := []string{
		FENStartPosition,
		FENKiwiPete,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"8/8/8/8/8/8/8/R3K2R w KQ - 0 1",
	}

	for _, fen := range positions {
		b, err := NewBoard(fen)
		require.NoError(t, err, "loading %q", fen)
		require.Equal(t, fen, b.FEN(), "round trip of %q", fen)

		// Re-loading the serialized FEN must reproduce the same hash.
		b2, err := NewBoard(b.FEN())
		require.NoError(t, err)
		require.Equal(t, b.Hash, b2.Hash)
	}
}

func TestFENRejectsMalformedInput(t *testing.T) {
	_, err := NewBoard("not a fen")
	require.Error(t, err)

	_, err = NewBoard("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1")
	require.Error(t, err)
}

func TestLoadFENSetsZobristHashFromScratch(t *testing.T) {
	b, err := NewBoard(FENKiwiPete)
	require.NoError(t, err)
	require.Equal(t, zobristOf(b), b.Hash)
}
