package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineSetPositionReplaysMoves(t *testing.T) {
	e := NewEngine(DefaultEngineOptions())
	err := e.SetPosition(FENStartPosition, []string{"e2e4", "e7e5", "g1f3"})
	require.NoError(t, err)
	require.Equal(t, Knight, e.Board().Pieces[F3].Type)
	require.Equal(t, Black, e.Board().SideToMove)
}

func TestEngineSetPositionRejectsIllegalMove(t *testing.T) {
	e := NewEngine(DefaultEngineOptions())
	err := e.SetPosition(FENStartPosition, []string{"e2e5"})
	require.Error(t, err)
}

func TestEngineSetOptionHash(t *testing.T) {
	e := NewEngine(DefaultEngineOptions())
	e.SetOption("Hash", "16")
	require.Equal(t, 16, e.options.HashMB)
}

func TestEngineSetOptionUnknownIsIgnored(t *testing.T) {
	e := NewEngine(DefaultEngineOptions())
	require.NotPanics(t, func() { e.SetOption("NotARealOption", "1") })
}

func TestEngineGoReturnsLegalMove(t *testing.T) {
	e := NewEngine(DefaultEngineOptions())
	require.NoError(t, e.SetPosition(FENStartPosition, nil))
	best := e.Go(SearchLimits{Depth: 2}, nil)
	require.NotEqual(t, NoMove, best)
}

func TestParseLongAlgebraicCastling(t *testing.T) {
	b, err := NewBoard("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	m, err := parseLongAlgebraic(b, "e1g1")
	require.NoError(t, err)
	require.Equal(t, CastleWKS, m.MoveType())
}

func TestParseLongAlgebraicPromotion(t *testing.T) {
	b, err := NewBoard("8/P7/8/8/8/8/8/k1K5 w - - 0 1")
	require.NoError(t, err)

	m, err := parseLongAlgebraic(b, "a7a8q")
	require.NoError(t, err)
	require.Equal(t, QueenPromotion, m.MoveType())
}
