package nnue

import (
	"encoding/binary"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rival/core"
)

func writeRaw(f *os.File, v interface{}) error {
	return binary.Write(f, binary.LittleEndian, v)
}

func testNetwork(seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))
	n := &Network{loaded: true}
	for i := range n.featureWeights {
		for j := range n.featureWeights[i] {
			n.featureWeights[i][j] = int16(rng.Intn(201) - 100)
		}
	}
	for i := range n.featureBiases {
		n.featureBiases[i] = int16(rng.Intn(41) - 20)
	}
	for b := range n.outputWeights {
		for i := range n.outputWeights[b] {
			n.outputWeights[b][i] = int16(rng.Intn(21) - 10)
		}
		n.outputBiases[b] = int32(rng.Intn(101) - 50)
	}
	return n
}

func TestFeatureIndexWithinBounds(t *testing.T) {
	for kingSq := 0; kingSq < 64; kingSq++ {
		for pc := core.White; pc <= core.Black; pc++ {
			for pt := core.Pawn; pt <= core.King; pt++ {
				for sq := 0; sq < 64; sq++ {
					idx := featureIndex(core.White, kingSq, pc, pt, sq)
					require.GreaterOrEqual(t, idx, 0)
					require.Less(t, idx, InputSize)
				}
			}
		}
	}
}

func TestFeatureIndexDistinguishesPerspective(t *testing.T) {
	// The same physical feature must generally map to different
	// indices for White's and Black's perspective unless the king sits
	// symmetrically, since one perspective flips the rank.
	idxWhite := featureIndex(core.White, core.E1, core.Black, core.Knight, core.D4)
	idxBlack := featureIndex(core.Black, core.E1, core.Black, core.Knight, core.D4)
	require.NotEqual(t, idxWhite, idxBlack)
}

// TestAccumulatorIncrementalMatchesRefresh plays a short sequence of
// moves, keeping the Accumulator incrementally updated via
// Board.MakeMove/UnmakeMove, and checks that a full Refresh at the
// same position produces identical activations: the central testable
// property of any incremental NNUE implementation.
func TestAccumulatorIncrementalMatchesRefresh(t *testing.T) {
	net := testNetwork(7)
	b, err := core.NewBoard(core.FENStartPosition)
	require.NoError(t, err)

	acc := NewAccumulator(net)
	acc.Refresh(b)

	moves := []core.Move{
		core.MakeMove(core.E2, core.E4, core.DoublePawnPush),
		core.MakeMove(core.E7, core.E5, core.DoublePawnPush),
		core.MakeMove(core.G1, core.F3, core.Quiet),
		core.MakeMove(core.B8, core.C6, core.Quiet),
		core.MakeMove(core.F1, core.C4, core.Quiet),
	}

	for _, m := range moves {
		require.True(t, b.MakeMove(m, acc))
	}

	refreshed := NewAccumulator(net)
	refreshed.Refresh(b)

	require.Equal(t, *refreshed.current(), *acc.current())

	// Unwinding back to the start must also match a fresh refresh of
	// the starting position.
	for i := len(moves) - 1; i >= 0; i-- {
		b.UnmakeMove(moves[i], acc)
	}
	startRefresh := NewAccumulator(net)
	startRefresh.Refresh(b)
	require.Equal(t, *startRefresh.current(), *acc.current())
}

// mirrorFEN flips a FEN's board vertically and swaps every piece's
// colour, producing the position a player on the other side of the
// board would see; this package sits outside core and so, unlike
// core's own mirrorFEN test helper, cannot reach core's unexported
// board-construction internals and works from the FEN string instead.
// Castling rights and the en-passant square are dropped rather than
// transformed, matching the tolerance core's classical mirror test
// already accepts.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	fields := strings.Fields(fen)
	require.GreaterOrEqual(t, len(fields), 2)

	ranks := strings.Split(fields[0], "/")
	require.Len(t, ranks, 8)
	mirroredRanks := make([]string, 8)
	for i, rank := range ranks {
		mirroredRanks[7-i] = swapCase(rank)
	}

	stm := "b"
	if fields[1] == "b" {
		stm = "w"
	}

	return strings.Join(mirroredRanks, "/") + " " + stm + " - - 0 1"
}

func swapCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TestEvaluateIsApproximatelyMirrorSymmetric checks eval(P) = -eval(P'),
// with both scores taken from White's point of view (Evaluate itself
// scores for the side to move), within the quantised network's
// rounding tolerance, the NNUE analogue
// of core's exact EvaluateClassical mirror-symmetry test.
func TestEvaluateIsApproximatelyMirrorSymmetric(t *testing.T) {
	net := testNetwork(11)
	positions := []string{
		core.FENStartPosition,
		core.FENKiwiPete,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r1bqk2r/pppp1ppp/2n2n2/2b1p3/2B1P3/2N2N2/PPPP1PPP/R1BQK2R w KQkq - 6 5",
	}

	for _, fen := range positions {
		b, err := core.NewBoard(fen)
		require.NoError(t, err)
		mirrored, err := core.NewBoard(mirrorFEN(t, fen))
		require.NoError(t, err)

		got := net.Evaluate(b)
		if b.SideToMove == core.Black {
			got = -got
		}
		want := net.Evaluate(mirrored)
		if mirrored.SideToMove == core.White {
			want = -want
		}
		require.InDelta(t, want, got, 10, "mirror symmetry for %q", fen)
	}
}

func TestEvaluateFallsBackToClassicalWhenNotLoaded(t *testing.T) {
	net := &Network{}
	b, err := core.NewBoard(core.FENStartPosition)
	require.NoError(t, err)
	require.Equal(t, core.EvaluateClassical(b), net.Evaluate(b))
}

func TestLoadToleratesMissingTrailer(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "net-*.bin")
	require.NoError(t, err)
	defer f.Close()

	n := testNetwork(3)
	n.loaded = false

	require.NoError(t, writeRaw(f, n.featureWeights[:]))
	require.NoError(t, writeRaw(f, n.featureBiases[:]))
	require.NoError(t, writeRaw(f, n.outputWeights[:]))
	require.NoError(t, writeRaw(f, n.outputBiases[:]))
	// Deliberately no 48-byte trailer written.
	require.NoError(t, f.Close())

	loaded := &Network{}
	require.NoError(t, loaded.Load(f.Name()))
	require.True(t, loaded.Loaded())
}
