package nnue

import "rival/core"

const maxPly = 128

// Accumulator maintains the feature-transformer activations for both
// perspectives across the search stack. It implements core.Accumulator
// so that Board.MakeMove/UnmakeMove can keep it incrementally in sync;
// Push/Pop let Unmake restore the previous ply's values without having
// to replay a move's feature deltas in reverse.
type Accumulator struct {
	net *Network

	values [maxPly + 1][2][HiddenSize]int16
	top    int

	kingSq [maxPly + 1][2]int
}

func NewAccumulator(net *Network) *Accumulator {
	a := &Accumulator{net: net}
	return a
}

// Refresh computes both perspectives from scratch against b and resets
// the stack to depth 0; callers must call this once before a search
// begins (after SetPosition) since Push/Pop only ever copy forward
// from whatever is already at the top of the stack.
func (a *Accumulator) Refresh(b *core.Board) {
	a.top = 0
	for c := core.White; c <= core.Black; c++ {
		a.recompute(b, c, 0)
	}
}

func (a *Accumulator) recompute(b *core.Board, perspective core.Color, level int) {
	copy(a.values[level][perspective][:], a.net.featureBiases[:])
	kingSq := b.KingSquare(perspective)
	a.kingSq[level][perspective] = kingSq

	for c := core.White; c <= core.Black; c++ {
		for t := core.Pawn; t <= core.King; t++ {
			bb := b.PieceBB(c, t)
			for bb != 0 {
				sq := core.PopLSB(&bb)
				idx := featureIndex(perspective, kingSq, c, t, sq)
				addWeights(&a.values[level][perspective], &a.net.featureWeights[idx])
			}
		}
	}
}

func (a *Accumulator) Push() {
	a.values[a.top+1] = a.values[a.top]
	a.kingSq[a.top+1] = a.kingSq[a.top]
	a.top++
}

func (a *Accumulator) Pop() {
	a.top--
}

func (a *Accumulator) AddPiece(c core.Color, t core.PieceType, sq int) {
	for persp := core.White; persp <= core.Black; persp++ {
		idx := featureIndex(persp, a.kingSq[a.top][persp], c, t, sq)
		addWeights(&a.values[a.top][persp], &a.net.featureWeights[idx])
	}
}

func (a *Accumulator) RemovePiece(c core.Color, t core.PieceType, sq int) {
	for persp := core.White; persp <= core.Black; persp++ {
		idx := featureIndex(persp, a.kingSq[a.top][persp], c, t, sq)
		subWeights(&a.values[a.top][persp], &a.net.featureWeights[idx])
	}
}

func (a *Accumulator) MovePiece(c core.Color, t core.PieceType, from, to int) {
	a.RemovePiece(c, t, from)
	a.AddPiece(c, t, to)
}

func (a *Accumulator) RefreshOnKingMove(b *core.Board, c core.Color) {
	a.recompute(b, c, a.top)
}

func addWeights(dst *[HiddenSize]int16, w *[HiddenSize]int16) {
	for i := range dst {
		dst[i] += w[i]
	}
}

func subWeights(dst *[HiddenSize]int16, w *[HiddenSize]int16) {
	for i := range dst {
		dst[i] -= w[i]
	}
}

// current returns the accumulator values in use for the top-of-stack
// position, one array per perspective.
func (a *Accumulator) current() *[2][HiddenSize]int16 {
	return &a.values[a.top]
}
