package nnue

import (
	"math/bits"

	"rival/core"
)

// Evaluate computes the network's output for b from the side to
// move's perspective, in centipawns. It recomputes both perspectives'
// feature-transformer activations fresh rather than reusing a search's
// incremental Accumulator, so it can be called standalone (as
// core.Evaluator requires) without the caller having to thread an
// Accumulator through; Accumulator exists separately to satisfy
// core.Board's incremental make/unmake hooks during search, and is
// verified against this fresh computation in tests.
func (n *Network) Evaluate(b *core.Board) int {
	if !n.loaded {
		return core.EvaluateClassical(b)
	}

	var acc [2][HiddenSize]int16
	for persp := core.White; persp <= core.Black; persp++ {
		copy(acc[persp][:], n.featureBiases[:])
		kingSq := b.KingSquare(persp)
		for c := core.White; c <= core.Black; c++ {
			for t := core.Pawn; t <= core.King; t++ {
				bb := b.PieceBB(c, t)
				for bb != 0 {
					sq := core.PopLSB(&bb)
					idx := featureIndex(persp, kingSq, c, t, sq)
					addWeights(&acc[persp], &n.featureWeights[idx])
				}
			}
		}
	}

	bucket := outputBucket(b)
	us, them := b.SideToMove, b.SideToMove.Other()

	var sum int64
	for i := 0; i < HiddenSize; i++ {
		sum += int64(screlu(acc[us][i])) * int64(n.outputWeights[bucket][i])
	}
	for i := 0; i < HiddenSize; i++ {
		sum += int64(screlu(acc[them][i])) * int64(n.outputWeights[bucket][HiddenSize+i])
	}
	sum /= QA
	sum += int64(n.outputBiases[bucket])
	return int(sum * Scale / (QA * QB))
}

// screlu is the clipped, squared ReLU activation: clamp to [0, QA],
// then square. Keeping the intermediate in int32 avoids overflow for
// QA=255 (255^2 fits comfortably).
func screlu(x int16) int32 {
	v := int32(x)
	if v < 0 {
		v = 0
	}
	if v > QA {
		v = QA
	}
	return v * v
}

// outputBucket selects which of the OutputBuckets linear heads to use,
// based on total piece count: bucket = clamp((pieces-2)/ceil(30/OutputBuckets),
// 0, OutputBuckets-1), so a full board routes to the highest bucket and
// bare kings route to the lowest, matching the buckets' endgame-to-opening
// training order.
func outputBucket(b *core.Board) int {
	pieces := 0
	for c := core.White; c <= core.Black; c++ {
		for t := core.Pawn; t <= core.King; t++ {
			pieces += bits.OnesCount64(b.PieceBB(c, t))
		}
	}
	const divisor = (30 + OutputBuckets - 1) / OutputBuckets
	bucket := (pieces - 2) / divisor
	if bucket >= OutputBuckets {
		bucket = OutputBuckets - 1
	}
	if bucket < 0 {
		bucket = 0
	}
	return bucket
}
