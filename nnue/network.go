// Package nnue implements the engine's neural evaluator: a king-bucketed
// feature transformer followed by a clipped-squared-ReLU activation and
// a small set of bucketed linear output heads, in the style of modern
// "efficiently updatable neural network" chess evaluators.
package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"
	"rival/core"
)

var log = logging.MustGetLogger("nnue")

const (
	// KingBuckets partitions the 64 king squares into coarse regions
	// so the feature transformer can specialise per king placement
	// without needing a full 64-way split.
	KingBuckets = 4

	// InputsPerBucket is the per-perspective feature-plane size:
	// 2 colours * 6 piece types * 64 squares.
	InputsPerBucket = 768
	InputSize       = KingBuckets * InputsPerBucket

	HiddenSize = 256

	OutputBuckets = 8

	QA    = 255
	QB    = 64
	Scale = 400
)

// kingBucketTable maps a king's square to its bucket index, for a king
// already folded into the a..d file half by kingBucketAndMirror (a
// kingside king mirrors onto its queenside mirror square before this
// lookup, so only files a..d are ever read; the table is symmetric
// across the e..h half regardless).
var kingBucketTable = [64]int{
	0, 0, 1, 1, 1, 1, 0, 0,
	0, 0, 1, 1, 1, 1, 0, 0,
	2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2,
	3, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3,
}

// Network holds the immutable, loaded weights of the feature
// transformer and the output heads. Zero value is a valid "no network
// loaded" state; Loaded() reports false until Load succeeds.
type Network struct {
	featureWeights [InputSize][HiddenSize]int16
	featureBiases  [HiddenSize]int16

	outputWeights [OutputBuckets][2 * HiddenSize]int16
	outputBiases  [OutputBuckets]int32

	loaded bool
}

func (n *Network) Loaded() bool { return n != nil && n.loaded }

// Load reads the network's binary layout from path: feature weights,
// feature biases, output weights, output biases, each as little-endian
// fixed-point integers, in that order. A trailing 48-byte footer (used
// by some training pipelines to stash metadata) is tolerated and
// ignored, not treated as a format error.
func (n *Network) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("nnue: opening network file: %w", err)
	}
	defer f.Close()

	if err := binary.Read(f, binary.LittleEndian, &n.featureWeights); err != nil {
		return fmt.Errorf("nnue: reading feature weights: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &n.featureBiases); err != nil {
		return fmt.Errorf("nnue: reading feature biases: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &n.outputWeights); err != nil {
		return fmt.Errorf("nnue: reading output weights: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &n.outputBiases); err != nil {
		return fmt.Errorf("nnue: reading output biases: %w", err)
	}

	var trailer [48]byte
	if _, err := io.ReadFull(f, trailer[:]); err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("nnue: reading trailer: %w", err)
	}

	n.loaded = true
	log.Infof("loaded network from %s", path)
	return nil
}

// kingBucketAndMirror returns the feature-transformer bucket for a king
// already expressed in the perspective's own frame (rank-flipped for
// Black, not yet mirrored), plus whether features seen from this
// king's perspective should additionally be mirrored horizontally:
// kings on the kingside (file e..h) share weights with the queenside
// via a file flip, so the table itself is only ever indexed with a
// file in a..d.
func kingBucketAndMirror(relKingSq int) (bucket int, mirror bool) {
	file := relKingSq % 8
	mirror = file >= 4
	sq := relKingSq
	if mirror {
		sq ^= 7 // flip file so the table only ever sees a..d kings
	}
	return kingBucketTable[sq], mirror
}

// featureIndex computes the feature-transformer input index for a
// piece of type pt and colour pc sitting on sq, as seen from the
// perspective of the king on kingSq: bucket*768 + colourIndex*384 +
// pieceType*64 + transformedSquare.
func featureIndex(perspective core.Color, kingSq int, pc core.Color, pt core.PieceType, sq int) int {
	relKingSq := kingSq
	if perspective == core.Black {
		relKingSq ^= 56 // flip rank so the perspective's own king is always "near rank 1"
	}
	bucket, mirror := kingBucketAndMirror(relKingSq)

	relSq := sq
	if perspective == core.Black {
		relSq ^= 56 // flip rank so the perspective's own king is always "near rank 1"
	}
	if mirror {
		relSq ^= 7 // flip file
	}

	colourIndex := 0
	if pc != perspective {
		colourIndex = 1
	}

	pieceIndex := int(pt) - 1 // PieceType Pawn==1 .. King==6, drop the NoPieceType gap
	return bucket*InputsPerBucket + colourIndex*384 + pieceIndex*64 + relSq
}
