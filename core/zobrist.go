package core

import "math/rand"

// zobristSeed is fixed so keys are reproducible across processes and
// runs; tests and perft divide rely on this for cross-run comparison.
const zobristSeed = 0x5A4D6F726C6F636B

var (
	pieceKeys    [2][7][64]uint64
	castlingKeys [16]uint64
	epKeys       [8]uint64
	sideKey      uint64
)

func init() {
	rng := rand.New(rand.NewSource(zobristSeed))

	for c := 0; c < 2; c++ {
		for t := Pawn; t <= King; t++ {
			for sq := 0; sq < 64; sq++ {
				pieceKeys[c][t][sq] = rng.Uint64()
			}
		}
	}
	for i := range castlingKeys {
		castlingKeys[i] = rng.Uint64()
	}
	for i := range epKeys {
		epKeys[i] = rng.Uint64()
	}
	sideKey = rng.Uint64()
}

func pieceKey(c Color, t PieceType, sq int) uint64 {
	return pieceKeys[c][t][sq]
}

// zobristOf recomputes a board's Zobrist key from scratch; used to
// cross-check the incrementally maintained key after FEN loads and in
// tests.
func zobristOf(b *Board) uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		p := b.Pieces[sq]
		if p.Type != NoPieceType {
			key ^= pieceKey(p.Color, p.Type, sq)
		}
	}
	key ^= castlingKeys[b.CastlingRights]
	if b.EPSquare != NoSquare {
		key ^= epKeys[fileOf(b.EPSquare)]
	}
	if b.SideToMove == Black {
		key ^= sideKey
	}
	return key
}
