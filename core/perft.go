package core

// Perft counts the leaf nodes of the legal move tree at exactly depth
// plies from b's current position, making and unmaking moves in place
// rather than copying the board. It is the standard ground truth for
// move-generator correctness: any deviation from a known perft count
// means a move was missed, invented, or miscategorised as legal.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var list MoveList
	b.GeneratePseudoLegalMoves(&list)

	var nodes uint64
	for i := 0; i < list.Len(); i++ {
		move := list.At(i)
		if !b.MakeMove(move, nil) {
			b.UnmakeMove(move, nil)
			continue
		}
		nodes += Perft(b, depth-1)
		b.UnmakeMove(move, nil)
	}
	return nodes
}

// DividePerft returns the per-root-move leaf counts at depth, for
// comparing against a reference engine's "divide" output when
// diagnosing a move generator discrepancy.
func DividePerft(b *Board, depth int) map[string]uint64 {
	var list MoveList
	b.GeneratePseudoLegalMoves(&list)

	result := make(map[string]uint64, list.Len())
	for i := 0; i < list.Len(); i++ {
		move := list.At(i)
		if !b.MakeMove(move, nil) {
			b.UnmakeMove(move, nil)
			continue
		}
		result[move.String()] = Perft(b, depth-1)
		b.UnmakeMove(move, nil)
	}
	return result
}
