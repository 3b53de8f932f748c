package core

// Accumulator is the subset of nnue.Accumulator's behaviour makeunmake
// needs to keep incremental evaluation in sync with the board: a
// dirty-piece note per changed feature, refreshed wholesale on king
// moves. core never imports nnue directly (nnue imports core for
// Board/Move/Color/PieceType); the engine wires a concrete
// accumulator satisfying this interface in before searching.
type Accumulator interface {
	// Push snapshots the current feature values onto an internal
	// per-ply stack before a move's AddPiece/RemovePiece/MovePiece
	// calls mutate them, so Pop can restore them verbatim on Unmake
	// without having to replay the move's effects in reverse.
	Push()
	Pop()

	AddPiece(c Color, t PieceType, sq int)
	RemovePiece(c Color, t PieceType, sq int)
	MovePiece(c Color, t PieceType, from, to int)

	// RefreshOnKingMove recomputes c's perspective from scratch against
	// the board's post-move state, discarding whatever incremental
	// deltas were applied to it during this move: a king move changes
	// every feature index for that perspective, so an incremental
	// update would touch as many entries as a refresh anyway.
	RefreshOnKingMove(b *Board, c Color)
}

// MakeMove applies move to the board, recording everything needed to
// undo it in an internal history stack, and reports whether the move
// is legal: false means the resulting position leaves the mover's own
// king in check, and the caller must immediately Unmake.
//
// acc may be nil, in which case no incremental NNUE bookkeeping is
// performed (used by perft and other evaluation-agnostic callers).
func (b *Board) MakeMove(m Move, acc Accumulator) bool {
	if acc != nil {
		acc.Push()
	}

	us := b.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	moveType := m.MoveType()

	mover := b.Pieces[from]

	st := stateInfo{
		castlingRights: b.CastlingRights,
		epSquare:       b.EPSquare,
		halfmoveClock:  b.HalfMoveClock,
		zobristKey:     b.Hash,
	}

	if b.EPSquare != NoSquare {
		b.Hash ^= epKeys[fileOf(b.EPSquare)]
	}
	b.EPSquare = NoSquare

	switch moveType {
	case CastleWKS:
		b.relocate(acc, from, to)
		b.relocate(acc, H1, F1)
	case CastleWQS:
		b.relocate(acc, from, to)
		b.relocate(acc, A1, D1)
	case CastleBKS:
		b.relocate(acc, from, to)
		b.relocate(acc, H8, F8)
	case CastleBQS:
		b.relocate(acc, from, to)
		b.relocate(acc, A8, D8)

	case AttackEP:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		cap := b.Pieces[capSq]
		st.captured, st.capturedColor = cap.Type, cap.Color
		b.removePiece(capSq)
		if acc != nil {
			acc.RemovePiece(cap.Color, cap.Type, capSq)
		}
		b.relocate(acc, from, to)

	case KnightPromotion, BishopPromotion, RookPromotion, QueenPromotion,
		KnightPromotionCapture, BishopPromotionCapture, RookPromotionCapture, QueenPromotionCapture:
		cap := b.Pieces[to]
		if cap.Type != NoPieceType {
			st.captured, st.capturedColor = cap.Type, cap.Color
			b.removePiece(to)
			if acc != nil {
				acc.RemovePiece(cap.Color, cap.Type, to)
			}
		}
		b.removePiece(from)
		if acc != nil {
			acc.RemovePiece(us, Pawn, from)
		}
		promo := m.PromotionType()
		b.putPiece(us, promo, to)
		if acc != nil {
			acc.AddPiece(us, promo, to)
		}

	case Attack:
		cap := b.Pieces[to]
		st.captured, st.capturedColor = cap.Type, cap.Color
		b.removePiece(to)
		if acc != nil {
			acc.RemovePiece(cap.Color, cap.Type, to)
		}
		b.relocate(acc, from, to)

	default: // Quiet, DoublePawnPush
		b.relocate(acc, from, to)
	}

	b.HalfMoveClock++
	if mover.Type == Pawn || st.captured != NoPieceType {
		b.HalfMoveClock = 0
	}

	if moveType == DoublePawnPush {
		epSq := to - 8
		if us == Black {
			epSq = to + 8
		}
		b.EPSquare = epSq
		b.Hash ^= epKeys[fileOf(epSq)]
	}

	b.updateCastlingRights(from, to, &st)

	if us == Black {
		b.FullMoveCounter++
	}

	b.SideToMove = them
	b.Hash ^= sideKey

	if mover.Type == King && acc != nil {
		acc.RefreshOnKingMove(b, us)
	}

	b.history[b.ply] = st
	b.keyHist[b.ply] = st.zobristKey
	b.ply++

	return !b.SquareAttackedBy(b.KingSquare(us), them)
}

func (b *Board) relocate(acc Accumulator, from, to int) {
	p := b.Pieces[from]
	b.movePieceQuiet(from, to)
	if acc != nil {
		acc.MovePiece(p.Color, p.Type, from, to)
	}
}

func (b *Board) updateCastlingRights(from, to int, st *stateInfo) {
	prev := b.CastlingRights
	clear := func(sq int, right uint8) {
		if from == sq || to == sq {
			b.CastlingRights &^= right
		}
	}
	clear(E1, WhiteKingside|WhiteQueenside)
	clear(A1, WhiteQueenside)
	clear(H1, WhiteKingside)
	clear(E8, BlackKingside|BlackQueenside)
	clear(A8, BlackQueenside)
	clear(H8, BlackKingside)

	if b.CastlingRights != prev {
		b.Hash ^= castlingKeys[prev]
		b.Hash ^= castlingKeys[b.CastlingRights]
	}
	_ = st
}

// UnmakeMove reverses the most recently made move. The caller must
// pass the same move and accumulator used in the matching MakeMove.
func (b *Board) UnmakeMove(m Move, acc Accumulator) {
	if acc != nil {
		acc.Pop()
	}

	b.ply--
	st := b.history[b.ply]

	them := b.SideToMove
	us := them.Other()

	b.SideToMove = us
	b.CastlingRights = st.castlingRights
	b.EPSquare = st.epSquare
	b.HalfMoveClock = st.halfmoveClock
	if us == Black {
		b.FullMoveCounter--
	}

	from, to := m.From(), m.To()
	moveType := m.MoveType()

	switch moveType {
	case CastleWKS:
		b.movePieceQuiet(to, from)
		b.movePieceQuiet(F1, H1)
	case CastleWQS:
		b.movePieceQuiet(to, from)
		b.movePieceQuiet(D1, A1)
	case CastleBKS:
		b.movePieceQuiet(to, from)
		b.movePieceQuiet(F8, H8)
	case CastleBQS:
		b.movePieceQuiet(to, from)
		b.movePieceQuiet(D8, A8)

	case AttackEP:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		b.movePieceQuiet(to, from)
		b.putPiece(st.capturedColor, st.captured, capSq)

	case KnightPromotion, BishopPromotion, RookPromotion, QueenPromotion,
		KnightPromotionCapture, BishopPromotionCapture, RookPromotionCapture, QueenPromotionCapture:
		b.removePiece(to)
		if st.captured != NoPieceType {
			b.putPiece(st.capturedColor, st.captured, to)
		}
		b.putPiece(us, Pawn, from)

	case Attack:
		b.movePieceQuiet(to, from)
		b.putPiece(st.capturedColor, st.captured, to)

	default:
		b.movePieceQuiet(to, from)
	}

	b.Hash = st.zobristKey
}

// hasNonPawnMaterial reports whether c has any piece besides pawns and
// king, the standard zugzwang guard for null-move pruning: with only
// pawns and a king left, "doing nothing" is often illegally good,
// since there may be no quiet move at all.
func (b *Board) hasNonPawnMaterial(c Color) bool {
	return b.byType[c][Knight]|b.byType[c][Bishop]|b.byType[c][Rook]|b.byType[c][Queen] != 0
}

// MakeNullMove passes the turn without moving a piece, for null-move
// pruning: it clears the en-passant square and flips the side to move,
// recording enough state in the history stack for UnmakeNullMove to
// reverse it exactly like a real move.
func (b *Board) MakeNullMove() {
	st := stateInfo{
		castlingRights: b.CastlingRights,
		epSquare:       b.EPSquare,
		halfmoveClock:  b.HalfMoveClock,
		zobristKey:     b.Hash,
	}

	if b.EPSquare != NoSquare {
		b.Hash ^= epKeys[fileOf(b.EPSquare)]
	}
	b.EPSquare = NoSquare

	b.SideToMove = b.SideToMove.Other()
	b.Hash ^= sideKey

	b.history[b.ply] = st
	b.keyHist[b.ply] = st.zobristKey
	b.ply++
}

// UnmakeNullMove reverses the most recently made MakeNullMove.
func (b *Board) UnmakeNullMove() {
	b.ply--
	st := b.history[b.ply]

	b.SideToMove = b.SideToMove.Other()
	b.EPSquare = st.epSquare
	b.Hash = st.zobristKey
}

// Repeated reports whether the current position's key has occurred at
// least twice before in the game history (a threefold repetition), for
// draw-by-repetition detection in search.
func (b *Board) Repeated() bool {
	count := 0
	for i := 0; i < b.ply; i++ {
		if b.keyHist[i] == b.Hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// FiftyMoveRule reports whether the halfmove clock has reached the
// threshold for a draw claim.
func (b *Board) FiftyMoveRule() bool {
	return b.HalfMoveClock >= 100
}
