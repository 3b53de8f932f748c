package core

// Move generation produces pseudo-legal moves only: a generated move
// may leave the mover's own king in check. The search (and any other
// caller) must Make the move, test InCheck from the opponent's
// perspective on the resulting board, and Unmake it if it turns out
// illegal. This trades a few wasted make/unmake cycles for a much
// simpler generator than one that detects pins up front.

// GeneratePseudoLegalMoves appends every pseudo-legal move for the
// side to move into list.
func (b *Board) GeneratePseudoLegalMoves(list *MoveList) {
	us := b.SideToMove
	occ := b.occupied()
	ours := b.byColor[us]
	theirs := b.byColor[us.Other()]

	b.generatePawnMoves(list, us, occ, theirs, false)
	b.generateKnightMoves(list, us, ours, false)
	b.generateSliderMoves(list, us, Bishop, ours, occ, false)
	b.generateSliderMoves(list, us, Rook, ours, occ, false)
	b.generateSliderMoves(list, us, Queen, ours, occ, false)
	b.generateKingMoves(list, us, ours, false)
	b.generateCastlingMoves(list, us, occ)
}

// GenerateCaptureAndPromotionMoves appends only moves that change
// material or yield a promoted piece, for use in quiescence search.
func (b *Board) GenerateCaptureAndPromotionMoves(list *MoveList) {
	us := b.SideToMove
	occ := b.occupied()
	ours := b.byColor[us]
	theirs := b.byColor[us.Other()]

	b.generatePawnMoves(list, us, occ, theirs, true)
	b.generateKnightMoves(list, us, ours, true)
	b.generateSliderMoves(list, us, Bishop, ours, occ, true)
	b.generateSliderMoves(list, us, Rook, ours, occ, true)
	b.generateSliderMoves(list, us, Queen, ours, occ, true)
	b.generateKingMoves(list, us, ours, true)
}

func (b *Board) generatePawnMoves(list *MoveList, us Color, occ, theirs uint64, capturesOnly bool) {
	pawns := b.byType[us][Pawn]
	forward := 8
	startRank := Rank2
	promoRank := Rank8
	doublePushRank := Rank4
	if us == Black {
		forward = -8
		startRank = Rank7
		promoRank = Rank1
		doublePushRank = Rank5
	}

	bb := pawns
	for bb != 0 {
		from := popLSB(&bb)
		to := from + forward

		if to >= 0 && to < 64 && occ&squareBB(to) == 0 {
			if squareBB(to)&promoRank != 0 {
				// A pawn reaching the back rank always produces a
				// non-pawn piece, so quiescence wants it even without
				// a capture.
				addPromotions(list, from, to, false)
			} else if !capturesOnly {
				list.Add(MakeMove(from, to, Quiet))
				if squareBB(from)&startRank != 0 {
					to2 := to + forward
					if occ&squareBB(to2) == 0 && squareBB(to2)&doublePushRank != 0 {
						list.Add(MakeMove(from, to2, DoublePawnPush))
					}
				}
			}
		}

		for _, capTo := range []int{from + forward - 1, from + forward + 1} {
			if capTo < 0 || capTo >= 64 {
				continue
			}
			if abs(fileOf(capTo)-fileOf(from)) != 1 {
				continue
			}
			if theirs&squareBB(capTo) != 0 {
				if squareBB(capTo)&promoRank != 0 {
					addPromotions(list, from, capTo, true)
				} else {
					list.Add(MakeMove(from, capTo, Attack))
				}
			} else if capTo == b.EPSquare {
				list.Add(MakeMove(from, capTo, AttackEP))
			}
		}
	}
}

func addPromotions(list *MoveList, from, to int, capture bool) {
	if capture {
		list.Add(MakeMove(from, to, KnightPromotionCapture))
		list.Add(MakeMove(from, to, BishopPromotionCapture))
		list.Add(MakeMove(from, to, RookPromotionCapture))
		list.Add(MakeMove(from, to, QueenPromotionCapture))
	} else {
		list.Add(MakeMove(from, to, KnightPromotion))
		list.Add(MakeMove(from, to, BishopPromotion))
		list.Add(MakeMove(from, to, RookPromotion))
		list.Add(MakeMove(from, to, QueenPromotion))
	}
}

func (b *Board) generateKnightMoves(list *MoveList, us Color, ours uint64, capturesOnly bool) {
	theirs := b.byColor[us.Other()]
	bb := b.byType[us][Knight]
	for bb != 0 {
		from := popLSB(&bb)
		targets := knightAttacks[from] &^ ours
		if capturesOnly {
			targets &= theirs
		}
		addTargets(list, from, targets, theirs)
	}
}

func (b *Board) generateKingMoves(list *MoveList, us Color, ours uint64, capturesOnly bool) {
	theirs := b.byColor[us.Other()]
	from := b.KingSquare(us)
	targets := kingAttacks[from] &^ ours
	if capturesOnly {
		targets &= theirs
	}
	addTargets(list, from, targets, theirs)
}

func (b *Board) generateSliderMoves(list *MoveList, us Color, t PieceType, ours, occ uint64, capturesOnly bool) {
	theirs := b.byColor[us.Other()]
	bb := b.byType[us][t]
	for bb != 0 {
		from := popLSB(&bb)
		var attacks uint64
		switch t {
		case Bishop:
			attacks = bishopAttacks(from, occ)
		case Rook:
			attacks = rookAttacks(from, occ)
		case Queen:
			attacks = queenAttacks(from, occ)
		}
		targets := attacks &^ ours
		if capturesOnly {
			targets &= theirs
		}
		addTargets(list, from, targets, theirs)
	}
}

func addTargets(list *MoveList, from int, targets, theirs uint64) {
	for targets != 0 {
		to := popLSB(&targets)
		if theirs&squareBB(to) != 0 {
			list.Add(MakeMove(from, to, Attack))
		} else {
			list.Add(MakeMove(from, to, Quiet))
		}
	}
}

func (b *Board) generateCastlingMoves(list *MoveList, us Color, occ uint64) {
	them := us.Other()
	if us == White {
		if b.CastlingRights&WhiteKingside != 0 &&
			occ&(squareBB(F1)|squareBB(G1)) == 0 &&
			!b.SquareAttackedBy(E1, them) && !b.SquareAttackedBy(F1, them) && !b.SquareAttackedBy(G1, them) {
			list.Add(MakeMove(E1, G1, CastleWKS))
		}
		if b.CastlingRights&WhiteQueenside != 0 &&
			occ&(squareBB(B1)|squareBB(C1)|squareBB(D1)) == 0 &&
			!b.SquareAttackedBy(E1, them) && !b.SquareAttackedBy(D1, them) && !b.SquareAttackedBy(C1, them) {
			list.Add(MakeMove(E1, C1, CastleWQS))
		}
	} else {
		if b.CastlingRights&BlackKingside != 0 &&
			occ&(squareBB(F8)|squareBB(G8)) == 0 &&
			!b.SquareAttackedBy(E8, them) && !b.SquareAttackedBy(F8, them) && !b.SquareAttackedBy(G8, them) {
			list.Add(MakeMove(E8, G8, CastleBKS))
		}
		if b.CastlingRights&BlackQueenside != 0 &&
			occ&(squareBB(B8)|squareBB(C8)|squareBB(D8)) == 0 &&
			!b.SquareAttackedBy(E8, them) && !b.SquareAttackedBy(D8, them) && !b.SquareAttackedBy(C8, them) {
			list.Add(MakeMove(E8, C8, CastleBQS))
		}
	}
}
