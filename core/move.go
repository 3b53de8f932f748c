package core

// Move is a packed 16-bit move: bits 0-5 from square, bits 6-11 to
// square, bits 12-15 the move-type nibble. Keeping moves this small
// lets MoveList stay a flat fixed-size array instead of a slice of
// pointers.
type Move uint16

const (
	Quiet = iota
	DoublePawnPush
	Attack
	AttackEP
	CastleWKS
	CastleWQS
	CastleBKS
	CastleBQS
	KnightPromotion
	BishopPromotion
	RookPromotion
	QueenPromotion
	KnightPromotionCapture
	BishopPromotionCapture
	RookPromotionCapture
	QueenPromotionCapture
)

const NoMove Move = 0

func MakeMove(from, to int, moveType int) Move {
	return Move(uint16(from) | uint16(to)<<6 | uint16(moveType)<<12)
}

func (m Move) From() int      { return int(m & 0x3F) }
func (m Move) To() int        { return int((m >> 6) & 0x3F) }
func (m Move) MoveType() int  { return int((m >> 12) & 0xF) }

func (m Move) IsPromotion() bool {
	t := m.MoveType()
	return t >= KnightPromotion && t <= QueenPromotionCapture
}

func (m Move) IsCapture() bool {
	switch m.MoveType() {
	case Attack, AttackEP, KnightPromotionCapture, BishopPromotionCapture, RookPromotionCapture, QueenPromotionCapture:
		return true
	default:
		return false
	}
}

func (m Move) IsCastle() bool {
	switch m.MoveType() {
	case CastleWKS, CastleWQS, CastleBKS, CastleBQS:
		return true
	default:
		return false
	}
}

// PromotionType returns the piece type a promotion move produces.
// Only valid when IsPromotion() is true.
func (m Move) PromotionType() PieceType {
	switch m.MoveType() {
	case KnightPromotion, KnightPromotionCapture:
		return Knight
	case BishopPromotion, BishopPromotionCapture:
		return Bishop
	case RookPromotion, RookPromotionCapture:
		return Rook
	case QueenPromotion, QueenPromotionCapture:
		return Queen
	default:
		return NoPieceType
	}
}

// String renders a move in long algebraic notation (e.g. "e2e4",
// "a7a8q").
func (m Move) String() string {
	s := squareToCoordinate(m.From()) + squareToCoordinate(m.To())
	switch m.PromotionType() {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}

// maxMoves bounds every position's pseudo-legal move count with
// generous headroom; no legal chess position needs more.
const maxMoves = 256

// MoveList is a bounded, stack-allocated container for pseudo-legal
// moves: generation fills a fixed array instead of growing a slice,
// per the engine's single-threaded, allocation-averse search loop.
type MoveList struct {
	moves [maxMoves]Move
	count int
}

func (l *MoveList) Add(m Move) {
	if l.count >= maxMoves {
		return
	}
	l.moves[l.count] = m
	l.count++
}

func (l *MoveList) Len() int         { return l.count }
func (l *MoveList) At(i int) Move    { return l.moves[i] }
func (l *MoveList) Set(i int, m Move) { l.moves[i] = m }
func (l *MoveList) Reset()           { l.count = 0 }
func (l *MoveList) Slice() []Move    { return l.moves[:l.count] }
