package core

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/op/go-logging"
)

var boardLog = logging.MustGetLogger("core.board")

// Color identifies the side owning a piece or to move.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// PieceType is one of the six chess piece kinds.
type PieceType int

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Square indices: a1=0, h1=7, a8=56, h8=63, rank-major.
const (
	A1, B1, C1, D1, E1, F1, G1, H1 = 0, 1, 2, 3, 4, 5, 6, 7
	A2, B2, C2, D2, E2, F2, G2, H2 = 8, 9, 10, 11, 12, 13, 14, 15
	A3, B3, C3, D3, E3, F3, G3, H3 = 16, 17, 18, 19, 20, 21, 22, 23
	A4, B4, C4, D4, E4, F4, G4, H4 = 24, 25, 26, 27, 28, 29, 30, 31
	A5, B5, C5, D5, E5, F5, G5, H5 = 32, 33, 34, 35, 36, 37, 38, 39
	A6, B6, C6, D6, E6, F6, G6, H6 = 40, 41, 42, 43, 44, 45, 46, 47
	A7, B7, C7, D7, E7, F7, G7, H7 = 48, 49, 50, 51, 52, 53, 54, 55
	A8, B8, C8, D8, E8, F8, G8, H8 = 56, 57, 58, 59, 60, 61, 62, 63
	NoSquare                       = -1
)

// Castling right bits.
const (
	WhiteKingside uint8 = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

const (
	FENStartPosition = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	FENKiwiPete      = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	maxGamePly = 1024
)

// stateInfo is the minimal tape required to undo one move.
type stateInfo struct {
	castlingRights uint8
	epSquare       int
	halfmoveClock  int
	captured       PieceType
	capturedColor  Color
	zobristKey     uint64
}

// Board is the sole owner of position state: piece placement, side to
// move, castling rights, en-passant square and the incrementally
// maintained Zobrist key. byType/byColor bitboards and the Pieces
// mailbox must agree at all times outside of an in-flight Make/Unmake.
type Board struct {
	byType  [2][7]uint64 // indexed [Color][PieceType], PieceType 1..6
	byColor [2]uint64

	Pieces [64]struct {
		Type  PieceType
		Color Color
	}

	SideToMove      Color
	CastlingRights  uint8
	EPSquare        int
	HalfMoveClock   int
	FullMoveCounter int
	Hash            uint64

	history   [maxGamePly]stateInfo
	keyHist   [maxGamePly]uint64
	ply       int

	Acc NNUEAccumulatorHolder
}

// NNUEAccumulatorHolder is a placeholder for per-board NNUE state.
// Incremental accumulator updates do not go through it: MakeMove and
// UnmakeMove take an Accumulator argument instead.
type NNUEAccumulatorHolder struct {
	// Dirty is a spare flag; nothing in core sets or reads it.
	Dirty bool
}

func emptyBoard() *Board {
	b := &Board{}
	for sq := 0; sq < 64; sq++ {
		b.Pieces[sq].Type = NoPieceType
	}
	b.EPSquare = NoSquare
	return b
}

// NewBoard returns a board set up from the given FEN string.
func NewBoard(fen string) (*Board, error) {
	b := emptyBoard()
	if err := b.LoadFEN(fen); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) pieceBB(c Color, t PieceType) uint64 { return b.byType[c][t] }

// PieceBB exposes the bitboard for (c, t), for callers outside the
// package (the nnue accumulator rebuilding its feature set).
func (b *Board) PieceBB(c Color, t PieceType) uint64 { return b.byType[c][t] }

func (b *Board) occupied() uint64 { return b.byColor[White] | b.byColor[Black] }

func (b *Board) putPiece(c Color, t PieceType, sq int) {
	bb := squareBB(sq)
	b.byType[c][t] |= bb
	b.byColor[c] |= bb
	b.Pieces[sq].Type = t
	b.Pieces[sq].Color = c
	b.Hash ^= pieceKey(c, t, sq)
}

func (b *Board) removePiece(sq int) {
	p := b.Pieces[sq]
	if p.Type == NoPieceType {
		return
	}
	bb := squareBB(sq)
	b.byType[p.Color][p.Type] &^= bb
	b.byColor[p.Color] &^= bb
	b.Pieces[sq].Type = NoPieceType
	b.Hash ^= pieceKey(p.Color, p.Type, sq)
}

func (b *Board) movePieceQuiet(from, to int) {
	p := b.Pieces[from]
	b.removePiece(from)
	b.putPiece(p.Color, p.Type, to)
}

// KingSquare returns the square of c's king.
func (b *Board) KingSquare(c Color) int {
	return lsbIndex(b.byType[c][King])
}

// InCheck reports whether the side to move's king is currently attacked.
func (b *Board) InCheck() bool {
	return b.SquareAttackedBy(b.KingSquare(b.SideToMove), b.SideToMove.Other())
}

// SquareAttackedBy reports whether sq is attacked by any piece of color by.
func (b *Board) SquareAttackedBy(sq int, by Color) bool {
	occ := b.occupied()
	if pawnAttacks[by.Other()][sq]&b.byType[by][Pawn] != 0 {
		return true
	}
	if knightAttacks[sq]&b.byType[by][Knight] != 0 {
		return true
	}
	if kingAttacks[sq]&b.byType[by][King] != 0 {
		return true
	}
	bishops := b.byType[by][Bishop] | b.byType[by][Queen]
	if bishopAttacks(sq, occ)&bishops != 0 {
		return true
	}
	rooks := b.byType[by][Rook] | b.byType[by][Queen]
	if rookAttacks(sq, occ)&rooks != 0 {
		return true
	}
	return false
}

// LoadFEN resets the board to the position described by fen.
func (b *Board) LoadFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return fmt.Errorf("core: invalid FEN %q: expected at least 4 fields", fen)
	}

	*b = *emptyBoard()

	placement := fields[0]
	sq := A8
	for _, ch := range placement {
		switch {
		case ch == '/':
			sq -= 16
		case unicode.IsDigit(ch):
			sq += int(ch - '0')
		default:
			t, c, err := pieceFromFENChar(ch)
			if err != nil {
				return fmt.Errorf("core: invalid FEN %q: %w", fen, err)
			}
			b.putPiece(c, t, sq)
			sq++
		}
	}

	switch fields[1] {
	case "w":
		b.SideToMove = White
	case "b":
		b.SideToMove = Black
		b.Hash ^= sideKey
	default:
		return fmt.Errorf("core: invalid FEN %q: bad side to move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		if strings.ContainsRune(fields[2], 'K') {
			b.CastlingRights |= WhiteKingside
		}
		if strings.ContainsRune(fields[2], 'Q') {
			b.CastlingRights |= WhiteQueenside
		}
		if strings.ContainsRune(fields[2], 'k') {
			b.CastlingRights |= BlackKingside
		}
		if strings.ContainsRune(fields[2], 'q') {
			b.CastlingRights |= BlackQueenside
		}
	}
	b.Hash ^= castlingKeys[b.CastlingRights]

	b.EPSquare = NoSquare
	if fields[3] != "-" {
		epSq, err := coordinateToSquare(fields[3])
		if err != nil {
			return fmt.Errorf("core: invalid FEN %q: %w", fen, err)
		}
		b.EPSquare = epSq
		b.Hash ^= epKeys[fileOf(epSq)]
	}

	if len(fields) >= 5 {
		fmt.Sscanf(fields[4], "%d", &b.HalfMoveClock)
	}
	b.FullMoveCounter = 1
	if len(fields) >= 6 {
		fmt.Sscanf(fields[5], "%d", &b.FullMoveCounter)
	}

	want := zobristOf(b)
	if want != b.Hash {
		boardLog.Warningf("zobrist mismatch after FEN load, recomputing (incremental=%x full=%x)", b.Hash, want)
		b.Hash = want
	}
	return nil
}

func pieceFromFENChar(ch rune) (PieceType, Color, error) {
	c := White
	lower := unicode.ToLower(ch)
	if lower == ch {
		c = Black
	}
	var t PieceType
	switch lower {
	case 'p':
		t = Pawn
	case 'n':
		t = Knight
	case 'b':
		t = Bishop
	case 'r':
		t = Rook
	case 'q':
		t = Queen
	case 'k':
		t = King
	default:
		return NoPieceType, White, fmt.Errorf("unrecognised FEN piece char %q", ch)
	}
	return t, c, nil
}

func coordinateToSquare(coord string) (int, error) {
	if len(coord) != 2 {
		return NoSquare, fmt.Errorf("bad square coordinate %q", coord)
	}
	file := int(coord[0] - 'a')
	rank := int(coord[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("bad square coordinate %q", coord)
	}
	return rank*8 + file, nil
}

func squareToCoordinate(sq int) string {
	return string(rune('a'+fileOf(sq))) + string(rune('1'+rankOf(sq)))
}

// FEN renders the current position back to Forsyth-Edwards notation.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := rank*8 + file
			p := b.Pieces[sq]
			if p.Type == NoPieceType {
				empty++
				continue
			}
			if empty > 0 {
				fmt.Fprintf(&sb, "%d", empty)
				empty = 0
			}
			sb.WriteRune(pieceToFENChar(p.Type, p.Color))
		}
		if empty > 0 {
			fmt.Fprintf(&sb, "%d", empty)
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if b.CastlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.CastlingRights&WhiteKingside != 0 {
			sb.WriteByte('K')
		}
		if b.CastlingRights&WhiteQueenside != 0 {
			sb.WriteByte('Q')
		}
		if b.CastlingRights&BlackKingside != 0 {
			sb.WriteByte('k')
		}
		if b.CastlingRights&BlackQueenside != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	if b.EPSquare == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(squareToCoordinate(b.EPSquare))
	}

	fmt.Fprintf(&sb, " %d %d", b.HalfMoveClock, b.FullMoveCounter)
	return sb.String()
}

func pieceToFENChar(t PieceType, c Color) rune {
	var r rune
	switch t {
	case Pawn:
		r = 'p'
	case Knight:
		r = 'n'
	case Bishop:
		r = 'b'
	case Rook:
		r = 'r'
	case Queen:
		r = 'q'
	case King:
		r = 'k'
	}
	if c == White {
		r = unicode.ToUpper(r)
	}
	return r
}

// PrintBoard writes a human-readable board diagram, mirroring the
// debug output the command-line driver shows.
func (b *Board) PrintBoard() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d | ", rank+1)
		for file := 0; file < 8; file++ {
			p := b.Pieces[rank*8+file]
			ch := byte('.')
			if p.Type != NoPieceType {
				ch = byte(pieceToFENChar(p.Type, p.Color))
			}
			fmt.Fprintf(&sb, "%c ", ch)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("    ")
	for _, f := range "abcdefgh" {
		fmt.Fprintf(&sb, "%c ", f)
	}
	sb.WriteByte('\n')
	return sb.String()
}
