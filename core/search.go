package core

import (
	"time"

	"github.com/op/go-logging"
)

var searchLog = logging.MustGetLogger("core.search")

const (
	maxPly = 128

	captureBonus      = 1_000_000
	firstKillerBonus  = 900_000
	secondKillerBonus = 800_000

	// stopCheckInterval is how many nodes pass between polls of the
	// stop flag, so the search stays responsive without paying an
	// atomic load per node.
	stopCheckInterval = 2048
)

// Evaluator scores a position from the side-to-move's perspective, in
// centipawns. The NNUE network and the classical material+PST
// evaluator both satisfy this.
type Evaluator interface {
	Evaluate(b *Board) int
}

type classicalEvaluator struct{}

func (classicalEvaluator) Evaluate(b *Board) int { return EvaluateClassical(b) }

// ClassicalEvaluator is the always-available fallback evaluator used
// when no NNUE network has been loaded.
var ClassicalEvaluator Evaluator = classicalEvaluator{}

// SearchLimits bounds one call to Search: any zero/negative field is
// treated as "no limit" for that dimension except Depth, which
// defaults to maxSearchDepth.
type SearchLimits struct {
	Depth      int
	Nodes      uint64
	MoveTime   time.Duration
	WhiteTime  time.Duration
	BlackTime  time.Duration
	WhiteInc   time.Duration
	BlackInc   time.Duration
	MovesToGo  int
	Infinite   bool
}

const maxSearchDepth = 64

// SearchInfo reports iterative-deepening progress after each
// completed depth, for the UCI/command-line front ends to print.
type SearchInfo struct {
	Depth    int
	Score    int
	MateIn   int // non-zero if Score represents a forced mate
	Nodes    uint64
	Time     time.Duration
	PV       []Move
}

// Searcher holds all per-game mutable search state: the board being
// searched, the shared transposition table, killer/history move
// ordering tables, and the evaluator in use.
type Searcher struct {
	Board     Board
	TT        *TranspositionTable
	Evaluator Evaluator

	killerMoves   [maxPly][2]Move
	searchHistory [64][64]int

	// pvTable/pvLength hold the triangular principal-variation table:
	// pvTable[ply] is the best line found so far rooted at ply, valid
	// for the first pvLength[ply] entries.
	pvTable  [maxPly][maxPly]Move
	pvLength [maxPly]int

	Nodes      uint64
	stop       bool
	accumulator Accumulator // nil unless the engine wired an NNUE accumulator in

	pruning PruningOptions
}

// PruningOptions toggles the heuristic pruning techniques the search
// may apply; all default to enabled, matching a typical engine's
// defaults, but SetOption can disable them for debugging or testing.
type PruningOptions struct {
	NullMove      bool
	DeltaPruning  bool
	DeltaMargin   int
}

func defaultPruningOptions() PruningOptions {
	return PruningOptions{NullMove: true, DeltaPruning: true, DeltaMargin: 975}
}

func NewSearcher(tt *TranspositionTable, eval Evaluator) *Searcher {
	if eval == nil {
		eval = ClassicalEvaluator
	}
	return &Searcher{TT: tt, Evaluator: eval, pruning: defaultPruningOptions()}
}

// Stop requests that the in-progress search return as soon as it next
// polls, which happens every stopCheckInterval nodes and at the start
// of each new root move and each new iterative-deepening depth.
func (s *Searcher) Stop() { s.stop = true }

func (s *Searcher) shouldStop(deadline time.Time, hasDeadline bool) bool {
	if s.stop {
		return true
	}
	if s.Nodes%stopCheckInterval == 0 && hasDeadline && time.Now().After(deadline) {
		return true
	}
	return false
}

// Search runs iterative deepening up to limits.Depth (or maxSearchDepth
// if unset) or until time/node limits or an external Stop() expire it,
// reporting progress through report after each completed depth.
func (s *Searcher) Search(limits SearchLimits, report func(SearchInfo)) Move {
	s.stop = false
	s.Nodes = 0
	if s.TT != nil {
		s.TT.NewSearch()
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > maxSearchDepth {
		maxDepth = maxSearchDepth
	}

	deadline, hasDeadline := deriveDeadline(limits, s.Board.SideToMove)

	bestMove := NoMove
	start := time.Now()

	for depth := 1; depth <= maxDepth; depth++ {
		if s.shouldStop(deadline, hasDeadline) {
			break
		}

		move, score, pv := s.searchRoot(depth, deadline, hasDeadline)
		if move == NoMove && s.stop {
			break
		}
		if move != NoMove {
			bestMove = move
		}

		if report != nil {
			info := SearchInfo{Depth: depth, Score: score, Nodes: s.Nodes, Time: time.Since(start), PV: pv}
			if score >= MateBound {
				info.MateIn = (MateScore-score+1)/2
			} else if score <= -MateBound {
				info.MateIn = -(MateScore+score+1)/2
			}
			report(info)
		}

		if limits.Nodes > 0 && s.Nodes >= limits.Nodes {
			break
		}
	}

	return bestMove
}

func deriveDeadline(limits SearchLimits, us Color) (time.Time, bool) {
	if limits.Infinite {
		return time.Time{}, false
	}
	if limits.MoveTime > 0 {
		return time.Now().Add(limits.MoveTime), true
	}

	var remaining, inc time.Duration
	if us == White {
		remaining, inc = limits.WhiteTime, limits.WhiteInc
	} else {
		remaining, inc = limits.BlackTime, limits.BlackInc
	}
	if remaining <= 0 {
		return time.Time{}, false
	}

	movesToGo := limits.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 30
	}
	soft := remaining/time.Duration(movesToGo) + inc/2
	if soft <= 0 {
		soft = time.Millisecond
	}
	// Never plan to use more than half the clock on one move.
	if hard := remaining / 2; soft > hard {
		soft = hard
	}
	return time.Now().Add(soft), true
}

func (s *Searcher) searchRoot(depth int, deadline time.Time, hasDeadline bool) (Move, int, []Move) {
	var list MoveList
	s.Board.GeneratePseudoLegalMoves(&list)
	s.orderMoves(&list, 0, NoMove)

	s.pvLength[0] = 0

	alpha, beta := -InfScore, InfScore
	bestMove, bestScore := NoMove, -InfScore
	legalMoves := 0

	for i := 0; i < list.Len(); i++ {
		move := list.At(i)
		legal := s.Board.MakeMove(move, s.accumulator)
		if !legal {
			s.Board.UnmakeMove(move, s.accumulator)
			continue
		}
		legalMoves++
		score := -s.negamax(depth-1, 1, -beta, -alpha)
		s.Board.UnmakeMove(move, s.accumulator)

		if s.stop {
			if bestMove == NoMove {
				return NoMove, 0, nil
			}
			break
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			s.pvTable[0][0] = move
			childLen := s.pvLength[1]
			copy(s.pvTable[0][1:1+childLen], s.pvTable[1][:childLen])
			s.pvLength[0] = 1 + childLen
		}
	}

	if legalMoves == 0 {
		if s.Board.InCheck() {
			return NoMove, -MateScore, nil
		}
		return NoMove, DrawScore, nil
	}

	pv := append([]Move(nil), s.pvTable[0][:s.pvLength[0]]...)
	if len(pv) == 0 {
		pv = []Move{bestMove}
	}
	return bestMove, bestScore, pv
}

func (s *Searcher) negamax(depth, ply, alpha, beta int) int {
	s.Nodes++
	s.pvLength[ply] = 0

	if s.Board.Repeated() || s.Board.FiftyMoveRule() {
		return DrawScore
	}

	alphaOrig := alpha

	if s.TT != nil {
		if move, score, ttDepth, bound, ok := s.TT.Probe(s.Board.Hash, ply); ok && ttDepth >= depth {
			switch bound {
			case BoundExact:
				return score
			case BoundLower:
				if score > alpha {
					alpha = score
				}
			case BoundUpper:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
			_ = move
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	if s.pruning.NullMove && depth >= 3 && beta < InfScore && !s.Board.InCheck() &&
		s.Board.hasNonPawnMaterial(s.Board.SideToMove) {
		reduction := 2
		if depth > 6 {
			reduction = 3
		}
		s.Board.MakeNullMove()
		score := -s.negamax(depth-1-reduction, ply+1, -beta, -beta+1)
		s.Board.UnmakeNullMove()
		if s.stop {
			return alpha
		}
		if score >= beta {
			return beta
		}
	}

	var list MoveList
	s.Board.GeneratePseudoLegalMoves(&list)
	var ttMove Move
	if s.TT != nil {
		ttMove, _, _, _, _ = s.TT.Probe(s.Board.Hash, ply)
	}
	s.orderMoves(&list, ply, ttMove)

	bestScore := -InfScore
	bestMove := NoMove
	legalMoves := 0

	for i := 0; i < list.Len(); i++ {
		if s.Nodes%stopCheckInterval == 0 && s.stop {
			return alpha
		}
		move := list.At(i)
		legal := s.Board.MakeMove(move, s.accumulator)
		if !legal {
			s.Board.UnmakeMove(move, s.accumulator)
			continue
		}
		legalMoves++

		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.Board.UnmakeMove(move, s.accumulator)

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			s.pvTable[ply][0] = move
			childLen := s.pvLength[ply+1]
			copy(s.pvTable[ply][1:1+childLen], s.pvTable[ply+1][:childLen])
			s.pvLength[ply] = 1 + childLen
		}
		if alpha >= beta {
			if !move.IsCapture() && ply < maxPly {
				s.killerMoves[ply][1] = s.killerMoves[ply][0]
				s.killerMoves[ply][0] = move
				s.searchHistory[move.From()][move.To()] += depth * depth
			}
			break
		}
	}

	if legalMoves == 0 {
		if s.Board.InCheck() {
			return -MateScore + ply
		}
		return DrawScore
	}

	if s.TT != nil {
		bound := BoundExact
		if bestScore <= alphaOrig {
			bound = BoundUpper
		} else if bestScore >= beta {
			bound = BoundLower
		}
		s.TT.Store(s.Board.Hash, bestMove, bestScore, depth, bound, ply)
	}

	return bestScore
}

func (s *Searcher) quiescence(ply, alpha, beta int) int {
	s.Nodes++

	standPat := s.Evaluator.Evaluate(&s.Board)
	if standPat >= beta {
		return beta
	}
	if alpha < standPat {
		alpha = standPat
	}

	var list MoveList
	s.Board.GenerateCaptureAndPromotionMoves(&list)
	s.orderMoves(&list, ply, NoMove)

	for i := 0; i < list.Len(); i++ {
		move := list.At(i)

		if s.pruning.DeltaPruning && move.IsCapture() && !move.IsPromotion() {
			captured := s.Board.Pieces[move.To()].Type
			if standPat+pieceValue[captured]+s.pruning.DeltaMargin < alpha {
				continue
			}
		}

		legal := s.Board.MakeMove(move, s.accumulator)
		if !legal {
			s.Board.UnmakeMove(move, s.accumulator)
			continue
		}
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.Board.UnmakeMove(move, s.accumulator)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// orderMoves scores moves so that captures (MVV-LVA), the transposition
// table's recorded best move, killer moves and history-heuristic quiet
// moves are tried before the rest, then insertion-sorts the list in
// place by score (the lists are short enough that this beats paying for
// a general-purpose sort).
func (s *Searcher) orderMoves(list *MoveList, ply int, ttMove Move) {
	var scores [maxMoves]int
	for i := 0; i < list.Len(); i++ {
		move := list.At(i)
		switch {
		case move == ttMove && ttMove != NoMove:
			scores[i] = captureBonus * 2
		case move.IsCapture():
			moverType := s.Board.Pieces[move.From()].Type
			capturedType := s.Board.Pieces[move.To()].Type
			if move.MoveType() >= AttackEP && capturedType == NoPieceType {
				capturedType = Pawn // en-passant victim isn't on the target square
			}
			scores[i] = captureBonus + pieceValue[capturedType]*16 - pieceValue[moverType]
		case move.IsPromotion():
			scores[i] = captureBonus/2 + pieceValue[move.PromotionType()]
		case ply < maxPly && s.killerMoves[ply][0] == move:
			scores[i] = firstKillerBonus
		case ply < maxPly && s.killerMoves[ply][1] == move:
			scores[i] = secondKillerBonus
		default:
			scores[i] = s.searchHistory[move.From()][move.To()]
		}
	}

	for i := 1; i < list.Len(); i++ {
		for j := i; j > 0 && scores[j-1] < scores[j]; j-- {
			scores[j-1], scores[j] = scores[j], scores[j-1]
			mj, mj1 := list.At(j), list.At(j-1)
			list.Set(j, mj1)
			list.Set(j-1, mj)
		}
	}
}
