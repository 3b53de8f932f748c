package core

import (
	"fmt"

	"github.com/op/go-logging"
)

var engineLog = logging.MustGetLogger("core.engine")

// EngineOptions are the user/GUI-tunable knobs the engine exposes via
// SetOption, mirrored by the config package's TOML file format.
type EngineOptions struct {
	HashMB       int
	NNUEFile     string
	UseNNUE      bool
	NullMove     bool
	DeltaPruning bool
	DeltaMargin  int
}

func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		HashMB:       64,
		UseNNUE:      false,
		NullMove:     true,
		DeltaPruning: true,
		DeltaMargin:  975,
	}
}

// Engine is the facade external protocol drivers (UCI, the
// command-line debug REPL) talk to. It owns the transposition table,
// the evaluator, and the single Searcher used for every Go() call;
// only one search runs at a time.
type Engine struct {
	options  EngineOptions
	tt       *TranspositionTable
	searcher *Searcher
	network  NetworkEvaluator // nil until SetNetwork installs one
}

// NetworkEvaluator is satisfied by nnue.Network; kept as a narrow
// interface here so core does not import the nnue package.
type NetworkEvaluator interface {
	Evaluator
	Loaded() bool
}

func NewEngine(opts EngineOptions) *Engine {
	tt := NewTranspositionTable(opts.HashMB)
	e := &Engine{options: opts, tt: tt}
	e.searcher = NewSearcher(tt, ClassicalEvaluator)
	e.searcher.pruning = PruningOptions{NullMove: opts.NullMove, DeltaPruning: opts.DeltaPruning, DeltaMargin: opts.DeltaMargin}
	return e
}

// NewGame clears all position-dependent state (the transposition
// table, killer/history tables) between games, as the UCI "ucinewgame"
// command requires.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.searcher = NewSearcher(e.tt, e.currentEvaluator())
	e.searcher.pruning = PruningOptions{NullMove: e.options.NullMove, DeltaPruning: e.options.DeltaPruning, DeltaMargin: e.options.DeltaMargin}
}

func (e *Engine) currentEvaluator() Evaluator {
	if e.options.UseNNUE && e.network != nil && e.network.Loaded() {
		return e.network
	}
	return ClassicalEvaluator
}

// SetNetwork installs an NNUE evaluator loaded by the caller (the
// config/cmd layer owns reading the file since core does not import
// nnue directly).
func (e *Engine) SetNetwork(n NetworkEvaluator) {
	e.network = n
	e.searcher.Evaluator = e.currentEvaluator()
}

// SetPosition replaces the current position with fen, then replays
// moves (in long algebraic notation) against it. An illegal move or
// malformed FEN/move string is reported as an error and the position
// is left unchanged.
func (e *Engine) SetPosition(fen string, moves []string) error {
	var b Board
	if err := b.LoadFEN(fen); err != nil {
		return err
	}
	for _, mv := range moves {
		m, err := parseLongAlgebraic(&b, mv)
		if err != nil {
			return fmt.Errorf("core: replaying move %q: %w", mv, err)
		}
		var list MoveList
		b.GeneratePseudoLegalMoves(&list)
		found := false
		for _, g := range list.Slice() {
			if g == m {
				found = true
				break
			}
		}
		if !found || !b.MakeMove(m, nil) {
			return fmt.Errorf("core: illegal move %q in position %q", mv, fen)
		}
	}
	e.searcher.Board = b
	return nil
}

func parseLongAlgebraic(b *Board, s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("malformed move %q", s)
	}
	from, err := coordinateToSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := coordinateToSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	mover := b.Pieces[from]
	if mover.Type == NoPieceType {
		return NoMove, fmt.Errorf("no piece on %s", s[0:2])
	}

	if len(s) == 5 {
		captured := b.Pieces[to].Type != NoPieceType
		switch s[4] {
		case 'n':
			return MakeMove(from, to, pick(captured, KnightPromotionCapture, KnightPromotion)), nil
		case 'b':
			return MakeMove(from, to, pick(captured, BishopPromotionCapture, BishopPromotion)), nil
		case 'r':
			return MakeMove(from, to, pick(captured, RookPromotionCapture, RookPromotion)), nil
		case 'q':
			return MakeMove(from, to, pick(captured, QueenPromotionCapture, QueenPromotion)), nil
		default:
			return NoMove, fmt.Errorf("unknown promotion piece %q", s[4])
		}
	}

	if mover.Type == King {
		switch {
		case from == E1 && to == G1 && b.CastlingRights&WhiteKingside != 0:
			return MakeMove(from, to, CastleWKS), nil
		case from == E1 && to == C1 && b.CastlingRights&WhiteQueenside != 0:
			return MakeMove(from, to, CastleWQS), nil
		case from == E8 && to == G8 && b.CastlingRights&BlackKingside != 0:
			return MakeMove(from, to, CastleBKS), nil
		case from == E8 && to == C8 && b.CastlingRights&BlackQueenside != 0:
			return MakeMove(from, to, CastleBQS), nil
		}
	}

	if to == b.EPSquare && mover.Type == Pawn {
		return MakeMove(from, to, AttackEP), nil
	}
	if b.Pieces[to].Type != NoPieceType {
		return MakeMove(from, to, Attack), nil
	}
	if mover.Type == Pawn && abs(to-from) == 16 {
		return MakeMove(from, to, DoublePawnPush), nil
	}
	return MakeMove(from, to, Quiet), nil
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

// Go starts a search under the given limits and blocks until it
// completes (either naturally or via Stop). report, if non-nil, is
// called after every completed iterative-deepening depth.
func (e *Engine) Go(limits SearchLimits, report func(SearchInfo)) Move {
	return e.searcher.Search(limits, report)
}

// Stop requests that an in-progress Go() return as soon as possible.
// Safe to call from a different goroutine than the one running Go.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// SetOption applies a named tunable; unknown names are logged and
// ignored rather than treated as fatal, since a GUI may probe for
// options the engine does not implement.
func (e *Engine) SetOption(name, value string) {
	switch name {
	case "Hash":
		var mb int
		if _, err := fmt.Sscanf(value, "%d", &mb); err == nil && mb > 0 {
			e.options.HashMB = mb
			e.tt = NewTranspositionTable(mb)
			e.searcher.TT = e.tt
		}
	case "NNUEFile":
		e.options.NNUEFile = value
	case "UseNNUE":
		e.options.UseNNUE = value == "true"
		e.searcher.Evaluator = e.currentEvaluator()
	case "NullMove":
		e.options.NullMove = value == "true"
		e.searcher.pruning.NullMove = e.options.NullMove
	case "DeltaPruning":
		e.options.DeltaPruning = value == "true"
		e.searcher.pruning.DeltaPruning = e.options.DeltaPruning
	default:
		engineLog.Warningf("ignoring unknown option %q", name)
	}
}

// Board exposes the current position for callers (the debug CLI) that
// need to print it.
func (e *Engine) Board() *Board { return &e.searcher.Board }
