// Package inter provides the text-protocol front ends that drive a
// core.Engine: a UCI-like loop for GUIs, and a command-line debug
// driver for interactive play against the engine from a terminal.
package inter

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/op/go-logging"

	"rival/core"
)

var log = logging.MustGetLogger("interface")

const (
	EngineName   = "Rival 0.1"
	EngineAuthor = "the rival contributors"
)

func uciCommandResponse() {
	fmt.Printf("id name %s\n", EngineName)
	fmt.Printf("id author %s\n", EngineAuthor)
	fmt.Printf("option name Hash type spin default 64 min 1 max 4096\n")
	fmt.Printf("option name UseNNUE type check default false\n")
	fmt.Printf("option name NNUEFile type string default <empty>\n")
	fmt.Printf("option name NullMove type check default true\n")
	fmt.Printf("option name DeltaPruning type check default true\n")
	fmt.Printf("uciok\n")
}

func positionCommandResponse(engine *core.Engine, command string) error {
	args := strings.TrimPrefix(command, "position ")
	var fen string

	switch {
	case strings.HasPrefix(args, "startpos"):
		args = strings.TrimPrefix(args, "startpos")
		args = strings.TrimSpace(args)
		fen = core.FENStartPosition
	case strings.HasPrefix(args, "fen"):
		args = strings.TrimPrefix(args, "fen ")
		fields := strings.Fields(args)
		if len(fields) < 6 {
			return fmt.Errorf("position fen: expected 6 fields, got %d", len(fields))
		}
		fen = strings.Join(fields[0:6], " ")
		args = strings.Join(fields[6:], " ")
		args = strings.TrimSpace(args)
	default:
		return fmt.Errorf("position: unrecognised argument %q", args)
	}

	var moves []string
	if strings.HasPrefix(args, "moves") {
		moves = strings.Fields(strings.TrimPrefix(args, "moves"))
	}
	return engine.SetPosition(fen, moves)
}

func parseGoLimits(command string) core.SearchLimits {
	command = strings.TrimPrefix(command, "go")
	fields := strings.Fields(command)
	var limits core.SearchLimits

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			if i+1 < len(fields) {
				limits.Depth, _ = strconv.Atoi(fields[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(fields) {
				n, _ := strconv.Atoi(fields[i+1])
				limits.Nodes = uint64(n)
				i++
			}
		case "movetime":
			if i+1 < len(fields) {
				ms, _ := strconv.Atoi(fields[i+1])
				limits.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "wtime":
			if i+1 < len(fields) {
				ms, _ := strconv.Atoi(fields[i+1])
				limits.WhiteTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(fields) {
				ms, _ := strconv.Atoi(fields[i+1])
				limits.BlackTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(fields) {
				ms, _ := strconv.Atoi(fields[i+1])
				limits.WhiteInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(fields) {
				ms, _ := strconv.Atoi(fields[i+1])
				limits.BlackInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(fields) {
				limits.MovesToGo, _ = strconv.Atoi(fields[i+1])
				i++
			}
		case "infinite":
			limits.Infinite = true
		}
	}
	return limits
}

func reportSearchInfo(info core.SearchInfo) {
	nps := uint64(0)
	if info.Time > 0 {
		nps = uint64(float64(info.Nodes) / info.Time.Seconds())
	}

	pv := ""
	if len(info.PV) > 0 {
		moves := make([]string, len(info.PV))
		for i, m := range info.PV {
			moves[i] = m.String()
		}
		pv = " pv " + strings.Join(moves, " ")
	}

	if info.MateIn != 0 {
		fmt.Printf("info depth %d score mate %d nodes %d nps %d time %d%s\n",
			info.Depth, info.MateIn, info.Nodes, nps, info.Time.Milliseconds(), pv)
	} else {
		fmt.Printf("info depth %d score cp %d nodes %d nps %d time %d%s\n",
			info.Depth, info.Score, info.Nodes, nps, info.Time.Milliseconds(), pv)
	}
}

// goCommandResponse runs the search on its own goroutine, mirroring
// the original engine's approach of never blocking the command-reading
// loop while a search is in flight; "stop" is handled by the reader
// goroutine calling engine.Stop(), which the search polls for.
func goCommandResponse(engine *core.Engine, command string) {
	limits := parseGoLimits(command)
	go func() {
		best := engine.Go(limits, reportSearchInfo)
		if best == core.NoMove {
			fmt.Printf("bestmove 0000\n")
			return
		}
		fmt.Printf("bestmove %s\n", best)
	}()
}

// RunUCIProtocol reads UCI commands from stdin and drives engine
// accordingly until "quit".
func RunUCIProtocol(engine *core.Engine) {
	reader := bufio.NewReader(os.Stdin)
	isReadySent := false

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		command := strings.TrimSpace(line)

		switch {
		case command == "uci":
			uciCommandResponse()
		case command == "isready":
			if !isReadySent {
				isReadySent = true
			}
			fmt.Printf("readyok\n")
		case strings.HasPrefix(command, "setoption"):
			handleSetOption(engine, command)
		case command == "ucinewgame":
			engine.NewGame()
		case strings.HasPrefix(command, "position"):
			if err := positionCommandResponse(engine, command); err != nil {
				log.Warningf("position command failed: %v", err)
			}
		case strings.HasPrefix(command, "go"):
			goCommandResponse(engine, command)
		case command == "stop":
			engine.Stop()
		case command == "quit":
			return
		}
	}
}

func handleSetOption(engine *core.Engine, command string) {
	rest := strings.TrimPrefix(command, "setoption ")
	rest = strings.TrimPrefix(rest, "name ")
	parts := strings.SplitN(rest, " value ", 2)
	if len(parts) != 2 {
		log.Warningf("malformed setoption command: %q", command)
		return
	}
	engine.SetOption(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
}

var boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
