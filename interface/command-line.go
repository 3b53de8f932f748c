package inter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"rival/core"
)

// RunCommandLineProtocol is a basic interactive driver for playing
// against the engine from a terminal: moves are entered in long
// algebraic notation, and the engine replies once it's its turn.
func RunCommandLineProtocol(engine *core.Engine) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter a FEN string for the starting position (or \"startpos\"): ")
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	fen := core.FENStartPosition
	if input != "" && input != "startpos" {
		fen = input
	}
	if err := engine.SetPosition(fen, nil); err != nil {
		log.Errorf("invalid starting position: %v", err)
		return
	}

	fmt.Print("Are you white or black? ")
	input, _ = reader.ReadString('\n')
	input = strings.TrimSpace(input)

	playerIsWhite := input == "white"
	playerToMove := (playerIsWhite && engine.Board().SideToMove == core.White) ||
		(!playerIsWhite && engine.Board().SideToMove == core.Black)

	for {
		fmt.Println(engine.Board().PrintBoard())

		if playerToMove {
			fmt.Print(boldGreen("Your move> "))
			input, _ = reader.ReadString('\n')
			input = strings.TrimSpace(input)
			if input == "quit" {
				return
			}
			if err := engine.SetPosition(engine.Board().FEN(), []string{input}); err != nil {
				fmt.Printf("illegal move: %v\n", err)
				continue
			}
			playerToMove = false
		} else {
			best := engine.Go(core.SearchLimits{MoveTime: 3 * time.Second}, nil)
			if best == core.NoMove {
				fmt.Println("no legal moves: game over")
				return
			}
			if err := engine.SetPosition(engine.Board().FEN(), []string{best.String()}); err != nil {
				log.Errorf("engine produced illegal move %s: %v", best, err)
				return
			}
			playerToMove = true
		}
	}
}
