package inter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rival/core"
)

func TestParseGoLimitsMoveTime(t *testing.T) {
	limits := parseGoLimits("go movetime 1500")
	require.Equal(t, 1500*time.Millisecond, limits.MoveTime)
}

func TestParseGoLimitsClockAndIncrement(t *testing.T) {
	limits := parseGoLimits("go wtime 60000 btime 55000 winc 1000 binc 500 movestogo 20")
	require.Equal(t, 60*time.Second, limits.WhiteTime)
	require.Equal(t, 55*time.Second, limits.BlackTime)
	require.Equal(t, time.Second, limits.WhiteInc)
	require.Equal(t, 500*time.Millisecond, limits.BlackInc)
	require.Equal(t, 20, limits.MovesToGo)
}

func TestParseGoLimitsDepthAndInfinite(t *testing.T) {
	limits := parseGoLimits("go depth 12")
	require.Equal(t, 12, limits.Depth)

	limits = parseGoLimits("go infinite")
	require.True(t, limits.Infinite)
}

func TestPositionCommandResponseStartpos(t *testing.T) {
	engine := core.NewEngine(core.DefaultEngineOptions())
	err := positionCommandResponse(engine, "position startpos moves e2e4 e7e5")
	require.NoError(t, err)
	require.Equal(t, core.White, engine.Board().Pieces[core.E4].Color)
}

func TestPositionCommandResponseFEN(t *testing.T) {
	engine := core.NewEngine(core.DefaultEngineOptions())
	err := positionCommandResponse(engine, "position fen "+core.FENKiwiPete)
	require.NoError(t, err)
	require.Equal(t, core.FENKiwiPete, engine.Board().FEN())
}

func TestPositionCommandResponseRejectsGarbage(t *testing.T) {
	engine := core.NewEngine(core.DefaultEngineOptions())
	err := positionCommandResponse(engine, "position nonsense")
	require.Error(t, err)
}
