package scripting

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newScriptDir(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	ai := filepath.Join(dir, "ai")
	if err := os.MkdirAll(ai, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(ai, "bot.lua"), []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return dir
}

func TestBotPaddleTargetCallsScript(t *testing.T) {
	dir := newScriptDir(t, `
function bot_paddle_target(ctx)
  if ctx.side == "left" then
    return ctx.ball.z + ctx.arena.half_height
  end
  return ctx.paddle.z - 1
end
`)
	e, err := NewEngine(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	got := e.BotPaddleTarget(BotContext{Side: "left", BallZ: 1.5, HalfHeight: 5})
	if got != 6.5 {
		t.Fatalf("left target = %v, want 6.5", got)
	}
	got = e.BotPaddleTarget(BotContext{Side: "right", PaddleZ: 2})
	if got != 1 {
		t.Fatalf("right target = %v, want 1", got)
	}
}

func TestBotPaddleTargetFallsBackToBall(t *testing.T) {
	cases := map[string]string{
		"missing":    `function something_else() end`,
		"error":      `function bot_paddle_target(ctx) error("boom") end`,
		"non-number": `function bot_paddle_target(ctx) return "up" end`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			e, err := NewEngine(newScriptDir(t, src), zaptest.NewLogger(t))
			if err != nil {
				t.Fatalf("NewEngine: %v", err)
			}
			defer e.Close()
			if got := e.BotPaddleTarget(BotContext{BallZ: -2.25}); got != -2.25 {
				t.Fatalf("fallback = %v, want ball z", got)
			}
		})
	}
}

func TestNewEngineRejectsBrokenScript(t *testing.T) {
	if _, err := NewEngine(newScriptDir(t, `function (`), zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestNewEngineWithoutScripts(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.Close()
}

func TestShippedBotStaysInArena(t *testing.T) {
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	for _, vz := range []float64{-40, -7, 0, 3, 25} {
		ctx := BotContext{
			Side:  "right",
			BallX: -5, BallZ: 1, BallVX: 20, BallVZ: vz, BallSpeed: math.Hypot(20, vz), BallRadius: 0.5,
			PaddleX: 9, PaddleWidth: 1, PaddleHeight: 2,
			HalfWidth: 10, HalfHeight: 5,
		}
		got := e.BotPaddleTarget(ctx)
		if math.IsNaN(got) || math.Abs(got) > ctx.HalfHeight {
			t.Fatalf("vz=%v: target %v outside arena", vz, got)
		}
	}
}
