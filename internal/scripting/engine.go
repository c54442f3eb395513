package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Only the game loop goroutine may use it.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a VM and loads every .lua file under scriptsDir/ai.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "ai")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load ai scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in dir. A missing dir is not an error.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// BotContext is the per-tick view a bot script gets of its match.
type BotContext struct {
	Side string // "left" or "right"

	BallX, BallZ   float64
	BallVX, BallVZ float64
	BallSpeed      float64
	BallRadius     float64

	PaddleX, PaddleZ float64
	PaddleWidth      float64
	PaddleHeight     float64

	HalfWidth  float64
	HalfHeight float64
}

// BotPaddleTarget calls the Lua bot_paddle_target function and returns the z
// the bot's paddle should move toward. On any script failure the bot tracks
// the ball directly.
func (e *Engine) BotPaddleTarget(ctx BotContext) float64 {
	fn := e.vm.GetGlobal("bot_paddle_target")
	if fn == lua.LNil {
		e.log.Error("lua function bot_paddle_target not found")
		return ctx.BallZ
	}

	t := e.vm.NewTable()
	t.RawSetString("side", lua.LString(ctx.Side))

	ball := e.vm.NewTable()
	ball.RawSetString("x", lua.LNumber(ctx.BallX))
	ball.RawSetString("z", lua.LNumber(ctx.BallZ))
	ball.RawSetString("vx", lua.LNumber(ctx.BallVX))
	ball.RawSetString("vz", lua.LNumber(ctx.BallVZ))
	ball.RawSetString("speed", lua.LNumber(ctx.BallSpeed))
	ball.RawSetString("radius", lua.LNumber(ctx.BallRadius))
	t.RawSetString("ball", ball)

	paddle := e.vm.NewTable()
	paddle.RawSetString("x", lua.LNumber(ctx.PaddleX))
	paddle.RawSetString("z", lua.LNumber(ctx.PaddleZ))
	paddle.RawSetString("width", lua.LNumber(ctx.PaddleWidth))
	paddle.RawSetString("height", lua.LNumber(ctx.PaddleHeight))
	t.RawSetString("paddle", paddle)

	arena := e.vm.NewTable()
	arena.RawSetString("half_width", lua.LNumber(ctx.HalfWidth))
	arena.RawSetString("half_height", lua.LNumber(ctx.HalfHeight))
	t.RawSetString("arena", arena)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua bot_paddle_target error", zap.Error(err))
		return ctx.BallZ
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		e.log.Error("lua bot_paddle_target returned non-number", zap.String("type", ret.Type().String()))
		return ctx.BallZ
	}
	return float64(n)
}
