package system

import (
	"math"
	"time"

	"github.com/ringpong/server/internal/core/event"
	coresys "github.com/ringpong/server/internal/core/system"
	"github.com/ringpong/server/internal/physics"
	"github.com/ringpong/server/internal/scripting"
	"github.com/ringpong/server/internal/world"
	"go.uber.org/zap"
)

// BotBrain picks where a bot wants its paddle.
type BotBrain interface {
	BotPaddleTarget(ctx scripting.BotContext) float64
}

// MatchSystem moves bot paddles and advances every running match by one
// frame. Phase 2 (Update).
type MatchSystem struct {
	world    *world.State
	bus      *event.Bus
	brain    BotBrain
	botSpeed float64 // paddle units per second
	log      *zap.Logger
}

func NewMatchSystem(ws *world.State, bus *event.Bus, brain BotBrain, botSpeed float64, log *zap.Logger) *MatchSystem {
	return &MatchSystem{world: ws, bus: bus, brain: brain, botSpeed: botSpeed, log: log}
}

func (s *MatchSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MatchSystem) Update(dt time.Duration) {
	sec := dt.Seconds()

	if s.brain != nil {
		s.world.EachBot(func(m *world.Match, b *world.Bot) {
			if m.Phase == world.PhasePlaying {
				MoveBot(m, b.Side, s.brain, s.botSpeed*sec)
			}
		})
	}

	s.world.Each(func(m *world.Match) {
		if m.Phase != world.PhasePlaying {
			return
		}
		ev, err := m.Advance(sec)
		if err != nil {
			s.log.Error("advance failed", zap.String("code", m.Code), zap.Error(err))
			return
		}
		if ev != nil {
			event.Emit(s.bus, event.GoalScored{Match: m.ID, Goal: *ev})
		}
	})
}

// MoveBot steers the bot's paddle toward the brain's target, moving at
// most maxStep along z.
func MoveBot(m *world.Match, side physics.Side, brain BotBrain, maxStep float64) {
	p := m.Paddles.Of(side)
	b := m.Ball
	target := brain.BotPaddleTarget(scripting.BotContext{
		Side:         side.String(),
		BallX:        b.Position.X(),
		BallZ:        b.Position.Z(),
		BallVX:       b.Velocity.X(),
		BallVZ:       b.Velocity.Z(),
		BallSpeed:    b.Speed,
		BallRadius:   b.Radius,
		PaddleX:      p.Position.X(),
		PaddleZ:      p.Position.Z(),
		PaddleWidth:  p.Width,
		PaddleHeight: p.Height,
		HalfWidth:    m.Bound.HalfWidth,
		HalfHeight:   m.Bound.HalfHeight,
	})
	cur := p.Position.Z()
	delta := math.Max(-maxStep, math.Min(maxStep, target-cur))
	m.SetPaddleZ(side, cur+delta)
}
