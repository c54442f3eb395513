package world

import (
	"fmt"
	"math"
	"time"

	"github.com/ringpong/server/internal/core/ecs"
	"github.com/ringpong/server/internal/data"
	"github.com/ringpong/server/internal/physics"
	"golang.org/x/crypto/bcrypt"
)

// Phase is the lifecycle stage of a match.
type Phase uint8

const (
	PhaseWaiting Phase = iota // seats filling, ball at rest
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Seat is one side of a match. An empty seat has no session and no bot.
type Seat struct {
	SessionID uint64
	Name      string
	Ready     bool
	Bot       bool
}

func (s Seat) Empty() bool { return s.SessionID == 0 && !s.Bot }

// Match holds one arena's simulation and bookkeeping.
// Accessed only from the game loop goroutine.
type Match struct {
	ID         ecs.EntityID
	Code       string
	Arena      string
	ScoreLimit int

	Bound   physics.Boundary
	Ball    *physics.Ball
	Paddles physics.Paddles

	Score [2]int // indexed by physics.Side
	Seats [2]Seat
	Names [2]string // seat names at kickoff, kept after a player leaves
	Phase Phase
	Ticks uint64

	LongestRally int
	TopSpeed     float64

	Winner  physics.Side
	Forfeit bool

	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time

	passHash []byte
}

// NewMatch builds the boundary, ball and paddles described by preset.
func NewMatch(code string, preset *data.ArenaPreset, scoreLimit int) (*Match, error) {
	bound, err := physics.NewBoundary(preset.Length, preset.Height)
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", preset.Name, err)
	}
	ball, err := physics.NewBall(preset.BallRadius, bound)
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", preset.Name, err)
	}
	x := bound.HalfWidth - preset.PaddleInset
	left, err := physics.NewPaddle(physics.Left, physics.Vec3{-x, 0, 0}, preset.PaddleWidth, preset.PaddleHeight)
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", preset.Name, err)
	}
	right, err := physics.NewPaddle(physics.Right, physics.Vec3{x, 0, 0}, preset.PaddleWidth, preset.PaddleHeight)
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", preset.Name, err)
	}
	return &Match{
		Code:       code,
		Arena:      preset.Name,
		ScoreLimit: scoreLimit,
		Bound:      bound,
		Ball:       ball,
		Paddles:    physics.Paddles{Left: left, Right: right},
		CreatedAt:  time.Now(),
	}, nil
}

// SetPassphrase locks the match. An empty passphrase unlocks it.
func (m *Match) SetPassphrase(pass string) error {
	if pass == "" {
		m.passHash = nil
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash passphrase: %w", err)
	}
	m.passHash = hash
	return nil
}

func (m *Match) Locked() bool { return len(m.passHash) > 0 }

// CheckPassphrase reports whether pass opens the match.
func (m *Match) CheckPassphrase(pass string) bool {
	if !m.Locked() {
		return true
	}
	return bcrypt.CompareHashAndPassword(m.passHash, []byte(pass)) == nil
}

// FreeSide returns the first empty seat, Left before Right.
func (m *Match) FreeSide() (physics.Side, bool) {
	for _, s := range []physics.Side{physics.Left, physics.Right} {
		if m.Seats[s].Empty() {
			return s, true
		}
	}
	return 0, false
}

// SideOf returns the seat held by the session.
func (m *Match) SideOf(sessionID uint64) (physics.Side, bool) {
	if sessionID == 0 {
		return 0, false
	}
	for _, s := range []physics.Side{physics.Left, physics.Right} {
		if m.Seats[s].SessionID == sessionID {
			return s, true
		}
	}
	return 0, false
}

// BothReady reports whether both seats are taken and ready.
func (m *Match) BothReady() bool {
	for _, seat := range m.Seats {
		if seat.Empty() || !seat.Ready {
			return false
		}
	}
	return true
}

// SetPaddleZ moves a paddle's centre along z, clamped so the whole paddle
// stays between the walls. NaN and infinite values are ignored.
func (m *Match) SetPaddleZ(side physics.Side, z float64) {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return
	}
	p := m.Paddles.Of(side)
	limit := math.Max(0, m.Bound.HalfHeight-p.Height/2)
	p.Position[2] = math.Max(-limit, math.Min(limit, z))
}

// Start serves the ball. Only a waiting match can start.
func (m *Match) Start() bool {
	if m.Phase != PhaseWaiting {
		return false
	}
	m.Phase = PhasePlaying
	m.StartedAt = time.Now()
	for i, seat := range m.Seats {
		m.Names[i] = seat.Name
	}
	physics.ResetSpeed(m.Ball)
	return true
}

// Advance runs one frame of the simulation. The ball only moves while the
// match is playing.
func (m *Match) Advance(dt float64) (*physics.ScoreEvent, error) {
	playing := m.Phase == PhasePlaying
	if playing {
		m.recordRally()
	}
	ev, err := physics.Step(m.Ball, &m.Paddles, m.Bound, dt, playing)
	if err != nil {
		return nil, err
	}
	if playing {
		m.Ticks++
		m.recordRally()
	}
	return ev, nil
}

func (m *Match) recordRally() {
	if m.Ball.Rally > m.LongestRally {
		m.LongestRally = m.Ball.Rally
	}
	if m.Ball.Speed > m.TopSpeed {
		m.TopSpeed = m.Ball.Speed
	}
}

// PointTo returns the side that earns the point for a goal.
func PointTo(ev physics.ScoreEvent) physics.Side { return ev.ScoringSide.Opponent() }

// Credit adds the goal's point and reports whether that point ended the
// match.
func (m *Match) Credit(ev physics.ScoreEvent) bool {
	if m.Phase != PhasePlaying {
		return false
	}
	side := PointTo(ev)
	m.Score[side]++
	if m.Score[side] < m.ScoreLimit {
		return false
	}
	m.finish(side, false)
	return true
}

// ForfeitBy ends the match in favour of the loser's opponent. Returns false
// if the match already finished.
func (m *Match) ForfeitBy(loser physics.Side) bool {
	if m.Phase == PhaseFinished {
		return false
	}
	m.finish(loser.Opponent(), true)
	return true
}

func (m *Match) finish(winner physics.Side, forfeit bool) {
	m.Phase = PhaseFinished
	m.Winner = winner
	m.Forfeit = forfeit
	m.EndedAt = time.Now()
	m.Ball.Stop()
}
