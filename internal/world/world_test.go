package world

import (
	"math"
	"strings"
	"testing"

	"github.com/ringpong/server/internal/core/ecs"
	"github.com/ringpong/server/internal/data"
	"github.com/ringpong/server/internal/physics"
)

func classic() *data.ArenaPreset {
	return &data.ArenaPreset{
		Name: "classic", Length: 20, Height: 10, BallRadius: 0.5,
		PaddleWidth: 1, PaddleHeight: 2, PaddleInset: 1,
	}
}

func newState(t *testing.T) (*ecs.World, *State) {
	t.Helper()
	w := ecs.NewWorld()
	return w, NewState(w, 6)
}

func TestNewMatchLaysOutArena(t *testing.T) {
	m, err := NewMatch("ABCDEF", classic(), 7)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if m.Paddles.Left.Position.X() != -9 || m.Paddles.Right.Position.X() != 9 {
		t.Fatalf("paddles at %v / %v", m.Paddles.Left.Position, m.Paddles.Right.Position)
	}
	if m.Ball.Speed != 0 || m.Ball.Position != physics.Origin {
		t.Fatalf("ball not at rest: %+v", m.Ball)
	}
	if m.Phase != PhaseWaiting {
		t.Fatalf("phase = %s", m.Phase)
	}
}

func TestNewMatchPropagatesPhysicsErrors(t *testing.T) {
	p := classic()
	p.BallRadius = 6
	if _, err := NewMatch("ABCDEF", p, 7); err == nil {
		t.Fatal("oversized ball accepted")
	}
}

func TestSetPaddleZClamps(t *testing.T) {
	m, _ := NewMatch("ABCDEF", classic(), 7)
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{2.5, 2.5},
		{100, 4},
		{-100, -4},
	}
	for _, tt := range tests {
		m.SetPaddleZ(physics.Left, tt.in)
		if got := m.Paddles.Left.Position.Z(); got != tt.want {
			t.Errorf("SetPaddleZ(%v) -> %v, want %v", tt.in, got, tt.want)
		}
	}
	m.SetPaddleZ(physics.Left, math.NaN())
	if got := m.Paddles.Left.Position.Z(); got != -4 {
		t.Errorf("NaN moved paddle to %v", got)
	}
}

func TestAdvanceWaitsForStart(t *testing.T) {
	m, _ := NewMatch("ABCDEF", classic(), 7)
	if _, err := m.Advance(1.0 / 60); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if m.Ball.Position != physics.Origin || m.Ticks != 0 {
		t.Fatalf("ball moved before start: %+v", m.Ball)
	}
	if !m.Start() {
		t.Fatal("Start refused")
	}
	if m.Start() {
		t.Fatal("second Start accepted")
	}
	if _, err := m.Advance(1.0 / 60); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if m.Ball.Position.X() <= 0 || m.Ticks != 1 {
		t.Fatalf("ball did not serve: %+v ticks=%d", m.Ball, m.Ticks)
	}
	if _, err := m.Advance(-1); err == nil {
		t.Fatal("negative dt accepted")
	}
}

func TestCreditReachesLimit(t *testing.T) {
	m, _ := NewMatch("ABCDEF", classic(), 2)
	m.Start()
	// Ball crossed the right goal line: a point for Left.
	ev := physics.ScoreEvent{ScoringSide: physics.Right}
	if m.Credit(ev) {
		t.Fatal("finished after one point")
	}
	if !m.Credit(ev) {
		t.Fatal("not finished at limit")
	}
	if m.Phase != PhaseFinished || m.Winner != physics.Left || m.Forfeit {
		t.Fatalf("phase=%s winner=%s forfeit=%v", m.Phase, m.Winner, m.Forfeit)
	}
	if m.Ball.Speed != 0 {
		t.Fatalf("ball still moving after finish")
	}
	if m.Credit(ev) || m.Score[physics.Left] != 2 || m.Score[physics.Right] != 0 {
		t.Fatalf("credited a finished match: %v", m.Score)
	}
}

func TestForfeit(t *testing.T) {
	m, _ := NewMatch("ABCDEF", classic(), 7)
	m.Seats[physics.Left].Name = "alice"
	m.Seats[physics.Right].Name = "bob"
	m.Start()
	m.Seats[physics.Left] = Seat{}
	if m.Names[physics.Left] != "alice" {
		t.Fatalf("kickoff names %v", m.Names)
	}
	if !m.ForfeitBy(physics.Left) {
		t.Fatal("forfeit refused")
	}
	if m.Winner != physics.Right || !m.Forfeit {
		t.Fatalf("winner=%s forfeit=%v", m.Winner, m.Forfeit)
	}
	if m.ForfeitBy(physics.Right) {
		t.Fatal("second forfeit accepted")
	}
}

func TestPassphrase(t *testing.T) {
	m, _ := NewMatch("ABCDEF", classic(), 7)
	if !m.CheckPassphrase("anything") {
		t.Fatal("open match rejected a passphrase")
	}
	if err := m.SetPassphrase("hunter2"); err != nil {
		t.Fatalf("SetPassphrase: %v", err)
	}
	if !m.Locked() || m.CheckPassphrase("hunter3") || !m.CheckPassphrase("hunter2") {
		t.Fatal("passphrase check wrong")
	}
}

func TestStateCreateAndLookup(t *testing.T) {
	_, s := newState(t)
	m, err := s.CreateMatch(classic(), 7)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if len(m.Code) != 6 {
		t.Fatalf("code %q", m.Code)
	}
	for _, r := range m.Code {
		if !strings.ContainsRune(codeChars, r) {
			t.Fatalf("code %q has %q", m.Code, r)
		}
	}
	if s.ByCode(strings.ToLower(m.Code)) != m {
		t.Fatal("lookup by lower-case code failed")
	}
	if s.ByCode("ZZZZZZZ") != nil {
		t.Fatal("unknown code found a match")
	}
}

func TestSeatingAndUnseat(t *testing.T) {
	_, s := newState(t)
	m, _ := s.CreateMatch(classic(), 7)

	if !s.Seat(m, physics.Left, 11, "alice") {
		t.Fatal("seat refused")
	}
	if s.Seat(m, physics.Left, 12, "bob") {
		t.Fatal("taken seat reassigned")
	}
	other, _ := s.CreateMatch(classic(), 7)
	if s.Seat(other, physics.Left, 11, "alice") {
		t.Fatal("session seated twice")
	}
	side, ok := m.FreeSide()
	if !ok || side != physics.Right {
		t.Fatalf("FreeSide = %s, %v", side, ok)
	}
	s.Seat(m, side, 12, "bob")
	if _, ok := m.FreeSide(); ok {
		t.Fatal("full match has a free side")
	}
	if s.BySession(12) != m {
		t.Fatal("BySession failed")
	}

	got, side, ok := s.Unseat(12)
	if !ok || got != m || side != physics.Right || !m.Seats[physics.Right].Empty() {
		t.Fatalf("Unseat = %v %s %v", got, side, ok)
	}
	if s.BySession(12) != nil {
		t.Fatal("unseated session still mapped")
	}
	if _, _, ok := s.Unseat(12); ok {
		t.Fatal("double unseat")
	}
}

func TestBotsAreReady(t *testing.T) {
	_, s := newState(t)
	m, _ := s.CreateMatch(classic(), 7)
	s.Seat(m, physics.Left, 1, "alice")
	s.AddBot(m, physics.Right, "bot")
	if m.BothReady() {
		t.Fatal("ready before the human")
	}
	m.Seats[physics.Left].Ready = true
	if !m.BothReady() {
		t.Fatal("not ready with bot and ready human")
	}
	n := 0
	s.EachBot(func(bm *Match, b *Bot) {
		n++
		if bm != m || b.Side != physics.Right {
			t.Fatalf("bot %+v on %s", b, bm.Code)
		}
	})
	if n != 1 {
		t.Fatalf("EachBot visited %d", n)
	}
}

func TestDestroyRemovesAtFlush(t *testing.T) {
	w, s := newState(t)
	m, _ := s.CreateMatch(classic(), 7)
	s.Seat(m, physics.Left, 5, "alice")
	s.AddBot(m, physics.Right, "bot")

	s.Destroy(m)
	if s.ByCode(m.Code) != nil || s.BySession(5) != nil {
		t.Fatal("indexes kept a destroyed match")
	}
	if s.Count() != 1 {
		t.Fatal("component removed before flush")
	}
	w.FlushDestroyQueue()
	if s.Count() != 0 || s.Bots.Len() != 0 || s.Get(m.ID) != nil {
		t.Fatal("match survived flush")
	}
}
