package world

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/ringpong/server/internal/core/ecs"
	"github.com/ringpong/server/internal/data"
	"github.com/ringpong/server/internal/physics"
)

// ErrNoCode is returned when no unused room code could be drawn.
var ErrNoCode = errors.New("no free match code")

// codeChars omits I, O, 0 and 1.
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Bot marks a match whose seat on Side is driven by the Lua bot.
type Bot struct {
	Side physics.Side
}

// State is the registry of live matches. Matches are ecs entities with a
// Match component; bot-driven matches also carry a Bot component.
// Accessed only from the game loop goroutine.
type State struct {
	ecs     *ecs.World
	Matches *ecs.Store[Match]
	Bots    *ecs.Store[Bot]

	byCode    map[string]ecs.EntityID
	bySession map[uint64]ecs.EntityID
	codeLen   int
}

func NewState(w *ecs.World, codeLen int) *State {
	s := &State{
		ecs:       w,
		Matches:   ecs.NewStore[Match](),
		Bots:      ecs.NewStore[Bot](),
		byCode:    make(map[string]ecs.EntityID),
		bySession: make(map[uint64]ecs.EntityID),
		codeLen:   codeLen,
	}
	w.Register(s.Matches)
	w.Register(s.Bots)
	return s
}

// CreateMatch spawns a waiting match with a fresh room code.
func (s *State) CreateMatch(preset *data.ArenaPreset, scoreLimit int) (*Match, error) {
	code, err := s.freeCode()
	if err != nil {
		return nil, err
	}
	m, err := NewMatch(code, preset, scoreLimit)
	if err != nil {
		return nil, err
	}
	m.ID = s.ecs.CreateEntity()
	s.Matches.Set(m.ID, m)
	s.byCode[code] = m.ID
	return m, nil
}

func (s *State) freeCode() (string, error) {
	for i := 0; i < 32; i++ {
		code, err := generateCode(s.codeLen)
		if err != nil {
			return "", err
		}
		if _, taken := s.byCode[code]; !taken {
			return code, nil
		}
	}
	return "", ErrNoCode
}

func generateCode(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeChars[idx.Int64()]
	}
	return string(b), nil
}

// Get returns the match for an entity, nil if destroyed.
func (s *State) Get(id ecs.EntityID) *Match {
	if !s.ecs.Alive(id) {
		return nil
	}
	m, _ := s.Matches.Get(id)
	return m
}

// ByCode finds a match by room code, case-insensitively.
func (s *State) ByCode(code string) *Match {
	id, ok := s.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil
	}
	return s.Get(id)
}

// BySession finds the match a session is seated in.
func (s *State) BySession(sessionID uint64) *Match {
	id, ok := s.bySession[sessionID]
	if !ok {
		return nil
	}
	return s.Get(id)
}

// Seat puts a player in the given seat. The seat must be empty and the
// session must not be seated elsewhere.
func (s *State) Seat(m *Match, side physics.Side, sessionID uint64, name string) bool {
	if !m.Seats[side].Empty() {
		return false
	}
	if _, seated := s.bySession[sessionID]; seated {
		return false
	}
	m.Seats[side] = Seat{SessionID: sessionID, Name: name}
	s.bySession[sessionID] = m.ID
	return true
}

// AddBot seats the Lua bot. Bots are always ready.
func (s *State) AddBot(m *Match, side physics.Side, name string) bool {
	if !m.Seats[side].Empty() {
		return false
	}
	m.Seats[side] = Seat{Name: name, Bot: true, Ready: true}
	s.Bots.Set(m.ID, &Bot{Side: side})
	return true
}

// Unseat frees the session's seat and returns the match and side it held.
func (s *State) Unseat(sessionID uint64) (*Match, physics.Side, bool) {
	m := s.BySession(sessionID)
	delete(s.bySession, sessionID)
	if m == nil {
		return nil, 0, false
	}
	side, ok := m.SideOf(sessionID)
	if !ok {
		return nil, 0, false
	}
	m.Seats[side] = Seat{}
	return m, side, true
}

// Destroy forgets a match's code and seats and queues the entity for
// removal at the end of the tick.
func (s *State) Destroy(m *Match) {
	if id, ok := s.byCode[m.Code]; ok && id == m.ID {
		delete(s.byCode, m.Code)
	}
	for _, seat := range m.Seats {
		if seat.SessionID != 0 && s.bySession[seat.SessionID] == m.ID {
			delete(s.bySession, seat.SessionID)
		}
	}
	s.ecs.MarkForDestruction(m.ID)
}

// Each visits every live match.
func (s *State) Each(fn func(*Match)) {
	s.Matches.Each(func(_ ecs.EntityID, m *Match) { fn(m) })
}

// EachBot visits matches with a bot seat.
func (s *State) EachBot(fn func(*Match, *Bot)) {
	ecs.Each2(s.Matches, s.Bots, func(_ ecs.EntityID, m *Match, b *Bot) { fn(m, b) })
}

func (s *State) Count() int { return s.Matches.Len() }
