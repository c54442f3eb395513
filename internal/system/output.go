package system

import (
	"time"

	coresys "github.com/ringpong/server/internal/core/system"
	"github.com/ringpong/server/internal/handler"
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/protocol"
	"github.com/ringpong/server/internal/world"
)

// ListingPublisher receives the lobby snapshot served over HTTP.
type ListingPublisher interface {
	PublishListings(l []net.Listing, online int)
}

// OutputSystem broadcasts match state every few ticks and flushes every
// session's buffered output. Phase 4 (Output).
type OutputSystem struct {
	world     *world.State
	store     *net.SessionStore
	publisher ListingPublisher
	every     int
	tickCount int
}

func NewOutputSystem(ws *world.State, store *net.SessionStore, publisher ListingPublisher, broadcastEvery int) *OutputSystem {
	if broadcastEvery < 1 {
		broadcastEvery = 1
	}
	return &OutputSystem{world: ws, store: store, publisher: publisher, every: broadcastEvery}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount >= s.every {
		s.tickCount = 0
		s.broadcast()
	}
	for _, sess := range s.store.Raw() {
		sess.FlushOutput()
	}
}

func (s *OutputSystem) broadcast() {
	var open []net.Listing
	s.world.Each(func(m *world.Match) {
		switch m.Phase {
		case world.PhasePlaying:
			handler.BroadcastMatch(m, s.store, protocol.TypeState, StateOf(m))
		case world.PhaseWaiting:
			if _, free := m.FreeSide(); free {
				open = append(open, net.Listing{
					Code:   m.Code,
					Arena:  m.Arena,
					Host:   hostName(m),
					Locked: m.Locked(),
				})
			}
		}
	})
	if s.publisher != nil {
		s.publisher.PublishListings(open, s.store.Count())
	}
}

func hostName(m *world.Match) string {
	for _, seat := range m.Seats {
		if !seat.Empty() {
			return seat.Name
		}
	}
	return ""
}

// StateOf snapshots a match for the wire.
func StateOf(m *world.Match) protocol.State {
	b := m.Ball
	return protocol.State{
		Tick:  m.Ticks,
		Phase: m.Phase.String(),
		Ball: protocol.BallState{
			X:     b.Position.X(),
			Z:     b.Position.Z(),
			VX:    b.Velocity.X(),
			VZ:    b.Velocity.Z(),
			Speed: b.Speed,
		},
		LeftZ:  m.Paddles.Left.Position.Z(),
		RightZ: m.Paddles.Right.Position.Z(),
		Score:  m.Score,
		Rally:  b.Rally,
	}
}
