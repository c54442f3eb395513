package handler

import (
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/protocol"
	"github.com/ringpong/server/internal/physics"
	"github.com/ringpong/server/internal/world"
)

// BroadcastMatch sends one message to every human seated in m.
func BroadcastMatch(m *world.Match, store *net.SessionStore, msgType string, payload any) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		return
	}
	for _, seat := range m.Seats {
		if seat.SessionID == 0 {
			continue
		}
		if s := store.Get(seat.SessionID); s != nil {
			s.Send(data)
		}
	}
}

// sendJoined tells each seated human their side and opponent.
func sendJoined(m *world.Match, deps *Deps) {
	for _, side := range []physics.Side{physics.Left, physics.Right} {
		seat := m.Seats[side]
		if seat.SessionID == 0 {
			continue
		}
		s := deps.Sessions.Get(seat.SessionID)
		if s == nil {
			continue
		}
		p := m.Paddles.Of(side)
		s.SendMsg(protocol.TypeJoined, protocol.Joined{
			Code:         m.Code,
			Arena:        m.Arena,
			Side:         side.String(),
			Opponent:     m.Seats[side.Opponent()].Name,
			Locked:       m.Locked(),
			ScoreLimit:   m.ScoreLimit,
			HalfWidth:    m.Bound.HalfWidth,
			HalfHeight:   m.Bound.HalfHeight,
			BallRadius:   m.Ball.Radius,
			PaddleX:      p.Position.X(),
			PaddleWidth:  p.Width,
			PaddleHeight: p.Height,
		})
	}
}
