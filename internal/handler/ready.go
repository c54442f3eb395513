package handler

import (
	"github.com/ringpong/server/internal/core/event"
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/protocol"
	"github.com/ringpong/server/internal/world"
	"go.uber.org/zap"
)

// HandleReady marks the sender's seat ready and serves once both are.
func HandleReady(sess *net.Session, deps *Deps) {
	m := deps.World.BySession(sess.ID)
	if m == nil {
		return
	}
	if m.Phase != world.PhaseWaiting {
		sess.SendError(protocol.ErrNotAllowed, "match already started")
		return
	}
	side, ok := m.SideOf(sess.ID)
	if !ok {
		return
	}
	m.Seats[side].Ready = true

	if m.BothReady() && m.Start() {
		deps.Log.Info("match started",
			zap.String("code", m.Code),
			zap.String("left", m.Names[0]),
			zap.String("right", m.Names[1]),
		)
		event.Emit(deps.Bus, event.MatchStarted{Match: m.ID})
	}
}
