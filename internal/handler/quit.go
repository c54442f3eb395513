package handler

import (
	"github.com/ringpong/server/internal/core/event"
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/packet"
	"github.com/ringpong/server/internal/world"
	"go.uber.org/zap"
)

// HandleLeave frees the sender's seat and returns them to the lobby.
func HandleLeave(sess *net.Session, deps *Deps) {
	leaveMatch(sess, deps)
	if !sess.IsClosed() {
		sess.SetState(packet.StateLobby)
	}
}

// HandleDisconnect cleans up after a dropped session. Called by the input
// system before the session is forgotten.
func HandleDisconnect(sess *net.Session, deps *Deps) {
	leaveMatch(sess, deps)
	deps.Log.Info("client disconnected", zap.Uint64("session", sess.ID), zap.String("name", sess.Name))
}

// leaveMatch forfeits a running match, or frees the seat of a waiting one.
// A waiting match with no human left is destroyed.
func leaveMatch(sess *net.Session, deps *Deps) {
	m, side, ok := deps.World.Unseat(sess.ID)
	if !ok {
		return
	}

	switch m.Phase {
	case world.PhasePlaying:
		m.ForfeitBy(side)
		deps.Log.Info("match forfeited",
			zap.String("code", m.Code),
			zap.String("name", sess.Name),
			zap.Stringer("side", side),
		)
		event.Emit(deps.Bus, event.MatchFinished{Match: m.ID, Winner: m.Winner, Forfeit: true})
	case world.PhaseWaiting:
		if !hasHuman(m) {
			deps.Log.Info("match abandoned", zap.String("code", m.Code))
			deps.World.Destroy(m)
			return
		}
		sendJoined(m, deps)
	}
}

func hasHuman(m *world.Match) bool {
	for _, seat := range m.Seats {
		if seat.SessionID != 0 {
			return true
		}
	}
	return false
}
