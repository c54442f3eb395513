package handler

import (
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/protocol"
	"github.com/ringpong/server/internal/world"
)

// HandlePaddle moves the sender's paddle. Applied between frames, so a
// paddle never moves inside a Step.
func HandlePaddle(sess *net.Session, env protocol.Envelope, deps *Deps) {
	msg, err := protocol.DecodePayload[protocol.Paddle](env)
	if err != nil {
		sess.SendError(protocol.ErrBadMessage, err.Error())
		return
	}
	m := deps.World.BySession(sess.ID)
	if m == nil || m.Phase == world.PhaseFinished {
		return
	}
	side, ok := m.SideOf(sess.ID)
	if !ok {
		return
	}
	m.SetPaddleZ(side, msg.Z)
}
