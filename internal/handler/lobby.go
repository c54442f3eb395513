package handler

import (
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/packet"
	"github.com/ringpong/server/internal/net/protocol"
	"github.com/ringpong/server/internal/physics"
	"github.com/ringpong/server/internal/world"
	"go.uber.org/zap"
)

const botName = "bot"

// HandleCreate opens a match with the creator on the left.
func HandleCreate(sess *net.Session, env protocol.Envelope, deps *Deps) {
	msg, err := protocol.DecodePayload[protocol.Create](env)
	if err != nil {
		sess.SendError(protocol.ErrBadMessage, err.Error())
		return
	}
	arena := msg.Arena
	if arena == "" {
		arena = deps.Config.Arena.DefaultPreset
	}
	preset := deps.Arenas.Get(arena)
	if preset == nil {
		sess.SendError(protocol.ErrNoArena, "unknown arena "+arena)
		return
	}

	m, err := deps.World.CreateMatch(preset, deps.Config.Match.ScoreLimit)
	if err != nil {
		deps.Log.Error("create match failed", zap.String("arena", arena), zap.Error(err))
		sess.SendError(protocol.ErrInternal, "could not create match")
		return
	}
	if err := m.SetPassphrase(msg.Passphrase); err != nil {
		deps.Log.Error("passphrase hash failed", zap.Error(err))
		deps.World.Destroy(m)
		sess.SendError(protocol.ErrInternal, "could not create match")
		return
	}

	deps.World.Seat(m, physics.Left, sess.ID, sess.Name)
	if msg.Bot {
		deps.World.AddBot(m, physics.Right, botName)
	}
	sess.SetState(packet.StateInMatch)

	deps.Log.Info("match created",
		zap.String("code", m.Code),
		zap.String("arena", m.Arena),
		zap.String("host", sess.Name),
		zap.Bool("bot", msg.Bot),
		zap.Bool("locked", m.Locked()),
	)
	sendJoined(m, deps)
}

// HandleJoin seats the player in the first free seat of a waiting match.
func HandleJoin(sess *net.Session, env protocol.Envelope, deps *Deps) {
	msg, err := protocol.DecodePayload[protocol.Join](env)
	if err != nil {
		sess.SendError(protocol.ErrBadMessage, err.Error())
		return
	}
	m := deps.World.ByCode(msg.Code)
	if m == nil {
		sess.SendError(protocol.ErrNoMatch, "no match "+msg.Code)
		return
	}
	if m.Phase != world.PhaseWaiting {
		sess.SendError(protocol.ErrMatchFull, "match already started")
		return
	}
	if !m.CheckPassphrase(msg.Passphrase) {
		sess.SendError(protocol.ErrWrongPass, "wrong passphrase")
		return
	}
	side, ok := m.FreeSide()
	if !ok || !deps.World.Seat(m, side, sess.ID, sess.Name) {
		sess.SendError(protocol.ErrMatchFull, "match is full")
		return
	}
	sess.SetState(packet.StateInMatch)

	deps.Log.Info("player joined",
		zap.String("code", m.Code),
		zap.String("name", sess.Name),
		zap.Stringer("side", side),
	)
	sendJoined(m, deps)
}
