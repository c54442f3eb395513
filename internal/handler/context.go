package handler

import (
	"github.com/ringpong/server/internal/config"
	"github.com/ringpong/server/internal/core/event"
	"github.com/ringpong/server/internal/data"
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/packet"
	"github.com/ringpong/server/internal/net/protocol"
	"github.com/ringpong/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all message handlers.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	World    *world.State
	Arenas   *data.ArenaTable
	Bus      *event.Bus
	Sessions *net.SessionStore
}

// RegisterAll registers all message handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(protocol.TypeHello,
		[]packet.SessionState{packet.StateConnected},
		func(sess any, env protocol.Envelope) {
			HandleHello(sess.(*net.Session), env, deps)
		},
	)

	lobby := []packet.SessionState{packet.StateLobby}
	reg.Register(protocol.TypeCreate, lobby,
		func(sess any, env protocol.Envelope) {
			HandleCreate(sess.(*net.Session), env, deps)
		},
	)
	reg.Register(protocol.TypeJoin, lobby,
		func(sess any, env protocol.Envelope) {
			HandleJoin(sess.(*net.Session), env, deps)
		},
	)

	inMatch := []packet.SessionState{packet.StateInMatch}
	reg.Register(protocol.TypePaddle, inMatch,
		func(sess any, env protocol.Envelope) {
			HandlePaddle(sess.(*net.Session), env, deps)
		},
	)
	reg.Register(protocol.TypeReady, inMatch,
		func(sess any, env protocol.Envelope) {
			HandleReady(sess.(*net.Session), deps)
		},
	)
	// Disconnecting: a leave sent just before the socket dropped still forfeits.
	reg.Register(protocol.TypeLeave,
		[]packet.SessionState{packet.StateInMatch, packet.StateDisconnecting},
		func(sess any, env protocol.Envelope) {
			HandleLeave(sess.(*net.Session), deps)
		},
	)
}
