package system

import (
	"errors"
	"time"

	coresys "github.com/ringpong/server/internal/core/system"
	"github.com/ringpong/server/internal/handler"
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/packet"
	"github.com/ringpong/server/internal/net/protocol"
	"go.uber.org/zap"
)

// SessionSource delivers connection churn to the game loop.
type SessionSource interface {
	NewSessions() <-chan *net.Session
	DeadSessions() <-chan uint64
	NotifyDead(sessionID uint64)
}

// InputSystem drains message queues from all sessions and dispatches them
// through the registry. Phase 0 (Input).
type InputSystem struct {
	source     SessionSource
	registry   *packet.Registry
	store      *net.SessionStore
	maxPerTick int
	deps       *handler.Deps
	log        *zap.Logger
}

func NewInputSystem(source SessionSource, registry *packet.Registry, store *net.SessionStore, maxPerTick int, deps *handler.Deps, log *zap.Logger) *InputSystem {
	return &InputSystem{
		source:     source,
		registry:   registry,
		store:      store,
		maxPerTick: maxPerTick,
		deps:       deps,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	// Accept new sessions
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.store.Add(sess)
		default:
			goto doneNew
		}
	}
doneNew:

	// Process dead sessions
	for {
		select {
		case id := <-s.source.DeadSessions():
			s.store.Remove(id)
		default:
			goto doneDead
		}
	}
doneDead:

	for id, sess := range s.store.Raw() {
		if sess.IsClosed() {
			// A leave sent just before the drop still counts.
			s.drain(sess)
			s.handleDisconnect(sess)
			s.source.NotifyDead(id)
			s.store.Remove(id)
			continue
		}
		s.drain(sess)
	}
}

// drain dispatches up to maxPerTick queued frames from one session.
func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Debug("dispatch failed",
					zap.Uint64("session", sess.ID),
					zap.String("state", sess.State().String()),
					zap.Error(err),
				)
				s.reject(sess, err)
			}
		default:
			return
		}
	}
}

func (s *InputSystem) reject(sess *net.Session, err error) {
	if sess.IsClosed() {
		return
	}
	if errors.Is(err, packet.ErrNotAllowed) {
		sess.SendError(protocol.ErrNotAllowed, err.Error())
		return
	}
	sess.SendError(protocol.ErrBadMessage, err.Error())
}

func (s *InputSystem) handleDisconnect(sess *net.Session) {
	handler.HandleDisconnect(sess, s.deps)
}
