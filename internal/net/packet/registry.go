package packet

import (
	"errors"
	"fmt"

	"github.com/ringpong/server/internal/net/protocol"
	"go.uber.org/zap"
)

// SessionState represents the session's current protocol phase.
type SessionState int

const (
	StateConnected SessionState = iota // socket open, no hello yet
	StateLobby                         // named, not seated
	StateInMatch                       // seated in a match
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateLobby:
		return "Lobby"
	case StateInMatch:
		return "InMatch"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc is the callback signature for message handlers.
// The session pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, env protocol.Envelope)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps message types to handlers with state-based access control.
type Registry struct {
	handlers map[string]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]*handlerEntry),
		log:      log,
	}
}

// Register maps a message type to a handler, restricted to the given session states.
func (reg *Registry) Register(msgType string, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[msgType] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// Dispatch decodes the envelope in data, validates the session state and
// calls the handler. Unknown types are ignored.
func (reg *Registry) Dispatch(sess any, state SessionState, data []byte) error {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		return err
	}
	reg.log.Debug("message received",
		zap.String("type", env.T),
		zap.Int("size", len(data)),
		zap.String("state", state.String()),
	)

	entry, ok := reg.handlers[env.T]
	if !ok {
		reg.log.Debug("unknown message type", zap.String("type", env.T), zap.String("state", state.String()))
		return nil
	}

	if !entry.allowedStates[state] {
		reg.log.Warn("message not allowed in state",
			zap.String("type", env.T),
			zap.String("state", state.String()),
		)
		return fmt.Errorf("%w: %s in state %s", ErrNotAllowed, env.T, state)
	}

	return reg.safeCall(entry.fn, sess, env)
}

// ErrNotAllowed is wrapped by Dispatch when the state gate rejects a message.
var ErrNotAllowed = errors.New("message not allowed")

// safeCall executes a handler with panic recovery to prevent a single
// bad message from crashing the entire game loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, env protocol.Envelope) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.String("type", env.T),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for %s: %v", env.T, rec)
		}
	}()
	fn(sess, env)
	return nil
}
