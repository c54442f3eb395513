package packet

import (
	"errors"
	"testing"

	"github.com/ringpong/server/internal/net/protocol"
	"go.uber.org/zap/zaptest"
)

func frame(t *testing.T, msgType string, payload any) []byte {
	t.Helper()
	b, err := protocol.Encode(msgType, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return b
}

func TestDispatchCallsHandler(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	var got protocol.Paddle
	var gotSess any
	reg.Register(protocol.TypePaddle, []SessionState{StateInMatch}, func(sess any, env protocol.Envelope) {
		gotSess = sess
		got, _ = protocol.DecodePayload[protocol.Paddle](env)
	})

	if err := reg.Dispatch("s1", StateInMatch, frame(t, protocol.TypePaddle, protocol.Paddle{Z: 1.5})); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if gotSess != "s1" || got.Z != 1.5 {
		t.Fatalf("handler saw %v %+v", gotSess, got)
	}
}

func TestDispatchGatesByState(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	called := false
	reg.Register(protocol.TypeReady, []SessionState{StateInMatch}, func(any, protocol.Envelope) { called = true })

	err := reg.Dispatch(nil, StateLobby, frame(t, protocol.TypeReady, protocol.Ready{}))
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("err = %v", err)
	}
	if called {
		t.Fatal("handler ran in wrong state")
	}
}

func TestDispatchIgnoresUnknownAndRejectsGarbage(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	if err := reg.Dispatch(nil, StateLobby, frame(t, "dance", protocol.Ready{})); err != nil {
		t.Fatalf("unknown type: %v", err)
	}
	if err := reg.Dispatch(nil, StateLobby, []byte{0xc1, 0x00}); err == nil {
		t.Fatal("garbage frame accepted")
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	reg.Register(protocol.TypeLeave, []SessionState{StateLobby}, func(any, protocol.Envelope) {
		panic("boom")
	})
	if err := reg.Dispatch(nil, StateLobby, frame(t, protocol.TypeLeave, protocol.Leave{})); err == nil {
		t.Fatal("panic not reported")
	}
}
