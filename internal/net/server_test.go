package net

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ringpong/server/internal/config"
	"github.com/ringpong/server/internal/net/protocol"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Network.BindAddress = "127.0.0.1:0"
	srv, err := NewServer(cfg.Network, cfg.RateLimit, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	go srv.AcceptLoop()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func TestWebsocketRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	url := "ws://" + srv.Addr().String() + "/ws"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	var sess *Session
	select {
	case sess = <-srv.NewSessions():
	case <-time.After(2 * time.Second):
		t.Fatal("no session delivered")
	}
	defer sess.Close()

	hello := protocol.MustEncode(protocol.TypeHello, protocol.Hello{Name: "alice"})
	if err := client.WriteMessage(websocket.BinaryMessage, hello); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case got := <-sess.InQueue:
		env, err := protocol.DecodeEnvelope(got)
		if err != nil || env.T != protocol.TypeHello {
			t.Fatalf("server read %v, %v", env, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("frame not queued")
	}

	sess.SendMsg(protocol.TypeWelcome, protocol.Welcome{Session: sess.ID, Name: "alice"})
	sess.FlushOutput()

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := client.ReadMessage()
	if err != nil || kind != websocket.BinaryMessage {
		t.Fatalf("client read %d, %v", kind, err)
	}
	env, _ := protocol.DecodeEnvelope(data)
	w, err := protocol.DecodePayload[protocol.Welcome](env)
	if err != nil || w.Session != sess.ID {
		t.Fatalf("welcome = %+v, %v", w, err)
	}
}

func TestMatchesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.PublishListings([]Listing{{Code: "ABCDEF", Arena: "classic", Host: "alice"}}, 3)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got []Listing
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Code != "ABCDEF" {
		t.Fatalf("got %+v", got)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if !strings.Contains(rec.Body.String(), `"sessions":3`) {
		t.Fatalf("healthz = %s", rec.Body.String())
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty leaderboard = %q", rec.Body.String())
	}

	srv.PublishLeaderboard([]LeaderboardEntry{{Rank: 1, Name: "alice", Wins: 3, Diff: 9}})
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	var got []LeaderboardEntry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Name != "alice" || got[0].Diff != 9 {
		t.Fatalf("got %+v", got)
	}
}

func TestMatchesEndpointEmpty(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches", nil))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
