package net

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/ringpong/server/internal/config"
	"go.uber.org/zap"
)

// Listing is one joinable match as shown by /matches.
type Listing struct {
	Code   string `json:"code"`
	Arena  string `json:"arena"`
	Host   string `json:"host"`
	Locked bool   `json:"locked"`
}

// LeaderboardEntry is one row of /leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Diff   int    `json:"goal_diff"`
}

// Server accepts websocket connections and creates Sessions.
// New/dead sessions are communicated to the game loop via channels.
type Server struct {
	listener net.Listener
	http     *http.Server
	upgrader websocket.Upgrader

	nextID   atomic.Uint64
	newConns chan *Session
	deadCh   chan uint64 // session IDs of dead sessions
	opts     SessionOptions
	maxBytes int64

	listings atomic.Pointer[[]Listing]
	ranking  atomic.Pointer[[]LeaderboardEntry]
	online   atomic.Int64

	log     *zap.Logger
	closeCh chan struct{}
}

func NewServer(netCfg config.NetworkConfig, rl config.RateLimitConfig, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", netCfg.BindAddress)
	if err != nil {
		return nil, err
	}
	opts := SessionOptions{
		InQueueSize:  netCfg.InQueueSize,
		OutQueueSize: netCfg.OutQueueSize,
		ReadTimeout:  netCfg.ReadTimeout,
		WriteTimeout: netCfg.WriteTimeout,
	}
	if rl.Enabled {
		opts.PktPerSec = rl.MessagesPerSecond
	}
	s := &Server{
		listener: ln,
		upgrader: websocket.Upgrader{
			// Browser clients are served from other origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		newConns: make(chan *Session, 64),
		deadCh:   make(chan uint64, 64),
		opts:     opts,
		maxBytes: netCfg.MaxMessageBytes,
		log:      log,
		closeCh:  make(chan struct{}),
	}
	s.http = &http.Server{Handler: s.Handler()}
	return s, nil
}

// Handler routes /ws, /healthz, /matches and /leaderboard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/matches", s.handleMatches)
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	return mux
}

// AcceptLoop serves HTTP until Shutdown. Run it in its own goroutine.
func (s *Server) AcceptLoop() {
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		select {
		case <-s.closeCh:
		default:
			s.log.Error("http serve failed", zap.Error(err))
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	if s.maxBytes > 0 {
		conn.SetReadLimit(s.maxBytes)
	}

	id := s.nextID.Add(1)
	sess := NewSession(conn, id, s.opts, s.log)
	sess.Start()

	s.log.Info("client connected", zap.Uint64("session", id), zap.String("ip", sess.IP))

	select {
	case s.newConns <- sess:
	default:
		s.log.Warn("session queue full, rejecting connection")
		sess.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "ok",
		"sessions": s.online.Load(),
		"open":     len(s.Listings()),
	})
}

func (s *Server) handleMatches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.Listings())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, _ *http.Request) {
	entries := []LeaderboardEntry{}
	if p := s.ranking.Load(); p != nil && *p != nil {
		entries = *p
	}
	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// PublishListings replaces the /matches snapshot. Called from the game loop.
func (s *Server) PublishListings(l []Listing, online int) {
	s.listings.Store(&l)
	s.online.Store(int64(online))
}

// PublishLeaderboard replaces the /leaderboard snapshot.
func (s *Server) PublishLeaderboard(entries []LeaderboardEntry) {
	s.ranking.Store(&entries)
}

// Listings returns the last published snapshot, never nil.
func (s *Server) Listings() []Listing {
	if p := s.listings.Load(); p != nil && *p != nil {
		return *p
	}
	return []Listing{}
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// NotifyDead reports a dead session ID.
func (s *Server) NotifyDead(sessionID uint64) {
	select {
	case s.deadCh <- sessionID:
	default:
	}
}

// DeadSessions returns the channel of dead session IDs.
func (s *Server) DeadSessions() <-chan uint64 {
	return s.deadCh
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.closeCh)
	return s.http.Shutdown(ctx)
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
