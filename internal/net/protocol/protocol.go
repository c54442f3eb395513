// Package protocol defines the msgpack messages exchanged over the
// websocket. Every frame is an Envelope whose P holds the payload named by T.
package protocol

import "github.com/vmihailenco/msgpack/v5"

// Client → server message types.
const (
	TypeHello  = "hello"
	TypeCreate = "create"
	TypeJoin   = "join"
	TypePaddle = "paddle"
	TypeReady  = "ready"
	TypeLeave  = "leave"
)

// Server → client message types.
const (
	TypeWelcome  = "welcome"
	TypeJoined   = "joined"
	TypeState    = "state"
	TypeGoal     = "goal"
	TypeFinished = "finished"
	TypeError    = "error"
)

// Error codes carried by Error.
const (
	ErrBadMessage = "bad_message"
	ErrBadName    = "bad_name"
	ErrNoArena    = "no_arena"
	ErrNoMatch    = "no_match"
	ErrMatchFull  = "match_full"
	ErrWrongPass  = "wrong_passphrase"
	ErrNotAllowed = "not_allowed"
	ErrInternal   = "internal"
)

type Envelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

type Hello struct {
	Name string `msgpack:"name"`
}

type Create struct {
	Arena      string `msgpack:"arena"`
	Passphrase string `msgpack:"passphrase,omitempty"`
	Bot        bool   `msgpack:"bot,omitempty"`
}

type Join struct {
	Code       string `msgpack:"code"`
	Passphrase string `msgpack:"passphrase,omitempty"`
}

// Paddle moves the sender's paddle centre to Z. The server clamps it.
type Paddle struct {
	Z float64 `msgpack:"z"`
}

type Ready struct{}

type Leave struct{}

type Welcome struct {
	Session uint64   `msgpack:"session"`
	Name    string   `msgpack:"name"`
	Arenas  []string `msgpack:"arenas"`
}

// Joined is sent to both seats whenever a seat changes.
type Joined struct {
	Code         string  `msgpack:"code"`
	Arena        string  `msgpack:"arena"`
	Side         string  `msgpack:"side"`
	Opponent     string  `msgpack:"opponent,omitempty"`
	Locked       bool    `msgpack:"locked,omitempty"`
	ScoreLimit   int     `msgpack:"score_limit"`
	HalfWidth    float64 `msgpack:"half_width"`
	HalfHeight   float64 `msgpack:"half_height"`
	BallRadius   float64 `msgpack:"ball_radius"`
	PaddleX      float64 `msgpack:"paddle_x"`
	PaddleWidth  float64 `msgpack:"paddle_width"`
	PaddleHeight float64 `msgpack:"paddle_height"`
}

type BallState struct {
	X     float64 `msgpack:"x"`
	Z     float64 `msgpack:"z"`
	VX    float64 `msgpack:"vx"`
	VZ    float64 `msgpack:"vz"`
	Speed float64 `msgpack:"speed"`
}

type State struct {
	Tick   uint64    `msgpack:"tick"`
	Phase  string    `msgpack:"phase"`
	Ball   BallState `msgpack:"ball"`
	LeftZ  float64   `msgpack:"left_z"`
	RightZ float64   `msgpack:"right_z"`
	Score  [2]int    `msgpack:"score"`
	Rally  int       `msgpack:"rally"`
}

type Goal struct {
	Scorer string `msgpack:"scorer"`
	Score  [2]int `msgpack:"score"`
}

type Finished struct {
	Winner       string  `msgpack:"winner"`
	Forfeit      bool    `msgpack:"forfeit,omitempty"`
	Score        [2]int  `msgpack:"score"`
	LongestRally int     `msgpack:"longest_rally"`
	TopSpeed     float64 `msgpack:"top_speed"`
}

type Error struct {
	Code    string `msgpack:"code"`
	Message string `msgpack:"message"`
}
