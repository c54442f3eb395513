package system

import (
	"github.com/ringpong/server/internal/core/event"
	"github.com/ringpong/server/internal/handler"
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/packet"
	"github.com/ringpong/server/internal/net/protocol"
	"github.com/ringpong/server/internal/persist"
	"github.com/ringpong/server/internal/world"
	"go.uber.org/zap"
)

// Scoreboard credits goals and closes finished matches. Its handlers run on
// the bus during the PreUpdate phase.
type Scoreboard struct {
	world   *world.State
	store   *net.SessionStore
	bus     *event.Bus
	results *PersistenceSystem
	log     *zap.Logger
}

// RegisterScoreboard subscribes the scoreboard handlers on bus.
func RegisterScoreboard(bus *event.Bus, ws *world.State, store *net.SessionStore, results *PersistenceSystem, log *zap.Logger) *Scoreboard {
	sb := &Scoreboard{world: ws, store: store, bus: bus, results: results, log: log}
	event.Subscribe(bus, sb.onGoal)
	event.Subscribe(bus, sb.onStarted)
	event.Subscribe(bus, sb.onFinished)
	return sb
}

func (sb *Scoreboard) onGoal(ev event.GoalScored) {
	m := sb.world.Get(ev.Match)
	if m == nil || m.Phase != world.PhasePlaying {
		return
	}
	done := m.Credit(ev.Goal)
	sb.log.Debug("goal",
		zap.String("code", m.Code),
		zap.Stringer("scorer", world.PointTo(ev.Goal)),
		zap.Ints("score", m.Score[:]),
	)
	handler.BroadcastMatch(m, sb.store, protocol.TypeGoal, protocol.Goal{
		Scorer: world.PointTo(ev.Goal).String(),
		Score:  m.Score,
	})
	if done {
		event.Emit(sb.bus, event.MatchFinished{Match: m.ID, Winner: m.Winner})
	}
}

func (sb *Scoreboard) onStarted(ev event.MatchStarted) {
	m := sb.world.Get(ev.Match)
	if m == nil {
		return
	}
	handler.BroadcastMatch(m, sb.store, protocol.TypeState, StateOf(m))
}

// onFinished reports the result, returns the players to the lobby and
// queues the match for destruction.
func (sb *Scoreboard) onFinished(ev event.MatchFinished) {
	m := sb.world.Get(ev.Match)
	if m == nil {
		return
	}
	sb.log.Info("match finished",
		zap.String("code", m.Code),
		zap.Stringer("winner", ev.Winner),
		zap.Bool("forfeit", ev.Forfeit),
		zap.Ints("score", m.Score[:]),
		zap.Int("longest_rally", m.LongestRally),
	)
	handler.BroadcastMatch(m, sb.store, protocol.TypeFinished, protocol.Finished{
		Winner:       ev.Winner.String(),
		Forfeit:      ev.Forfeit,
		Score:        m.Score,
		LongestRally: m.LongestRally,
		TopSpeed:     m.TopSpeed,
	})
	if sb.results != nil {
		sb.results.Enqueue(ResultOf(m))
	}

	for _, seat := range m.Seats {
		if seat.SessionID == 0 {
			continue
		}
		if s := sb.store.Get(seat.SessionID); s != nil && !s.IsClosed() {
			s.SetState(packet.StateLobby)
		}
		sb.world.Unseat(seat.SessionID)
	}
	sb.world.Destroy(m)
}

// ResultOf builds the persisted record of a finished match.
func ResultOf(m *world.Match) persist.MatchResult {
	r := persist.MatchResult{
		Code:         m.Code,
		Arena:        m.Arena,
		LeftName:     m.Names[0],
		RightName:    m.Names[1],
		LeftScore:    m.Score[0],
		RightScore:   m.Score[1],
		Winner:       m.Winner.String(),
		Forfeit:      m.Forfeit,
		LongestRally: m.LongestRally,
		TopSpeed:     m.TopSpeed,
		StartedAt:    m.StartedAt,
		EndedAt:      m.EndedAt,
	}
	// Bots have no leaderboard record.
	for i, seat := range m.Seats {
		if seat.Bot {
			if i == 0 {
				r.LeftName = ""
			} else {
				r.RightName = ""
			}
		}
	}
	return r
}
