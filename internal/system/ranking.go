package system

import (
	"context"
	"time"

	coresys "github.com/ringpong/server/internal/core/system"
	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/persist"
	"go.uber.org/zap"
)

// Leaderboard refresh interval in ticks (about 48s at the default 16ms tick).
const rankingUpdateTicks = 3000

const rankingSize = 10

// LeaderboardPublisher receives the ranking served over HTTP.
type LeaderboardPublisher interface {
	PublishLeaderboard(entries []net.LeaderboardEntry)
}

// RankingSystem periodically reloads the top players from the database.
// Phase 3 (PostUpdate).
type RankingSystem struct {
	source    persist.LeaderboardSource
	publisher LeaderboardPublisher
	timeout   time.Duration
	elapsed   int
	log       *zap.Logger
}

func NewRankingSystem(source persist.LeaderboardSource, publisher LeaderboardPublisher, timeout time.Duration, log *zap.Logger) *RankingSystem {
	return &RankingSystem{
		source:    source,
		publisher: publisher,
		timeout:   timeout,
		elapsed:   rankingUpdateTicks, // refresh on the first tick
		log:       log,
	}
}

func (s *RankingSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *RankingSystem) Update(_ time.Duration) {
	s.elapsed++
	if s.elapsed < rankingUpdateTicks {
		return
	}
	s.elapsed = 0
	s.recalculate()
}

func (s *RankingSystem) recalculate() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	records, err := s.source.Leaderboard(ctx, rankingSize)
	if err != nil {
		s.log.Warn("leaderboard refresh failed", zap.Error(err))
		return
	}
	entries := make([]net.LeaderboardEntry, 0, len(records))
	for i, r := range records {
		entries = append(entries, net.LeaderboardEntry{
			Rank:   i + 1,
			Name:   r.Name,
			Wins:   r.Wins,
			Losses: r.Losses,
			Diff:   r.GoalsFor - r.GoalsAgainst,
		})
	}
	s.publisher.PublishLeaderboard(entries)
}
