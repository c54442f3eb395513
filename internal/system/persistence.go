package system

import (
	"context"
	"time"

	coresys "github.com/ringpong/server/internal/core/system"
	"github.com/ringpong/server/internal/persist"
	"go.uber.org/zap"
)

// PersistenceSystem writes finished-match results queued by the scoreboard.
// Phase 5 (Persist).
type PersistenceSystem struct {
	saver   persist.ResultSaver
	timeout time.Duration
	pending []persist.MatchResult
	log     *zap.Logger
}

func NewPersistenceSystem(saver persist.ResultSaver, timeout time.Duration, log *zap.Logger) *PersistenceSystem {
	if saver == nil {
		saver = persist.Discard
	}
	return &PersistenceSystem{saver: saver, timeout: timeout, log: log}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

// Enqueue schedules a result for the next persist phase.
func (s *PersistenceSystem) Enqueue(r persist.MatchResult) {
	s.pending = append(s.pending, r)
}

func (s *PersistenceSystem) Pending() int { return len(s.pending) }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.Flush()
}

// Flush saves every queued result. Failed saves are logged and dropped.
// Also called at shutdown.
func (s *PersistenceSystem) Flush() {
	for _, r := range s.pending {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if err := s.saver.Save(ctx, r); err != nil {
			s.log.Error("save match result failed", zap.String("code", r.Code), zap.Error(err))
		}
		cancel()
	}
	s.pending = s.pending[:0]
}
