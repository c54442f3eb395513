package system

import (
	"time"

	"github.com/ringpong/server/internal/core/ecs"
	coresys "github.com/ringpong/server/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end,
// removing finished and abandoned matches. Phase 6 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
}

func NewCleanupSystem(world *ecs.World) *CleanupSystem {
	return &CleanupSystem{world: world}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.FlushDestroyQueue()
}
