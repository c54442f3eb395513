package event

import (
	"github.com/ringpong/server/internal/core/ecs"
	"github.com/ringpong/server/internal/physics"
)

// GoalScored is emitted by the match system when Step reports a goal.
type GoalScored struct {
	Match ecs.EntityID
	Goal  physics.ScoreEvent
}

// MatchStarted is emitted when both seats are ready and the ball is served.
type MatchStarted struct {
	Match ecs.EntityID
}

// MatchFinished is emitted once per match, on score limit or forfeit.
type MatchFinished struct {
	Match   ecs.EntityID
	Winner  physics.Side
	Forfeit bool
}
