package system

import "time"

// Phase orders systems within one tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: accept sessions, drain client messages
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: bots + ball simulation
	PhasePostUpdate              // 3: reserved
	PhaseOutput                  // 4: state broadcast + flush
	PhasePersist                 // 5: match results to the database
	PhaseCleanup                 // 6: destroy finished matches
)

// System is one unit of per-tick work.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
