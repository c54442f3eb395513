package physics

import (
	"fmt"
	"math"
)

// Boundary holds the arena half extents. Goals lie on x = ±HalfWidth, walls on
// z = ±HalfHeight.
type Boundary struct {
	HalfWidth  float64
	HalfHeight float64
}

// NewBoundary derives the half extents from the full arena length (goal to
// goal) and height (wall to wall).
func NewBoundary(arenaLength, arenaHeight float64) (Boundary, error) {
	if !positive(arenaLength) {
		return Boundary{}, fmt.Errorf("%w: arena length %v", ErrInvalidDimension, arenaLength)
	}
	if !positive(arenaHeight) {
		return Boundary{}, fmt.Errorf("%w: arena height %v", ErrInvalidDimension, arenaHeight)
	}
	return Boundary{HalfWidth: arenaLength / 2, HalfHeight: arenaHeight / 2}, nil
}

// GoalLine is the |x| at which a ball of the given radius has scored.
func (b Boundary) GoalLine(radius float64) float64 { return b.HalfWidth - radius }

// WallLine is the |z| at which a ball of the given radius touches a wall.
func (b Boundary) WallLine(radius float64) float64 { return b.HalfHeight - radius }

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
