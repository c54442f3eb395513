package physics

import (
	"fmt"
	"math"
)

// ScoreEvent reports a goal. ScoringSide is the half of the arena whose goal
// line the ball crossed; the point goes to that side's opponent. It is
// produced once per goal and never stored.
type ScoreEvent struct {
	ScoringSide Side
}

// Step advances the ball by dt seconds against a fixed paddle snapshot.
//
// The frame is split into Substeps(speed) equal substeps so that a fast ball
// cannot pass through a paddle between two collision checks. The first goal
// ends the frame and is returned; the ball has already been re-served by
// then. Step is a no-op while started is false.
func Step(b *Ball, paddles *Paddles, bound Boundary, dt float64, started bool) (*ScoreEvent, error) {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	if !started {
		return nil, nil
	}

	n := Substeps(b.Speed)
	sub := dt / float64(n)
	for i := 0; i < n; i++ {
		if ev := resolve(b, paddles, bound, sub); ev != nil {
			return ev, nil
		}
	}
	return nil, nil
}

// Substeps returns how many collision checks a frame at the given speed needs.
func Substeps(speed float64) int {
	n := int(math.Ceil(speed / SubstepSpeed))
	if n < 1 {
		return 1
	}
	return n
}

// resolve runs one substep: goal, then wall, then the paddle the ball is
// heading toward.
func resolve(b *Ball, paddles *Paddles, bound Boundary, dt float64) *ScoreEvent {
	next := b.Position.Add(b.Velocity.Mul(dt))

	if math.Abs(next.X()) >= bound.GoalLine(b.Radius) {
		ev := &ScoreEvent{ScoringSide: sideOf(next.X())}
		b.recentre()
		return ev
	}

	if wall := bound.WallLine(b.Radius); math.Abs(next.Z()) >= wall {
		b.Velocity[2] = -b.Velocity[2]
		next[2] = math.Copysign(wall, next.Z())
	}

	if hitPaddle(b, paddles.Of(sideOf(b.Velocity.X()))) {
		return nil
	}
	b.Position = next
	return nil
}

// hitPaddle tests the ball's current position against the paddle grown by
// the ball radius and bounces the ball if it is touching the inner face.
func hitPaddle(b *Ball, p *Paddle) bool {
	rel := b.Position.Sub(p.Position)
	halfW := (p.Width + b.Radius) / 2
	halfH := (p.Height + b.Radius) / 2

	face := halfW
	inFront := rel.X() > face
	if p.Side == Right {
		face = -halfW
		inFront = rel.X() < face
	}
	if !inFront || math.Abs(rel.Z()) > halfH || math.Abs(rel.X()-face) > b.Radius {
		return false
	}

	angle := BounceAngle(rel.Z() / halfH)
	dirX := 1.0
	if p.Side == Right {
		dirX = -1
	}
	b.Speed = math.Min(b.Speed*SpeedRamp, MaxSpeed)
	b.redirect(Vec3{dirX * math.Cos(angle), 0, math.Sin(angle)})
	b.Rally++
	return true
}

// BounceAngle maps a normalised hit offset along the paddle (-1 bottom edge,
// 0 centre, 1 top edge) to the outgoing angle from the x axis.
func BounceAngle(offset float64) float64 {
	return math.Max(-1, math.Min(1, offset)) * MaxBounceAngle
}
