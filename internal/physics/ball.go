package physics

import "fmt"

// Ball is the simulated entity. Speed always equals the length of Velocity
// and never exceeds MaxSpeed. Position.Y stays zero.
type Ball struct {
	Position Vec3
	Velocity Vec3
	Speed    float64
	Radius   float64

	// Rally counts paddle hits since the last serve.
	Rally int
}

// NewBall places a resting ball at the arena centre. The radius must fit
// inside the boundary on both axes.
func NewBall(radius float64, b Boundary) (*Ball, error) {
	if !positive(radius) {
		return nil, fmt.Errorf("%w: ball radius %v", ErrInvalidDimension, radius)
	}
	if radius >= b.HalfWidth || radius >= b.HalfHeight {
		return nil, fmt.Errorf("%w: ball radius %v does not fit %vx%v arena",
			ErrInvalidDimension, radius, 2*b.HalfWidth, 2*b.HalfHeight)
	}
	return &Ball{Position: Origin, Radius: radius}, nil
}

// ResetSpeed serves the ball along +x at ServeSpeed. Position is untouched.
// Calling it twice has the same effect as calling it once.
func ResetSpeed(b *Ball) {
	b.Speed = ServeSpeed
	b.Velocity = Vec3{1, 0, 0}.Mul(ServeSpeed)
	b.Rally = 0
}

// Stop zeroes the ball's motion, as before the first serve.
func (b *Ball) Stop() {
	b.Velocity = Vec3{}
	b.Speed = 0
}

// recentre puts the ball back on the centre spot after a goal and serves it.
// The serve is always the reverse of ResetSpeed's default direction.
func (b *Ball) recentre() {
	b.Position = Origin
	ResetSpeed(b)
	b.Velocity[0] = -b.Velocity[0]
}

// redirect points the ball along dir keeping the current speed.
func (b *Ball) redirect(dir Vec3) {
	b.Velocity = dir.Normalize().Mul(b.Speed)
}
