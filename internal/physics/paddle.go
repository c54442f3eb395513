package physics

import "fmt"

// Paddle is a read-only snapshot of one player's paddle. Its owner moves it
// between frames; the simulation only reads it.
type Paddle struct {
	Position Vec3
	Width    float64 // along x
	Height   float64 // along z
	Side     Side
}

// NewPaddle validates the paddle size.
func NewPaddle(side Side, position Vec3, width, height float64) (Paddle, error) {
	if !positive(width) || !positive(height) {
		return Paddle{}, fmt.Errorf("%w: paddle %vx%v", ErrInvalidDimension, width, height)
	}
	return Paddle{Position: position, Width: width, Height: height, Side: side}, nil
}

// Paddles is the per-frame pair of paddle snapshots.
type Paddles struct {
	Left  Paddle
	Right Paddle
}

// Of returns the paddle defending side s.
func (p *Paddles) Of(s Side) *Paddle {
	if s == Right {
		return &p.Right
	}
	return &p.Left
}
