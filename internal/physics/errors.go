package physics

import "errors"

var (
	// ErrInvalidDimension is returned by constructors given a non-positive or
	// non-finite size.
	ErrInvalidDimension = errors.New("physics: invalid dimension")

	// ErrInvalidDelta is returned by Step when dt is negative or not finite.
	ErrInvalidDelta = errors.New("physics: invalid frame delta")
)
