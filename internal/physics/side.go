package physics

// Side identifies one half of the arena and the player defending it.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Right {
		return Left
	}
	return Right
}

// sideOf returns the side the given x coordinate lies on. Zero counts as Left.
func sideOf(x float64) Side {
	if x > 0 {
		return Right
	}
	return Left
}
