package physics

const (
	ServeSpeed     = 25.0  // speed after every reset
	MaxSpeed       = 100.0 // hard cap
	SpeedRamp      = 1.1   // multiplier per paddle hit
	SubstepSpeed   = 15.0  // one substep per this much speed
	MaxBounceAngle = 1.3   // radians at the paddle edge, ~75°
)
