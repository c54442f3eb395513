package physics

import "github.com/go-gl/mathgl/mgl64"

// Vec3 is a point or direction in arena space. X is the goal axis, Z the wall
// axis; Y is kept for renderers and stays zero.
type Vec3 = mgl64.Vec3

// Origin is the arena centre.
var Origin = Vec3{0, 0, 0}
