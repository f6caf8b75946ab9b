// Package geom holds the small vector/rotation toolkit used by the arena
// simulation. World space is y-up; the ground plane is x/z.
package geom

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a 2D vector (input axes, disc samples).
type Vec2 struct {
	X, Y float64
}

var (
	Zero    = Vec3{}
	Up      = Vec3{0, 1, 0}
	Forward = Vec3{0, 0, 1}
)

func (a Vec3) Add(b Vec3) Vec3           { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3           { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(k float64) Vec3      { return Vec3{a.X * k, a.Y * k, a.Z * k} }
func (a Vec3) Dot(b Vec3) float64        { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64              { return math.Sqrt(a.Dot(a)) }
func (a Vec3) IsZero() bool              { return a.X == 0 && a.Y == 0 && a.Z == 0 }
func (a Vec3) Dist(b Vec3) float64       { return a.Sub(b).Len() }
func (a Vec3) Planar() Vec3              { return Vec3{a.X, 0, a.Z} }
func (a Vec3) PlanarDist(b Vec3) float64 { return a.Sub(b).Planar().Len() }

// Normalized returns a unit-length copy, or the zero vector for very
// small inputs.
func (a Vec3) Normalized() Vec3 {
	l := a.Len()
	if l < 1e-9 {
		return Zero
	}
	return a.Scale(1 / l)
}

func (a Vec2) Len() float64 { return math.Hypot(a.X, a.Y) }

// Normalized returns a unit-length copy, or zero for very small inputs.
func (a Vec2) Normalized() Vec2 {
	l := a.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// OnGround lifts a 2D ground-plane offset into world space (x, y) -> (x, 0, y).
func (a Vec2) OnGround() Vec3 { return Vec3{a.X, 0, a.Y} }
