package geom

import "math"

// Quat is a unit quaternion describing an orientation.
type Quat struct {
	X, Y, Z, W float64
}

// Identity faces +Z.
var Identity = Quat{W: 1}

// LookRotation returns the yaw rotation facing dir on the ground plane.
// A zero planar direction yields Identity; callers should skip rotation
// updates in that case instead.
func LookRotation(dir Vec3) Quat {
	d := dir.Planar()
	if d.IsZero() {
		return Identity
	}
	yaw := math.Atan2(d.X, d.Z)
	return YawRotation(yaw)
}

// YawRotation rotates by angle radians around +Y.
func YawRotation(angle float64) Quat {
	s, c := math.Sincos(angle / 2)
	return Quat{Y: s, W: c}
}

// Yaw returns the rotation angle around +Y in radians.
func (q Quat) Yaw() float64 {
	return math.Atan2(2*(q.W*q.Y+q.X*q.Z), 1-2*(q.Y*q.Y+q.X*q.X))
}

// Forward is the unit +Z vector rotated by q, flattened to the ground.
func (q Quat) Forward() Vec3 {
	yaw := q.Yaw()
	return Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

func (q Quat) dot(r Quat) float64 { return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W }

func (q Quat) normalized() Quat {
	l := math.Sqrt(q.dot(q))
	if l < 1e-12 {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Slerp interpolates from a to b along the shortest arc. t is clamped to
// [0,1], so rate*dt steps larger than one simply snap to b.
func Slerp(a, b Quat, t float64) Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b.normalized()
	}
	cos := a.dot(b)
	if cos < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		cos = -cos
	}
	if cos > 0.9995 {
		return Quat{
			a.X + (b.X-a.X)*t,
			a.Y + (b.Y-a.Y)*t,
			a.Z + (b.Z-a.Z)*t,
			a.W + (b.W-a.W)*t,
		}.normalized()
	}
	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Quat{
		a.X*wa + b.X*wb,
		a.Y*wa + b.Y*wb,
		a.Z*wa + b.Z*wb,
		a.W*wa + b.W*wb,
	}
}
