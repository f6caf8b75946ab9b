// Package physics is the minimal rigid-body stand-in the arena needs:
// kinematic MovePosition, impulses, gravity and a flat ground plane. It is
// not a physics engine; collisions are resolved by the arena as contact
// and trigger events.
package physics

import (
	"math"

	"github.com/kasuganosora/arenasurvival/game/geom"
)

// Settings are the world constants bodies integrate against.
type Settings struct {
	Gravity      float64 // downward acceleration, >= 0
	Damping      float64 // horizontal velocity decay per second
	GroundHeight float64
}

// Body is a transform plus velocity.
type Body struct {
	Position geom.Vec3
	Rotation geom.Quat
	Velocity geom.Vec3
	Mass     float64
}

// NewBody creates a unit-mass body at pos facing +Z.
func NewBody(pos geom.Vec3) *Body {
	return &Body{Position: pos, Rotation: geom.Identity, Mass: 1}
}

// MovePosition teleports the body kinematically (velocity untouched).
func (b *Body) MovePosition(p geom.Vec3) { b.Position = p }

// AddImpulse applies an instantaneous change of momentum.
func (b *Body) AddImpulse(impulse geom.Vec3) {
	m := b.Mass
	if m <= 0 {
		m = 1
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(1 / m))
}

// StopHorizontal zeroes planar velocity, keeping vertical motion.
func (b *Body) StopHorizontal() {
	b.Velocity = geom.Vec3{Y: b.Velocity.Y}
}

// Reset puts the body at pos with no motion and identity rotation.
func (b *Body) Reset(pos geom.Vec3) {
	b.Position = pos
	b.Rotation = geom.Identity
	b.Velocity = geom.Zero
}

// Integrate advances the body by dt seconds under s.
func (b *Body) Integrate(dt float64, s Settings) {
	if dt <= 0 {
		return
	}
	b.Velocity.Y -= s.Gravity * dt
	if s.Damping > 0 {
		k := math.Exp(-s.Damping * dt)
		b.Velocity.X *= k
		b.Velocity.Z *= k
	}
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	if b.Position.Y < s.GroundHeight {
		b.Position.Y = s.GroundHeight
		if b.Velocity.Y < 0 {
			b.Velocity.Y = 0
		}
	}
}

// GroundProbe casts a ray of length maxDist straight down from the body and
// reports whether it reaches the ground plane.
func (b *Body) GroundProbe(maxDist float64, s Settings) bool {
	return b.Position.Y-s.GroundHeight <= maxDist
}
