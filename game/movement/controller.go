package movement

import (
	"github.com/kasuganosora/arenasurvival/game/geom"
)

// Controller turns a desired heading and speed into a position delta and a
// smoothed facing. Movement is planar: the y component of any direction is
// dropped.
type Controller struct {
	StoppingDistance float64 // arrival radius around the target
	RotationSpeed    float64 // slerp rate per second
}

// Result is the outcome of one movement step.
type Result struct {
	Delta    geom.Vec3
	Rotation geom.Quat
	Moved    bool
}

// Step advances toward target. Inside the stopping distance (measured on
// the ground plane) nothing moves and the rotation is left alone.
func (c Controller) Step(pos geom.Vec3, rot geom.Quat, target geom.Vec3, speed, dt float64) Result {
	if c.Arrived(pos, target) {
		return Result{Rotation: rot}
	}
	dir := target.Sub(pos).Planar().Normalized()
	return c.Steer(rot, dir, speed, dt)
}

// Arrived reports whether pos is within the stopping distance of target.
func (c Controller) Arrived(pos, target geom.Vec3) bool {
	return pos.PlanarDist(target) <= c.StoppingDistance
}

// Steer moves along dir without a target (player input). A zero direction
// yields no displacement and keeps the current rotation.
func (c Controller) Steer(rot geom.Quat, dir geom.Vec3, speed, dt float64) Result {
	dir = dir.Planar()
	if dir.IsZero() || dt <= 0 {
		return Result{Rotation: rot}
	}
	return Result{
		Delta:    dir.Scale(speed * dt),
		Rotation: c.Face(rot, dir, dt),
		Moved:    true,
	}
}

// Face slerps rot toward dir at the controller's angular rate.
func (c Controller) Face(rot geom.Quat, dir geom.Vec3, dt float64) geom.Quat {
	if dir.Planar().IsZero() {
		return rot
	}
	return geom.Slerp(rot, geom.LookRotation(dir), c.RotationSpeed*dt)
}
