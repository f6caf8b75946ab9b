package movement

import (
	"math"
	"testing"

	"github.com/kasuganosora/arenasurvival/game/geom"
	"github.com/stretchr/testify/assert"
)

var ctrl = Controller{StoppingDistance: 1, RotationSpeed: 5}

func TestStep_MovesTowardTarget(t *testing.T) {
	res := ctrl.Step(geom.Zero, geom.Identity, geom.Vec3{X: 10}, 3, 0.5)
	assert.True(t, res.Moved)
	assert.InDelta(t, 1.5, res.Delta.X, 1e-9)
	assert.InDelta(t, 0, res.Delta.Z, 1e-9)
	assert.Greater(t, res.Rotation.Yaw(), 0.0, "turns toward +X")
}

func TestStep_IgnoresHeightDifference(t *testing.T) {
	res := ctrl.Step(geom.Vec3{Y: 1}, geom.Identity, geom.Vec3{Z: 10}, 2, 1)
	assert.Equal(t, 0.0, res.Delta.Y)
	assert.InDelta(t, 2, res.Delta.Z, 1e-9)
}

func TestStep_InsideStoppingDistance(t *testing.T) {
	rot := geom.YawRotation(1)
	res := ctrl.Step(geom.Zero, rot, geom.Vec3{X: 0.5}, 3, 1)
	assert.False(t, res.Moved)
	assert.Equal(t, geom.Zero, res.Delta)
	assert.Equal(t, rot, res.Rotation)
}

func TestSteer_ZeroDirectionSkipsRotation(t *testing.T) {
	rot := geom.YawRotation(0.3)
	res := ctrl.Steer(rot, geom.Zero, 5, 0.02)
	assert.False(t, res.Moved)
	assert.Equal(t, rot, res.Rotation)

	res = ctrl.Steer(rot, geom.Up, 5, 0.02)
	assert.False(t, res.Moved, "purely vertical direction has no planar part")
}

func TestFace_ConvergesWithoutOvershoot(t *testing.T) {
	rot := geom.Identity
	dir := geom.Vec3{X: -1}
	for i := 0; i < 200; i++ {
		rot = ctrl.Face(rot, dir, 0.02)
	}
	assert.InDelta(t, -math.Pi/2, rot.Yaw(), 1e-3)
}
