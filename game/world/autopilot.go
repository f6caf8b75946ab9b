package world

import (
	"github.com/kasuganosora/arenasurvival/game/ai"
	"github.com/kasuganosora/arenasurvival/game/geom"
	"github.com/kasuganosora/arenasurvival/game/item"
)

// Autopilot is a player.Input for headless runs. It walks to the nearest
// pickup, otherwise to the nearest live enemy, and swings whenever an
// enemy is inside the attack sphere.
type Autopilot struct {
	arena *Arena

	// SprintAbove is the distance beyond which the autopilot sprints.
	SprintAbove float64
	// MinStamina keeps a reserve for attacks while sprinting.
	MinStamina float64
}

// NewAutopilot binds an autopilot to the arena's player.
func NewAutopilot(a *Arena) *Autopilot {
	ap := &Autopilot{arena: a, SprintAbove: 6, MinStamina: 40}
	a.Player.SetInput(ap)
	return ap
}

func (ap *Autopilot) Axes() geom.Vec2 {
	pos := ap.arena.Player.Position()
	goal, ok := ap.goal(pos)
	if !ok {
		return geom.Vec2{}
	}
	d := goal.Sub(pos).Planar()
	if d.Len() < 0.5 {
		return geom.Vec2{}
	}
	n := d.Normalized()
	return geom.Vec2{X: n.X, Y: n.Z}
}

func (ap *Autopilot) Sprint() bool {
	p := ap.arena.Player
	if p.Stamina() < ap.MinStamina {
		return false
	}
	goal, ok := ap.goal(p.Position())
	return ok && goal.PlanarDist(p.Position()) > ap.SprintAbove
}

func (ap *Autopilot) JumpPressed() bool { return false }

func (ap *Autopilot) AttackPressed() bool {
	p := ap.arena.Player
	return len(ap.arena.Overlap(p.AttackAnchor(), ap.arena.cfg.Player.AttackRange)) > 0
}

func (ap *Autopilot) goal(pos geom.Vec3) (geom.Vec3, bool) {
	if it := nearestItem(ap.arena.Director.Registry().Items(), pos); it != nil {
		return it.Position, true
	}
	if e := nearestEnemy(ap.arena.Director.Registry().Enemies(), pos); e != nil {
		return e.Position(), true
	}
	return geom.Vec3{}, false
}

func nearestItem(items []*item.Item, pos geom.Vec3) *item.Item {
	var best *item.Item
	bestDist := 0.0
	for _, it := range items {
		if it.Collected() || it.Removed() {
			continue
		}
		if d := it.Position.PlanarDist(pos); best == nil || d < bestDist {
			best, bestDist = it, d
		}
	}
	return best
}

func nearestEnemy(enemies []*ai.Enemy, pos geom.Vec3) *ai.Enemy {
	var best *ai.Enemy
	bestDist := 0.0
	for _, e := range enemies {
		if e.IsDead() || e.Released() {
			continue
		}
		if d := e.Position().PlanarDist(pos); best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}
