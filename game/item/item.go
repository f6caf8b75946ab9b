// Package item implements arena pickups: a spinning, bobbing collectible
// that heals the player or grants the weapon upgrade, and expires after a
// fixed lifetime.
package item

import (
	"context"
	"math"
	"time"

	"github.com/kasuganosora/arenasurvival/config"
	"github.com/kasuganosora/arenasurvival/game/geom"
	"github.com/kasuganosora/arenasurvival/plugin/hook"
	"github.com/kasuganosora/arenasurvival/scheduler"
	"go.uber.org/zap"
)

// Type selects the pickup effect.
type Type int

const (
	TypeHealth Type = iota
	TypeWeapon
)

func (t Type) String() string {
	if t == TypeWeapon {
		return "weapon"
	}
	return "health"
}

// Actor is whoever picks the item up.
type Actor interface {
	Heal(amount int)
	EquipWeapon()
}

// Owner is notified once when the item leaves the arena, whether it was
// collected or expired.
type Owner interface {
	UnregisterItem(it *Item)
}

// Deps are the collaborators injected into every item.
type Deps struct {
	Clock  *scheduler.Scheduler
	Owner  Owner
	Hooks  *hook.HookCenter
	Logger *zap.Logger
}

// Item is one live pickup.
type Item struct {
	ID       int64
	Type     Type
	Position geom.Vec3
	Rotation geom.Quat

	cfg       config.ItemConfig
	spawnPos  geom.Vec3
	spawnTime time.Duration
	collected bool
	removed   bool

	clock  *scheduler.Scheduler
	owner  Owner
	hooks  *hook.HookCenter
	logger *zap.Logger
}

// New spawns an item at pos, stamped with the current simulation time.
func New(id int64, typ Type, cfg config.ItemConfig, pos geom.Vec3, deps Deps) *Item {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Item{
		ID:        id,
		Type:      typ,
		Position:  pos,
		Rotation:  geom.Identity,
		cfg:       cfg,
		spawnPos:  pos,
		spawnTime: deps.Clock.Now(),
		clock:     deps.Clock,
		owner:     deps.Owner,
		hooks:     deps.Hooks,
		logger:    logger.With(zap.Int64("item_id", id), zap.Stringer("type", typ)),
	}
}

func (it *Item) Collected() bool          { return it.collected }
func (it *Item) Removed() bool            { return it.removed }
func (it *Item) SpawnTime() time.Duration { return it.spawnTime }

// Update spins and bobs the item and expires it once its lifetime is up.
func (it *Item) Update(dt time.Duration) {
	if it.collected || it.removed {
		return
	}
	spin := it.cfg.RotationSpeed * math.Pi / 180 * dt.Seconds()
	it.Rotation = geom.YawRotation(it.Rotation.Yaw() + spin)
	now := it.clock.Now()
	it.Position.Y = it.spawnPos.Y + math.Sin(now.Seconds()*it.cfg.BobSpeed)*it.cfg.BobAmount

	if it.cfg.Lifetime > 0 && now >= it.spawnTime+it.cfg.Lifetime {
		it.logger.Debug("item expired")
		it.remove()
	}
}

// Use applies the item's effect to actor. It returns false, and changes
// nothing, when the item is already gone, actor is nil or a
// before_item_use hook interrupts the pickup.
func (it *Item) Use(actor Actor) bool {
	if actor == nil || it.collected || it.removed {
		return false
	}
	payload := &hook.EntityPayload{ID: it.ID, Kind: it.Type.String()}
	if !it.hooks.Allow(context.Background(), hook.BeforeItemUse, payload) {
		return false
	}

	it.collected = true
	switch it.Type {
	case TypeHealth:
		actor.Heal(it.cfg.HealAmount)
	case TypeWeapon:
		actor.EquipWeapon()
	}
	it.logger.Debug("item collected")

	it.hooks.Notify(context.Background(), hook.AfterItemUse, payload)
	it.remove()
	return true
}

// Destroy drops the item without notifying the owner. Used when the
// owner itself clears the arena.
func (it *Item) Destroy() {
	it.removed = true
}

func (it *Item) remove() {
	if it.removed {
		return
	}
	it.removed = true
	if it.owner != nil {
		it.owner.UnregisterItem(it)
	}
}
