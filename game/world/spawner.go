package world

import (
	"context"

	"github.com/kasuganosora/arenasurvival/config"
	"github.com/kasuganosora/arenasurvival/game/ai"
	"github.com/kasuganosora/arenasurvival/game/geom"
	"github.com/kasuganosora/arenasurvival/game/item"
	"github.com/kasuganosora/arenasurvival/game/rng"
	"github.com/kasuganosora/arenasurvival/plugin/hook"
	"go.uber.org/zap"
)

// Spawner builds enemies and items around a centre point and registers
// them. Caps are the director's business; the spawner always spawns.
type Spawner struct {
	cfg       *config.Config
	registry  *Registry
	rand      rng.Source
	enemyDeps ai.Deps
	itemDeps  item.Deps
	hooks     *hook.HookCenter
	logger    *zap.Logger
}

// NewSpawner creates a Spawner. Every enemy gets enemyDeps and every item
// itemDeps.
func NewSpawner(cfg *config.Config, registry *Registry, src rng.Source, enemyDeps ai.Deps, itemDeps item.Deps, logger *zap.Logger) *Spawner {
	return &Spawner{
		cfg:       cfg,
		registry:  registry,
		rand:      src,
		enemyDeps: enemyDeps,
		itemDeps:  itemDeps,
		hooks:     enemyDeps.Hooks,
		logger:    logger,
	}
}

// SpawnPosition picks a uniform point in the spawn disc around center,
// lifted by the spawn height.
func (sp *Spawner) SpawnPosition(center geom.Vec3) geom.Vec3 {
	return rng.InDisc(sp.rand, center, sp.cfg.Round.SpawnRadius, sp.cfg.Round.SpawnHeight)
}

// SpawnEnemy creates a patrolling enemy near center.
func (sp *Spawner) SpawnEnemy(center geom.Vec3) *ai.Enemy {
	pos := sp.SpawnPosition(center)
	e := ai.NewEnemy(sp.registry.NextID(), sp.cfg.Enemy, pos, sp.enemyDeps)
	sp.registry.AddEnemy(e)
	sp.hooks.Notify(context.Background(), hook.AfterEnemySpawn, &hook.EntityPayload{ID: e.ID, Kind: "enemy"})
	sp.logger.Debug("enemy spawned",
		zap.Int64("enemy_id", e.ID),
		zap.Float64("x", pos.X),
		zap.Float64("z", pos.Z))
	return e
}

// SpawnItem creates a pickup near center. The weapon type is rolled with
// the configured weapon chance.
func (sp *Spawner) SpawnItem(center geom.Vec3) *item.Item {
	pos := sp.SpawnPosition(center)
	typ := item.TypeHealth
	if sp.rand.Chance(sp.cfg.Item.WeaponChance) {
		typ = item.TypeWeapon
	}
	it := item.New(sp.registry.NextID(), typ, sp.cfg.Item, pos, sp.itemDeps)
	sp.registry.AddItem(it)
	sp.logger.Debug("item spawned",
		zap.Int64("item_id", it.ID),
		zap.Stringer("type", typ),
		zap.Float64("x", pos.X),
		zap.Float64("z", pos.Z))
	return it
}
