// Package world runs an arena round: the director owns the timer, score,
// spawn cadence and entity registry, and the arena ties the director,
// the player and every live entity to the simulation ticks.
package world

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kasuganosora/arenasurvival/config"
	"github.com/kasuganosora/arenasurvival/game/ai"
	"github.com/kasuganosora/arenasurvival/game/combat"
	"github.com/kasuganosora/arenasurvival/game/hud"
	"github.com/kasuganosora/arenasurvival/game/item"
	"github.com/kasuganosora/arenasurvival/game/physics"
	"github.com/kasuganosora/arenasurvival/game/player"
	"github.com/kasuganosora/arenasurvival/game/rng"
	"github.com/kasuganosora/arenasurvival/plugin/hook"
	"github.com/kasuganosora/arenasurvival/scheduler"
	"go.uber.org/zap"
)

// ErrRoundActive is returned by StartGame while a round is running.
var ErrRoundActive = errors.New("world: round already active")

// TimeUpReason is the lose reason when the round timer runs out.
const TimeUpReason = "Time's up!"

// Scheduler names of the round's spawn processes.
const (
	EnemySpawnTask = "round.spawn_enemy"
	ItemSpawnTask  = "round.spawn_item"
)

// Outcome is how a round ended.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeWin     Outcome = "win"
	OutcomeLose    Outcome = "lose"
	OutcomeAborted Outcome = "aborted" // restarted mid-round
)

// RoundResult summarises a finished round.
type RoundResult struct {
	RoundID        string
	Outcome        Outcome
	Reason         string
	Score          int
	TargetScore    int
	Elapsed        time.Duration
	TimeRemaining  time.Duration
	PlayerHealth   int
	Kills          int
	ItemsCollected int
	ItemsExpired   int
	EnemiesSpawned int
	ItemsSpawned   int
	Seed           int64
}

// RoundRecorder receives every finished round.
type RoundRecorder interface {
	RecordRound(r RoundResult)
}

// EntityObserver is told about entities entering and leaving the arena,
// e.g. by a renderer that mirrors them.
type EntityObserver interface {
	EnemySpawned(e *ai.Enemy)
	EnemyRemoved(e *ai.Enemy)
	ItemSpawned(it *item.Item)
	ItemRemoved(it *item.Item)
}

// Deps are the director's collaborators. Clock and Player are required.
type Deps struct {
	Clock    *scheduler.Scheduler
	Player   *player.Player
	Rand     rng.Source
	Sink     hud.Sink
	Hooks    *hook.HookCenter
	Recorder RoundRecorder
	Observer EntityObserver
	Physics  physics.Settings
	Logger   *zap.Logger
}

// Director is the round game manager.
type Director struct {
	cfg      *config.Config
	clock    *scheduler.Scheduler
	spawns   *scheduler.Group
	player   *player.Player
	registry *Registry
	spawner  *Spawner
	sink     hud.Sink
	hooks    *hook.HookCenter
	recorder RoundRecorder
	observer EntityObserver
	logger   *zap.Logger

	active        bool
	timerActive   bool
	score         int
	multiplier    int
	timeRemaining time.Duration
	enemyCount    int

	roundID   string
	startedAt time.Duration
	outcome   Outcome
	reason    string
	stats     roundStats
	last      *RoundResult
}

type roundStats struct {
	kills, collected, expired int
	enemies, items            int
}

// NewDirector creates an idle director and binds it to the player as the
// game the player reports to.
func NewDirector(cfg *config.Config, deps Deps) *Director {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := deps.Rand
	if src == nil {
		src = rng.New(cfg.Sim.Seed)
	}
	d := &Director{
		cfg:        cfg,
		clock:      deps.Clock,
		spawns:     deps.Clock.NewGroup(),
		player:     deps.Player,
		registry:   NewRegistry(),
		sink:       hud.OrNop(deps.Sink),
		hooks:      deps.Hooks,
		recorder:   deps.Recorder,
		observer:   deps.Observer,
		logger:     logger.Named("director"),
		multiplier: cfg.Round.ScoreMultiplier,
	}
	calc := combat.NewCalculator(src, deps.Hooks, logger)
	d.spawner = NewSpawner(cfg, d.registry, src,
		ai.Deps{
			Clock:    deps.Clock,
			Target:   deps.Player,
			Director: d,
			Rand:     src,
			Damage:   calc,
			Hooks:    deps.Hooks,
			Physics:  deps.Physics,
			Logger:   logger,
		},
		item.Deps{
			Clock:  deps.Clock,
			Owner:  d,
			Hooks:  deps.Hooks,
			Logger: logger,
		},
		logger)
	deps.Player.SetGame(d)
	d.initialize()
	return d
}

func (d *Director) IsActive() bool               { return d.active }
func (d *Director) Score() int                   { return d.score }
func (d *Director) Multiplier() int              { return d.multiplier }
func (d *Director) TimeRemaining() time.Duration { return d.timeRemaining }
func (d *Director) EnemyCount() int              { return d.enemyCount }
func (d *Director) RoundID() string              { return d.roundID }
func (d *Director) Outcome() Outcome             { return d.outcome }
func (d *Director) Reason() string               { return d.reason }
func (d *Director) Registry() *Registry          { return d.registry }
func (d *Director) Spawner() *Spawner            { return d.spawner }
func (d *Director) SpawnProcesses() int          { return d.spawns.Active() }

// Elapsed is the simulation time since the round started.
func (d *Director) Elapsed() time.Duration { return d.clock.Now() - d.startedAt }

// LastResult returns the most recently finished round, or nil.
func (d *Director) LastResult() *RoundResult { return d.last }

// StartGame begins a new round. It fails with ErrRoundActive while a
// round is running.
func (d *Director) StartGame() error {
	if d.active {
		return ErrRoundActive
	}
	d.active = true
	d.timerActive = true
	d.timeRemaining = d.cfg.Round.Duration
	d.score = 0
	d.multiplier = d.cfg.Round.ScoreMultiplier
	d.roundID = uuid.NewString()
	d.startedAt = d.clock.Now()
	d.outcome = OutcomeNone
	d.reason = ""
	d.stats = roundStats{}

	d.player.Reset()
	d.clearEntities()
	d.spawnEnemy()

	d.spawns.CancelAll()
	d.spawns.Ticker(EnemySpawnTask, d.cfg.Round.EnemySpawnInterval, func() {
		if d.active && d.enemyCount < d.cfg.Round.MaxEnemies {
			d.spawnEnemy()
		}
	})
	d.spawns.Ticker(ItemSpawnTask, d.cfg.Round.ItemSpawnInterval, func() {
		if d.active {
			d.spawnItem()
		}
	})

	d.sink.ShowWin(false)
	d.sink.ShowLose(false, "")
	d.sink.UpdateScore(d.score)
	d.sink.UpdateTimer(d.timeRemaining)
	d.sink.ShowGameUI(true)

	d.hooks.Notify(context.Background(), hook.OnRoundStart, &hook.RoundPayload{RoundID: d.roundID})
	d.logger.Info("round started",
		zap.String("round_id", d.roundID),
		zap.Duration("duration", d.timeRemaining),
		zap.Int("target_score", d.cfg.Round.TargetScore))
	return nil
}

// RestartGame abandons the running round, if any, and starts a fresh one.
func (d *Director) RestartGame() error {
	if d.active {
		d.stop(OutcomeAborted, "restarted")
	}
	d.spawns.CancelAll()
	d.clearEntities()
	d.sink.ShowGameUI(false)
	d.initialize()
	return d.StartGame()
}

// Update is the frame tick of the round: timer, then win, then lose.
func (d *Director) Update(dt time.Duration) {
	if !d.active {
		return
	}
	if d.timerActive && d.timeRemaining > 0 {
		d.timeRemaining -= dt
		if d.timeRemaining < 0 {
			d.timeRemaining = 0
			d.timerActive = false
		}
		d.sink.UpdateTimer(d.timeRemaining)
	}

	if d.score >= d.cfg.Round.TargetScore {
		d.stop(OutcomeWin, "")
		d.sink.ShowWin(true)
		return
	}
	if d.timeRemaining <= 0 {
		d.LoseGame(TimeUpReason)
	} else if d.player.Health() <= 0 {
		d.LoseGame(player.DefeatReason)
	}
}

// LoseGame ends the running round as lost. Ignored when no round runs.
func (d *Director) LoseGame(reason string) {
	if !d.active {
		return
	}
	d.stop(OutcomeLose, reason)
	d.sink.ShowLose(true, reason)
}

// AddScore adds points times the score multiplier. Non-positive points
// are ignored, so the score never decreases.
func (d *Director) AddScore(points int) {
	if points <= 0 {
		return
	}
	d.score += points * d.multiplier
	d.sink.UpdateScore(d.score)
}

// AddTime extends the round timer.
func (d *Director) AddTime(bonus time.Duration) {
	if bonus <= 0 {
		return
	}
	d.timeRemaining += bonus
	d.sink.UpdateTimer(d.timeRemaining)
}

// UnregisterEnemy is called once per dying enemy: the live count drops
// and the kill bonus is paid while the round runs. The corpse stays
// registered until ReleaseEnemy.
func (d *Director) UnregisterEnemy(e *ai.Enemy) {
	if d.enemyCount > 0 {
		d.enemyCount--
	}
	if !d.active {
		return
	}
	d.stats.kills++
	d.AddScore(d.cfg.Round.KillScore)
	d.AddTime(d.cfg.Round.KillTimeBonus)
	d.logger.Debug("enemy killed", zap.Int64("enemy_id", e.ID), zap.Int("score", d.score))
}

// ReleaseEnemy removes a despawned enemy from the registry.
func (d *Director) ReleaseEnemy(e *ai.Enemy) {
	d.registry.RemoveEnemy(e.ID)
	if d.observer != nil {
		d.observer.EnemyRemoved(e)
	}
}

// UnregisterItem removes the item and pays the pickup bonus, whether it
// was collected or expired.
func (d *Director) UnregisterItem(it *item.Item) {
	d.registry.RemoveItem(it.ID)
	if d.observer != nil {
		d.observer.ItemRemoved(it)
	}
	if !d.active {
		return
	}
	if it.Collected() {
		d.stats.collected++
	} else {
		d.stats.expired++
	}
	d.AddScore(d.cfg.Round.ItemScore)
}

func (d *Director) spawnEnemy() {
	if d.enemyCount >= d.cfg.Round.MaxEnemies {
		return
	}
	e := d.spawner.SpawnEnemy(d.player.Position())
	d.enemyCount++
	d.stats.enemies++
	if d.observer != nil {
		d.observer.EnemySpawned(e)
	}
}

func (d *Director) spawnItem() {
	it := d.spawner.SpawnItem(d.player.Position())
	d.stats.items++
	if d.observer != nil {
		d.observer.ItemSpawned(it)
	}
}

func (d *Director) clearEntities() {
	if d.observer != nil {
		for _, e := range d.registry.Enemies() {
			d.observer.EnemyRemoved(e)
		}
		for _, it := range d.registry.Items() {
			d.observer.ItemRemoved(it)
		}
	}
	d.registry.Clear()
	d.enemyCount = 0
}

func (d *Director) initialize() {
	d.active = false
	d.timerActive = false
	d.score = 0
	d.timeRemaining = d.cfg.Round.Duration
	d.sink.UpdateScore(d.score)
	d.sink.UpdateTimer(d.timeRemaining)
}

func (d *Director) stop(outcome Outcome, reason string) {
	d.active = false
	d.timerActive = false
	d.spawns.CancelAll()
	d.outcome = outcome
	d.reason = reason

	res := RoundResult{
		RoundID:        d.roundID,
		Outcome:        outcome,
		Reason:         reason,
		Score:          d.score,
		TargetScore:    d.cfg.Round.TargetScore,
		Elapsed:        d.Elapsed(),
		TimeRemaining:  d.timeRemaining,
		PlayerHealth:   d.player.Health(),
		Kills:          d.stats.kills,
		ItemsCollected: d.stats.collected,
		ItemsExpired:   d.stats.expired,
		EnemiesSpawned: d.stats.enemies,
		ItemsSpawned:   d.stats.items,
		Seed:           d.cfg.Sim.Seed,
	}
	d.last = &res

	d.hooks.Notify(context.Background(), hook.OnRoundEnd, &hook.RoundPayload{
		RoundID: d.roundID,
		Outcome: string(outcome),
		Reason:  reason,
		Score:   d.score,
	})
	if d.recorder != nil {
		d.recorder.RecordRound(res)
	}
	d.logger.Info("round ended",
		zap.String("round_id", d.roundID),
		zap.String("outcome", string(outcome)),
		zap.String("reason", reason),
		zap.Int("score", d.score),
		zap.Duration("elapsed", res.Elapsed))
}
