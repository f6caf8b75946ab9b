package ai

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kasuganosora/arenasurvival/config"
	"github.com/kasuganosora/arenasurvival/game/combat"
	"github.com/kasuganosora/arenasurvival/game/geom"
	"github.com/kasuganosora/arenasurvival/game/movement"
	"github.com/kasuganosora/arenasurvival/game/physics"
	"github.com/kasuganosora/arenasurvival/game/rng"
	"github.com/kasuganosora/arenasurvival/plugin/hook"
	"github.com/kasuganosora/arenasurvival/scheduler"
	"go.uber.org/zap"
)

// Target is the player as seen by an enemy.
type Target interface {
	Position() geom.Vec3
	TakeDamage(amount int)
}

// Director receives enemy lifecycle notifications.
type Director interface {
	// UnregisterEnemy is called exactly once, when the enemy dies.
	UnregisterEnemy(e *Enemy)
	// ReleaseEnemy is called when a dead enemy despawns.
	ReleaseEnemy(e *Enemy)
}

// Deps are the collaborators injected into every enemy. Clock is
// required; the rest degrade to no-ops or defaults when nil.
type Deps struct {
	Clock    *scheduler.Scheduler
	Target   Target
	Director Director
	Rand     rng.Source
	Damage   *combat.Calculator
	Hooks    *hook.HookCenter
	Physics  physics.Settings
	Logger   *zap.Logger
}

// Enemy is one live arena enemy running the patrol/chase/attack machine.
type Enemy struct {
	ID   int64
	Body *physics.Body

	cfg    config.EnemyConfig
	health *combat.Health
	move   movement.Controller

	state           State
	lastStateChange time.Duration
	changed         bool // at least one transition accepted
	aggroed         bool
	aggroTimer      time.Duration
	lastAttack      time.Duration
	attacked        bool
	canAttack       bool
	moveSpeed       float64
	startPos        geom.Vec3
	patrolTarget    geom.Vec3
	moveTarget      geom.Vec3
	distance        float64
	released        bool

	clock    *scheduler.Scheduler
	tasks    *scheduler.Group
	target   Target
	director Director
	rand     rng.Source
	damage   *combat.Calculator
	hooks    *hook.HookCenter
	physics  physics.Settings
	logger   *zap.Logger
}

// NewEnemy creates a patrolling enemy at pos. pos becomes the centre of
// its patrol disc.
func NewEnemy(id int64, cfg config.EnemyConfig, pos geom.Vec3, deps Deps) *Enemy {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := deps.Rand
	if src == nil {
		src = rng.New(id)
	}
	calc := deps.Damage
	if calc == nil {
		calc = combat.NewCalculator(src, deps.Hooks, logger)
	}
	e := &Enemy{
		ID:        id,
		Body:      physics.NewBody(pos),
		cfg:       cfg,
		health:    combat.NewHealth(cfg.MaxHealth),
		move:      movement.Controller{StoppingDistance: cfg.StoppingDistance, RotationSpeed: cfg.RotationSpeed},
		state:     StatePatrolling,
		canAttack: true,
		moveSpeed: cfg.MoveSpeed,
		startPos:  pos,
		distance:  math.MaxFloat64,
		clock:     deps.Clock,
		tasks:     deps.Clock.NewGroup(),
		target:    deps.Target,
		director:  deps.Director,
		rand:      src,
		damage:    calc,
		hooks:     deps.Hooks,
		physics:   deps.Physics,
		logger:    logger.With(zap.Int64("enemy_id", id)),
	}
	e.health.OnDeath(e.die)
	e.newPatrolTarget()
	return e
}

func (e *Enemy) State() State              { return e.state }
func (e *Enemy) IsDead() bool              { return e.state == StateDead }
func (e *Enemy) Health() int               { return e.health.Current() }
func (e *Enemy) MaxHealth() int            { return e.health.Max() }
func (e *Enemy) IsAggroed() bool           { return e.aggroed }
func (e *Enemy) AggroTimer() time.Duration { return e.aggroTimer }
func (e *Enemy) MoveSpeed() float64        { return e.moveSpeed }
func (e *Enemy) CanAttack() bool           { return e.canAttack }
func (e *Enemy) Position() geom.Vec3       { return e.Body.Position }
func (e *Enemy) StartPosition() geom.Vec3  { return e.startPos }
func (e *Enemy) PatrolTarget() geom.Vec3   { return e.patrolTarget }
func (e *Enemy) DistanceToTarget() float64 { return e.distance }
func (e *Enemy) Released() bool            { return e.released }

// LastStateChange is the simulation time of the last accepted transition.
func (e *Enemy) LastStateChange() time.Duration { return e.lastStateChange }

// Damage returns the enemy's unrolled attack power, used for contact hits.
func (e *Enemy) Damage() int { return e.cfg.AttackPower }

// SetTarget swaps the tracked player. nil means the player is lost.
func (e *Enemy) SetTarget(t Target) {
	e.target = t
	e.refreshDistance()
}

// Update is the frame tick: distance, state machine, then aggro tracking.
func (e *Enemy) Update(dt time.Duration) {
	if e.state == StateDead {
		return
	}
	e.refreshDistance()

	switch e.state {
	case StatePatrolling:
		e.updatePatrolling()
	case StateChasing:
		e.updateChasing()
	case StateAttacking:
		e.updateAttacking(dt)
	}

	e.checkAggro(dt)
}

// FixedUpdate is the physics tick: walk toward the current movement
// target unless attacking, then integrate the body.
func (e *Enemy) FixedUpdate(dt time.Duration) {
	if e.state == StateDead {
		return
	}
	secs := dt.Seconds()
	if e.state != StateAttacking {
		res := e.move.Step(e.Body.Position, e.Body.Rotation, e.moveTarget, e.moveSpeed, secs)
		if res.Moved {
			e.Body.MovePosition(e.Body.Position.Add(res.Delta))
		}
		e.Body.Rotation = res.Rotation
	}
	e.Body.Integrate(secs, e.physics)
}

// TakeDamage applies a hit. An unaggroed enemy with a known player turns
// on it first.
func (e *Enemy) TakeDamage(amount int) {
	if e.state == StateDead {
		return
	}
	if !e.aggroed && e.target != nil {
		e.setAggroed(true)
		e.changeState(StateChasing)
	}
	e.health.TakeDamage(amount)
}

// OnPlayerTrigger reacts to the player entering the enemy's trigger
// volume: aggro and chase regardless of range.
func (e *Enemy) OnPlayerTrigger() {
	if e.state == StateDead {
		return
	}
	e.setAggroed(true)
	e.changeState(StateChasing)
}

// OnPlayerCollision pushes an attacking enemy away from the player.
func (e *Enemy) OnPlayerCollision(playerPos geom.Vec3) {
	if e.state != StateAttacking {
		return
	}
	push := e.Body.Position.Sub(playerPos).Normalized()
	e.Body.AddImpulse(push.Scale(e.cfg.KnockbackForce))
}

// Destroy cancels every pending callback of the enemy. Called by the
// director when clearing the arena and after the despawn delay.
func (e *Enemy) Destroy() {
	e.released = true
	e.tasks.CancelAll()
}

func (e *Enemy) updatePatrolling() {
	if e.target != nil && e.distance <= e.cfg.DetectionRange {
		e.changeState(StateChasing)
		return
	}
	if e.move.Arrived(e.Body.Position, e.patrolTarget) {
		e.newPatrolTarget()
	}
}

func (e *Enemy) updateChasing() {
	if e.target == nil || e.distance > e.cfg.DeaggroRange {
		e.changeState(StatePatrolling)
		return
	}
	if e.distance <= e.cfg.AttackRange {
		e.changeState(StateAttacking)
		return
	}
	e.moveTarget = e.target.Position()
}

func (e *Enemy) updateAttacking(dt time.Duration) {
	if e.target == nil {
		e.changeState(StatePatrolling)
		return
	}
	if e.distance > e.cfg.AttackRange {
		e.changeState(StateChasing)
		return
	}
	if e.canAttack && (!e.attacked || e.clock.Now() >= e.lastAttack+e.cfg.AttackCooldown) {
		e.attack()
	}
	toTarget := e.target.Position().Sub(e.Body.Position)
	e.Body.Rotation = e.move.Face(e.Body.Rotation, toTarget, dt.Seconds())
}

func (e *Enemy) attack() {
	e.lastAttack = e.clock.Now()
	e.attacked = true
	e.canAttack = false

	dmg := e.damage.Roll(context.Background(), hook.SourceEnemy, e.cfg.AttackPower, e.cfg.DamageVariance)
	if dmg > 0 {
		e.target.TakeDamage(dmg)
	}
	e.logger.Debug("enemy attacked", zap.Int("damage", dmg))

	e.tasks.After(e.cfg.AttackCooldown, func() { e.canAttack = true })
}

func (e *Enemy) checkAggro(dt time.Duration) {
	if e.target == nil {
		e.setAggroed(false)
		return
	}
	if e.aggroed {
		// aggroTimer is informational: only range ends aggro.
		e.aggroTimer += dt
		if e.distance > e.cfg.DeaggroRange {
			e.setAggroed(false)
			if e.state == StateChasing || e.state == StateAttacking {
				e.changeState(StatePatrolling)
			}
		}
		return
	}
	if e.distance <= e.cfg.AggroRange {
		e.setAggroed(true)
		e.changeState(StateChasing)
	}
}

// setAggroed resets the aggro timer and scales move speed on a real flip.
func (e *Enemy) setAggroed(on bool) {
	e.aggroTimer = 0
	if e.aggroed == on {
		return
	}
	e.aggroed = on
	if on {
		e.moveSpeed *= e.cfg.AggroSpeedMultiplier
	} else {
		e.moveSpeed /= e.cfg.AggroSpeedMultiplier
	}
	e.logger.Debug("enemy aggro changed", zap.Bool("aggroed", on), zap.Float64("speed", e.moveSpeed))
}

// changeState applies the transition unless the state-change cooldown is
// still running. Dead bypasses the cooldown and is terminal.
func (e *Enemy) changeState(next State) bool {
	if e.state == StateDead || next == e.state {
		return false
	}
	now := e.clock.Now()
	if next != StateDead && e.changed && now < e.lastStateChange+e.cfg.StateChangeCooldown {
		return false
	}
	prev := e.state
	e.state = next
	e.lastStateChange = now
	e.changed = true
	if next == StatePatrolling {
		e.moveTarget = e.patrolTarget
	}
	e.logger.Debug("enemy state changed",
		zap.Stringer("from", prev),
		zap.Stringer("to", next),
		zap.Duration("at", now))
	return true
}

func (e *Enemy) newPatrolTarget() {
	e.patrolTarget = rng.InDisc(e.rand, e.startPos, e.cfg.PatrolRadius, 0)
	e.moveTarget = e.patrolTarget
}

func (e *Enemy) refreshDistance() {
	if e.target == nil {
		e.distance = math.MaxFloat64
		return
	}
	e.distance = e.Body.Position.Dist(e.target.Position())
}

// die runs once, from the health death callback.
func (e *Enemy) die() {
	e.changeState(StateDead)
	e.canAttack = false
	e.tasks.CancelAll()
	e.Body.Velocity = geom.Zero
	e.logger.Debug("enemy died")

	e.hooks.Notify(context.Background(), hook.AfterEnemyDeath, &hook.EntityPayload{ID: e.ID, Kind: "enemy"})
	if e.director != nil {
		e.director.UnregisterEnemy(e)
	}
	e.tasks.Delay(fmt.Sprintf("enemy.%d.despawn", e.ID), e.cfg.DespawnDelay, func() {
		e.Destroy()
		if e.director != nil {
			e.director.ReleaseEnemy(e)
		}
	})
}
