// Package player is the arena's player character: input-driven movement
// with a stamina economy, jumping, melee attacks and the health model the
// round director watches.
package player

import (
	"context"
	"math"
	"time"

	"github.com/kasuganosora/arenasurvival/config"
	"github.com/kasuganosora/arenasurvival/game/combat"
	"github.com/kasuganosora/arenasurvival/game/geom"
	"github.com/kasuganosora/arenasurvival/game/hud"
	"github.com/kasuganosora/arenasurvival/game/item"
	"github.com/kasuganosora/arenasurvival/game/movement"
	"github.com/kasuganosora/arenasurvival/game/physics"
	"github.com/kasuganosora/arenasurvival/game/rng"
	"github.com/kasuganosora/arenasurvival/plugin/hook"
	"github.com/kasuganosora/arenasurvival/scheduler"
	"go.uber.org/zap"
)

// DefeatReason is reported to the game when the player dies.
const DefeatReason = "Player defeated!"

// Input is polled once per frame.
type Input interface {
	// Axes returns the movement intent: X strafes, Y moves forward.
	Axes() geom.Vec2
	Sprint() bool
	// JumpPressed and AttackPressed are edges: true only on the frame the
	// button went down.
	JumpPressed() bool
	AttackPressed() bool
}

// Space answers the spatial queries of the player.
type Space interface {
	// Overlap returns the combat targets within radius of center.
	Overlap(center geom.Vec3, radius float64) []combat.Damageable
}

// Game is the round state the player reports to.
type Game interface {
	IsActive() bool
	LoseGame(reason string)
}

// Deps are the collaborators injected into the player. Clock is required.
type Deps struct {
	Clock   *scheduler.Scheduler
	Input   Input
	Space   Space
	Game    Game
	Sink    hud.Sink
	Rand    rng.Source
	Damage  *combat.Calculator
	Hooks   *hook.HookCenter
	Physics physics.Settings
	Logger  *zap.Logger
}

type Player struct {
	Body *physics.Body

	cfg          config.PlayerConfig
	health       *combat.Health
	move         movement.Controller
	stamina      float64
	hasWeapon    bool
	attackDamage int
	lastAttack   time.Duration
	attacked     bool
	moving       bool
	sprinting    bool
	grounded     bool
	moveDir      geom.Vec3
	speed        float64

	clock   *scheduler.Scheduler
	input   Input
	space   Space
	game    Game
	sink    hud.Sink
	damage  *combat.Calculator
	physics physics.Settings
	logger  *zap.Logger
}

// New creates a player at the origin with full health and stamina.
func New(cfg config.PlayerConfig, deps Deps) *Player {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	calc := deps.Damage
	if calc == nil {
		src := deps.Rand
		if src == nil {
			src = rng.New(1)
		}
		calc = combat.NewCalculator(src, deps.Hooks, logger)
	}
	p := &Player{
		Body:         physics.NewBody(geom.Zero),
		cfg:          cfg,
		health:       combat.NewHealth(cfg.MaxHealth),
		move:         movement.Controller{RotationSpeed: cfg.RotationSpeed},
		stamina:      cfg.MaxStamina,
		attackDamage: cfg.AttackDamage,
		grounded:     true,
		clock:        deps.Clock,
		input:        deps.Input,
		space:        deps.Space,
		game:         deps.Game,
		sink:         hud.OrNop(deps.Sink),
		damage:       calc,
		physics:      deps.Physics,
		logger:       logger.Named("player"),
	}
	p.health.OnChange(func(cur, max int) { p.sink.UpdateHealth(cur, max) })
	p.health.OnDeath(p.die)
	return p
}

// SetGame binds the round the player reports to. The director is built
// after the player, so it is wired here rather than in Deps.
func (p *Player) SetGame(g Game)    { p.game = g }
func (p *Player) SetInput(in Input) { p.input = in }

func (p *Player) Position() geom.Vec3 { return p.Body.Position }
func (p *Player) Health() int         { return p.health.Current() }
func (p *Player) MaxHealth() int      { return p.health.Max() }
func (p *Player) IsDead() bool        { return p.health.IsDead() }
func (p *Player) Stamina() float64    { return p.stamina }
func (p *Player) HasWeapon() bool     { return p.hasWeapon }
func (p *Player) AttackDamage() int   { return p.attackDamage }
func (p *Player) IsMoving() bool      { return p.moving }
func (p *Player) IsSprinting() bool   { return p.sprinting }
func (p *Player) IsGrounded() bool    { return p.grounded }
func (p *Player) Speed() float64      { return p.speed }

// AttackAnchor is the centre of the attack sphere, in front of the player.
func (p *Player) AttackAnchor() geom.Vec3 {
	return p.Body.Position.Add(p.Body.Rotation.Forward().Scale(p.cfg.AttackReach))
}

// Update is the frame tick: ground probe, input, then stamina regen.
// Outside an active round the player holds still.
func (p *Player) Update(dt time.Duration) {
	if p.IsDead() {
		return
	}
	if p.game == nil || !p.game.IsActive() {
		p.moving = false
		p.sprinting = false
		return
	}
	p.grounded = p.Body.GroundProbe(p.cfg.GroundProbe, p.physics)
	p.handleInput()
	p.regenStamina(dt)
}

// FixedUpdate is the physics tick: move along the input direction (draining
// stamina while sprinting) and integrate the body.
func (p *Player) FixedUpdate(dt time.Duration) {
	if p.IsDead() {
		return
	}
	secs := dt.Seconds()
	if !p.moving {
		p.speed = 0
		p.Body.StopHorizontal()
	} else {
		p.speed = p.cfg.MoveSpeed
		if p.sprinting {
			p.speed = p.cfg.SprintSpeed
			p.consumeStamina(p.cfg.SprintDrain * secs)
		}
		res := p.move.Steer(p.Body.Rotation, p.moveDir, p.speed, secs)
		if res.Moved {
			p.Body.MovePosition(p.Body.Position.Add(res.Delta))
		}
		p.Body.Rotation = res.Rotation
	}
	p.Body.Integrate(secs, p.physics)
}

func (p *Player) handleInput() {
	if p.input == nil {
		p.moving = false
		p.sprinting = false
		return
	}
	intent := p.input.Axes().OnGround()
	p.moving = intent.Len() > p.cfg.Deadzone
	if p.moving {
		p.moveDir = intent.Normalized()
	} else {
		p.moveDir = geom.Zero
	}
	p.sprinting = p.input.Sprint() && p.stamina > 0 && p.moving

	if p.input.JumpPressed() {
		p.Jump()
	}
	if p.input.AttackPressed() {
		p.Attack()
	}
}

// Jump launches the player when grounded and stamina allows.
func (p *Player) Jump() bool {
	if p.IsDead() || !p.grounded || p.stamina < p.cfg.JumpCost {
		return false
	}
	p.Body.AddImpulse(geom.Up.Scale(p.cfg.JumpForce))
	p.consumeStamina(p.cfg.JumpCost)
	p.grounded = false
	return true
}

// Attack swings at every target around the attack anchor. It is rejected
// while the cooldown runs or when stamina is below the attack cost. The
// first attack of a life has no cooldown to wait for.
func (p *Player) Attack() bool {
	if p.IsDead() {
		return false
	}
	now := p.clock.Now()
	if p.attacked && now < p.lastAttack+p.cfg.AttackCooldown {
		return false
	}
	if p.stamina < p.cfg.AttackCost {
		return false
	}
	p.lastAttack = now
	p.attacked = true
	p.consumeStamina(p.cfg.AttackCost)

	if p.space == nil {
		return true
	}
	hits := 0
	for _, target := range p.space.Overlap(p.AttackAnchor(), p.cfg.AttackRange) {
		if target.IsDead() {
			continue
		}
		target.TakeDamage(p.rollDamage())
		hits++
	}
	p.logger.Debug("player attacked", zap.Int("hits", hits), zap.Float64("stamina", p.stamina))
	return true
}

func (p *Player) rollDamage() int {
	base := p.attackDamage
	if p.hasWeapon {
		base = int(float64(base) * p.cfg.WeaponMultiplier)
	}
	return p.damage.Roll(context.Background(), hook.SourcePlayer, base, p.cfg.DamageVariance)
}

func (p *Player) TakeDamage(amount int) {
	p.health.TakeDamage(amount)
}

func (p *Player) Heal(amount int) {
	p.health.Heal(amount)
}

// EquipWeapon grants the weapon and its flat damage bonus. The bonus is
// applied once per life; further pickups change nothing.
func (p *Player) EquipWeapon() {
	if p.hasWeapon {
		return
	}
	p.hasWeapon = true
	p.attackDamage += p.cfg.WeaponBonus
	p.logger.Debug("weapon equipped", zap.Int("attack_damage", p.attackDamage))
}

// CollectItem resolves an item the player overlaps.
func (p *Player) CollectItem(it *item.Item) bool {
	if it == nil || p.IsDead() {
		return false
	}
	return it.Use(p)
}

// OnEnemyContact is the trigger hit of an enemy body: the player takes the
// enemy's raw attack power.
func (p *Player) OnEnemyContact(damage int) {
	p.TakeDamage(damage)
}

// OnEnemyCollision knocks the player away from the enemy.
func (p *Player) OnEnemyCollision(enemyPos geom.Vec3) {
	if p.IsDead() {
		return
	}
	push := p.Body.Position.Sub(enemyPos).Normalized()
	p.Body.AddImpulse(push.Scale(p.cfg.KnockbackForce))
}

// Reset restores the player for a new round.
func (p *Player) Reset() {
	p.health.Reset()
	p.stamina = p.cfg.MaxStamina
	p.hasWeapon = false
	p.attackDamage = p.cfg.AttackDamage
	p.attacked = false
	p.lastAttack = 0
	p.moving = false
	p.sprinting = false
	p.grounded = true
	p.moveDir = geom.Zero
	p.speed = 0
	p.Body.Reset(geom.Zero)
}

func (p *Player) consumeStamina(amount float64) {
	p.stamina = math.Max(0, p.stamina-amount)
	if p.stamina <= 0 {
		p.sprinting = false
	}
}

func (p *Player) regenStamina(dt time.Duration) {
	if p.sprinting || p.stamina >= p.cfg.MaxStamina {
		return
	}
	p.stamina = math.Min(p.cfg.MaxStamina, p.stamina+p.cfg.StaminaRegen*dt.Seconds())
}

func (p *Player) die() {
	p.moving = false
	p.sprinting = false
	p.logger.Info("player defeated")
	if p.game != nil {
		p.game.LoseGame(DefeatReason)
	}
}
