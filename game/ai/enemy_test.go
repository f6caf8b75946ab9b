package ai

import (
	"testing"
	"time"

	"github.com/kasuganosora/arenasurvival/config"
	"github.com/kasuganosora/arenasurvival/game/geom"
	"github.com/kasuganosora/arenasurvival/game/physics"
	"github.com/kasuganosora/arenasurvival/game/rng"
	"github.com/kasuganosora/arenasurvival/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const frame = 16 * time.Millisecond

type fakeTarget struct {
	pos  geom.Vec3
	hits []int
}

func (f *fakeTarget) Position() geom.Vec3   { return f.pos }
func (f *fakeTarget) TakeDamage(amount int) { f.hits = append(f.hits, amount) }

type fakeDirector struct {
	unregistered int
	released     int
}

func (d *fakeDirector) UnregisterEnemy(*Enemy) { d.unregistered++ }
func (d *fakeDirector) ReleaseEnemy(*Enemy)    { d.released++ }

func newTestEnemy(t *testing.T, target Target, src rng.Source) (*Enemy, *scheduler.Scheduler, *fakeDirector) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	clock := scheduler.New(logger)
	dir := &fakeDirector{}
	e := NewEnemy(1, config.Default().Enemy, geom.Zero, Deps{
		Clock:    clock,
		Target:   target,
		Director: dir,
		Rand:     src,
		Physics:  physics.Settings{Gravity: 9.81, Damping: 4},
		Logger:   logger,
	})
	return e, clock, dir
}

func tick(clock *scheduler.Scheduler, e *Enemy, dt time.Duration) {
	clock.Advance(dt)
	e.Update(dt)
	e.FixedUpdate(dt)
}

func runFor(clock *scheduler.Scheduler, e *Enemy, d time.Duration) {
	for end := clock.Now() + d; clock.Now() < end; {
		tick(clock, e, frame)
	}
}

func TestEnemy_StartsPatrolling(t *testing.T) {
	e, _, _ := newTestEnemy(t, &fakeTarget{pos: geom.Vec3{X: 30}}, &rng.Fixed{})
	assert.Equal(t, StatePatrolling, e.State())
	assert.Equal(t, 50, e.Health())
	assert.False(t, e.IsAggroed())
	assert.True(t, e.CanAttack())
	assert.Equal(t, 3.0, e.MoveSpeed())
	assert.Equal(t, 15, e.Damage())
}

func TestEnemy_DetectsPlayerWithinRange(t *testing.T) {
	target := &fakeTarget{pos: geom.Vec3{X: 8}}
	e, clock, _ := newTestEnemy(t, target, &rng.Fixed{})

	tick(clock, e, frame)
	assert.Equal(t, StateChasing, e.State())
	assert.InDelta(t, 8, e.DistanceToTarget(), 1e-9)
}

func TestEnemy_IgnoresPlayerOutsideDetection(t *testing.T) {
	e, clock, _ := newTestEnemy(t, &fakeTarget{pos: geom.Vec3{X: 12}}, &rng.Fixed{})
	tick(clock, e, frame)
	assert.Equal(t, StatePatrolling, e.State())
	assert.False(t, e.IsAggroed())
}

func TestEnemy_LethalHitUnregistersOnce(t *testing.T) {
	e, clock, dir := newTestEnemy(t, &fakeTarget{pos: geom.Vec3{X: 30}}, &rng.Fixed{})

	e.TakeDamage(60)
	assert.Equal(t, 0, e.Health())
	assert.Equal(t, StateDead, e.State())
	assert.Equal(t, 1, dir.unregistered)

	e.TakeDamage(10)
	e.TakeDamage(10)
	assert.Equal(t, 1, dir.unregistered)

	clock.Advance(1900 * time.Millisecond)
	assert.Equal(t, 0, dir.released)
	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, 1, dir.released)
	assert.True(t, e.Released())
}

func TestEnemy_DeadIsFrozen(t *testing.T) {
	target := &fakeTarget{pos: geom.Vec3{X: 5}}
	e, clock, _ := newTestEnemy(t, target, &rng.Fixed{})
	tick(clock, e, frame)
	e.TakeDamage(100)
	require.True(t, e.IsDead())

	pos := e.Position()
	runFor(clock, e, 3*time.Second)
	assert.Equal(t, pos, e.Position())
	assert.Equal(t, StateDead, e.State())
	assert.Empty(t, target.hits)
}

func TestEnemy_AttackCycle(t *testing.T) {
	target := &fakeTarget{pos: geom.Vec3{X: 1.5}}
	e, clock, _ := newTestEnemy(t, target, &rng.Fixed{Ints: []int{3, -3}})

	tick(clock, e, frame)
	require.Equal(t, StateChasing, e.State())

	// Attacking is held back by the state-change cooldown.
	runFor(clock, e, time.Second)
	assert.Equal(t, StateChasing, e.State())

	runFor(clock, e, 1200*time.Millisecond)
	require.Equal(t, StateAttacking, e.State())
	require.Equal(t, []int{18}, target.hits)
	assert.False(t, e.CanAttack())

	runFor(clock, e, 1300*time.Millisecond)
	assert.Len(t, target.hits, 1, "attack cooldown still running")

	runFor(clock, e, time.Second)
	assert.Equal(t, []int{18, 12}, target.hits)
}

func TestEnemy_TransitionsRespectCooldown(t *testing.T) {
	target := &fakeTarget{}
	e, clock, _ := newTestEnemy(t, target, rng.New(3))
	walk := rng.New(99)
	cooldown := config.Default().Enemy.StateChangeCooldown

	var changes []time.Duration
	prev := e.State()
	for i := 0; i < 3000; i++ {
		if i%10 == 0 {
			p := walk.InsideUnitCircle()
			target.pos = geom.Vec3{X: p.X * 20, Z: p.Y * 20}
		}
		tick(clock, e, frame)
		if e.State() != prev {
			changes = append(changes, clock.Now())
			prev = e.State()
		}
	}
	require.Greater(t, len(changes), 3, "the walk should provoke transitions")
	for i := 1; i < len(changes); i++ {
		assert.GreaterOrEqual(t, changes[i]-changes[i-1], cooldown)
	}
}

func TestEnemy_AggroDurationAloneDoesNotDeaggro(t *testing.T) {
	target := &fakeTarget{pos: geom.Vec3{X: 5}}
	e, clock, _ := newTestEnemy(t, target, &rng.Fixed{})

	runFor(clock, e, 10*time.Second)
	assert.True(t, e.IsAggroed())
	assert.Greater(t, e.AggroTimer(), 9*time.Second)
	assert.InDelta(t, 3.6, e.MoveSpeed(), 1e-9)
}

func TestEnemy_DeaggroOutsideRange(t *testing.T) {
	target := &fakeTarget{pos: geom.Vec3{X: 5}}
	e, clock, _ := newTestEnemy(t, target, &rng.Fixed{})
	tick(clock, e, frame)
	require.True(t, e.IsAggroed())
	require.Equal(t, StateChasing, e.State())

	target.pos = geom.Vec3{X: 40}
	tick(clock, e, frame)
	assert.False(t, e.IsAggroed())
	assert.InDelta(t, 3.0, e.MoveSpeed(), 1e-9)
	assert.Equal(t, StateChasing, e.State(), "patrol transition waits for the cooldown")

	runFor(clock, e, 2100*time.Millisecond)
	assert.Equal(t, StatePatrolling, e.State())
}

func TestEnemy_AggroSpeedDoesNotCompound(t *testing.T) {
	e, _, _ := newTestEnemy(t, &fakeTarget{pos: geom.Vec3{X: 50}}, &rng.Fixed{})
	e.OnPlayerTrigger()
	e.OnPlayerTrigger()
	assert.True(t, e.IsAggroed())
	assert.Equal(t, StateChasing, e.State())
	assert.InDelta(t, 3.6, e.MoveSpeed(), 1e-9)
}

func TestEnemy_DamageWhileCalmAggroes(t *testing.T) {
	e, _, _ := newTestEnemy(t, &fakeTarget{pos: geom.Vec3{X: 12}}, &rng.Fixed{})
	e.TakeDamage(5)
	assert.Equal(t, 45, e.Health())
	assert.True(t, e.IsAggroed())
	assert.Equal(t, StateChasing, e.State())
}

func TestEnemy_LostTargetReturnsToPatrol(t *testing.T) {
	e, clock, _ := newTestEnemy(t, &fakeTarget{pos: geom.Vec3{X: 5}}, &rng.Fixed{})
	tick(clock, e, frame)
	require.Equal(t, StateChasing, e.State())

	clock.Advance(3 * time.Second)
	e.SetTarget(nil)
	tick(clock, e, frame)
	assert.Equal(t, StatePatrolling, e.State())
	assert.False(t, e.IsAggroed())
}

func TestEnemy_KnockbackOnlyWhileAttacking(t *testing.T) {
	target := &fakeTarget{pos: geom.Vec3{X: 1.5}}
	e, clock, _ := newTestEnemy(t, target, &rng.Fixed{})

	e.OnPlayerCollision(target.pos)
	assert.Equal(t, geom.Zero, e.Body.Velocity)

	runFor(clock, e, 2200*time.Millisecond)
	require.Equal(t, StateAttacking, e.State())
	e.OnPlayerCollision(target.pos)
	assert.InDelta(t, -3, e.Body.Velocity.X, 1e-9)
}

func TestEnemy_PatrolPicksNewTargetOnArrival(t *testing.T) {
	src := &rng.Fixed{Points: []geom.Vec2{{X: 0.5}, {X: -0.5}}}
	e, clock, _ := newTestEnemy(t, nil, src)
	require.Equal(t, geom.Vec3{X: 2.5}, e.PatrolTarget())

	runFor(clock, e, time.Second)
	assert.Equal(t, geom.Vec3{X: -2.5}, e.PatrolTarget())
	assert.Equal(t, StatePatrolling, e.State())
	assert.LessOrEqual(t, e.PatrolTarget().PlanarDist(e.StartPosition()), 5.0)
}

func TestEnemy_DestroyCancelsPendingCallbacks(t *testing.T) {
	target := &fakeTarget{pos: geom.Vec3{X: 1.5}}
	e, clock, _ := newTestEnemy(t, target, &rng.Fixed{})
	runFor(clock, e, 2200*time.Millisecond)
	require.Len(t, target.hits, 1)
	require.Greater(t, clock.Pending(), 0)

	e.Destroy()
	assert.Equal(t, 0, clock.Pending())
	clock.Advance(5 * time.Second)
	assert.False(t, e.CanAttack())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "patrolling", StatePatrolling.String())
	assert.Equal(t, "dead", StateDead.String())
	assert.Equal(t, "unknown", State(42).String())
}
