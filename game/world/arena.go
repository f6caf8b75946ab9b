package world

import (
	"context"
	"time"

	"github.com/kasuganosora/arenasurvival/config"
	"github.com/kasuganosora/arenasurvival/game/ai"
	"github.com/kasuganosora/arenasurvival/game/combat"
	"github.com/kasuganosora/arenasurvival/game/geom"
	"github.com/kasuganosora/arenasurvival/game/hud"
	"github.com/kasuganosora/arenasurvival/game/physics"
	"github.com/kasuganosora/arenasurvival/game/player"
	"github.com/kasuganosora/arenasurvival/game/rng"
	"github.com/kasuganosora/arenasurvival/plugin/hook"
	"github.com/kasuganosora/arenasurvival/scheduler"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configure an Arena. Every field is optional.
type Options struct {
	Input    player.Input
	Sink     hud.Sink
	Rand     rng.Source
	Hooks    *hook.HookCenter
	Recorder RoundRecorder
	Observer EntityObserver
	Logger   *zap.Logger
}

// Arena is one simulated arena: the clock, the player, the director and
// the contact pass between them.
type Arena struct {
	Clock    *scheduler.Scheduler
	Player   *player.Player
	Director *Director

	cfg     *config.Config
	physics physics.Settings
	logger  *zap.Logger

	acc      time.Duration
	triggers map[int64]bool
	contacts map[int64]bool
	stopCh   chan struct{}
}

// NewArena wires a complete arena. The round is not started.
func NewArena(cfg *config.Config, opts Options) *Arena {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := opts.Rand
	if src == nil {
		src = rng.New(cfg.Sim.Seed)
	}
	settings := physics.Settings{
		Gravity:      cfg.Physics.Gravity,
		Damping:      cfg.Physics.Damping,
		GroundHeight: cfg.Physics.GroundHeight,
	}
	clock := scheduler.New(logger)
	calc := combat.NewCalculator(src, opts.Hooks, logger)

	a := &Arena{
		Clock:    clock,
		cfg:      cfg,
		physics:  settings,
		logger:   logger.Named("arena"),
		triggers: make(map[int64]bool),
		contacts: make(map[int64]bool),
		stopCh:   make(chan struct{}),
	}
	a.Player = player.New(cfg.Player, player.Deps{
		Clock:   clock,
		Input:   opts.Input,
		Space:   a,
		Sink:    opts.Sink,
		Rand:    src,
		Damage:  calc,
		Hooks:   opts.Hooks,
		Physics: settings,
		Logger:  logger,
	})
	a.Director = NewDirector(cfg, Deps{
		Clock:    clock,
		Player:   a.Player,
		Rand:     src,
		Sink:     opts.Sink,
		Hooks:    opts.Hooks,
		Recorder: opts.Recorder,
		Observer: opts.Observer,
		Physics:  settings,
		Logger:   logger,
	})
	return a
}

// Start begins a round.
func (a *Arena) Start() error {
	a.resetContacts()
	return a.Director.StartGame()
}

// Restart abandons the running round and starts a new one.
func (a *Arena) Restart() error {
	a.resetContacts()
	return a.Director.RestartGame()
}

// Overlap returns the live enemies within radius of center.
func (a *Arena) Overlap(center geom.Vec3, radius float64) []combat.Damageable {
	var out []combat.Damageable
	for _, e := range a.Director.Registry().Enemies() {
		if e.IsDead() || e.Released() {
			continue
		}
		if e.Position().Dist(center) <= radius {
			out = append(out, e)
		}
	}
	return out
}

// Step advances the arena by one rendered frame: as many physics ticks as
// the accumulated time allows, then one frame tick.
func (a *Arena) Step(frame time.Duration) {
	fixed := a.cfg.Sim.FixedStep
	a.acc += frame
	for a.acc >= fixed {
		a.FixedUpdate(fixed)
		a.acc -= fixed
	}
	a.Update(frame)
}

// FixedUpdate is the physics tick.
func (a *Arena) FixedUpdate(dt time.Duration) {
	a.Player.FixedUpdate(dt)
	for _, e := range a.Director.Registry().Enemies() {
		e.FixedUpdate(dt)
	}
	if a.Director.IsActive() {
		a.resolveContacts()
	}
}

// Update is the frame tick: scheduled callbacks first, then the player,
// the enemies, the items and finally the round director.
func (a *Arena) Update(dt time.Duration) {
	a.Clock.Advance(dt)
	a.Player.Update(dt)
	for _, e := range a.Director.Registry().Enemies() {
		e.Update(dt)
	}
	for _, it := range a.Director.Registry().Items() {
		it.Update(dt)
	}
	a.Director.Update(dt)
}

// Run drives the arena until the round ends, ctx is cancelled or Stop is
// called. With realtime set frames are paced by a ticker, otherwise by
// limiter (nil runs as fast as possible).
func (a *Arena) Run(ctx context.Context, realtime bool, limiter *rate.Limiter) error {
	frame := a.cfg.Sim.FrameStep
	var tick <-chan time.Time
	if realtime {
		ticker := time.NewTicker(frame)
		defer ticker.Stop()
		tick = ticker.C
	}
	for a.Director.IsActive() {
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return ctx.Err()
			case <-a.stopCh:
				return nil
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-a.stopCh:
				return nil
			default:
			}
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
			}
		}
		a.Step(frame)
		if limit := a.cfg.Sim.MaxRoundTime; limit > 0 && a.Director.Elapsed() >= limit && a.Director.IsActive() {
			a.logger.Warn("round exceeded simulation cap", zap.Duration("cap", limit))
			a.Director.LoseGame(TimeUpReason)
		}
	}
	return nil
}

// Stop signals Run to exit.
func (a *Arena) Stop() {
	select {
	case <-a.stopCh:
	default:
		close(a.stopCh)
	}
}

// Close ends the arena for good: Run exits and every pending callback of
// the clock is dropped.
func (a *Arena) Close() {
	a.Stop()
	if names := a.Clock.ListTickers(); len(names) > 0 {
		a.logger.Debug("dropping named tasks", zap.Strings("tasks", names))
	}
	a.Clock.Stop()
}

// resolveContacts raises the enter events of the enemy trigger, the body
// contact and the item pickup volumes. An enemy fires each event once per
// overlap; leaving the volume re-arms it.
func (a *Arena) resolveContacts() {
	pos := a.Player.Position()
	for _, e := range a.Director.Registry().Enemies() {
		if e.IsDead() || e.Released() {
			delete(a.triggers, e.ID)
			delete(a.contacts, e.ID)
			continue
		}
		dist := e.Position().Dist(pos)
		if enter(a.triggers, e.ID, dist <= a.cfg.Physics.TriggerRadius) {
			a.onEnemyTrigger(e)
		}
		if enter(a.contacts, e.ID, dist <= a.cfg.Physics.ContactRadius) {
			e.OnPlayerCollision(pos)
			a.Player.OnEnemyCollision(e.Position())
		}
		if !a.Director.IsActive() {
			return
		}
	}
	for _, it := range a.Director.Registry().Items() {
		if it.Collected() || it.Removed() {
			continue
		}
		if it.Position.Dist(pos) <= a.cfg.Physics.PickupRadius {
			a.Player.CollectItem(it)
		}
	}
}

func (a *Arena) onEnemyTrigger(e *ai.Enemy) {
	e.OnPlayerTrigger()
	a.Player.OnEnemyContact(e.Damage())
}

func (a *Arena) resetContacts() {
	clear(a.triggers)
	clear(a.contacts)
	a.acc = 0
}

// enter records whether id is inside a volume and reports the transition
// from outside to inside.
func enter(inside map[int64]bool, id int64, now bool) bool {
	was := inside[id]
	if now {
		inside[id] = true
	} else {
		delete(inside, id)
	}
	return now && !was
}
