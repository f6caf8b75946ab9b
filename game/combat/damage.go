package combat

import (
	"context"

	"github.com/kasuganosora/arenasurvival/game/rng"
	"github.com/kasuganosora/arenasurvival/plugin/hook"
	"go.uber.org/zap"
)

// Damageable is anything that can be hit by an attack.
type Damageable interface {
	TakeDamage(amount int)
	IsDead() bool
}

// Calculator rolls attack damage. Every roll runs through the
// before/after damage hooks so plugins can scale or veto numbers.
type Calculator struct {
	rng    rng.Source
	hooks  *hook.HookCenter
	logger *zap.Logger
}

// NewCalculator creates a Calculator. hooks may be nil.
func NewCalculator(src rng.Source, hooks *hook.HookCenter, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{rng: src, hooks: hooks, logger: logger}
}

// Roll returns max(1, base + uniform[-variance, variance]).
//
// Pipeline:
//  1. before_damage_calc may adjust Base/Variance.
//  2. variance roll and floor at 1.
//  3. after_damage_calc may adjust the final Amount (floored at 0).
func (c *Calculator) Roll(ctx context.Context, source hook.DamageSource, base, variance int) int {
	p := &hook.DamagePayload{Source: source, Base: base, Variance: variance}
	if !c.hooks.Allow(ctx, hook.BeforeDamageCalc, p) {
		c.logger.Debug("damage roll interrupted", zap.String("source", string(source)))
		return 0
	}

	v := p.Variance
	if v < 0 {
		v = -v
	}
	p.Amount = p.Base + c.rng.RangeInt(-v, v)
	if p.Amount < 1 {
		p.Amount = 1
	}

	if c.hooks.Has(hook.AfterDamageCalc) {
		if _, err := c.hooks.Trigger(ctx, hook.AfterDamageCalc, p); err != nil {
			c.logger.Debug("after damage hooks stopped early",
				zap.String("source", string(source)), zap.Int("amount", p.Amount), zap.Error(err))
		}
		if p.Amount < 0 {
			p.Amount = 0
		}
	}
	return p.Amount
}
