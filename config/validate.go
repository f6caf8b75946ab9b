package config

import (
	"errors"
	"fmt"
)

// Validate checks the invariants the simulation relies on. Violations are
// programming/configuration errors and must be caught before a round runs.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Sim.FixedStep > 0, "sim.fixed_step must be > 0")
	check(c.Sim.FrameStep > 0, "sim.frame_step must be > 0")
	check(c.Sim.FrameRate >= 0, "sim.frame_rate must be >= 0")

	r := c.Round
	check(r.Duration > 0, "round.duration must be > 0")
	check(r.TargetScore > 0, "round.target_score must be > 0")
	check(r.ScoreMultiplier >= 1, "round.score_multiplier must be >= 1, got %d", r.ScoreMultiplier)
	check(r.MaxEnemies >= 1, "round.max_enemies must be >= 1")
	check(r.EnemySpawnInterval > 0, "round.enemy_spawn_interval must be > 0")
	check(r.ItemSpawnInterval > 0, "round.item_spawn_interval must be > 0")
	check(r.SpawnRadius >= 0, "round.spawn_radius must be >= 0")
	check(r.KillScore >= 0 && r.ItemScore >= 0, "round score bonuses must be >= 0")
	check(r.KillTimeBonus >= 0, "round.kill_time_bonus must be >= 0")

	p := c.Player
	check(p.MaxHealth > 0, "player.max_health must be > 0")
	check(p.MaxStamina > 0, "player.max_stamina must be > 0")
	check(p.MoveSpeed > 0 && p.SprintSpeed > 0, "player speeds must be > 0")
	check(p.AttackRange > 0, "player.attack_range must be > 0")
	check(p.AttackCooldown >= 0, "player.attack_cooldown must be >= 0")
	check(p.AttackCost >= 0 && p.JumpCost >= 0, "player stamina costs must be >= 0")
	check(p.DamageVariance >= 0, "player.damage_variance must be >= 0")
	check(p.WeaponMultiplier >= 1, "player.weapon_multiplier must be >= 1")

	e := c.Enemy
	check(e.MaxHealth > 0, "enemy.max_health must be > 0")
	check(e.MoveSpeed > 0, "enemy.move_speed must be > 0")
	check(e.AttackRange > 0, "enemy.attack_range must be > 0")
	check(e.StateChangeCooldown >= 0, "enemy.state_change_cooldown must be >= 0")
	check(e.AttackCooldown > 0, "enemy.attack_cooldown must be > 0")
	check(e.DamageVariance >= 0, "enemy.damage_variance must be >= 0")
	check(e.AggroRange < e.DeaggroRange,
		"enemy.aggro_range (%.2f) must be < enemy.deaggro_range (%.2f)", e.AggroRange, e.DeaggroRange)
	check(e.AttackRange <= e.DeaggroRange, "enemy.attack_range must be <= enemy.deaggro_range")
	check(e.AggroSpeedMultiplier > 0, "enemy.aggro_speed_multiplier must be > 0")
	check(e.StoppingDistance >= 0, "enemy.stopping_distance must be >= 0")
	check(e.DespawnDelay >= 0, "enemy.despawn_delay must be >= 0")

	i := c.Item
	check(i.Lifetime > 0, "item.lifetime must be > 0")
	check(i.HealAmount >= 0, "item.heal_amount must be >= 0")
	check(i.WeaponChance >= 0 && i.WeaponChance <= 1, "item.weapon_chance must be within [0,1]")

	check(c.Physics.Gravity >= 0, "physics.gravity must be >= 0")
	check(c.Leaderboard.Size >= 0, "leaderboard.size must be >= 0")

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
