package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesArenaConstants(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 60*time.Second, cfg.Round.Duration)
	assert.Equal(t, 100, cfg.Round.TargetScore)
	assert.Equal(t, 5, cfg.Round.MaxEnemies)
	assert.Equal(t, 10*time.Second, cfg.Round.EnemySpawnInterval)
	assert.Equal(t, 2*time.Second, cfg.Round.ItemSpawnInterval)
	assert.Equal(t, 5*time.Second, cfg.Round.KillTimeBonus)

	assert.Equal(t, 50, cfg.Enemy.MaxHealth)
	assert.Equal(t, 8.0, cfg.Enemy.AggroRange)
	assert.Equal(t, 15.0, cfg.Enemy.DeaggroRange)
	assert.Equal(t, 2*time.Second, cfg.Enemy.StateChangeCooldown)
	assert.Equal(t, 1.2, cfg.Enemy.AggroSpeedMultiplier)

	assert.Equal(t, 100, cfg.Player.MaxHealth)
	assert.Equal(t, 10.0, cfg.Player.AttackCost)
	assert.Equal(t, time.Second, cfg.Player.AttackCooldown)

	assert.Equal(t, 30*time.Second, cfg.Item.Lifetime)
	assert.Equal(t, 25, cfg.Item.HealAmount)
}

func TestValidate_AggroRangeBelowDeaggroRange(t *testing.T) {
	cfg := Default()
	require.Less(t, cfg.Enemy.AggroRange, cfg.Enemy.DeaggroRange)

	cfg.Enemy.AggroRange = cfg.Enemy.DeaggroRange
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggro_range")
}

func TestValidate_RejectsBadInvariants(t *testing.T) {
	cases := map[string]func(c *Config){
		"multiplier":     func(c *Config) { c.Round.ScoreMultiplier = 0 },
		"player health":  func(c *Config) { c.Player.MaxHealth = 0 },
		"enemy health":   func(c *Config) { c.Enemy.MaxHealth = -1 },
		"spawn interval": func(c *Config) { c.Round.EnemySpawnInterval = 0 },
		"lifetime":       func(c *Config) { c.Item.Lifetime = 0 },
		"weapon chance":  func(c *Config) { c.Item.WeaponChance = 2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_OverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	yaml := `
round:
  target_score: 250
  enemy_spawn_interval: 4s
enemy:
  detection_range: 12
log:
  development: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Round.TargetScore)
	assert.Equal(t, 4*time.Second, cfg.Round.EnemySpawnInterval)
	assert.Equal(t, 12.0, cfg.Enemy.DetectionRange)
	assert.True(t, cfg.Log.Development)
	// untouched keys keep their defaults
	assert.Equal(t, 5, cfg.Round.MaxEnemies)
}

func TestLoad_InvalidFileFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enemy:\n  aggro_range: 20\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
