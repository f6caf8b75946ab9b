package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Sim         SimConfig         `mapstructure:"sim"`
	Round       RoundConfig       `mapstructure:"round"`
	Player      PlayerConfig      `mapstructure:"player"`
	Enemy       EnemyConfig       `mapstructure:"enemy"`
	Item        ItemConfig        `mapstructure:"item"`
	Physics     PhysicsConfig     `mapstructure:"physics"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
}

type LogConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"` // empty = stderr only
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

// SimConfig drives the headless runner loop.
type SimConfig struct {
	FixedStep    time.Duration `mapstructure:"fixed_step"` // physics tick
	FrameStep    time.Duration `mapstructure:"frame_step"` // AI/timer tick
	Realtime     bool          `mapstructure:"realtime"`
	FrameRate    float64       `mapstructure:"frame_rate"` // frames/s cap when not realtime, 0 = unlimited
	Rounds       int           `mapstructure:"rounds"`
	MaxRoundTime time.Duration `mapstructure:"max_round_time"` // safety cap per round
	Seed         int64         `mapstructure:"seed"`
}

type RoundConfig struct {
	Duration           time.Duration `mapstructure:"duration"`
	TargetScore        int           `mapstructure:"target_score"`
	ScoreMultiplier    int           `mapstructure:"score_multiplier"`
	MaxEnemies         int           `mapstructure:"max_enemies"`
	EnemySpawnInterval time.Duration `mapstructure:"enemy_spawn_interval"`
	ItemSpawnInterval  time.Duration `mapstructure:"item_spawn_interval"`
	SpawnRadius        float64       `mapstructure:"spawn_radius"`
	SpawnHeight        float64       `mapstructure:"spawn_height"`
	KillScore          int           `mapstructure:"kill_score"`
	KillTimeBonus      time.Duration `mapstructure:"kill_time_bonus"`
	ItemScore          int           `mapstructure:"item_score"`
}

type PlayerConfig struct {
	MaxHealth        int           `mapstructure:"max_health"`
	MaxStamina       float64       `mapstructure:"max_stamina"`
	MoveSpeed        float64       `mapstructure:"move_speed"`
	SprintSpeed      float64       `mapstructure:"sprint_speed"`
	RotationSpeed    float64       `mapstructure:"rotation_speed"`
	Deadzone         float64       `mapstructure:"deadzone"`
	StaminaRegen     float64       `mapstructure:"stamina_regen"` // per second
	SprintDrain      float64       `mapstructure:"sprint_drain"`  // per second
	JumpForce        float64       `mapstructure:"jump_force"`
	JumpCost         float64       `mapstructure:"jump_cost"`
	GroundProbe      float64       `mapstructure:"ground_probe"`
	AttackDamage     int           `mapstructure:"attack_damage"`
	AttackRange      float64       `mapstructure:"attack_range"`
	AttackReach      float64       `mapstructure:"attack_reach"` // anchor offset in front
	AttackCooldown   time.Duration `mapstructure:"attack_cooldown"`
	AttackCost       float64       `mapstructure:"attack_cost"`
	DamageVariance   int           `mapstructure:"damage_variance"`
	WeaponMultiplier float64       `mapstructure:"weapon_multiplier"`
	WeaponBonus      int           `mapstructure:"weapon_bonus"`
	KnockbackForce   float64       `mapstructure:"knockback_force"`
}

type EnemyConfig struct {
	MaxHealth            int           `mapstructure:"max_health"`
	MoveSpeed            float64       `mapstructure:"move_speed"`
	DetectionRange       float64       `mapstructure:"detection_range"`
	PatrolRadius         float64       `mapstructure:"patrol_radius"`
	StateChangeCooldown  time.Duration `mapstructure:"state_change_cooldown"`
	AttackRange          float64       `mapstructure:"attack_range"`
	AttackCooldown       time.Duration `mapstructure:"attack_cooldown"`
	AttackPower          int           `mapstructure:"attack_power"`
	DamageVariance       int           `mapstructure:"damage_variance"`
	StoppingDistance     float64       `mapstructure:"stopping_distance"`
	RotationSpeed        float64       `mapstructure:"rotation_speed"`
	AggroRange           float64       `mapstructure:"aggro_range"`
	DeaggroRange         float64       `mapstructure:"deaggro_range"`
	AggroDuration        time.Duration `mapstructure:"aggro_duration"`
	AggroSpeedMultiplier float64       `mapstructure:"aggro_speed_multiplier"`
	KnockbackForce       float64       `mapstructure:"knockback_force"`
	DespawnDelay         time.Duration `mapstructure:"despawn_delay"`
}

type ItemConfig struct {
	Lifetime      time.Duration `mapstructure:"lifetime"`
	HealAmount    int           `mapstructure:"heal_amount"`
	WeaponChance  float64       `mapstructure:"weapon_chance"`
	RotationSpeed float64       `mapstructure:"rotation_speed"` // degrees per second
	BobSpeed      float64       `mapstructure:"bob_speed"`
	BobAmount     float64       `mapstructure:"bob_amount"`
}

type PhysicsConfig struct {
	Gravity       float64 `mapstructure:"gravity"`
	Damping       float64 `mapstructure:"damping"` // horizontal velocity decay per second
	GroundHeight  float64 `mapstructure:"ground_height"`
	ContactRadius float64 `mapstructure:"contact_radius"` // player/enemy body contact
	TriggerRadius float64 `mapstructure:"trigger_radius"` // player/enemy trigger overlap
	PickupRadius  float64 `mapstructure:"pickup_radius"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // disabled | memory | sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
	SlowQuery    time.Duration `mapstructure:"slow_query"` // 0 disables slow query warnings
}

type CacheConfig struct {
	RedisAddr      string `mapstructure:"redis_addr"`
	RedisPassword  string `mapstructure:"redis_password"`
	RedisDB        int    `mapstructure:"redis_db"`
	LocalPubSubBuf int    `mapstructure:"local_pubsub_buf"`
}

type LeaderboardConfig struct {
	Key          string `mapstructure:"key"`
	Size         int    `mapstructure:"size"`
	ResetOnStart bool   `mapstructure:"reset_on_start"` // clear the board before the first round
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.development", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("sim.fixed_step", "20ms")
	v.SetDefault("sim.frame_step", "16ms")
	v.SetDefault("sim.realtime", false)
	v.SetDefault("sim.frame_rate", 0.0)
	v.SetDefault("sim.rounds", 1)
	v.SetDefault("sim.max_round_time", "10m")
	v.SetDefault("sim.seed", 1)

	v.SetDefault("round.duration", "60s")
	v.SetDefault("round.target_score", 100)
	v.SetDefault("round.score_multiplier", 1)
	v.SetDefault("round.max_enemies", 5)
	v.SetDefault("round.enemy_spawn_interval", "10s")
	v.SetDefault("round.item_spawn_interval", "2s")
	v.SetDefault("round.spawn_radius", 10.0)
	v.SetDefault("round.spawn_height", 1.0)
	v.SetDefault("round.kill_score", 10)
	v.SetDefault("round.kill_time_bonus", "5s")
	v.SetDefault("round.item_score", 5)

	v.SetDefault("player.max_health", 100)
	v.SetDefault("player.max_stamina", 100.0)
	v.SetDefault("player.move_speed", 5.0)
	v.SetDefault("player.sprint_speed", 8.0)
	v.SetDefault("player.rotation_speed", 10.0)
	v.SetDefault("player.deadzone", 0.1)
	v.SetDefault("player.stamina_regen", 10.0)
	v.SetDefault("player.sprint_drain", 20.0)
	v.SetDefault("player.jump_force", 5.0)
	v.SetDefault("player.jump_cost", 20.0)
	v.SetDefault("player.ground_probe", 1.1)
	v.SetDefault("player.attack_damage", 20)
	v.SetDefault("player.attack_range", 2.0)
	v.SetDefault("player.attack_reach", 1.0)
	v.SetDefault("player.attack_cooldown", "1s")
	v.SetDefault("player.attack_cost", 10.0)
	v.SetDefault("player.damage_variance", 5)
	v.SetDefault("player.weapon_multiplier", 1.5)
	v.SetDefault("player.weapon_bonus", 10)
	v.SetDefault("player.knockback_force", 5.0)

	v.SetDefault("enemy.max_health", 50)
	v.SetDefault("enemy.move_speed", 3.0)
	v.SetDefault("enemy.detection_range", 10.0)
	v.SetDefault("enemy.patrol_radius", 5.0)
	v.SetDefault("enemy.state_change_cooldown", "2s")
	v.SetDefault("enemy.attack_range", 2.0)
	v.SetDefault("enemy.attack_cooldown", "2s")
	v.SetDefault("enemy.attack_power", 15)
	v.SetDefault("enemy.damage_variance", 3)
	v.SetDefault("enemy.stopping_distance", 1.0)
	v.SetDefault("enemy.rotation_speed", 5.0)
	v.SetDefault("enemy.aggro_range", 8.0)
	v.SetDefault("enemy.deaggro_range", 15.0)
	v.SetDefault("enemy.aggro_duration", "5s")
	v.SetDefault("enemy.aggro_speed_multiplier", 1.2)
	v.SetDefault("enemy.knockback_force", 3.0)
	v.SetDefault("enemy.despawn_delay", "2s")

	v.SetDefault("item.lifetime", "30s")
	v.SetDefault("item.heal_amount", 25)
	v.SetDefault("item.weapon_chance", 0.2)
	v.SetDefault("item.rotation_speed", 50.0)
	v.SetDefault("item.bob_speed", 2.0)
	v.SetDefault("item.bob_amount", 0.3)

	v.SetDefault("physics.gravity", 9.81)
	v.SetDefault("physics.damping", 4.0)
	v.SetDefault("physics.ground_height", 0.0)
	v.SetDefault("physics.contact_radius", 1.0)
	v.SetDefault("physics.trigger_radius", 1.2)
	v.SetDefault("physics.pickup_radius", 1.5)

	v.SetDefault("database.mode", "disabled")
	v.SetDefault("database.sqlite_path", "./data/arena.db")
	v.SetDefault("database.mysql_max_open", 10)
	v.SetDefault("database.mysql_max_idle", 2)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("database.slow_query", "200ms")

	v.SetDefault("cache.local_pubsub_buf", 256)

	v.SetDefault("leaderboard.key", "arena:leaderboard")
	v.SetDefault("leaderboard.size", 10)
	v.SetDefault("leaderboard.reset_on_start", false)
}

// Load reads config from the given YAML file path and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}

// Default returns the built-in configuration without reading a file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		// Built-in defaults are always valid.
		panic(err)
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
