package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kasuganosora/arenasurvival/audit"
	"github.com/kasuganosora/arenasurvival/cache"
	"github.com/kasuganosora/arenasurvival/config"
	dbadapter "github.com/kasuganosora/arenasurvival/db"
	"github.com/kasuganosora/arenasurvival/game/hud"
	"github.com/kasuganosora/arenasurvival/game/rng"
	"github.com/kasuganosora/arenasurvival/game/world"
	"github.com/kasuganosora/arenasurvival/leaderboard"
	"github.com/kasuganosora/arenasurvival/logging"
	"github.com/kasuganosora/arenasurvival/model"
	"github.com/kasuganosora/arenasurvival/plugin/hook"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, os.Stdout)
	stop()
	if err != nil {
		log.Fatalf("arena: %v", err)
	}
}

// run plays cfg.Sim.Rounds rounds and writes the YAML report to out.
// Every resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	// ---- Logger ----
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// ---- Database / Audit ----
	var (
		recorder world.RoundRecorder
		auditSvc *audit.Service
	)
	db, err := dbadapter.Open(cfg.Database, logger)
	switch {
	case errors.Is(err, dbadapter.ErrDisabled):
		logger.Info("round audit disabled")
	case err != nil:
		return fmt.Errorf("db: %w", err)
	default:
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := model.AutoMigrate(db); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
		auditSvc = audit.New(db, logger)
		defer auditSvc.Stop(context.Background())
		recorder = auditSvc
		logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))
	}

	// ---- Cache / PubSub ----
	c, pubsub, err := openCache(cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer c.Close()
	defer pubsub.Close()

	board := leaderboard.New(c, cfg.Leaderboard, logger)
	if cfg.Leaderboard.ResetOnStart {
		if err := board.Reset(ctx); err != nil {
			return fmt.Errorf("leaderboard reset: %w", err)
		}
	}

	// ---- Hooks ----
	hooks := hook.NewHookCenter(logger)
	hooks.Register(hook.OnRoundEnd, 100, "leaderboard", func(ctx context.Context, _ string, data any) (any, error) {
		p, ok := data.(*hook.RoundPayload)
		if !ok || p.Outcome == string(world.OutcomeAborted) {
			return data, nil
		}
		if err := board.Submit(ctx, p.RoundID, p.Score); err != nil {
			logger.Warn("leaderboard submit failed", zap.Error(err))
		}
		return data, nil
	})

	// ---- Arena ----
	rounds := &collector{next: recorder}
	hudSink := hud.NewPubSubSink(pubsub, hud.DefaultChannel, logger)
	defer hudSink.Close()
	arena := world.NewArena(cfg, world.Options{
		Sink:     hud.Multi{hud.NewLogSink(logger), hudSink},
		Rand:     rng.New(cfg.Sim.Seed),
		Hooks:    hooks,
		Recorder: rounds,
		Logger:   logger,
	})
	defer arena.Close()
	world.NewAutopilot(arena)

	var limiter *rate.Limiter
	if !cfg.Sim.Realtime && cfg.Sim.FrameRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Sim.FrameRate), 1)
	}

	n := cfg.Sim.Rounds
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if err := arena.Restart(); err != nil {
			logger.Error("round start failed", zap.Error(err))
			break
		}
		if err := arena.Run(ctx, cfg.Sim.Realtime, limiter); err != nil {
			logger.Warn("run interrupted", zap.Error(err))
			break
		}
	}

	rep := rounds.report(cfg.Sim.Seed, nil)
	if top, err := board.Top(context.Background(), cfg.Leaderboard.Size); err != nil {
		logger.Warn("leaderboard read failed", zap.Error(err))
	} else {
		rep.Leaderboard = top
	}
	if auditSvc != nil {
		// flush before reading back what was persisted
		auditSvc.Stop(context.Background())
		stored, err := auditSvc.Recent(context.Background(), len(rep.Rounds))
		if err != nil {
			logger.Warn("audit read failed", zap.Error(err))
		}
		rep.Audited = len(stored)
	}
	if err := writeReport(out, rep); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// openCache connects the configured Redis, falling back to the in-process
// backends when it cannot be reached.
func openCache(cfg config.CacheConfig, logger *zap.Logger) (cache.Cache, cache.PubSub, error) {
	c, err := cache.NewCache(cfg)
	if err == nil {
		var ps cache.PubSub
		if ps, err = cache.NewPubSub(cfg); err == nil {
			logger.Info("Cache initialized", zap.Bool("redis", cfg.RedisAddr != ""))
			return c, ps, nil
		}
		_ = c.Close()
	}
	if cfg.RedisAddr == "" {
		return nil, nil, fmt.Errorf("cache: %w", err)
	}
	logger.Warn("redis unavailable, using in-process cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	cfg.RedisAddr = ""
	return openCache(cfg, logger)
}

// loadConfig reads the YAML config, falling back to the built-in defaults
// when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}
