// Package audit persists finished rounds asynchronously in batches.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kasuganosora/arenasurvival/game/world"
	"github.com/kasuganosora/arenasurvival/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	queueSize     = 1024
	batchSize     = 100
	flushInterval = 2 * time.Second
)

// roundStats is the free-form part of a record.
type roundStats struct {
	EnemiesSpawned int `json:"enemies_spawned"`
	ItemsSpawned   int `json:"items_spawned"`
}

// Service writes round records on a background worker.
type Service struct {
	db     *gorm.DB
	ch     chan *model.RoundRecord
	stopCh chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a new audit Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Service{
		db:     db,
		ch:     make(chan *model.RoundRecord, queueSize),
		stopCh: make(chan struct{}),
		logger: logger.Named("audit"),
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// RecordRound enqueues a finished round for async DB write. It never
// blocks the simulation: a full queue drops the record.
func (svc *Service) RecordRound(r world.RoundResult) {
	stats, _ := json.Marshal(roundStats{
		EnemiesSpawned: r.EnemiesSpawned,
		ItemsSpawned:   r.ItemsSpawned,
	})
	record := &model.RoundRecord{
		RoundID:         r.RoundID,
		Outcome:         string(r.Outcome),
		Reason:          r.Reason,
		Score:           r.Score,
		TargetScore:     r.TargetScore,
		ElapsedMs:       r.Elapsed.Milliseconds(),
		TimeRemainingMs: r.TimeRemaining.Milliseconds(),
		PlayerHealth:    r.PlayerHealth,
		Kills:           r.Kills,
		ItemsCollected:  r.ItemsCollected,
		ItemsExpired:    r.ItemsExpired,
		Seed:            r.Seed,
		Stats:           datatypes.JSON(stats),
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("audit channel full, dropping round",
			zap.String("round_id", r.RoundID))
	}
}

// Recent returns the latest rounds, newest first.
func (svc *Service) Recent(ctx context.Context, limit int) ([]model.RoundRecord, error) {
	var out []model.RoundRecord
	err := svc.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// Stop flushes remaining records and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*model.RoundRecord, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("audit batch write failed", zap.Error(err), zap.Int("rounds", len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case record := <-svc.ch:
			batch = append(batch, record)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case record := <-svc.ch:
					batch = append(batch, record)
				default:
					flush()
					return
				}
			}
		}
	}
}
