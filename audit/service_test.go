package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kasuganosora/arenasurvival/game/world"
	"github.com/kasuganosora/arenasurvival/model"
	"github.com/kasuganosora/arenasurvival/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nop() *zap.Logger { l, _ := zap.NewDevelopment(); return l }

func round(id string, outcome world.Outcome, score int) world.RoundResult {
	return world.RoundResult{
		RoundID:        id,
		Outcome:        outcome,
		Score:          score,
		TargetScore:    100,
		Elapsed:        42 * time.Second,
		TimeRemaining:  18*time.Second + 500*time.Millisecond,
		PlayerHealth:   55,
		Kills:          8,
		ItemsCollected: 3,
		ItemsExpired:   1,
		EnemiesSpawned: 9,
		ItemsSpawned:   21,
		Seed:           7,
	}
}

func TestNew_StartsWorker(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, nop())
	require.NotNil(t, svc)
	svc.Stop(context.Background())
}

func TestRecordRound_EnqueuedAndFlushed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, nop())

	svc.RecordRound(round("round-1", world.OutcomeWin, 105))
	svc.Stop(context.Background())

	var rows []model.RoundRecord
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "round-1", r.RoundID)
	assert.Equal(t, "win", r.Outcome)
	assert.Equal(t, 105, r.Score)
	assert.Equal(t, int64(42000), r.ElapsedMs)
	assert.Equal(t, int64(18500), r.TimeRemainingMs)
	assert.Equal(t, 8, r.Kills)
	assert.Equal(t, int64(7), r.Seed)
	assert.JSONEq(t, `{"enemies_spawned":9,"items_spawned":21}`, string(r.Stats))
}

func TestRecordRound_BatchFlush(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, nop())

	for i := 0; i < batchSize+5; i++ {
		svc.RecordRound(round(fmt.Sprintf("round-%d", i), world.OutcomeLose, i))
	}
	svc.Stop(context.Background())

	var count int64
	db.Model(&model.RoundRecord{}).Count(&count)
	assert.Equal(t, int64(batchSize+5), count)
}

func TestRecent_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, nop())
	for i := 0; i < 5; i++ {
		svc.RecordRound(round(fmt.Sprintf("round-%d", i), world.OutcomeLose, i*10))
	}
	svc.Stop(context.Background())

	recent, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "round-4", recent[0].RoundID)
	assert.Equal(t, "round-3", recent[1].RoundID)
}

func TestStop_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, nop())
	svc.Stop(context.Background())
	svc.Stop(context.Background()) // must not panic
}

func TestRecordRound_DuplicateRoundLogged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, nop())

	// The unique round id fails the whole batch; the worker logs and carries on.
	svc.RecordRound(round("same", world.OutcomeWin, 100))
	svc.RecordRound(round("same", world.OutcomeWin, 100))
	svc.Stop(context.Background())

	var count int64
	db.Model(&model.RoundRecord{}).Count(&count)
	assert.LessOrEqual(t, count, int64(1))
}

func TestRecordRound_DropsWhenFull(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, nop())
	for i := 0; i < queueSize+10; i++ {
		svc.RecordRound(round(fmt.Sprintf("flood-%d", i), world.OutcomeLose, 0))
	}
	svc.Stop(context.Background())
}
