package model_test

import (
	"testing"

	"github.com/kasuganosora/arenasurvival/model"
	"github.com/kasuganosora/arenasurvival/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	rec := &model.RoundRecord{
		RoundID:   "3f0c2a4e-0000-4000-8000-000000000001",
		Outcome:   "win",
		Score:     105,
		ElapsedMs: 41250,
		Kills:     9,
		Stats:     datatypes.JSON(`{"enemies_spawned":6}`),
	}
	require.NoError(t, db.Create(rec).Error)
	assert.Greater(t, rec.ID, int64(0))
	assert.False(t, rec.CreatedAt.IsZero())

	var found model.RoundRecord
	require.NoError(t, db.Where("round_id = ?", rec.RoundID).First(&found).Error)
	assert.Equal(t, "win", found.Outcome)
	assert.Equal(t, 105, found.Score)
	assert.JSONEq(t, `{"enemies_spawned":6}`, string(found.Stats))
}

func TestAutoMigrate_RoundIDUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	require.NoError(t, db.Create(&model.RoundRecord{RoundID: "dup", Outcome: "lose"}).Error)
	assert.Error(t, db.Create(&model.RoundRecord{RoundID: "dup", Outcome: "win"}).Error)
}
