package db

import (
	"context"
	"testing"

	"github.com/kasuganosora/arenasurvival/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpen_Disabled(t *testing.T) {
	for _, mode := range []string{"", ModeDisabled} {
		db, err := Open(config.DatabaseConfig{Mode: mode}, nil)
		assert.ErrorIs(t, err, ErrDisabled)
		assert.Nil(t, db)
	}
}

func TestOpen_UnknownMode(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Mode: "oracle"}, nil)
	assert.ErrorContains(t, err, "oracle")
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Mode: ModeMemory}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE t (v INTEGER)").Error)
	require.NoError(t, db.Exec("INSERT INTO t (v) VALUES (1)").Error)

	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM t").Scan(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := t.TempDir() + "/arena.db"
	db, err := Open(config.DatabaseConfig{Mode: ModeSQLite, SQLitePath: path}, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	assert.NoError(t, sqlDB.Close())
}

func TestOpen_MySQLEmptyDSN(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Mode: ModeMySQL}, nil)
	assert.ErrorContains(t, err, "empty dsn")
}

func TestGormLogger_FailedQueryLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Open(config.DatabaseConfig{Mode: ModeMemory}, zap.New(core))
	require.NoError(t, err)

	assert.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	failed := logs.FilterMessage("query failed").All()
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].ContextMap()["sql"], "missing_table")
}

func TestGormLogger_SilentMode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 0).LogMode(gormlogger.Silent)
	l.Error(context.Background(), "boom %d", 1)
	assert.Zero(t, logs.Len())

	NewGormLogger(zap.New(core), 0).Warn(context.Background(), "careful %s", "now")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "careful now", logs.All()[0].Message)
}
