// Package db opens the GORM database the round audit is written to.
package db

import (
	"errors"
	"fmt"

	"github.com/kasuganosora/arenasurvival/config"
	dbmysql "github.com/kasuganosora/arenasurvival/db/mysql"
	dbsqlite "github.com/kasuganosora/arenasurvival/db/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ModeDisabled = "disabled"
	ModeMemory   = "memory"
	ModeSQLite   = "sqlite"
	ModeMySQL    = "mysql"
)

// ErrDisabled is returned by Open when persistence is switched off.
var ErrDisabled = errors.New("db: disabled")

// Open returns a *gorm.DB for the configured database mode. GORM's own
// logging goes to logger, which may be nil.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	gl := NewGormLogger(logger, cfg.SlowQuery)
	switch cfg.Mode {
	case ModeDisabled, "":
		return nil, ErrDisabled
	case ModeMemory:
		return dbsqlite.Open(dbsqlite.Memory, gl)
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath, gl)
	case ModeMySQL:
		return dbmysql.Open(cfg, gl)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
