// Package mysql opens the pooled MySQL backend used for shared round
// history.
package mysql

import (
	"fmt"

	"github.com/kasuganosora/arenasurvival/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with cfg.MySQLDSN and applies the pool limits.
func Open(cfg config.DatabaseConfig, log logger.Interface) (*gorm.DB, error) {
	if cfg.MySQLDSN == "" {
		return nil, fmt.Errorf("mysql: empty dsn")
	}
	gdb, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.MySQLDSN,
		DefaultStringSize: 191,
	}), &gorm.Config{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}

	pool, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MySQLMaxOpen > 0 {
		pool.SetMaxOpenConns(cfg.MySQLMaxOpen)
	}
	if cfg.MySQLMaxIdle > 0 {
		pool.SetMaxIdleConns(cfg.MySQLMaxIdle)
	}
	if cfg.MySQLMaxLife > 0 {
		pool.SetConnMaxLifetime(cfg.MySQLMaxLife)
	}
	return gdb, nil
}
