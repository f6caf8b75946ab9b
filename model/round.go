package model

import (
	"time"

	"gorm.io/datatypes"
)

// RoundRecord is the audit row of one finished arena round.
type RoundRecord struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RoundID         string         `gorm:"uniqueIndex:idx_round_id;size:36;not null" json:"round_id"`
	Outcome         string         `gorm:"index:idx_round_outcome;size:16;not null" json:"outcome"`
	Reason          string         `gorm:"size:64" json:"reason"`
	Score           int            `gorm:"index:idx_round_score" json:"score"`
	TargetScore     int            `json:"target_score"`
	ElapsedMs       int64          `json:"elapsed_ms"`
	TimeRemainingMs int64          `json:"time_remaining_ms"`
	PlayerHealth    int            `json:"player_health"`
	Kills           int            `json:"kills"`
	ItemsCollected  int            `json:"items_collected"`
	ItemsExpired    int            `json:"items_expired"`
	Seed            int64          `json:"seed"`
	Stats           datatypes.JSON `json:"stats"`
	CreatedAt       time.Time      `gorm:"index:idx_round_created;autoCreateTime:milli" json:"created_at"`
}
