// Package leaderboard keeps the best round scores in a cache sorted set.
package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/kasuganosora/arenasurvival/cache"
	"github.com/kasuganosora/arenasurvival/config"
	"go.uber.org/zap"
)

// DefaultKey is used when the configured key is empty.
const DefaultKey = "arena:leaderboard"

// Entry is one ranked round.
type Entry struct {
	Rank    int     `json:"rank" yaml:"rank"`
	RoundID string  `json:"round_id" yaml:"round_id"`
	Score   float64 `json:"score" yaml:"score"`
}

// Board is the top-N list of round scores.
type Board struct {
	c      cache.Cache
	key    string
	size   int
	logger *zap.Logger
}

func New(c cache.Cache, cfg config.LeaderboardConfig, logger *zap.Logger) *Board {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	size := cfg.Size
	if size <= 0 {
		size = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{c: c, key: key, size: size, logger: logger.Named("leaderboard")}
}

// Submit records a round score and trims the board to its size. A round
// that is resubmitted keeps its best score.
func (b *Board) Submit(ctx context.Context, roundID string, score int) error {
	if roundID == "" {
		return errors.New("leaderboard: empty round id")
	}
	prev, err := b.c.ZScore(ctx, b.key, roundID)
	switch {
	case err == nil && prev >= float64(score):
		return nil
	case err != nil && !errors.Is(err, cache.ErrNotFound):
		return fmt.Errorf("leaderboard: read %s: %w", roundID, err)
	}
	if err := b.c.ZAdd(ctx, b.key, float64(score), roundID); err != nil {
		return fmt.Errorf("leaderboard: submit %s: %w", roundID, err)
	}
	if err := b.c.ZKeepTop(ctx, b.key, int64(b.size)); err != nil {
		return fmt.Errorf("leaderboard: trim: %w", err)
	}
	b.logger.Debug("score submitted", zap.String("round_id", roundID), zap.Int("score", score))
	return nil
}

// Top returns up to n entries, best first. n <= 0 returns the whole board.
func (b *Board) Top(ctx context.Context, n int) ([]Entry, error) {
	stop := int64(n) - 1
	if n <= 0 {
		stop = -1
	}
	members, err := b.c.ZRevRangeWithScores(ctx, b.key, 0, stop)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: top: %w", err)
	}
	out := make([]Entry, len(members))
	for i, m := range members {
		out[i] = Entry{Rank: i + 1, RoundID: m.Member, Score: m.Score}
	}
	return out, nil
}

// Reset empties the board.
func (b *Board) Reset(ctx context.Context) error {
	return b.c.Del(ctx, b.key)
}
