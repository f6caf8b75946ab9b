package main

import (
	"io"
	"sync"
	"time"

	"github.com/kasuganosora/arenasurvival/game/world"
	"github.com/kasuganosora/arenasurvival/leaderboard"
	"gopkg.in/yaml.v3"
)

// roundReport is the YAML shape of one finished round.
type roundReport struct {
	RoundID        string        `yaml:"round_id"`
	Outcome        string        `yaml:"outcome"`
	Reason         string        `yaml:"reason,omitempty"`
	Score          int           `yaml:"score"`
	Elapsed        time.Duration `yaml:"elapsed"`
	TimeRemaining  time.Duration `yaml:"time_remaining"`
	PlayerHealth   int           `yaml:"player_health"`
	Kills          int           `yaml:"kills"`
	ItemsCollected int           `yaml:"items_collected"`
	ItemsExpired   int           `yaml:"items_expired"`
}

type runReport struct {
	Seed        int64               `yaml:"seed"`
	Rounds      []roundReport       `yaml:"rounds"`
	Wins        int                 `yaml:"wins"`
	Losses      int                 `yaml:"losses"`
	Leaderboard []leaderboard.Entry `yaml:"leaderboard,omitempty"`
	Audited     int                 `yaml:"audited,omitempty"` // rounds read back from the audit table
}

// collector is a world.RoundRecorder that keeps every round for the final
// report and forwards it to the next recorder.
type collector struct {
	mu     sync.Mutex
	rounds []world.RoundResult
	next   world.RoundRecorder
}

func (c *collector) RecordRound(r world.RoundResult) {
	c.mu.Lock()
	c.rounds = append(c.rounds, r)
	c.mu.Unlock()
	if c.next != nil {
		c.next.RecordRound(r)
	}
}

func (c *collector) report(seed int64, board []leaderboard.Entry) runReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	rep := runReport{Seed: seed, Leaderboard: board}
	for _, r := range c.rounds {
		rep.Rounds = append(rep.Rounds, roundReport{
			RoundID:        r.RoundID,
			Outcome:        string(r.Outcome),
			Reason:         r.Reason,
			Score:          r.Score,
			Elapsed:        r.Elapsed,
			TimeRemaining:  r.TimeRemaining,
			PlayerHealth:   r.PlayerHealth,
			Kills:          r.Kills,
			ItemsCollected: r.ItemsCollected,
			ItemsExpired:   r.ItemsExpired,
		})
		switch r.Outcome {
		case world.OutcomeWin:
			rep.Wins++
		case world.OutcomeLose:
			rep.Losses++
		}
	}
	return rep
}

func writeReport(w io.Writer, rep runReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}
