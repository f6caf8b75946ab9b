// Package hud defines the UI sink the gameplay core reports to. Rendering
// lives outside the core; implementations here forward updates to logs or
// to a pub/sub channel a renderer subscribes to.
package hud

import (
	"fmt"
	"math"
	"time"
)

// Sink receives UI updates.
type Sink interface {
	UpdateScore(score int)
	UpdateHealth(current, max int)
	UpdateTimer(remaining time.Duration)
	ShowWin(show bool)
	ShowLose(show bool, reason string)
	ShowGameUI(show bool)
}

// Nop discards every update. Used when no UI is bound.
type Nop struct{}

func (Nop) UpdateScore(int)           {}
func (Nop) UpdateHealth(int, int)     {}
func (Nop) UpdateTimer(time.Duration) {}
func (Nop) ShowWin(bool)              {}
func (Nop) ShowLose(bool, string)     {}
func (Nop) ShowGameUI(bool)           {}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

// Multi fans every update out to several sinks.
type Multi []Sink

func (m Multi) UpdateScore(score int) {
	for _, s := range m {
		s.UpdateScore(score)
	}
}

func (m Multi) UpdateHealth(current, max int) {
	for _, s := range m {
		s.UpdateHealth(current, max)
	}
}

func (m Multi) UpdateTimer(remaining time.Duration) {
	for _, s := range m {
		s.UpdateTimer(remaining)
	}
}

func (m Multi) ShowWin(show bool) {
	for _, s := range m {
		s.ShowWin(show)
	}
}

func (m Multi) ShowLose(show bool, reason string) {
	for _, s := range m {
		s.ShowLose(show, reason)
	}
}

func (m Multi) ShowGameUI(show bool) {
	for _, s := range m {
		s.ShowGameUI(show)
	}
}

// FormatTimer renders remaining time as mm:ss, flooring partial seconds.
func FormatTimer(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := int(math.Floor(remaining.Seconds()))
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
