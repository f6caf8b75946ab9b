package hud

import (
	"time"

	"go.uber.org/zap"
)

// LogSink writes HUD changes to a zap logger. Timer updates arrive every
// frame, so only whole-second changes are logged.
type LogSink struct {
	logger   *zap.Logger
	lastSecs int
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("hud"), lastSecs: -1}
}

func (s *LogSink) UpdateScore(score int) {
	s.logger.Debug("score", zap.Int("score", score))
}

func (s *LogSink) UpdateHealth(current, max int) {
	s.logger.Debug("health", zap.Int("current", current), zap.Int("max", max))
}

func (s *LogSink) UpdateTimer(remaining time.Duration) {
	secs := int(remaining.Seconds())
	if secs == s.lastSecs {
		return
	}
	s.lastSecs = secs
	s.logger.Debug("timer", zap.String("time", FormatTimer(remaining)))
}

func (s *LogSink) ShowWin(show bool) {
	if show {
		s.logger.Info("round won")
	}
}

func (s *LogSink) ShowLose(show bool, reason string) {
	if show {
		s.logger.Info("round lost", zap.String("reason", reason))
	}
}

func (s *LogSink) ShowGameUI(show bool) {
	s.logger.Debug("game ui", zap.Bool("show", show))
}
