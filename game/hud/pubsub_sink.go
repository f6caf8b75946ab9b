package hud

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kasuganosora/arenasurvival/cache"
	"go.uber.org/zap"
)

// DefaultChannel is where PubSubSink publishes HUD events.
const DefaultChannel = "arena:hud"

// Event is the JSON payload published for each HUD update.
type Event struct {
	Type    string `json:"type"`
	Score   int    `json:"score,omitempty"`
	Current int    `json:"current,omitempty"`
	Max     int    `json:"max,omitempty"`
	Timer   string `json:"timer,omitempty"`
	Show    bool   `json:"show,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

const (
	sinkQueueSize  = 256
	publishTimeout = time.Second
)

// PubSubSink forwards HUD updates to a pub/sub channel so an out-of-process
// renderer can draw them. Events are marshalled on the simulation goroutine
// and published by a background worker; a full queue drops the event.
type PubSubSink struct {
	ps        cache.PubSub
	channel   string
	logger    *zap.Logger
	lastTimer string

	queue   chan string
	stopCh  chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Int64
}

// NewPubSubSink starts the publishing worker. Call Close to stop it.
func NewPubSubSink(ps cache.PubSub, channel string, logger *zap.Logger) *PubSubSink {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PubSubSink{
		ps:      ps,
		channel: channel,
		logger:  logger.Named("hud"),
		queue:   make(chan string, sinkQueueSize),
		stopCh:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

func (s *PubSubSink) UpdateScore(score int) {
	s.publish(Event{Type: "score", Score: score})
}

func (s *PubSubSink) UpdateHealth(current, max int) {
	s.publish(Event{Type: "health", Current: current, Max: max})
}

// UpdateTimer only publishes when the rendered mm:ss text changes.
func (s *PubSubSink) UpdateTimer(remaining time.Duration) {
	text := FormatTimer(remaining)
	if text == s.lastTimer {
		return
	}
	s.lastTimer = text
	s.publish(Event{Type: "timer", Timer: text})
}

func (s *PubSubSink) ShowWin(show bool) {
	s.publish(Event{Type: "win", Show: show})
}

func (s *PubSubSink) ShowLose(show bool, reason string) {
	s.publish(Event{Type: "lose", Show: show, Reason: reason})
}

func (s *PubSubSink) ShowGameUI(show bool) {
	s.publish(Event{Type: "game_ui", Show: show})
}

// Dropped is the number of events discarded because the queue was full.
func (s *PubSubSink) Dropped() int64 { return s.dropped.Load() }

// Close publishes what is still queued and stops the worker. Events sent
// after Close are dropped.
func (s *PubSubSink) Close() {
	s.once.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	if n := s.dropped.Load(); n > 0 {
		s.logger.Warn("hud events dropped", zap.Int64("count", n))
	}
}

func (s *PubSubSink) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("hud marshal failed", zap.Error(err))
		return
	}
	select {
	case <-s.stopCh:
		s.dropped.Add(1)
		return
	default:
	}
	select {
	case s.queue <- string(data):
	default:
		s.dropped.Add(1)
	}
}

func (s *PubSubSink) worker() {
	defer s.wg.Done()
	for {
		select {
		case msg := <-s.queue:
			s.send(msg)
		case <-s.stopCh:
			for {
				select {
				case msg := <-s.queue:
					s.send(msg)
				default:
					return
				}
			}
		}
	}
}

func (s *PubSubSink) send(msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.ps.Publish(ctx, s.channel, msg); err != nil {
		s.logger.Warn("hud publish failed", zap.Error(err))
	}
}
