// Package hook lets plugins observe and adjust gameplay events: damage
// rolls, spawns, deaths, item pickups and the round lifecycle.
package hook

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrInterrupt signals that a hook handler wants to stop further processing.
// For "before_*" events the caller also aborts the action being hooked.
var ErrInterrupt = errors.New("hook interrupted")

// HookFn is a hook handler function.
// Returns (modified data, nil) to continue, or (data, ErrInterrupt) to stop.
type HookFn func(ctx context.Context, event string, data any) (any, error)

type hookEntry struct {
	priority int
	fn       HookFn
	name     string
}

// HookCenter manages gameplay hook registrations. Handlers run on the
// simulation goroutine, inside a tick, so a failing handler is logged and
// skipped rather than allowed to take the tick down.
type HookCenter struct {
	mu     sync.RWMutex
	hooks  map[string][]*hookEntry
	logger *zap.Logger
}

// NewHookCenter creates a new HookCenter. logger may be nil.
func NewHookCenter(logger *zap.Logger) *HookCenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HookCenter{hooks: make(map[string][]*hookEntry), logger: logger.Named("hook")}
}

// Register adds fn for event. Lower priority runs first; equal priorities
// keep registration order. name is used for Unregister.
func (hc *HookCenter) Register(event string, priority int, name string, fn HookFn) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	entries := append(hc.hooks[event], &hookEntry{priority: priority, fn: fn, name: name})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})
	hc.hooks[event] = entries
}

// Unregister removes all hooks with the given name for the given event.
func (hc *HookCenter) Unregister(event, name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.hooks[event] = without(hc.hooks[event], name)
}

// UnregisterAll removes every hook registered under name.
func (hc *HookCenter) UnregisterAll(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	for event, entries := range hc.hooks {
		hc.hooks[event] = without(entries, name)
	}
}

// Has reports whether any handler listens to event.
func (hc *HookCenter) Has(event string) bool {
	if hc == nil {
		return false
	}
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return len(hc.hooks[event]) > 0
}

// Trigger executes all registered hooks for event in priority order.
// Data flows through each handler. Only ErrInterrupt stops the chain and is
// returned; other errors and panics are logged and the handler skipped.
// A nil center passes data through, so callers without plugins need no
// special casing.
func (hc *HookCenter) Trigger(ctx context.Context, event string, data any) (any, error) {
	if hc == nil {
		return data, nil
	}
	hc.mu.RLock()
	entries := make([]*hookEntry, len(hc.hooks[event]))
	copy(entries, hc.hooks[event])
	hc.mu.RUnlock()

	for _, e := range entries {
		out, err := hc.call(ctx, e, event, data)
		switch {
		case errors.Is(err, ErrInterrupt):
			return out, err
		case err != nil:
			hc.logger.Warn("hook failed",
				zap.String("event", event),
				zap.String("hook", e.name),
				zap.Error(err))
		default:
			data = out
		}
	}
	return data, nil
}

// Notify fires an after_* / on_* event whose result nobody consumes.
func (hc *HookCenter) Notify(ctx context.Context, event string, data any) {
	if !hc.Has(event) {
		return
	}
	_, _ = hc.Trigger(ctx, event, data)
}

// Allow fires a before_* event and reports whether the action may go on.
func (hc *HookCenter) Allow(ctx context.Context, event string, data any) bool {
	if !hc.Has(event) {
		return true
	}
	_, err := hc.Trigger(ctx, event, data)
	return !errors.Is(err, ErrInterrupt)
}

func (hc *HookCenter) call(ctx context.Context, e *hookEntry, event string, data any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = data, fmt.Errorf("hook %s panicked on %s: %v", e.name, event, r)
		}
	}()
	return e.fn(ctx, event, data)
}

func without(entries []*hookEntry, name string) []*hookEntry {
	n := 0
	for _, e := range entries {
		if e.name != name {
			entries[n] = e
			n++
		}
	}
	return entries[:n]
}
