package scheduler

import "time"

// Group tracks a set of handles that share a lifetime, such as the spawn
// processes of one round or the pending callbacks of one entity.
// CancelAll invalidates every task registered through the group.
type Group struct {
	sched   *Scheduler
	handles []*Handle
}

// NewGroup creates an empty Group bound to s.
func (s *Scheduler) NewGroup() *Group {
	return &Group{sched: s}
}

// Now is a shortcut for the underlying scheduler clock.
func (g *Group) Now() time.Duration { return g.sched.Now() }

// After schedules a one-shot task owned by the group.
func (g *Group) After(delay time.Duration, fn TaskFn) *Handle {
	return g.track(g.sched.After(delay, fn))
}

// Every schedules a periodic task owned by the group.
func (g *Group) Every(interval time.Duration, fn TaskFn) *Handle {
	return g.track(g.sched.Every(interval, fn))
}

// Ticker schedules a named periodic task owned by the group, replacing
// any task of that name.
func (g *Group) Ticker(name string, interval time.Duration, fn TaskFn) *Handle {
	return g.track(g.sched.AddTicker(name, interval, fn))
}

// Delay schedules a named one-shot task owned by the group, replacing any
// pending task of that name.
func (g *Group) Delay(name string, delay time.Duration, fn TaskFn) *Handle {
	return g.track(g.sched.AddDelay(name, delay, fn))
}

// CancelAll cancels every task of the group and forgets them.
func (g *Group) CancelAll() {
	for _, h := range g.handles {
		h.Cancel()
	}
	g.handles = g.handles[:0]
}

// Active returns how many of the group's tasks may still fire.
func (g *Group) Active() int {
	n := 0
	for _, h := range g.handles {
		if h.Active() {
			n++
		}
	}
	return n
}

func (g *Group) track(h *Handle) *Handle {
	// Drop finished handles so long-lived groups do not grow unbounded.
	live := g.handles[:0]
	for _, old := range g.handles {
		if old.Active() {
			live = append(live, old)
		}
	}
	g.handles = append(live, h)
	return h
}
