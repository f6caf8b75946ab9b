package scheduler

import (
	"container/heap"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"
)

// TaskFn is the function signature for scheduled tasks.
type TaskFn func()

// Scheduler runs delayed and periodic tasks against a simulation clock.
// Time only moves when Advance is called, so every callback runs on the
// caller's goroutine in deterministic order (due time, then registration).
type Scheduler struct {
	now    time.Duration
	seq    uint64
	queue  taskQueue
	named  map[string]*Handle
	logger *zap.Logger
}

// Handle identifies a scheduled task and allows cancelling it.
type Handle struct {
	name     string
	due      time.Duration
	interval time.Duration // 0 = one-shot
	seq      uint64
	fn       TaskFn
	index    int
	done     bool
	sched    *Scheduler
}

// New creates a Scheduler whose clock starts at zero.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		named:  make(map[string]*Handle),
		logger: logger,
	}
}

// Now returns the monotonic simulation time elapsed since creation.
func (s *Scheduler) Now() time.Duration { return s.now }

// After runs fn once, delay after the current simulation time.
func (s *Scheduler) After(delay time.Duration, fn TaskFn) *Handle {
	if delay < 0 {
		delay = 0
	}
	return s.push("", s.now+delay, 0, fn)
}

// Every runs fn every interval, first firing one interval from now.
// A non-positive interval would never let Advance return, so such tasks
// are rejected with an already-cancelled handle.
func (s *Scheduler) Every(interval time.Duration, fn TaskFn) *Handle {
	if interval <= 0 {
		s.logger.Warn("scheduler rejected non-positive interval", zap.Duration("interval", interval))
		return &Handle{done: true, index: -1}
	}
	return s.push("", s.now+interval, interval, fn)
}

// AddTicker registers a named periodic task. A task with the same name is
// replaced.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) *Handle {
	s.Remove(name)
	h := s.Every(interval, fn)
	if !h.done {
		h.name = name
		s.named[name] = h
		s.logger.Debug("scheduler task registered", zap.String("name", name), zap.Duration("interval", interval))
	}
	return h
}

// AddDelay registers a named one-shot task, replacing any pending task of
// the same name.
func (s *Scheduler) AddDelay(name string, delay time.Duration, fn TaskFn) *Handle {
	s.Remove(name)
	h := s.After(delay, fn)
	h.name = name
	s.named[name] = h
	return h
}

// Remove cancels a named task. Unknown names are ignored.
func (s *Scheduler) Remove(name string) {
	if h, ok := s.named[name]; ok {
		h.Cancel()
	}
}

// ListTickers returns the sorted names of all pending named tasks.
func (s *Scheduler) ListTickers() []string {
	return slices.Sorted(maps.Keys(s.named))
}

// Pending returns the number of tasks waiting to fire.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// Advance moves the clock forward by dt and fires every task due at or
// before the new time. Periodic tasks that fell behind fire once per
// elapsed interval.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	for s.queue.Len() > 0 {
		h := s.queue[0]
		if h.due > target {
			break
		}
		// Callbacks observe the time they were due at.
		if h.due > s.now {
			s.now = h.due
		}
		if h.interval > 0 {
			h.due += h.interval
			heap.Fix(&s.queue, h.index)
		} else {
			heap.Pop(&s.queue)
			h.done = true
			s.forget(h)
		}
		s.run(h)
	}
	s.now = target
}

// Stop cancels every pending task.
func (s *Scheduler) Stop() {
	for s.queue.Len() > 0 {
		h := heap.Pop(&s.queue).(*Handle)
		h.done = true
	}
	s.named = make(map[string]*Handle)
}

func (s *Scheduler) push(name string, due, interval time.Duration, fn TaskFn) *Handle {
	s.seq++
	h := &Handle{
		name:     name,
		due:      due,
		interval: interval,
		seq:      s.seq,
		fn:       fn,
		sched:    s,
	}
	heap.Push(&s.queue, h)
	return h
}

func (s *Scheduler) run(h *Handle) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler task panicked",
				zap.String("task", h.name),
				zap.Any("recover", r))
		}
	}()
	h.fn()
}

func (s *Scheduler) forget(h *Handle) {
	if h.name != "" && s.named[h.name] == h {
		delete(s.named, h.name)
	}
}

// Cancel prevents any further firing. Safe to call more than once and
// from inside the task itself.
func (h *Handle) Cancel() {
	if h == nil || h.done {
		return
	}
	h.done = true
	if h.sched == nil {
		return
	}
	if h.index >= 0 && h.index < h.sched.queue.Len() && h.sched.queue[h.index] == h {
		heap.Remove(&h.sched.queue, h.index)
	}
	h.sched.forget(h)
}

// Active reports whether the task may still fire.
func (h *Handle) Active() bool { return h != nil && !h.done }

// taskQueue is a min-heap ordered by due time, then registration order.
type taskQueue []*Handle

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	h := x.(*Handle)
	h.index = len(*q)
	*q = append(*q, h)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	h := old[n-1]
	old[n-1] = nil
	h.index = -1
	*q = old[:n-1]
	return h
}
