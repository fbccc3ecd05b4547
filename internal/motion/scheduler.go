package motion

import (
	"container/heap"
	"time"
)

// DefaultFrameInterval is the frame period used when none is given (60fps).
const DefaultFrameInterval = time.Second / 60

// Timer is a pending callback registered with a Scheduler. Stop is idempotent
// and safe to call after the callback has already fired.
type Timer interface {
	Stop()
}

// Scheduler is the clock every engine component runs on. All callbacks are
// invoked on the scheduler's goroutine, one at a time.
type Scheduler interface {
	// Now returns the time elapsed since the scheduler started.
	Now() time.Duration
	// ScheduleFrame runs fn once on the next frame boundary.
	ScheduleFrame(fn func(now time.Duration)) Timer
	// SetTimeout runs fn once after d.
	SetTimeout(d time.Duration, fn func()) Timer
	// SetInterval runs fn every d until stopped.
	SetInterval(d time.Duration, fn func()) Timer
}

// ManualScheduler is a deterministic Scheduler whose clock only moves when
// Advance is called. It is used by tests and by the headless simulator, and
// is the core of Loop.
type ManualScheduler struct {
	now   time.Duration
	frame time.Duration
	seq   uint64
	queue timerQueue
}

// NewManualScheduler returns a scheduler at t=0 that fires frames every
// frame period. A non-positive period selects DefaultFrameInterval.
func NewManualScheduler(frame time.Duration) *ManualScheduler {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	return &ManualScheduler{frame: frame}
}

func (s *ManualScheduler) Now() time.Duration { return s.now }

// FrameInterval returns the frame period.
func (s *ManualScheduler) FrameInterval() time.Duration { return s.frame }

// Pending returns the number of timers that have not fired or been stopped.
// Intervals count once.
func (s *ManualScheduler) Pending() int { return len(s.queue) }

func (s *ManualScheduler) ScheduleFrame(fn func(now time.Duration)) Timer {
	next := (s.now/s.frame + 1) * s.frame
	t := &timer{at: next, frameFn: fn}
	s.push(t)
	return t
}

func (s *ManualScheduler) SetTimeout(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	t := &timer{at: s.now + d, fn: fn}
	s.push(t)
	return t
}

func (s *ManualScheduler) SetInterval(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = s.frame
	}
	t := &timer{at: s.now + d, every: d, fn: fn}
	s.push(t)
	return t
}

// Advance moves the clock forward by d, firing every timer that falls due on
// the way in due-time order. Timers scheduled by callbacks during Advance fire
// in the same call if they fall due before the new time.
func (s *ManualScheduler) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := s.now + d
	for len(s.queue) > 0 && s.queue[0].at <= target {
		t := heap.Pop(&s.queue).(*timer)
		s.now = t.at
		if t.every > 0 {
			t.at += t.every
			s.push(t)
		} else {
			t.owner = nil
		}
		if t.frameFn != nil {
			t.frameFn(s.now)
		} else {
			t.fn()
		}
	}
	s.now = target
}

func (s *ManualScheduler) push(t *timer) {
	s.seq++
	t.seq = s.seq
	t.owner = s
	heap.Push(&s.queue, t)
}

type timer struct {
	at      time.Duration
	every   time.Duration
	seq     uint64
	index   int
	fn      func()
	frameFn func(time.Duration)
	owner   *ManualScheduler
}

func (t *timer) Stop() {
	if t == nil || t.owner == nil {
		return
	}
	s := t.owner
	t.owner = nil
	if t.index >= 0 && t.index < len(s.queue) && s.queue[t.index] == t {
		heap.Remove(&s.queue, t.index)
	}
}

// timerQueue is a min-heap ordered by due time, then scheduling order.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
