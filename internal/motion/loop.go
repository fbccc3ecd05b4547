package motion

import (
	"context"
	"time"
)

// Loop drives a ManualScheduler from the wall clock on a single goroutine.
// Engine components must only be touched from that goroutine; other
// goroutines hand work over with Do.
type Loop struct {
	sched *ManualScheduler
	posts chan func()
	done  chan struct{}
}

// NewLoop returns a loop ticking at the given frame period.
func NewLoop(frame time.Duration) *Loop {
	return &Loop{
		sched: NewManualScheduler(frame),
		posts: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Scheduler returns the scheduler the loop advances.
func (l *Loop) Scheduler() Scheduler { return l.sched }

// Do queues fn to run on the loop goroutine. It reports false if the loop has
// already stopped.
func (l *Loop) Do(fn func()) bool {
	select {
	case l.posts <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run advances the scheduler in real time until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.sched.FrameInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.posts:
			fn()
		case now := <-ticker.C:
			l.sched.Advance(now.Sub(last))
			last = now
		}
	}
}
