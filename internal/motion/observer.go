package motion

import (
	"log/slog"
)

// Region describes an element to watch and the callbacks to raise when it
// crosses its thresholds. Nil callbacks are ignored.
type Region struct {
	Target Element
	Start  Threshold
	End    Threshold

	OnEnter     func()
	OnLeave     func()
	OnEnterBack func()
	OnLeaveBack func()
}

type regionState int

const (
	stateBefore regionState = iota
	stateActive
	stateAfter
)

// Subscription is a live registration with an Observer.
type Subscription struct {
	observer *Observer
	region   Region
	state    regionState
	live     bool
}

// Unregister stops all further callbacks. It is safe to call more than once
// and on a nil subscription.
func (s *Subscription) Unregister() {
	if s == nil || s.observer == nil {
		return
	}
	s.observer.Unregister(s)
}

// Active reports whether the region is currently between its thresholds.
func (s *Subscription) Active() bool {
	return s != nil && s.state == stateActive
}

// Observer tracks registered regions against the viewport. It is not safe
// for concurrent use; drive it from the scheduler goroutine.
type Observer struct {
	vp     Viewport
	subs   []*Subscription
	logger *slog.Logger
}

// NewObserver returns an observer for the given viewport.
func NewObserver(vp Viewport, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Observer{vp: vp, logger: logger}
}

// Viewport returns the current viewport.
func (o *Observer) Viewport() Viewport { return o.vp }

// Register starts watching r and evaluates it straight away. A region without
// a mounted target is skipped and nil is returned.
func (o *Observer) Register(r Region) *Subscription {
	if missing(r.Target) {
		o.logger.Debug("skipping region without target")
		return nil
	}
	s := &Subscription{observer: o, region: r, state: stateBefore, live: true}
	o.subs = append(o.subs, s)
	o.evaluate(s)
	return s
}

// Unregister removes s. Unknown, nil and already removed subscriptions are
// ignored.
func (o *Observer) Unregister(s *Subscription) {
	if s == nil || !s.live {
		return
	}
	s.live = false
	for i, sub := range o.subs {
		if sub == s {
			o.subs = append(o.subs[:i], o.subs[i+1:]...)
			break
		}
	}
}

// Len returns the number of live subscriptions.
func (o *Observer) Len() int { return len(o.subs) }

// Scroll moves the viewport to y (clamped at 0) and re-evaluates.
func (o *Observer) Scroll(y float64) {
	if y < 0 {
		y = 0
	}
	o.vp.ScrollY = y
	o.Refresh()
}

// Resize changes the viewport size and re-evaluates.
func (o *Observer) Resize(width, height float64) {
	o.vp.Width = width
	o.vp.Height = height
	o.Refresh()
}

// Refresh re-evaluates every region, e.g. after content changed size.
func (o *Observer) Refresh() {
	subs := make([]*Subscription, len(o.subs))
	copy(subs, o.subs)
	for _, s := range subs {
		if s.live {
			o.evaluate(s)
		}
	}
}

func (o *Observer) evaluate(s *Subscription) {
	r := s.region
	if missing(r.Target) {
		return
	}
	box := r.Target.Bounds()
	if box.Empty() {
		return
	}

	start := r.Start.scrollAt(box, o.vp.Height)
	end := r.End.scrollAt(box, o.vp.Height)
	if end < start {
		end = start
	}

	next := stateActive
	switch y := o.vp.ScrollY; {
	case y < start:
		next = stateBefore
	case y > end:
		next = stateAfter
	}

	prev := s.state
	if next == prev {
		return
	}
	s.state = next

	var cb func()
	switch {
	case next == stateActive && prev == stateBefore:
		cb = r.OnEnter
	case next == stateActive && prev == stateAfter:
		cb = r.OnEnterBack
	case next == stateAfter:
		cb = r.OnLeave
	case next == stateBefore:
		cb = r.OnLeaveBack
	}
	if cb != nil {
		cb()
	}
}
