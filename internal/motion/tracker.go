package motion

import (
	"log/slog"
	"sort"
	"time"

	"github.com/tanema/gween"
)

// Scroll-to-section defaults.
const (
	DefaultHeaderOffset   = 80
	DefaultScrollDuration = time.Second
	DefaultScrollEase     = "power3.inOut"
)

// Section is one page section registered with a Tracker.
type Section struct {
	ID      string
	Element Element
	Order   int
}

// Tracker owns the ordered page sections and the single active-section value
// the navigation reads. Sections become active when their top crosses the
// viewport center going down or their bottom crosses it going up; the last
// such event wins and leaving never clears the value.
type Tracker struct {
	observer *Observer
	sched    Scheduler
	logger   *slog.Logger

	headerOffset   float64
	scrollDuration time.Duration
	scrollEase     string

	sections []*trackedSection
	active   string

	listeners  map[int]func(id string)
	listenerID int

	scroll *scrollAnimation
	limit  func() float64
}

type trackedSection struct {
	Section
	sub *Subscription
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithHeaderOffset sets the fixed header height subtracted from scroll targets.
func WithHeaderOffset(px float64) TrackerOption {
	return func(t *Tracker) { t.headerOffset = px }
}

// WithScrollDuration sets how long scroll-to-section takes.
func WithScrollDuration(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.scrollDuration = d
		}
	}
}

// WithScrollEase sets the ease used for scroll-to-section.
func WithScrollEase(name string) TrackerOption {
	return func(t *Tracker) {
		if name != "" {
			t.scrollEase = name
		}
	}
}

// WithTrackerLogger sets the tracker's logger.
func WithTrackerLogger(l *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTracker registers the given sections, in page order, with observer. A
// nil scheduler makes ScrollToSection jump instead of animating.
func NewTracker(observer *Observer, sched Scheduler, sections []Section, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		observer:       observer,
		sched:          sched,
		logger:         slog.New(slog.DiscardHandler),
		headerOffset:   DefaultHeaderOffset,
		scrollDuration: DefaultScrollDuration,
		scrollEase:     DefaultScrollEase,
		listeners:      make(map[int]func(string)),
	}
	for _, o := range opts {
		o(t)
	}

	ordered := make([]Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	for _, s := range ordered {
		t.RegisterSection(s.ID, s.Element, s.Order)
	}
	return t
}

// SetScrollLimit caps scroll-to-section targets at limit(), the furthest the
// document can scroll. A nil limit removes the cap.
func (t *Tracker) SetScrollLimit(limit func() float64) { t.limit = limit }

// RegisterSection adds a section, replacing any earlier one with the same id.
// Sections without a mounted element are skipped.
func (t *Tracker) RegisterSection(id string, el Element, order int) {
	if missing(el) {
		t.logger.Debug("skipping section without element", "section", id)
		return
	}
	t.remove(id)

	ts := &trackedSection{Section: Section{ID: id, Element: el, Order: order}}
	i := sort.Search(len(t.sections), func(i int) bool { return t.sections[i].Order > order })
	t.sections = append(t.sections, nil)
	copy(t.sections[i+1:], t.sections[i:])
	t.sections[i] = ts

	activate := func() { t.setActive(id) }
	ts.sub = t.observer.Register(Region{
		Target:      el,
		Start:       TopCenter,
		End:         BottomCenter,
		OnEnter:     activate,
		OnEnterBack: activate,
	})
}

func (t *Tracker) remove(id string) {
	for i, s := range t.sections {
		if s.ID == id {
			s.sub.Unregister()
			t.sections = append(t.sections[:i], t.sections[i+1:]...)
			return
		}
	}
}

func (t *Tracker) setActive(id string) {
	if t.active == id {
		return
	}
	t.active = id
	t.logger.Debug("active section", "section", id)

	keys := make([]int, 0, len(t.listeners))
	for k := range t.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if fn, ok := t.listeners[k]; ok {
			fn(id)
		}
	}
}

// Active returns the active section id, or "" before any section was entered.
func (t *Tracker) Active() string { return t.active }

// Sections returns the registered section ids in page order.
func (t *Tracker) Sections() []string {
	ids := make([]string, len(t.sections))
	for i, s := range t.sections {
		ids[i] = s.ID
	}
	return ids
}

// Subscribe calls fn whenever the active section changes. The returned
// function removes the subscription and may be called more than once.
func (t *Tracker) Subscribe(fn func(id string)) (unsubscribe func()) {
	t.listenerID++
	key := t.listenerID
	t.listeners[key] = fn
	return func() { delete(t.listeners, key) }
}

// ScrollToSection moves the viewport so the section sits just below the
// fixed header. An in-flight scroll started earlier is abandoned in favour of
// this one. Unknown sections are ignored.
func (t *Tracker) ScrollToSection(id string) {
	var target *trackedSection
	for _, s := range t.sections {
		if s.ID == id {
			target = s
			break
		}
	}
	if target == nil || missing(target.Element) {
		t.logger.Debug("scroll to unknown section", "section", id)
		return
	}

	to := target.Element.Bounds().Y - t.headerOffset
	if t.limit != nil {
		to = min(to, t.limit())
	}
	if to < 0 {
		to = 0
	}

	t.cancelScroll()
	if t.sched == nil {
		t.observer.Scroll(to)
		return
	}

	from := t.observer.Viewport().ScrollY
	t.scroll = &scrollAnimation{
		tracker: t,
		tween:   gween.New(float32(from), float32(to), float32(t.scrollDuration.Seconds()), EaseFunc(t.scrollEase)),
		last:    t.sched.Now(),
	}
	t.scroll.frame = t.sched.ScheduleFrame(t.scroll.tick)
}

// Scrolling reports whether a scroll-to-section animation is in flight.
func (t *Tracker) Scrolling() bool { return t.scroll != nil }

func (t *Tracker) cancelScroll() {
	if t.scroll != nil {
		t.scroll.frame.Stop()
		t.scroll = nil
	}
}

// Close unregisters every section, stops any scroll animation and drops all
// subscribers.
func (t *Tracker) Close() {
	t.cancelScroll()
	for _, s := range t.sections {
		s.sub.Unregister()
	}
	t.sections = nil
	clear(t.listeners)
}

type scrollAnimation struct {
	tracker *Tracker
	tween   *gween.Tween
	frame   Timer
	last    time.Duration
}

func (a *scrollAnimation) tick(now time.Duration) {
	t := a.tracker
	y, done := a.tween.Update(float32((now - a.last).Seconds()))
	a.last = now

	if done {
		t.scroll = nil
	} else {
		a.frame = t.sched.ScheduleFrame(a.tick)
	}
	t.observer.Scroll(float64(y))
}
