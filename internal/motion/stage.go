package motion

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// RevealOptions configure a scroll-triggered entrance.
type RevealOptions struct {
	Options

	// Start and End bound the active range; zero values mean "top 80%" and
	// "bottom 20%".
	Start, End *Threshold
	// Once drops the trigger after the first play instead of reversing when
	// the block scrolls back below the viewport.
	Once bool
}

// Stage wires an observer, a player, a section tracker and a particle
// emitter onto one scheduler and tears them all down together.
type Stage struct {
	sched    Scheduler
	logger   *slog.Logger
	Observer *Observer
	Player   *Player
	Tracker  *Tracker
	Emitter  *Emitter

	reveals []*reveal
	closed  bool
}

type stageConfig struct {
	logger  *slog.Logger
	rng     *rand.Rand
	tracker []TrackerOption
}

// StageOption configures a Stage.
type StageOption func(*stageConfig)

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) StageOption {
	return func(c *stageConfig) { c.logger = l }
}

// WithRand sets the random source for particles.
func WithRand(r *rand.Rand) StageOption {
	return func(c *stageConfig) { c.rng = r }
}

// WithTrackerOptions passes options through to the section tracker.
func WithTrackerOptions(opts ...TrackerOption) StageOption {
	return func(c *stageConfig) { c.tracker = append(c.tracker, opts...) }
}

// NewStage returns a stage with no sections and a stopped emitter.
func NewStage(s Scheduler, vp Viewport, opts ...StageOption) *Stage {
	cfg := stageConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	obs := NewObserver(vp, cfg.logger)
	trackerOpts := append([]TrackerOption{WithTrackerLogger(cfg.logger)}, cfg.tracker...)
	return &Stage{
		sched:    s,
		logger:   cfg.logger,
		Observer: obs,
		Player:   NewPlayer(s, cfg.logger),
		Tracker:  NewTracker(obs, s, nil, trackerOpts...),
		Emitter:  NewEmitter(s, obs, cfg.rng, cfg.logger),
	}
}

// Reveal animates target with effect whenever it scrolls into view, and
// reverses it when it scrolls back out below the viewport. The target is
// hidden at the effect's start style until then.
func (st *Stage) Reveal(target Animatable, effect Effect, opts RevealOptions) {
	if missing(target) {
		st.logger.Debug("skipping reveal without target", "effect", string(effect))
		return
	}
	st.bind(target, opts, effect, 0, func(o Options) []*Handle {
		return []*Handle{st.Player.Play(target, effect, o)}
	}, []Animatable{target})
}

// RevealGroup reveals targets one after another, interval apart, when trigger
// scrolls into view. Scrolling back out plays the group's timeline in mirror
// image, last target first, and every replay keeps the stagger.
func (st *Stage) RevealGroup(trigger Element, targets []Animatable, effect Effect, opts RevealOptions, interval time.Duration) {
	if missing(trigger) || len(targets) == 0 {
		st.logger.Debug("skipping reveal group without trigger", "effect", string(effect))
		return
	}
	st.bind(trigger, opts, effect, interval, func(o Options) []*Handle {
		return st.Player.PlayStaggered(targets, effect, o, interval)
	}, targets)
}

// Close releases every trigger, animation, scroll and particle the stage
// created. It is safe to call more than once.
func (st *Stage) Close() {
	if st.closed {
		return
	}
	st.closed = true
	for _, r := range st.reveals {
		r.sub.Unregister()
	}
	st.reveals = nil
	st.Tracker.Close()
	st.Player.Close()
	st.Emitter.Stop()
}

type reveal struct {
	stage    *Stage
	sub      *Subscription
	play     func(Options) []*Handle
	opts     RevealOptions
	interval time.Duration
	handles  []*Handle

	// Group timeline: position pos at scheduler time mark, moving in dir.
	pos  time.Duration
	mark time.Duration
	dir  int
}

func (st *Stage) bind(trigger Element, opts RevealOptions, effect Effect, interval time.Duration, play func(Options) []*Handle, targets []Animatable) {
	if def, ok := Lookup(effect); ok {
		for _, t := range targets {
			if !missing(t) {
				t.SetStyle(def.From)
			}
		}
	}

	start, end := Top80, Bottom20
	if opts.Start != nil {
		start = *opts.Start
	}
	if opts.End != nil {
		end = *opts.End
	}

	r := &reveal{stage: st, play: play, opts: opts, interval: interval}
	st.reveals = append(st.reveals, r)
	r.sub = st.Observer.Register(Region{
		Target:      trigger,
		Start:       start,
		End:         end,
		OnEnter:     r.enter,
		OnEnterBack: r.enterBack,
		OnLeaveBack: r.leaveBack,
	})
	// Register may already have played a block that starts in view.
	if opts.Once && r.handles != nil {
		r.sub.Unregister()
	}
}

func (r *reveal) enter() {
	if r.handles == nil {
		r.handles = r.play(r.opts.Options)
		r.pos, r.mark, r.dir = 0, r.stage.sched.Now(), 1
	} else {
		r.turn(1)
	}
	if r.opts.Once {
		r.sub.Unregister()
	}
}

func (r *reveal) enterBack() {
	if r.handles == nil {
		r.enter()
	}
}

func (r *reveal) leaveBack() {
	if r.handles != nil {
		r.turn(-1)
	}
}

// offset is when target i starts on the group timeline.
func (r *reveal) offset(i int) time.Duration {
	return r.opts.Delay + time.Duration(i)*r.interval
}

func (r *reveal) length() time.Duration {
	var end time.Duration
	for i, h := range r.handles {
		if h != nil {
			end = max(end, r.offset(i)+h.duration)
		}
	}
	return end
}

func (r *reveal) position() time.Duration {
	p := r.pos + time.Duration(r.dir)*(r.stage.sched.Now()-r.mark)
	return max(0, min(p, r.length()))
}

// turn sets the group timeline moving in dir from where it is now. Each
// target waits until the timeline reaches its own span.
func (r *reveal) turn(dir int) {
	t := r.position()
	r.pos, r.mark, r.dir = t, r.stage.sched.Now(), dir
	for i, h := range r.handles {
		if h == nil {
			continue
		}
		if dir > 0 {
			h.ForwardAfter(r.offset(i) - t)
		} else {
			h.ReverseAfter(t - r.offset(i) - h.duration)
		}
	}
}

// Played reports how many reveals have started at least once.
func (st *Stage) Played() int {
	n := 0
	for _, r := range st.reveals {
		if r.handles != nil {
			n++
		}
	}
	return n
}

// Reveals returns the number of registered reveals.
func (st *Stage) Reveals() int { return len(st.reveals) }
