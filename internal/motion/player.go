package motion

import (
	"log/slog"
	"time"

	"github.com/tanema/gween"
)

// Options tune a single animation. Zero values take the effect's defaults.
type Options struct {
	Duration time.Duration
	Delay    time.Duration
	Ease     string

	// OnComplete runs when the playhead reaches the end going forward.
	OnComplete func()
	// OnReverseComplete runs when the playhead returns to the start.
	OnReverseComplete func()
}

// Player runs style animations on a scheduler. Every handle it creates is
// tracked until it finishes or is cancelled, so Close can release them all.
type Player struct {
	sched  Scheduler
	logger *slog.Logger
	live   map[*Handle]struct{}
}

// NewPlayer returns a player driven by s.
func NewPlayer(s Scheduler, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{sched: s, logger: logger, live: make(map[*Handle]struct{})}
}

// Play animates target through effect. Unknown effects play as Fade. A nil or
// unmounted target is skipped and a nil handle is returned; every Handle
// method is safe on nil.
func (p *Player) Play(target Animatable, effect Effect, opts Options) *Handle {
	def, ok := Lookup(effect)
	if !ok {
		p.logger.Debug("unknown effect, using fade", "effect", string(effect))
		def, _ = Lookup(Fade)
	}
	if opts.Duration <= 0 {
		opts.Duration = def.Duration
	}
	if opts.Ease == "" {
		opts.Ease = def.Ease
	}
	return p.Tween(target, def.From, def.To, opts)
}

// PlayStaggered plays effect on every target in order, each starting
// interval after the previous one.
func (p *Player) PlayStaggered(targets []Animatable, effect Effect, opts Options, interval time.Duration) []*Handle {
	handles := make([]*Handle, len(targets))
	base := opts.Delay
	for i, t := range targets {
		o := opts
		o.Delay = base + time.Duration(i)*interval
		handles[i] = p.Play(t, effect, o)
	}
	return handles
}

// Tween animates target from one style snapshot to another. The target is
// put at from immediately, before any delay.
func (p *Player) Tween(target Animatable, from, to Style, opts Options) *Handle {
	if missing(target) {
		p.logger.Debug("skipping animation without target")
		return nil
	}
	if opts.Duration <= 0 {
		opts.Duration = defaultEffectDuration
	}

	fn := EaseFunc(opts.Ease)
	secs := float32(opts.Duration.Seconds())
	h := &Handle{
		player:   p,
		target:   target,
		opts:     opts,
		duration: opts.Duration,
		dir:      1,
	}
	h.tweens = [4]*gween.Tween{
		gween.New(float32(from.Opacity), float32(to.Opacity), secs, fn),
		gween.New(float32(from.X), float32(to.X), secs, fn),
		gween.New(float32(from.Y), float32(to.Y), secs, fn),
		gween.New(float32(from.Scale), float32(to.Scale), secs, fn),
	}

	target.SetStyle(from)
	p.live[h] = struct{}{}

	if opts.Delay > 0 {
		h.state = handlePending
		h.delay = p.sched.SetTimeout(opts.Delay, h.begin)
	} else {
		h.begin()
	}
	return h
}

// Live returns the number of animations that are waiting or running.
func (p *Player) Live() int { return len(p.live) }

// Close cancels every live animation.
func (p *Player) Close() {
	for h := range p.live {
		h.Cancel()
	}
}

type handleState int

const (
	handlePending handleState = iota
	handleRunning
	handleStopped
	handleFinished
)

// Handle controls one running animation.
type Handle struct {
	player *Player
	target Animatable
	opts   Options
	tweens [4]*gween.Tween

	duration time.Duration
	elapsed  time.Duration
	dir      int
	state    handleState

	delay Timer
	frame Timer
	last  time.Duration

	startedAt  time.Duration
	finishedAt time.Duration
}

func (h *Handle) begin() {
	h.delay = nil
	h.startedAt = h.player.sched.Now()
	h.run()
}

func (h *Handle) run() {
	h.state = handleRunning
	h.last = h.player.sched.Now()
	h.player.live[h] = struct{}{}
	h.frame = h.player.sched.ScheduleFrame(h.tick)
}

func (h *Handle) tick(now time.Duration) {
	h.frame = nil
	if missing(h.target) {
		h.halt(handleStopped)
		return
	}

	h.elapsed += time.Duration(h.dir) * (now - h.last)
	h.last = now

	done := false
	if h.dir > 0 && h.elapsed >= h.duration {
		h.elapsed = h.duration
		done = true
	} else if h.dir < 0 && h.elapsed <= 0 {
		h.elapsed = 0
		done = true
	}
	h.apply()

	if done {
		h.finish()
		return
	}
	h.frame = h.player.sched.ScheduleFrame(h.tick)
}

func (h *Handle) apply() {
	t := float32(h.elapsed.Seconds())
	var v [4]float64
	for i, tw := range h.tweens {
		cur, _ := tw.Set(t)
		v[i] = float64(cur)
	}
	h.target.SetStyle(Style{Opacity: v[0], X: v[1], Y: v[2], Scale: v[3]})
}

func (h *Handle) finish() {
	h.halt(handleFinished)
	h.finishedAt = h.player.sched.Now()
	if h.dir > 0 {
		if h.opts.OnComplete != nil {
			h.opts.OnComplete()
		}
	} else if h.opts.OnReverseComplete != nil {
		h.opts.OnReverseComplete()
	}
}

func (h *Handle) halt(state handleState) {
	if h.delay != nil {
		h.delay.Stop()
		h.delay = nil
	}
	if h.frame != nil {
		h.frame.Stop()
		h.frame = nil
	}
	h.state = state
	delete(h.player.live, h)
}

// Cancel stops the animation where it is. The target keeps its current
// interpolated style. Cancelling twice, or after completion, does nothing.
func (h *Handle) Cancel() {
	if h == nil || h.state == handleStopped || h.state == handleFinished {
		return
	}
	h.halt(handleStopped)
}

// Reverse runs the playhead back towards the start from wherever it is, so a
// completed animation replays as its mirror image.
func (h *Handle) Reverse() {
	if h == nil {
		return
	}
	h.resume(-1)
}

// Forward runs the playhead towards the end again, e.g. after Reverse.
func (h *Handle) Forward() {
	if h == nil {
		return
	}
	h.resume(1)
}

// ForwardAfter holds the playhead where it is for d, then runs it forwards.
// Any wait from an earlier call is replaced.
func (h *Handle) ForwardAfter(d time.Duration) { h.resumeAfter(1, d) }

// ReverseAfter holds the playhead where it is for d, then runs it backwards.
func (h *Handle) ReverseAfter(d time.Duration) { h.resumeAfter(-1, d) }

func (h *Handle) resumeAfter(dir int, d time.Duration) {
	if h == nil {
		return
	}
	if h.delay != nil {
		h.delay.Stop()
		h.delay = nil
	}
	if h.frame != nil {
		h.frame.Stop()
		h.frame = nil
	}
	if h.state == handlePending || h.state == handleRunning {
		h.state = handleStopped
		delete(h.player.live, h)
	}
	if d <= 0 {
		h.restart(dir)
		return
	}
	h.dir = dir
	h.state = handlePending
	h.player.live[h] = struct{}{}
	h.delay = h.player.sched.SetTimeout(d, func() {
		h.delay = nil
		h.state = handleStopped
		delete(h.player.live, h)
		h.restart(dir)
	})
}

func (h *Handle) restart(dir int) {
	if dir > 0 && h.elapsed == 0 {
		h.startedAt = h.player.sched.Now()
	}
	h.resume(dir)
}

func (h *Handle) resume(dir int) {
	h.dir = dir
	switch h.state {
	case handlePending:
		if dir < 0 {
			// Nothing has moved yet; the target is still at the start.
			h.finish()
		}
	case handleRunning:
		// The next frame picks up the new direction.
	case handleStopped, handleFinished:
		if (dir > 0 && h.elapsed >= h.duration) || (dir < 0 && h.elapsed <= 0) {
			h.state = handleFinished
			return
		}
		h.run()
	}
}

// Progress returns how far the playhead is through the animation, 0 to 1.
func (h *Handle) Progress() float64 {
	if h == nil || h.duration <= 0 {
		return 0
	}
	return float64(h.elapsed) / float64(h.duration)
}

// Running reports whether the animation is waiting on its delay or moving.
func (h *Handle) Running() bool {
	return h != nil && (h.state == handlePending || h.state == handleRunning)
}

// Finished reports whether the playhead reached an end on its own.
func (h *Handle) Finished() bool { return h != nil && h.state == handleFinished }

// Reversed reports whether the playhead is moving, or last moved, backwards.
func (h *Handle) Reversed() bool { return h != nil && h.dir < 0 }

// StartedAt returns the scheduler time at which the delay elapsed.
func (h *Handle) StartedAt() time.Duration {
	if h == nil {
		return 0
	}
	return h.startedAt
}

// FinishedAt returns the scheduler time of the last completion.
func (h *Handle) FinishedAt() time.Duration {
	if h == nil {
		return 0
	}
	return h.finishedAt
}
