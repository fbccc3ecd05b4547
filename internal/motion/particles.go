package motion

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// Range is an inclusive interval sampled uniformly.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Random returns a value in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// ParticleConfig controls the ambient background particles.
type ParticleConfig struct {
	// Count is the size of the initial burst.
	Count int
	// Interval is the time between spawns after the burst.
	Interval time.Duration
	// Stagger separates the burst spawns so they do not pop in together.
	Stagger time.Duration
	// Colors is the palette particles pick from.
	Colors []string
	// Size is the diameter range in pixels.
	Size Range
	// Lifetime is the range of animation durations in seconds.
	Lifetime Range
	// Rise is how far up a particle drifts, in pixels.
	Rise Range
	// Drift is the sideways offset range, in pixels.
	Drift Range
	// Ease names the fade-out ease.
	Ease string
}

// DefaultParticleConfig matches the page's animated background.
func DefaultParticleConfig() ParticleConfig {
	return ParticleConfig{
		Count:    20,
		Interval: 800 * time.Millisecond,
		Stagger:  100 * time.Millisecond,
		Colors:   []string{"primary-500/30", "blue-400/30", "indigo-400/30", "purple-400/30", "cyan-400/30"},
		Size:     Range{Min: 3, Max: 15},
		Lifetime: Range{Min: 4, Max: 10},
		Rise:     Range{Min: 100, Max: 400},
		Drift:    Range{Min: -100, Max: 100},
		Ease:     "power2.out",
	}
}

// Bound returns the most particles that can be alive at once under cfg.
func (cfg ParticleConfig) Bound() int {
	if cfg.Interval <= 0 {
		return cfg.Count
	}
	maxLife := time.Duration(cfg.Lifetime.Max * float64(time.Second))
	return cfg.Count + int(math.Ceil(float64(maxLife)/float64(cfg.Interval)))
}

// Particle is a live decorative particle.
type Particle struct {
	ID    uint64
	X, Y  float64
	Size  float64
	Color string
	TTL   time.Duration

	node   *Node
	handle *Handle
}

// Style returns the particle's current interpolated style.
func (p *Particle) Style() Style { return p.node.Style() }

// ViewportSource supplies the current viewport.
type ViewportSource interface {
	Viewport() Viewport
}

// Emitter spawns particles on a timer and lets each remove itself when its
// animation completes.
type Emitter struct {
	sched  Scheduler
	player *Player
	vp     ViewportSource
	rng    *rand.Rand
	logger *slog.Logger

	cfg     ParticleConfig
	timers  []Timer
	live    map[uint64]*Particle
	nextID  uint64
	running bool
}

// NewEmitter returns a stopped emitter. Pass a seeded rng for reproducible
// runs; nil seeds one from the clock.
func NewEmitter(s Scheduler, vp ViewportSource, rng *rand.Rand, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Emitter{
		sched:  s,
		player: NewPlayer(s, logger),
		vp:     vp,
		rng:    rng,
		logger: logger,
		live:   make(map[uint64]*Particle),
	}
}

// Start emits the initial burst and then one particle per interval. Starting
// a running emitter restarts it with the new config.
func (e *Emitter) Start(cfg ParticleConfig) {
	if e.running {
		e.Stop()
	}
	e.cfg = cfg
	e.running = true

	for i := 0; i < cfg.Count; i++ {
		d := time.Duration(i) * cfg.Stagger
		if d == 0 {
			e.spawn()
			continue
		}
		var t Timer
		t = e.sched.SetTimeout(d, func() {
			e.forget(t)
			e.spawn()
		})
		e.timers = append(e.timers, t)
	}
	if cfg.Interval > 0 {
		e.timers = append(e.timers, e.sched.SetInterval(cfg.Interval, e.spawn))
	}
	e.logger.Debug("particles started", "count", cfg.Count, "interval", cfg.Interval)
}

// Stop cancels every pending spawn and removes all live particles at once.
func (e *Emitter) Stop() {
	for _, t := range e.timers {
		t.Stop()
	}
	e.timers = nil
	e.player.Close()
	clear(e.live)
	e.running = false
}

// Running reports whether the emitter is spawning.
func (e *Emitter) Running() bool { return e.running }

// LiveCount returns the number of particles on screen.
func (e *Emitter) LiveCount() int { return len(e.live) }

// Live returns the particles on screen, in no particular order.
func (e *Emitter) Live() []*Particle {
	out := make([]*Particle, 0, len(e.live))
	for _, p := range e.live {
		out = append(out, p)
	}
	return out
}

func (e *Emitter) forget(t Timer) {
	for i, x := range e.timers {
		if x == t {
			e.timers = append(e.timers[:i], e.timers[i+1:]...)
			return
		}
	}
}

func (e *Emitter) spawn() {
	vp := e.vp.Viewport()
	cfg := e.cfg

	e.nextID++
	p := &Particle{
		ID:   e.nextID,
		X:    e.rng.Float64() * vp.Width,
		Y:    e.rng.Float64() * vp.Height,
		Size: cfg.Size.Random(e.rng),
		TTL:  time.Duration(cfg.Lifetime.Random(e.rng) * float64(time.Second)),
	}
	if len(cfg.Colors) > 0 {
		p.Color = cfg.Colors[e.rng.IntN(len(cfg.Colors))]
	}
	if p.TTL <= 0 {
		p.TTL = time.Second
	}
	p.node = NewNode("", Rect{X: p.X, Y: p.Y, Width: p.Size, Height: p.Size})

	to := Style{
		Opacity: 0,
		X:       cfg.Drift.Random(e.rng),
		Y:       -cfg.Rise.Random(e.rng),
		Scale:   0,
	}
	e.live[p.ID] = p
	p.handle = e.player.Tween(p.node, Rest, to, Options{
		Duration:   p.TTL,
		Ease:       cfg.Ease,
		OnComplete: func() { delete(e.live, p.ID) },
	})
}
