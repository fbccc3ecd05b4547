package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
	"github.com/Zachkp/folio/internal/page"
)

// NewSimulateCmd creates the simulate command.
func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [section...]",
		Short: "Replay the page's scroll choreography headlessly",
		Long: `Lay the portfolio out on a virtual viewport, navigate to each section in
turn (all of them, in page order, by default) and report which section became
active, how many reveals have played and how many particles are on screen.

The replay runs on a virtual clock unless --realtime is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(verboseFlag(cmd))
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			portfolio, err := content.Load(cfg.Content.Path)
			if err != nil {
				return err
			}
			opts := simOptions{targets: args}
			opts.dwell, _ = cmd.Flags().GetDuration("dwell")
			opts.format, _ = cmd.Flags().GetString("format")
			realtime, _ := cmd.Flags().GetBool("realtime")
			if !validFormats[opts.format] {
				return fmt.Errorf("unknown format %q: must be text, json or yaml", opts.format)
			}

			var events []simEvent
			if realtime {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				events, err = simulateRealtime(ctx, cfg.Motion, portfolio, opts, logger)
			} else {
				events, err = simulate(cfg.Motion, portfolio, opts, logger)
			}
			if err != nil {
				return err
			}
			return writeEvents(cmd.OutOrStdout(), events, opts.format)
		},
	}
	cmd.Flags().Duration("dwell", 2*time.Second, "Time spent on each section")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().Bool("realtime", false, "Run on the wall clock instead of a virtual one")
	return cmd
}

var validFormats = map[string]bool{"text": true, "json": true, "yaml": true}

type simOptions struct {
	targets []string
	dwell   time.Duration
	format  string
}

// simEvent is one line of the simulation report.
type simEvent struct {
	AtMS      int64   `json:"at_ms" yaml:"at_ms"`
	Kind      string  `json:"kind" yaml:"kind"`
	Section   string  `json:"section,omitempty" yaml:"section,omitempty"`
	ScrollY   float64 `json:"scroll_y" yaml:"scroll_y"`
	Played    int     `json:"played,omitempty" yaml:"played,omitempty"`
	Reveals   int     `json:"reveals,omitempty" yaml:"reveals,omitempty"`
	Visible   int     `json:"visible,omitempty" yaml:"visible,omitempty"`
	Particles int     `json:"particles,omitempty" yaml:"particles,omitempty"`
	Reference int     `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// simulation owns one stage with the page built on it. It must only be used
// from the scheduler's goroutine.
type simulation struct {
	sched    motion.Scheduler
	stage    *motion.Stage
	page     *page.Page
	carousel *page.Carousel
	logger   *slog.Logger
	events   []simEvent
	closed   bool
}

func newSimulation(s motion.Scheduler, m config.MotionConfig, p *content.Portfolio, logger *slog.Logger) *simulation {
	vp := viewport(m)
	stage := motion.NewStage(s, vp,
		motion.WithLogger(logger),
		motion.WithRand(rand.New(rand.NewPCG(m.Seed, m.Seed))),
		motion.WithTrackerOptions(
			motion.WithHeaderOffset(m.HeaderOffset),
			motion.WithScrollDuration(m.ScrollDuration),
			motion.WithScrollEase(m.ScrollEase),
		),
	)
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sim := &simulation{sched: s, stage: stage, logger: logger}
	stage.Tracker.Subscribe(func(id string) { sim.record("active", id) })

	sim.page = page.Build(stage, p, page.DefaultLayout(vp))
	if m.Particles.Enabled {
		stage.Emitter.Start(particleConfig(m.Particles))
	}
	sim.carousel = page.NewCarousel(s, len(p.References), page.DefaultRotation, func(i int) {
		ev := sim.snapshot("reference", "references")
		ev.Reference = i
		sim.events = append(sim.events, ev)
	})
	sim.carousel.Start()
	return sim
}

func (sim *simulation) snapshot(kind, section string) simEvent {
	ev := simEvent{
		AtMS:      sim.sched.Now().Milliseconds(),
		Kind:      kind,
		Section:   section,
		ScrollY:   sim.stage.Observer.Viewport().ScrollY,
		Played:    sim.stage.Played(),
		Reveals:   sim.stage.Reveals(),
		Particles: sim.stage.Emitter.LiveCount(),
	}
	// The first section activates while the page is still being built.
	if sim.page != nil {
		ev.Visible = sim.page.Visible()
	}
	return ev
}

func (sim *simulation) record(kind, section string) {
	sim.events = append(sim.events, sim.snapshot(kind, section))
}

func (sim *simulation) close() {
	if sim.closed {
		return
	}
	sim.closed = true
	sim.carousel.Stop()
	sim.stage.Close()
	sim.logger.Debug("simulation closed", "events", len(sim.events))
}

func targetsOrAll(p *content.Portfolio, targets []string) []string {
	if len(targets) == 0 {
		return p.SectionIDs()
	}
	return targets
}

// simulate replays the choreography on a virtual clock.
func simulate(m config.MotionConfig, p *content.Portfolio, opts simOptions, logger *slog.Logger) ([]simEvent, error) {
	sched := motion.NewManualScheduler(m.FrameInterval())
	sim := newSimulation(sched, m, p, logger)
	defer sim.close()

	for _, id := range targetsOrAll(p, opts.targets) {
		if err := sim.page.Navigate(id); err != nil {
			return nil, fmt.Errorf("navigating to %q: %w", id, err)
		}
		sched.Advance(opts.dwell)
		sim.record("step", id)
	}
	return sim.events, nil
}

// simulateRealtime replays the choreography on the wall clock, driving the
// engine from a motion.Loop.
func simulateRealtime(ctx context.Context, m config.MotionConfig, p *content.Portfolio, opts simOptions, logger *slog.Logger) ([]simEvent, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := motion.NewLoop(m.FrameInterval())
	stopped := make(chan error, 1)
	go func() { stopped <- loop.Run(ctx) }()

	onLoop := func(fn func()) error {
		done := make(chan struct{})
		if !loop.Do(func() { fn(); close(done) }) {
			return context.Canceled
		}
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var sim *simulation
	if err := onLoop(func() { sim = newSimulation(loop.Scheduler(), m, p, logger) }); err != nil {
		return nil, err
	}

	var events []simEvent
	run := func() error {
		for _, id := range targetsOrAll(p, opts.targets) {
			var navErr error
			if err := onLoop(func() { navErr = sim.page.Navigate(id) }); err != nil {
				return err
			}
			if navErr != nil {
				return fmt.Errorf("navigating to %q: %w", id, navErr)
			}
			select {
			case <-time.After(opts.dwell):
			case <-ctx.Done():
				return ctx.Err()
			}
			if err := onLoop(func() { sim.record("step", id) }); err != nil {
				return err
			}
		}
		return onLoop(func() {
			events = append(events, sim.events...)
			sim.close()
		})
	}
	err := run()
	if err != nil && onLoop(sim.close) != nil {
		// The loop is gone; nothing else touches the simulation now.
		cancel()
		<-stopped
		sim.close()
		return nil, err
	}

	cancel()
	<-stopped
	if err != nil {
		return nil, err
	}
	return events, nil
}

func writeEvents(w io.Writer, events []simEvent, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(events); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		for _, e := range events {
			switch e.Kind {
			case "active":
				fmt.Fprintf(w, "%7dms  active     %-12s scroll=%.0f\n", e.AtMS, e.Section, e.ScrollY)
			case "reference":
				fmt.Fprintf(w, "%7dms  reference  #%d\n", e.AtMS, e.Reference)
			default:
				fmt.Fprintf(w, "%7dms  %-9s  %-12s scroll=%.0f reveals=%d/%d visible=%d particles=%d\n",
					e.AtMS, e.Kind, e.Section, e.ScrollY, e.Played, e.Reveals, e.Visible, e.Particles)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be text, json or yaml", format)
	}
}
