// Package page lays the portfolio sections out top to bottom and registers
// their scroll choreography on a motion stage.
package page

import (
	"math"
	"time"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

// Choreography is how one section animates into view.
type Choreography struct {
	Heading motion.Effect
	Cards   motion.Effect
	Stagger time.Duration
	// Start is the trigger threshold, e.g. "top 75%".
	Start string
}

var choreographies = map[string]Choreography{
	"home":       {Heading: motion.FadeUp, Cards: motion.ScaleIn, Stagger: 200 * time.Millisecond, Start: "top 80%"},
	"about":      {Heading: motion.FadeUp, Cards: motion.FadeLeft, Stagger: 130 * time.Millisecond, Start: "top 80%"},
	"education":  {Heading: motion.FadeUp, Cards: motion.FadeUp, Stagger: 150 * time.Millisecond, Start: "top 85%"},
	"services":   {Heading: motion.FadeUp, Cards: motion.ScaleIn, Stagger: 120 * time.Millisecond, Start: "top 80%"},
	"projects":   {Heading: motion.FadeUp, Cards: motion.FadeUp, Stagger: 120 * time.Millisecond, Start: "top 75%"},
	"skills":     {Heading: motion.FadeUp, Cards: motion.ScaleIn, Stagger: 100 * time.Millisecond, Start: "top 80%"},
	"references": {Heading: motion.FadeUp, Cards: motion.FadeRight, Stagger: 150 * time.Millisecond, Start: "top 75%"},
	"contact":    {Heading: motion.FadeUp, Cards: motion.SlideUp, Stagger: 100 * time.Millisecond, Start: "top 75%"},
}

var defaultChoreography = Choreography{
	Heading: motion.FadeUp,
	Cards:   motion.FadeUp,
	Stagger: 100 * time.Millisecond,
	Start:   "top 80%",
}

// ChoreographyFor returns the choreography of section id.
func ChoreographyFor(id string) Choreography {
	if c, ok := choreographies[id]; ok {
		return c
	}
	return defaultChoreography
}

// Layout sizes the page.
type Layout struct {
	Width, Height float64
	Padding       float64
	HeadingHeight float64
	CardHeight    float64
	Columns       int
}

// DefaultLayout returns a desktop-like layout for a viewport.
func DefaultLayout(vp motion.Viewport) Layout {
	return Layout{
		Width:         vp.Width,
		Height:        vp.Height,
		Padding:       96,
		HeadingHeight: 120,
		CardHeight:    320,
		Columns:       3,
	}
}

// SectionPlan is the computed geometry and choreography of one section.
type SectionPlan struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Order   int     `json:"order"`
	Top     float64 `json:"top"`
	Height  float64 `json:"height"`
	Items   int     `json:"items"`
	Heading string  `json:"heading_effect"`
	Cards   string  `json:"card_effect"`
	Stagger int64   `json:"stagger_ms"`
	Start   string  `json:"start"`
}

// Plan lays out the sections of p without touching a stage.
func Plan(p *content.Portfolio, l Layout) []SectionPlan {
	cols := l.Columns
	if cols < 1 {
		cols = 1
	}
	plans := make([]SectionPlan, 0, len(p.Sections))
	y := 0.0
	for i, s := range p.Sections {
		n := p.Items(s.ID)
		rows := int(math.Ceil(float64(n) / float64(cols)))
		h := math.Max(l.Height, 2*l.Padding+l.HeadingHeight+float64(rows)*l.CardHeight)
		c := ChoreographyFor(s.ID)
		plans = append(plans, SectionPlan{
			ID:      s.ID,
			Name:    s.Name,
			Order:   i,
			Top:     y,
			Height:  h,
			Items:   n,
			Heading: string(c.Heading),
			Cards:   string(c.Cards),
			Stagger: c.Stagger.Milliseconds(),
			Start:   c.Start,
		})
		y += h
	}
	return plans
}

// Block is a laid out section and its animated parts.
type Block struct {
	Plan    SectionPlan
	Section *motion.Node
	Heading *motion.Node
	Cards   []*motion.Node
}

// Page is the portfolio mounted on a stage.
type Page struct {
	Stage  *motion.Stage
	Blocks []*Block
	height float64
}

// Build lays out p, registers every section with the stage's tracker in page
// order and registers the section reveals.
func Build(stage *motion.Stage, p *content.Portfolio, l Layout) *Page {
	pg := &Page{Stage: stage}
	cols := l.Columns
	if cols < 1 {
		cols = 1
	}
	cardW := l.Width / float64(cols)

	for _, plan := range Plan(p, l) {
		b := &Block{
			Plan:    plan,
			Section: motion.NewNode(plan.ID, motion.Rect{Y: plan.Top, Width: l.Width, Height: plan.Height}),
			Heading: motion.NewNode(plan.ID+"-heading", motion.Rect{Y: plan.Top + l.Padding, Width: l.Width, Height: l.HeadingHeight}),
		}
		gridTop := plan.Top + l.Padding + l.HeadingHeight
		for i := 0; i < plan.Items; i++ {
			b.Cards = append(b.Cards, motion.NewNode(plan.ID+"-card", motion.Rect{
				X:      float64(i%cols) * cardW,
				Y:      gridTop + float64(i/cols)*l.CardHeight,
				Width:  cardW,
				Height: l.CardHeight,
			}))
		}

		stage.Tracker.RegisterSection(plan.ID, b.Section, plan.Order)

		opts := motion.RevealOptions{}
		if th, err := motion.ParseThreshold(plan.Start); err == nil {
			opts.Start = &th
		}
		stage.Reveal(b.Heading, motion.Effect(plan.Heading), opts)
		if len(b.Cards) > 0 {
			targets := make([]motion.Animatable, len(b.Cards))
			for i, c := range b.Cards {
				targets[i] = c
			}
			grid := motion.NewNode(plan.ID+"-grid", motion.Rect{Y: gridTop, Width: l.Width, Height: b.Cards[len(b.Cards)-1].Bounds().Bottom() - gridTop})
			stage.RevealGroup(grid, targets, motion.Effect(plan.Cards), opts, time.Duration(plan.Stagger)*time.Millisecond)
		}

		pg.Blocks = append(pg.Blocks, b)
		pg.height = plan.Top + plan.Height
	}
	stage.Tracker.SetScrollLimit(pg.MaxScroll)
	return pg
}

// Height returns the total document height.
func (pg *Page) Height() float64 { return pg.height }

// Block returns the block of section id.
func (pg *Page) Block(id string) (*Block, bool) {
	for _, b := range pg.Blocks {
		if b.Plan.ID == id {
			return b, true
		}
	}
	return nil, false
}

// MaxScroll is the largest scroll offset the viewport can reach.
func (pg *Page) MaxScroll() float64 {
	return math.Max(0, pg.height-pg.Stage.Observer.Viewport().Height)
}

// Navigate scrolls to section id, as the navigation bar does.
func (pg *Page) Navigate(id string) error {
	if _, ok := pg.Block(id); !ok {
		return content.ErrUnknownSection
	}
	pg.Stage.Tracker.ScrollToSection(id)
	return nil
}

// Visible counts cards that have been revealed at least part of the way.
func (pg *Page) Visible() int {
	n := 0
	for _, b := range pg.Blocks {
		for _, c := range b.Cards {
			if c.Style().Opacity > 0 {
				n++
			}
		}
	}
	return n
}
