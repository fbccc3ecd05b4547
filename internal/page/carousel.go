package page

import (
	"time"

	"github.com/Zachkp/folio/internal/motion"
)

// DefaultRotation is how long each reference stays in the spotlight.
const DefaultRotation = 8 * time.Second

// Carousel cycles through n items on a scheduler interval.
type Carousel struct {
	sched    motion.Scheduler
	n        int
	interval time.Duration
	index    int
	timer    motion.Timer
	onChange func(int)
}

// NewCarousel returns a stopped carousel over n items.
func NewCarousel(s motion.Scheduler, n int, interval time.Duration, onChange func(int)) *Carousel {
	if interval <= 0 {
		interval = DefaultRotation
	}
	return &Carousel{sched: s, n: n, interval: interval, onChange: onChange}
}

// Start begins rotating. Carousels with fewer than two items never move.
func (c *Carousel) Start() {
	if c.timer != nil || c.n < 2 {
		return
	}
	c.timer = c.sched.SetInterval(c.interval, c.Next)
}

// Stop halts rotation; it is safe to call more than once.
func (c *Carousel) Stop() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Next advances to the following item, wrapping at the end.
func (c *Carousel) Next() {
	if c.n == 0 {
		return
	}
	c.Show((c.index + 1) % c.n)
}

// Show jumps to item i. Out of range indexes are ignored.
func (c *Carousel) Show(i int) {
	if i < 0 || i >= c.n || i == c.index {
		return
	}
	c.index = i
	if c.onChange != nil {
		c.onChange(i)
	}
}

// Index returns the item in the spotlight.
func (c *Carousel) Index() int { return c.index }
