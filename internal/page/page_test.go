package page

import (
	"errors"
	"testing"
	"time"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

func setup(t *testing.T) (*motion.ManualScheduler, *Page) {
	t.Helper()
	p, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	s := motion.NewManualScheduler(10 * time.Millisecond)
	vp := motion.Viewport{Width: 1280, Height: 800}
	st := motion.NewStage(s, vp)
	t.Cleanup(st.Close)
	return s, Build(st, p, DefaultLayout(vp))
}

func TestPlanGeometry(t *testing.T) {
	p, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	plans := Plan(p, DefaultLayout(motion.Viewport{Width: 1280, Height: 800}))

	want := []struct {
		id          string
		top, height float64
	}{
		{"home", 0, 800},
		{"about", 800, 800},
		{"education", 1600, 800},
		{"services", 2400, 952},
		{"projects", 3352, 952},
		{"skills", 4304, 3832},
		{"references", 8136, 800},
		{"contact", 8936, 800},
	}
	if len(plans) != len(want) {
		t.Fatalf("got %d plans, want %d", len(plans), len(want))
	}
	for i, w := range want {
		got := plans[i]
		if got.ID != w.id || got.Top != w.top || got.Height != w.height || got.Order != i {
			t.Errorf("plan %d = %+v, want %s at %v (%v tall)", i, got, w.id, w.top, w.height)
		}
	}
	if plans[4].Cards != string(motion.FadeUp) || plans[4].Stagger != 120 || plans[4].Start != "top 75%" {
		t.Errorf("projects choreography = %+v", plans[4])
	}
}

func TestBuildRegistersSectionsInOrder(t *testing.T) {
	_, pg := setup(t)
	tr := pg.Stage.Tracker

	ids := tr.Sections()
	if len(ids) != 8 || ids[0] != "home" || ids[7] != "contact" {
		t.Fatalf("Sections = %v", ids)
	}
	if tr.Active() != "home" {
		t.Errorf("Active at load = %q, want home", tr.Active())
	}
	if pg.Height() != 9736 || pg.MaxScroll() != 8936 {
		t.Errorf("Height = %v, MaxScroll = %v", pg.Height(), pg.MaxScroll())
	}
	b, ok := pg.Block("skills")
	if !ok || len(b.Cards) != 33 {
		t.Errorf("skills block = %v, %v", b, ok)
	}
}

func TestNavigateRevealsTargetSection(t *testing.T) {
	s, pg := setup(t)

	if err := pg.Navigate("projects"); err != nil {
		t.Fatal(err)
	}
	s.Advance(4 * time.Second)

	if got := pg.Stage.Observer.Viewport().ScrollY; got != 3272 {
		t.Errorf("ScrollY = %v, want 3272", got)
	}
	if pg.Stage.Tracker.Active() != "projects" {
		t.Errorf("Active = %q, want projects", pg.Stage.Tracker.Active())
	}

	projects, _ := pg.Block("projects")
	if projects.Heading.Style().Opacity != 1 {
		t.Errorf("projects heading opacity = %v", projects.Heading.Style().Opacity)
	}
	for i, c := range projects.Cards {
		if c.Style() != motion.Rest {
			t.Errorf("project card %d style = %+v", i, c.Style())
		}
	}

	skills, _ := pg.Block("skills")
	for _, c := range skills.Cards {
		if c.Style().Opacity != 0 {
			t.Fatal("skills cards revealed before scrolling to them")
		}
	}
}

func TestNavigateStopsAtPageEnd(t *testing.T) {
	s, pg := setup(t)

	// A taller window leaves less of the page to scroll through.
	pg.Stage.Observer.Resize(1280, 2000)
	if got := pg.MaxScroll(); got != 7736 {
		t.Fatalf("MaxScroll = %v, want 7736", got)
	}
	if err := pg.Navigate("contact"); err != nil {
		t.Fatal(err)
	}
	s.Advance(2 * time.Second)
	if got := pg.Stage.Observer.Viewport().ScrollY; got != 7736 {
		t.Errorf("ScrollY = %v, want 7736", got)
	}
}

func TestNavigateUnknownSection(t *testing.T) {
	_, pg := setup(t)
	if err := pg.Navigate("blog"); !errors.Is(err, content.ErrUnknownSection) {
		t.Errorf("Navigate(blog) = %v", err)
	}
}

func TestChoreographyFallback(t *testing.T) {
	if got := ChoreographyFor("unknown"); got != defaultChoreography {
		t.Errorf("ChoreographyFor(unknown) = %+v", got)
	}
	for id, c := range choreographies {
		if _, err := motion.ParseThreshold(c.Start); err != nil {
			t.Errorf("%s start %q: %v", id, c.Start, err)
		}
	}
}

func TestCarouselRotates(t *testing.T) {
	s := motion.NewManualScheduler(10 * time.Millisecond)
	var seen []int
	c := NewCarousel(s, 3, 0, func(i int) { seen = append(seen, i) })
	c.Start()
	c.Start()

	s.Advance(DefaultRotation)
	if c.Index() != 1 {
		t.Errorf("Index = %d, want 1", c.Index())
	}
	s.Advance(2 * DefaultRotation)
	if c.Index() != 0 {
		t.Errorf("Index = %d, want 0 after wrapping", c.Index())
	}
	if len(seen) != 3 {
		t.Errorf("onChange calls = %v", seen)
	}

	c.Show(2)
	c.Show(7)
	if c.Index() != 2 {
		t.Errorf("Index = %d, want 2", c.Index())
	}

	c.Stop()
	c.Stop()
	s.Advance(time.Minute)
	if c.Index() != 2 || s.Pending() != 0 {
		t.Errorf("carousel moved after Stop: index %d, pending %d", c.Index(), s.Pending())
	}

	single := NewCarousel(s, 1, time.Second, nil)
	single.Start()
	if s.Pending() != 0 {
		t.Error("single item carousel scheduled a timer")
	}
}
