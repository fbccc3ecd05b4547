package motion

import (
	"math"
	"testing"
	"time"
)

func near(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func testNode(id string) *Node {
	return NewNode(id, Rect{Width: 100, Height: 100})
}

func TestPlaySetsStartStyleAndReachesEnd(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	completed := false
	h := p.Play(node, FadeUp, Options{Duration: 500 * time.Millisecond, OnComplete: func() { completed = true }})

	st := node.Style()
	if st.Opacity != 0 || st.Y != 50 {
		t.Fatalf("start style = %+v, want opacity 0, y 50", st)
	}

	s.Advance(250 * time.Millisecond)
	if !h.Running() {
		t.Fatal("should be running halfway")
	}
	if mid := node.Style(); mid.Opacity <= 0 || mid.Opacity >= 1 {
		t.Errorf("mid opacity = %f, want strictly between 0 and 1", mid.Opacity)
	}

	s.Advance(250 * time.Millisecond)
	if !h.Finished() {
		t.Fatal("expected Finished after full duration")
	}
	if !completed {
		t.Error("OnComplete not called")
	}
	if got := node.Style(); got != Rest {
		t.Errorf("end style = %+v, want %+v", got, Rest)
	}
	if p.Live() != 0 {
		t.Errorf("Live = %d, want 0", p.Live())
	}
}

func TestEffectVocabulary(t *testing.T) {
	cases := []struct {
		effect Effect
		from   Style
	}{
		{FadeUp, Style{Opacity: 0, Y: 50, Scale: 1}},
		{FadeLeft, Style{Opacity: 0, X: -50, Scale: 1}},
		{FadeRight, Style{Opacity: 0, X: 50, Scale: 1}},
		{ScaleIn, Style{Opacity: 0, Scale: 0.8}},
		{SlideUp, Style{Opacity: 0, Y: 100, Scale: 1}},
		{Fade, Style{Opacity: 0, Scale: 1}},
	}
	for _, tc := range cases {
		def, ok := Lookup(tc.effect)
		if !ok {
			t.Errorf("%s missing from vocabulary", tc.effect)
			continue
		}
		if def.From != tc.from {
			t.Errorf("%s from = %+v, want %+v", tc.effect, def.From, tc.from)
		}
		if def.To != Rest {
			t.Errorf("%s to = %+v, want Rest", tc.effect, def.To)
		}
	}
	if len(Effects()) != len(cases) {
		t.Errorf("Effects() has %d entries, want %d", len(Effects()), len(cases))
	}
}

func TestUnknownEffectPlaysAsFade(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	h := p.Play(node, Effect("spin"), Options{})
	if h == nil {
		t.Fatal("expected a handle")
	}
	if got := node.Style(); got.Opacity != 0 || got.Y != 0 || got.X != 0 {
		t.Errorf("start style = %+v, want plain fade start", got)
	}
}

func TestPlayWithoutTargetIsNoop(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)

	h := p.Play(nil, FadeUp, Options{})
	if h != nil {
		t.Fatal("expected nil handle for nil target")
	}
	// nil handles must be safe to drive.
	h.Cancel()
	h.Reverse()
	h.Forward()
	if h.Running() || h.Finished() || h.Progress() != 0 {
		t.Error("nil handle reports activity")
	}

	gone := testNode("gone")
	gone.Unmount()
	if p.Play(gone, FadeUp, Options{}) != nil {
		t.Error("expected nil handle for unmounted target")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestCancelFreezesInterpolatedStyle(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	h := p.Play(node, FadeUp, Options{Duration: time.Second, Ease: "linear"})
	s.Advance(300 * time.Millisecond)
	h.Cancel()
	frozen := node.Style()

	if !near(frozen.Opacity, 0.3) || !near(frozen.Y, 35) {
		t.Fatalf("frozen style = %+v, want opacity ~0.3 y ~35", frozen)
	}

	s.Advance(2 * time.Second)
	if node.Style() != frozen {
		t.Errorf("style moved after Cancel: %+v -> %+v", frozen, node.Style())
	}
	h.Cancel()
	if h.Running() || h.Finished() {
		t.Error("cancelled handle should be neither running nor finished")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestCancelDuringDelay(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	h := p.Play(node, FadeUp, Options{Duration: time.Second, Delay: 500 * time.Millisecond})
	h.Cancel()
	s.Advance(2 * time.Second)

	if got := node.Style(); got.Opacity != 0 {
		t.Errorf("opacity = %f, want 0 (never started)", got.Opacity)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestReverseMirrorsCompletedAnimation(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	reversed := false
	h := p.Play(node, FadeUp, Options{
		Duration:          time.Second,
		Ease:              "linear",
		OnReverseComplete: func() { reversed = true },
	})
	s.Advance(time.Second)
	if !h.Finished() {
		t.Fatal("expected forward run to finish")
	}

	h.Reverse()
	s.Advance(250 * time.Millisecond)
	if got := node.Style(); !near(got.Opacity, 0.75) || !near(got.Y, 12.5) {
		t.Errorf("quarter way back style = %+v, want opacity ~0.75 y ~12.5", got)
	}

	s.Advance(750 * time.Millisecond)
	if !h.Finished() || !h.Reversed() {
		t.Fatal("expected reverse run to finish")
	}
	if !reversed {
		t.Error("OnReverseComplete not called")
	}
	if got := node.Style(); !near(got.Opacity, 0) || !near(got.Y, 50) {
		t.Errorf("style after reverse = %+v, want the start snapshot", got)
	}
}

func TestPlayThenImmediateReverseReturnsToStart(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	h := p.Play(node, ScaleIn, Options{Duration: 500 * time.Millisecond})
	h.Reverse()
	s.Advance(500 * time.Millisecond)

	got := node.Style()
	if !near(got.Opacity, 0) || !near(got.Scale, 0.8) {
		t.Errorf("style = %+v, want scale-in start snapshot", got)
	}
	if h.Running() {
		t.Error("handle still running")
	}
}

func TestReverseMidFlightStartsFromCurrentPosition(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	h := p.Play(node, Fade, Options{Duration: time.Second, Ease: "linear"})
	s.Advance(400 * time.Millisecond)
	before := node.Style().Opacity

	h.Reverse()
	s.Advance(10 * time.Millisecond)
	after := node.Style().Opacity
	if after > before || before-after > 0.02 {
		t.Errorf("reverse jumped: %f -> %f", before, after)
	}

	s.Advance(390 * time.Millisecond)
	if !near(node.Style().Opacity, 0) {
		t.Errorf("opacity = %f, want ~0 after retracing 400ms", node.Style().Opacity)
	}

	h.Forward()
	s.Advance(time.Second)
	if !h.Finished() || h.Reversed() {
		t.Error("expected forward completion after Forward")
	}
	if !near(node.Style().Opacity, 1) {
		t.Errorf("opacity = %f, want 1", node.Style().Opacity)
	}
}

func TestPlayStaggeredSchedule(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	a, b, c := testNode("a"), testNode("b"), testNode("c")

	hs := p.PlayStaggered([]Animatable{a, b, c}, FadeUp, Options{Duration: 500 * time.Millisecond}, 100*time.Millisecond)
	if len(hs) != 3 {
		t.Fatalf("got %d handles, want 3", len(hs))
	}

	s.Advance(50 * time.Millisecond)
	if a.Style().Opacity <= 0 {
		t.Error("first target should be moving at 50ms")
	}
	if b.Style().Opacity != 0 || c.Style().Opacity != 0 {
		t.Error("later targets should still be at their start style")
	}

	s.Advance(time.Second)
	for i, want := range []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond} {
		if hs[i].StartedAt() != want {
			t.Errorf("target %d started at %v, want %v", i, hs[i].StartedAt(), want)
		}
		if got := hs[i].FinishedAt(); got != want+500*time.Millisecond {
			t.Errorf("target %d finished at %v, want %v", i, got, want+500*time.Millisecond)
		}
	}
}

func TestPlayerCloseCancelsEverything(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)

	for i := 0; i < 5; i++ {
		p.Play(testNode("n"), FadeUp, Options{Delay: time.Duration(i) * 100 * time.Millisecond})
	}
	s.Advance(150 * time.Millisecond)
	p.Close()

	if p.Live() != 0 {
		t.Errorf("Live = %d, want 0", p.Live())
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestAnimationStopsWhenTargetUnmounts(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	h := p.Play(node, FadeUp, Options{Duration: time.Second})
	s.Advance(100 * time.Millisecond)
	node.Unmount()
	s.Advance(100 * time.Millisecond)

	if h.Running() {
		t.Error("animation kept running on an unmounted target")
	}
	if p.Live() != 0 {
		t.Errorf("Live = %d, want 0", p.Live())
	}
}

func TestEaseFuncFallsBack(t *testing.T) {
	if !KnownEase("power3.inOut") {
		t.Error("power3.inOut should be known")
	}
	if KnownEase("wobble") {
		t.Error("wobble should not be known")
	}
	fn := EaseFunc("wobble")
	if got := fn(0.5, 0, 1, 1); got <= 0.5 {
		t.Errorf("fallback ease at half = %f, want an ease-out curve above 0.5", got)
	}
}

func TestReverseAfterHoldsThenRuns(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	h := p.Play(node, Fade, Options{Duration: time.Second, Ease: "linear"})
	s.Advance(time.Second)

	h.ReverseAfter(300 * time.Millisecond)
	s.Advance(200 * time.Millisecond)
	if node.Style().Opacity != 1 {
		t.Errorf("opacity = %f, want 1 while waiting", node.Style().Opacity)
	}
	if !h.Running() {
		t.Error("waiting handle should report Running")
	}

	s.Advance(600 * time.Millisecond)
	if got := node.Style().Opacity; !near(got, 0.5) {
		t.Errorf("opacity = %f, want ~0.5 after 500ms of reverse", got)
	}
}

func TestForwardAfterReplacesPendingWait(t *testing.T) {
	s := NewManualScheduler(10 * time.Millisecond)
	p := NewPlayer(s, nil)
	node := testNode("a")

	h := p.Play(node, Fade, Options{Duration: 500 * time.Millisecond})
	s.Advance(500 * time.Millisecond)

	h.ReverseAfter(200 * time.Millisecond)
	h.ForwardAfter(0)
	s.Advance(time.Second)

	if node.Style().Opacity != 1 {
		t.Errorf("opacity = %f, want 1", node.Style().Opacity)
	}
	if !h.Finished() || h.Reversed() {
		t.Error("expected a finished forward handle")
	}
	if p.Live() != 0 || s.Pending() != 0 {
		t.Errorf("Live = %d, Pending = %d, want 0", p.Live(), s.Pending())
	}
}
