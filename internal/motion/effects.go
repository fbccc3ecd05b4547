package motion

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Effect names an entrance animation.
type Effect string

const (
	FadeUp    Effect = "fade-up"
	FadeLeft  Effect = "fade-left"
	FadeRight Effect = "fade-right"
	ScaleIn   Effect = "scale-in"
	SlideUp   Effect = "slide-up"
	Fade      Effect = "fade"
)

// EffectDef is the pair of style snapshots an effect moves between.
type EffectDef struct {
	Name     Effect
	From     Style
	To       Style
	Duration time.Duration
	Ease     string
}

const (
	defaultEffectDuration = time.Second
	defaultEase           = "power2.out"
)

var vocabulary = []EffectDef{
	{Name: FadeUp, From: Style{Opacity: 0, Y: 50, Scale: 1}},
	{Name: FadeLeft, From: Style{Opacity: 0, X: -50, Scale: 1}},
	{Name: FadeRight, From: Style{Opacity: 0, X: 50, Scale: 1}},
	{Name: ScaleIn, From: Style{Opacity: 0, Scale: 0.8}},
	{Name: SlideUp, From: Style{Opacity: 0, Y: 100, Scale: 1}},
	{Name: Fade, From: Style{Opacity: 0, Scale: 1}},
}

func init() {
	for i := range vocabulary {
		vocabulary[i].To = Rest
		vocabulary[i].Duration = defaultEffectDuration
		vocabulary[i].Ease = defaultEase
	}
}

// Lookup returns the definition of e.
func Lookup(e Effect) (EffectDef, bool) {
	for _, def := range vocabulary {
		if def.Name == e {
			return def, true
		}
	}
	return EffectDef{}, false
}

// Effects returns the whole vocabulary in a stable order.
func Effects() []EffectDef {
	out := make([]EffectDef, len(vocabulary))
	copy(out, vocabulary)
	return out
}

var eases = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"none":         ease.Linear,
	"power1.in":    ease.InQuad,
	"power1.out":   ease.OutQuad,
	"power1.inOut": ease.InOutQuad,
	"power2.in":    ease.InCubic,
	"power2.out":   ease.OutCubic,
	"power2.inOut": ease.InOutCubic,
	"power3.in":    ease.InQuart,
	"power3.out":   ease.OutQuart,
	"power3.inOut": ease.InOutQuart,
	"power4.in":    ease.InQuint,
	"power4.out":   ease.OutQuint,
	"power4.inOut": ease.InOutQuint,
	"sine.in":      ease.InSine,
	"sine.out":     ease.OutSine,
	"sine.inOut":   ease.InOutSine,
	"expo.out":     ease.OutExpo,
	"circ.out":     ease.OutCirc,
	"back.out":     ease.OutBack,
	"back.inOut":   ease.InOutBack,
	"elastic.out":  ease.OutElastic,
	"bounce.out":   ease.OutBounce,
	"easeOut":      ease.OutQuad,
	"easeInOut":    ease.InOutQuad,
}

// EaseFunc returns the tween function for a GSAP-style ease name, falling
// back to power2.out.
func EaseFunc(name string) ease.TweenFunc {
	if fn, ok := eases[name]; ok {
		return fn
	}
	return ease.OutCubic
}

// KnownEase reports whether name is in the ease table.
func KnownEase(name string) bool {
	_, ok := eases[name]
	return ok
}
