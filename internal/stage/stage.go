// Package stage maps global scroll progress onto a fixed list of scroll-bound
// scenes, computing each scene's fade opacity and stage-local progress.
package stage

import (
	"time"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/quality"
)

// RenderContext is rebuilt for every active stage on every frame. Renderers
// must not keep it, or the surface it points to, past the call.
type RenderContext struct {
	Surface *canvas.Surface

	// Logical size; the device pixel ratio is already applied to Surface.
	Width  float64
	Height float64

	// Progress is stage-local, in [0,1].
	Progress float64
	Quality  quality.Level

	// Time is the monotonic animation clock.
	Time time.Duration
}

// RenderFn paints one stage. It must not clear the surface and must leave
// the surface state as it found it.
type RenderFn func(rc *RenderContext)

// Stage is one scroll-bound scene. Transition lengths are fractions of the
// whole scroll range, not of the stage's own window.
type Stage struct {
	Name          string   `validate:"required"`
	ScrollStart   float64  `validate:"gte=0,lte=1"`
	ScrollEnd     float64  `validate:"gte=0,lte=1,gtfield=ScrollStart"`
	TransitionIn  float64  `validate:"gt=0"`
	TransitionOut float64  `validate:"gt=0"`
	Render        RenderFn `validate:"required"`
}

// Span returns the width of the stage's scroll window.
func (s Stage) Span() float64 {
	return s.ScrollEnd - s.ScrollStart
}

// Opacity returns the stage's fade factor at global progress p: a linear
// fade-in over TransitionIn, a plateau at 1, and a linear fade-out over
// TransitionOut ending at ScrollEnd. The result is always in [0,1].
func Opacity(p float64, s Stage) float64 {
	var o float64
	switch {
	case p < s.ScrollStart:
		o = 0
	case p < s.ScrollStart+s.TransitionIn:
		o = (p - s.ScrollStart) / s.TransitionIn
	case p < s.ScrollEnd-s.TransitionOut:
		o = 1
	case p < s.ScrollEnd:
		o = (s.ScrollEnd - p) / s.TransitionOut
	default:
		o = 0
	}
	return clamp01(o)
}

// LocalProgress normalises p into the stage's window: 0 at or before
// ScrollStart, 1 at or after ScrollEnd.
func LocalProgress(p float64, s Stage) float64 {
	switch {
	case p <= s.ScrollStart:
		return 0
	case p >= s.ScrollEnd:
		return 1
	}
	return clamp01((p - s.ScrollStart) / s.Span())
}

// Active is a stage visible at some progress value.
type Active struct {
	Stage    *Stage
	Opacity  float64
	Progress float64
}

// ActiveStages returns the stages with non-zero opacity at p, in list order.
func ActiveStages(p float64, stages []Stage) []Active {
	return appendActive(nil, p, stages)
}

func appendActive(dst []Active, p float64, stages []Stage) []Active {
	for i := range stages {
		s := &stages[i]
		o := Opacity(p, *s)
		if o == 0 {
			continue
		}
		dst = append(dst, Active{Stage: s, Opacity: o, Progress: LocalProgress(p, *s)})
	}
	return dst
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
