// Package scroll turns the page scroll position into normalised journey
// progress and reports whether the user is actively scrolling.
package scroll

import "math"

// Progress is a snapshot of the page scroll state.
type Progress struct {
	Progress    float64 // in [0,1]
	ScrollY     float64
	MaxScroll   float64
	IsScrolling bool
}

// CalculateProgress normalises scrollY against the scrollable distance. With
// nothing to scroll the progress is 0; overscroll is clamped.
func CalculateProgress(scrollY, scrollHeight, viewportHeight float64) Progress {
	maxScroll := scrollHeight - viewportHeight
	if maxScroll < 0 || math.IsNaN(maxScroll) {
		maxScroll = 0
	}
	if math.IsNaN(scrollY) {
		scrollY = 0
	}
	p := 0.0
	if maxScroll > 0 {
		p = scrollY / maxScroll
	}
	switch {
	case p < 0 || math.IsNaN(p):
		p = 0
	case p > 1:
		p = 1
	}
	return Progress{
		Progress:  p,
		ScrollY:   math.Max(scrollY, 0),
		MaxScroll: maxScroll,
	}
}
