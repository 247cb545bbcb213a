package scroll

import "math"

// Section is one block of the virtual page.
type Section struct {
	Name   string
	Height float64
}

// Document is a scrollable page made of stacked sections. It implements Page.
type Document struct {
	sections []Section
	height   float64
	viewport float64
	y        float64

	// Overscroll is how far past either end ScrollBy may travel before
	// snapping back on the next Settle.
	Overscroll float64
}

// NewDocument builds a page from sections shown in a viewport of the given
// height.
func NewDocument(viewport float64, sections ...Section) *Document {
	d := &Document{viewport: viewport, Overscroll: 80}
	d.sections = append(d.sections, sections...)
	for _, s := range sections {
		d.height += math.Max(s.Height, 0)
	}
	return d
}

func (d *Document) ScrollY() float64        { return d.y }
func (d *Document) ScrollHeight() float64   { return math.Max(d.height, d.viewport) }
func (d *Document) ViewportHeight() float64 { return d.viewport }

// MaxScroll returns the furthest resting scroll offset.
func (d *Document) MaxScroll() float64 {
	return math.Max(d.ScrollHeight()-d.viewport, 0)
}

// SetViewport changes the visible height, keeping the offset in range.
func (d *Document) SetViewport(h float64) {
	d.viewport = h
	d.Settle()
}

// ScrollBy moves the offset by dy, allowing an elastic overshoot of up to
// Overscroll at either end. It reports whether the offset changed.
func (d *Document) ScrollBy(dy float64) bool {
	return d.ScrollTo(d.y + dy)
}

// ScrollTo moves to y, subject to the same elastic bounds as ScrollBy.
func (d *Document) ScrollTo(y float64) bool {
	y = math.Min(math.Max(y, -d.Overscroll), d.MaxScroll()+d.Overscroll)
	if y == d.y {
		return false
	}
	d.y = y
	return true
}

// Settle pulls an overscrolled offset back inside the page. It reports
// whether the offset changed.
func (d *Document) Settle() bool {
	y := math.Min(math.Max(d.y, 0), d.MaxScroll())
	if y == d.y {
		return false
	}
	d.y = y
	return true
}

// SectionAt returns the section under the top of the viewport.
func (d *Document) SectionAt() (Section, bool) {
	top := 0.0
	for _, s := range d.sections {
		if d.y < top+s.Height {
			return s, true
		}
		top += s.Height
	}
	if n := len(d.sections); n > 0 {
		return d.sections[n-1], true
	}
	return Section{}, false
}
