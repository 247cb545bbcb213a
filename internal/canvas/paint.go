package canvas

import (
	"math"

	"github.com/gogpu/gg"
)

// Stop is one color stop of a gradient.
type Stop struct {
	Offset float64
	Color  gg.RGBA
}

// RadialGradient describes a two-circle gradient in logical coordinates.
// The inner circle (X0, Y0, R0) is the focus; the outer circle
// (X1, Y1, R1) bounds the gradient.
type RadialGradient struct {
	X0, Y0, R0 float64
	X1, Y1, R1 float64
	Stops      []Stop
}

// Radial is shorthand for a gradient centred on (x, y) fading from r0 to r1.
func Radial(x, y, r0, r1 float64, stops ...Stop) RadialGradient {
	return RadialGradient{X0: x, Y0: y, R0: r0, X1: x, Y1: y, R1: r1, Stops: stops}
}

// brush converts the gradient into device space. gg evaluates brushes per
// pixel of the backing store, so the current transform must be folded in.
func (s *Surface) brush(g RadialGradient) gg.Brush {
	m := s.dc.GetTransform()
	c := m.TransformPoint(gg.Pt(g.X1, g.Y1))
	f := m.TransformPoint(gg.Pt(g.X0, g.Y0))
	k := scaleOf(m)

	b := gg.NewRadialGradientBrush(c.X, c.Y, g.R0*k, g.R1*k)
	if f != c {
		b.SetFocus(f.X, f.Y)
	}
	for _, st := range g.Stops {
		b.AddColorStop(st.Offset, st.Color)
	}
	return b
}

// scaleOf returns the uniform scale factor of m, taken as the geometric mean
// of its axis scales.
func scaleOf(m gg.Matrix) float64 {
	ux := m.TransformVector(gg.Pt(1, 0))
	uy := m.TransformVector(gg.Pt(0, 1))
	return math.Sqrt(math.Hypot(ux.X, ux.Y) * math.Hypot(uy.X, uy.Y))
}

// SetColor sets a solid fill.
func (s *Surface) SetColor(c gg.RGBA) {
	s.dc.SetFillBrush(gg.Solid(c))
}

// SetGradient sets a radial gradient fill.
func (s *Surface) SetGradient(g RadialGradient) {
	s.dc.SetFillBrush(s.brush(g))
}

// FillRect fills a rectangle with the current paint.
func (s *Surface) FillRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.check("fill", s.dc.Fill())
}

// FillCircle fills a circle with the current paint.
func (s *Surface) FillCircle(x, y, r float64) {
	if r <= 0 {
		return
	}
	s.dc.DrawCircle(x, y, r)
	s.check("fill", s.dc.Fill())
}

// FillEllipse fills an axis-aligned ellipse with the current paint.
func (s *Surface) FillEllipse(x, y, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	s.dc.DrawEllipse(x, y, rx, ry)
	s.check("fill", s.dc.Fill())
}

// arcSegments picks a polyline resolution for an arc of the given radius
// and sweep.
func arcSegments(r, sweep float64) int {
	n := int(math.Ceil(math.Abs(sweep) * math.Max(r, 4) / 6))
	if n < 8 {
		n = 8
	}
	if n > 256 {
		n = 256
	}
	return n
}

// FillRing fills the annular sector between inner and outer radius from
// angle a0 to a1. It is built from line segments so it follows rotation and
// scale in the current transform.
func (s *Surface) FillRing(x, y, inner, outer, a0, a1 float64) {
	if outer <= 0 || outer <= inner {
		return
	}
	n := arcSegments(outer, a1-a0)
	step := (a1 - a0) / float64(n)
	for i := 0; i <= n; i++ {
		a := a0 + step*float64(i)
		px, py := x+outer*math.Cos(a), y+outer*math.Sin(a)
		if i == 0 {
			s.dc.MoveTo(px, py)
		} else {
			s.dc.LineTo(px, py)
		}
	}
	if inner > 0 {
		for i := n; i >= 0; i-- {
			a := a0 + step*float64(i)
			s.dc.LineTo(x+inner*math.Cos(a), y+inner*math.Sin(a))
		}
	} else {
		s.dc.LineTo(x, y)
	}
	s.dc.ClosePath()
	s.check("fill", s.dc.Fill())
}

// FillPolygon fills the closed polygon through pts, given as x,y pairs.
func (s *Surface) FillPolygon(pts ...float64) {
	if len(pts) < 6 {
		return
	}
	s.dc.MoveTo(pts[0], pts[1])
	for i := 2; i+1 < len(pts); i += 2 {
		s.dc.LineTo(pts[i], pts[i+1])
	}
	s.dc.ClosePath()
	s.check("fill", s.dc.Fill())
}

// StrokeLine draws a line of the given width with the current paint.
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64) {
	s.dc.SetLineWidth(width * scaleOf(s.dc.GetTransform()))
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.MoveTo(x0, y0)
	s.dc.LineTo(x1, y1)
	s.check("stroke", s.dc.Stroke())
}

// Glow fills a circle of radius r with a gradient that fades from c at the
// centre to transparent at the rim.
func (s *Surface) Glow(x, y, r float64, c gg.RGBA) {
	if r <= 0 {
		return
	}
	clear := c
	clear.A = 0
	s.SetGradient(Radial(x, y, 0, r, Stop{0, c}, Stop{1, clear}))
	s.FillCircle(x, y, r)
}

// WithAlpha returns c with its alpha multiplied by a.
func WithAlpha(c gg.RGBA, a float64) gg.RGBA {
	c.A *= clamp01(a)
	return c
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
