package cosmos

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/stage"
)

// halo is one soft ring of light around a star, sized relative to its radius.
type halo struct {
	inner, outer float64
	c0, c1, c2   gg.RGBA // colours at 0, mid and 1
	mid          float64
}

func (h halo) draw(s *canvas.Surface, x, y, r, brightness float64) {
	disc(s, radial(x, y, r*h.inner, r*h.outer,
		stop(0, canvas.WithAlpha(h.c0, brightness)),
		stop(h.mid, canvas.WithAlpha(h.c1, brightness)),
		stop(1, h.c2),
	))
}

var sunCorona = []halo{
	{0.8, 2.5, rgba(255, 200, 50, 0.15), rgba(255, 180, 30, 0.08), rgba(255, 150, 0, 0), 0.4},
	{0.7, 1.8, rgba(255, 220, 80, 0.25), rgba(255, 200, 50, 0.15), rgba(255, 180, 30, 0), 0.5},
	{0.6, 1.3, rgba(255, 255, 150, 0.4), rgba(255, 230, 100, 0.3), rgba(255, 200, 50, 0), 0.5},
}

var giantGlow = []halo{
	{0.8, 2.2, rgba(200, 50, 30, 0.12), rgba(180, 40, 20, 0.06), rgba(150, 30, 10, 0), 0.4},
	{0.7, 1.6, rgba(220, 70, 40, 0.2), rgba(200, 50, 30, 0.12), rgba(180, 40, 20, 0), 0.5},
	{0.6, 1.2, rgba(255, 120, 70, 0.35), rgba(240, 90, 50, 0.25), rgba(220, 70, 40, 0), 0.5},
}

const (
	sunRadius   = 150.0
	giantRadius = 250.0
)

func renderSun(rc *stage.RenderContext) {
	s := rc.Surface
	t := millis(rc.Time)
	cx, cy := rc.Width/2, rc.Height/2

	r := sunRadius * (1 + wave(t, 4000)*0.08)
	b := 0.85 + wave(t, 3500)*0.15

	for _, h := range sunCorona {
		h.draw(s, cx, cy, r, b)
	}
	disc(s, canvas.RadialGradient{
		X0: cx - r*0.2, Y0: cy - r*0.2, R0: r * 0.1,
		X1: cx, Y1: cy, R1: r,
		Stops: []canvas.Stop{
			stop(0, rgba(255, 255, 220, b)),
			stop(0.3, rgba(255, 255, 100, b)),
			stop(0.6, rgba(255, 200, 50, b*0.95)),
			stop(0.85, rgba(255, 150, 30, b*0.9)),
			stop(1, rgba(255, 120, 0, b*0.7)),
		},
	})
	drawFlares(s, cx, cy, r, t, b, quality.Pick(rc.Quality, 8, 6, 4))
}

// drawFlares paints count curved prominences rotating once every 20s.
func drawFlares(s *canvas.Surface, x, y, r, t, brightness float64, count int) {
	spin := t / 20000 * tau
	for i := 0; i < count; i++ {
		base := float64(i)/float64(count)*tau + spin
		length := r * (0.3 + float64(i%3)*0.15)
		width := r * (0.08 + float64(i%2)*0.04)
		a := (0.4 + math.Sin((t/2000+float64(i)*0.5)*tau)*0.3) * brightness

		inner, outer := r*0.95, r+length

		s.Save()
		s.Translate(x, y)
		s.Rotate(base)
		s.SetGradient(radial(0, 0, inner, outer,
			stop(0, rgba(255, 255, 150, a)),
			stop(0.3, rgba(255, 200, 80, a*0.8)),
			stop(0.7, rgba(255, 150, 50, a*0.5)),
			stop(1, rgba(255, 100, 0, 0)),
		))
		drawFlareShape(s, inner, outer, width)
		s.Restore()
	}
}

// drawFlareShape fills the band between two arcs of the same chord width.
func drawFlareShape(s *canvas.Surface, inner, outer, width float64) {
	const steps = 8
	ao, ai := width/outer, width/inner
	pts := make([]float64, 0, (steps+1)*4)
	for i := 0; i <= steps; i++ {
		a := -ao + 2*ao*float64(i)/steps
		pts = append(pts, outer*math.Cos(a), outer*math.Sin(a))
	}
	for i := steps; i >= 0; i-- {
		a := -ai + 2*ai*float64(i)/steps
		pts = append(pts, inner*math.Cos(a), inner*math.Sin(a))
	}
	s.FillPolygon(pts...)
}

func renderBetelgeuse(rc *stage.RenderContext) {
	s := rc.Surface
	t := millis(rc.Time)
	cx, cy := rc.Width/2, rc.Height/2

	r := giantRadius * (1 + wave(t, 3000)*0.15)
	b := 0.85 + wave(t, 2700)*0.15

	for _, h := range giantGlow {
		h.draw(s, cx, cy, r, b)
	}
	disc(s, canvas.RadialGradient{
		X0: cx - r*0.2, Y0: cy - r*0.2, R0: r * 0.1,
		X1: cx, Y1: cy, R1: r,
		Stops: []canvas.Stop{
			stop(0, rgba(255, 140, 80, b)),
			stop(0.2, rgba(255, 100, 50, b)),
			stop(0.5, rgba(240, 80, 40, b*0.95)),
			stop(0.75, rgba(220, 60, 35, b*0.9)),
			stop(1, rgba(200, 50, 30, b*0.8)),
		},
	})
	drawStarSpots(s, cx, cy, r, t, quality.Pick(rc.Quality, 12, 8, 5))
}

// goldenAngle in degrees; used as a raw radian seed it scatters spots well.
const goldenAngle = 137.508

func drawStarSpots(s *canvas.Surface, x, y, r, t float64, count int) {
	drift := t / 10000 * 0.3
	for i := 0; i < count; i++ {
		angle := math.Mod(float64(i)*goldenAngle+drift, tau)
		dist := (0.3 + float64(i%5)*0.12) * r
		size := (0.08 + float64(i%3)*0.04) * r
		sx, sy := x+math.Cos(angle)*dist, y+math.Sin(angle)*dist
		a := 0.3 + math.Sin((t/5000+float64(i)*0.3)*tau)*0.15

		dot(s, sx, sy, size, rgba(120, 30, 20, a))
		dot(s, sx, sy, size*0.5, rgba(80, 20, 10, a*0.8))
	}
}
