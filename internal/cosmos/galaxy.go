package cosmos

import (
	"math"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/stage"
)

// galaxy placement is relative to the viewport.
type galaxy struct {
	fx, fy   float64
	size     float64
	rotation float64
	opacity  float64
}

var galaxyField = []galaxy{
	{0.25, 0.30, 180, 0.3, 0.9},
	{0.70, 0.45, 250, 1.2, 1.0},
	{0.50, 0.70, 150, 2.5, 0.85},
	{0.80, 0.25, 120, 4.0, 0.7},
	{0.35, 0.75, 200, 5.5, 0.8},
}

// Logarithmic spiral r = a·e^(bθ) with a = size·spiralScale.
const (
	spiralScale     = 0.08
	spiralTightness = 0.3
	spiralArms      = 2
	spiralTurns     = 4 * math.Pi
	galaxySpin      = 0.0001 // radians per second
)

func renderGalaxies(rc *stage.RenderContext) {
	s := rc.Surface
	n := quality.Pick(rc.Quality, 5, 3, 2)
	spin := rc.Time.Seconds() * galaxySpin

	for _, g := range galaxyField[:n] {
		s.Save()
		s.Translate(rc.Width*g.fx, rc.Height*g.fy)
		s.Rotate(g.rotation + spin)
		drawGalacticCore(s, g.size, g.opacity)
		drawSpiralArms(s, g.size, g.opacity, rc.Quality)
		s.Restore()
	}
}

func drawGalacticCore(s *canvas.Surface, size, o float64) {
	r := size * 0.15
	disc(s, radial(0, 0, 0, r,
		stop(0, rgba(255, 255, 255, o)),
		stop(0.3, rgba(255, 255, 220, o*0.95)),
		stop(0.6, rgba(255, 255, 200, o*0.85)),
		stop(1, rgba(255, 240, 180, o*0.5)),
	))
	disc(s, radial(0, 0, 0, r*0.5,
		stop(0, rgba(255, 255, 255, o)),
		stop(0.5, rgba(255, 255, 240, o*0.8)),
		stop(1, rgba(255, 255, 220, o*0.3)),
	))
	disc(s, radial(0, 0, r, r*2,
		stop(0, rgba(255, 240, 180, o*0.4)),
		stop(0.5, rgba(255, 230, 160, o*0.2)),
		stop(1, rgba(255, 220, 140, 0)),
	))
}

func drawSpiralArms(s *canvas.Surface, size, o float64, q quality.Level) {
	a := size * spiralScale
	step := quality.Pick(q, 0.08, 0.15, 0.25)
	starScale := quality.Pick(q, 1.5, 1.2, 1.0)

	for arm := 0; arm < spiralArms; arm++ {
		armOffset := float64(arm) / spiralArms * tau
		fa := float64(arm)

		for theta := 0.0; theta < spiralTurns; theta += step {
			r := a * math.Exp(spiralTightness*theta)
			if r > size {
				break
			}
			angle := theta + armOffset
			jitter := (math.Sin(theta*7.3+fa*13.7)*0.5 + 0.5) * size * 0.05
			skew := math.Sin(theta*5.1+fa*11.3) * 0.3
			x := r*math.Cos(angle) + math.Cos(angle+skew)*jitter
			y := r*math.Sin(angle) + math.Sin(angle+skew)*jitter

			d := r / size
			drawGalaxyStar(s, x, y, (1-d*0.7)*starScale, (1-d*0.6)*o)
		}
		drawArmGlow(s, a, size, armOffset, o)
	}
}

func drawGalaxyStar(s *canvas.Surface, x, y, r, o float64) {
	dot(s, x, y, r, rgba(200, 200, 255, o))
	if o > 0.6 {
		disc(s, radial(x, y, 0, r*2.5,
			stop(0, rgba(220, 220, 255, o*0.4)),
			stop(0.5, rgba(200, 200, 255, o*0.2)),
			stop(1, rgba(180, 180, 255, 0)),
		))
	}
}

func drawArmGlow(s *canvas.Surface, a, size, armOffset, o float64) {
	s.Save()
	s.SetAdditive()
	for theta := 0.0; theta < spiralTurns; theta += 0.3 {
		r := a * math.Exp(spiralTightness*theta)
		if r > size {
			break
		}
		angle := theta + armOffset
		x, y := r*math.Cos(angle), r*math.Sin(angle)
		d := r / size
		gr := (1 - d*0.5) * size * 0.08
		ga := (1 - d*0.7) * o * 0.15

		disc(s, radial(x, y, 0, gr,
			stop(0, rgba(200, 200, 255, ga)),
			stop(0.5, rgba(180, 180, 240, ga*0.6)),
			stop(1, rgba(160, 160, 220, 0)),
		))
	}
	s.Restore()
}
