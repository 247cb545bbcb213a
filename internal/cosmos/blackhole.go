package cosmos

import (
	"math"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/stage"
)

const (
	horizonRadius   = 60.0
	diskInnerRadius = 70.0
	diskOuterRadius = 180.0
	diskSegments    = 60
)

func renderBlackHole(rc *stage.RenderContext) {
	s := rc.Surface
	t := millis(rc.Time)
	cx, cy := rc.Width/2, rc.Height/2

	spin := t / 15000 * tau
	b := 0.85 + wave(t, 3000)*0.15

	if rc.Quality.Settings().EnableLensing {
		drawLensedStars(s, cx, cy, horizonRadius, backgroundStars(cx, cy, quality.Pick(rc.Quality, 80, 40, 20)))
	}
	drawHoleGlow(s, cx, cy, diskOuterRadius, b)
	drawAccretionDisk(s, cx, cy, spin, t, b)
	drawEventHorizon(s, cx, cy, horizonRadius)
}

type bgStar struct {
	x, y, size, brightness float64
}

func backgroundStars(cx, cy float64, n int) []bgStar {
	out := make([]bgStar, n)
	for i := range out {
		seed := float64(i) * 47.3
		angle := math.Mod(seed*0.2, tau)
		dist := 150 + math.Mod(seed, 400)
		out[i] = bgStar{
			x:          cx + math.Cos(angle)*dist,
			y:          cy + math.Sin(angle)*dist,
			size:       1 + float64(i%3),
			brightness: 0.5 + float64(i%5)*0.1,
		}
	}
	return out
}

// lensOffset pushes a star outward from the hole; the push grows as the
// star nears the horizon.
func lensOffset(dist, horizon float64) float64 {
	strength := horizon * 2.5
	return strength / (dist + strength*0.5) * 0.4
}

func drawLensedStars(s *canvas.Surface, cx, cy, horizon float64, stars []bgStar) {
	for _, st := range stars {
		dx, dy := st.x-cx, st.y-cy
		dist := math.Hypot(dx, dy)
		if dist < horizon*1.2 {
			continue
		}
		k := lensOffset(dist, horizon)
		x, y := st.x+dx*k, st.y+dy*k
		bright := st.brightness * math.Min(1, dist/(horizon*1.5))

		dot(s, x, y, st.size, rgba(255, 255, 255, bright))
		if st.brightness > 0.7 {
			disc(s, radial(x, y, 0, st.size*3,
				stop(0, rgba(255, 255, 255, bright*0.3)),
				stop(1, rgba(255, 255, 255, 0)),
			))
		}
	}
}

var holeGlow = []halo{
	{0.8, 2.0, rgba(255, 150, 50, 0.15), rgba(255, 120, 30, 0.08), rgba(255, 100, 0, 0), 0.4},
	{0.6, 1.4, rgba(255, 180, 80, 0.25), rgba(255, 150, 50, 0.15), rgba(255, 120, 30, 0), 0.5},
	{0.4, 1.0, rgba(255, 255, 150, 0.4), rgba(255, 200, 100, 0.3), rgba(255, 150, 50, 0), 0.5},
	{0.2, 0.6, rgba(255, 255, 200, 0.6), rgba(255, 220, 120, 0.45), rgba(255, 180, 80, 0), 0.5},
}

func drawHoleGlow(s *canvas.Surface, x, y, r, brightness float64) {
	for _, h := range holeGlow {
		h.draw(s, x, y, r, brightness)
	}
}

// turbulence perturbs the disk edge with three interfering waves.
func turbulence(angle, t float64) float64 {
	return math.Sin(angle*3+t/1000)*8 +
		math.Sin(angle*5-t/1500)*5 +
		math.Sin(angle*7+t/2000)*3
}

func drawAccretionDisk(s *canvas.Surface, x, y, spin, t, brightness float64) {
	s.Save()
	s.Translate(x, y)

	step := tau / diskSegments
	for i := 0; i < diskSegments; i++ {
		angle := float64(i)*step + spin
		turb := turbulence(angle, t)
		inner := diskInnerRadius + turb*0.3
		outer := diskOuterRadius + turb

		shade := float64(i%10) / 10
		a := (0.7 + math.Sin(angle*2+t/1000)*0.3) * brightness
		s.SetColor(fromColorful(diskColor(shade), a))
		s.FillRing(0, 0, inner, outer, angle, angle+step*1.1)
	}

	disc(s, radial(0, 0, diskInnerRadius*0.9, diskInnerRadius*1.2,
		stop(0, rgba(255, 255, 200, 0.8*brightness)),
		stop(0.5, rgba(255, 255, 150, 0.5*brightness)),
		stop(1, rgba(255, 200, 100, 0)),
	))

	// Tilted disk seen edge-on.
	s.Save()
	s.Scale(1, 0.3)
	s.SetGradient(radial(0, 0, diskInnerRadius, diskOuterRadius,
		stop(0, rgba(255, 200, 100, 0.3*brightness)),
		stop(0.5, rgba(255, 150, 50, 0.2*brightness)),
		stop(1, rgba(255, 100, 20, 0)),
	))
	s.FillCircle(0, 0, diskOuterRadius)
	s.Restore()

	s.Restore()
}

func drawEventHorizon(s *canvas.Surface, x, y, r float64) {
	dot(s, x, y, r, rgba(0, 0, 0, 1))
	disc(s, radial(x, y, r*0.95, r*1.05,
		stop(0, rgba(0, 0, 0, 1)),
		stop(1, rgba(20, 10, 0, 0.8)),
	))
}
