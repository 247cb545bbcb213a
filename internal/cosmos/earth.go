package cosmos

import (
	"math"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/stage"
)

const (
	earthRadius     = 80.0
	moonRadius      = 20.0
	moonOrbitRadius = 150.0
	moonPeriod      = 8000.0
)

func renderEarthMoon(rc *stage.RenderContext) {
	s := rc.Surface
	cx, cy := rc.Width/2, rc.Height/2

	angle := millis(rc.Time) / moonPeriod * tau
	mx := cx + math.Cos(angle)*moonOrbitRadius
	my := cy + math.Sin(angle)*moonOrbitRadius
	behind := math.Cos(angle) < 0

	if behind {
		drawMoon(s, mx, my, moonRadius)
	}
	drawEarth(s, cx, cy, earthRadius, rc.Quality)
	if !behind {
		drawMoon(s, mx, my, moonRadius)
	}
}

type patch struct {
	dx, dy, r float64
}

var (
	landPatches  = []patch{{-0.4, -0.3, 0.35}, {0.3, 0.1, 0.4}}
	extraLand    = patch{-0.2, 0.5, 0.3}
	forestPatch  = patch{-0.35, -0.25, 0.15}
	polarCap     = patch{0, -0.8, 0.25}
	cloudPatches = []patch{{0.5, -0.2, 0.2}, {-0.6, 0.3, 0.15}}
)

func (p patch) fill(s *canvas.Surface, x, y, r float64) {
	s.FillCircle(x+r*p.dx, y+r*p.dy, r*p.r)
}

func drawEarth(s *canvas.Surface, x, y, r float64, q quality.Level) {
	detailed := q != quality.Low

	if detailed {
		disc(s, radial(x, y, r*0.9, r*1.4,
			stop(0, rgba(135, 206, 250, 0.3)),
			stop(0.5, rgba(135, 206, 250, 0.15)),
			stop(1, rgba(135, 206, 250, 0)),
		))
	}

	disc(s, lit(x, y, r, 0.3,
		stop(0, rgba(100, 180, 255, 1)),
		stop(0.5, rgba(30, 144, 255, 1)),
		stop(1, rgba(10, 80, 180, 1)),
	))

	s.SetColor(rgba(34, 139, 34, 0.8))
	for _, p := range landPatches {
		p.fill(s, x, y, r)
	}
	if detailed {
		extraLand.fill(s, x, y, r)
		s.SetColor(rgba(20, 100, 20, 0.6))
		forestPatch.fill(s, x, y, r)
	}

	s.SetColor(rgba(255, 255, 255, 0.7))
	polarCap.fill(s, x, y, r)
	if detailed {
		for _, p := range cloudPatches {
			p.fill(s, x, y, r)
		}
	}

	disc(s, radial(x, y, r*0.8, r,
		stop(0, rgba(255, 255, 255, 0)),
		stop(1, rgba(135, 206, 250, 0.2)),
	))
}

var (
	craters      = []patch{{0.3, -0.2, 0.3}, {-0.4, 0.3, 0.25}, {-0.2, -0.4, 0.15}, {0.5, 0.4, 0.12}}
	craterShadow = []patch{{0.3, -0.2, 0.12}, {-0.4, 0.3, 0.1}}
)

func drawMoon(s *canvas.Surface, x, y, r float64) {
	disc(s, lit(x, y, r, 0.3,
		stop(0, rgba(220, 220, 220, 1)),
		stop(0.5, rgba(169, 169, 169, 1)),
		stop(1, rgba(100, 100, 100, 1)),
	))

	s.SetColor(rgba(105, 105, 105, 0.8))
	for _, c := range craters {
		c.fill(s, x, y, r)
	}
	s.SetColor(rgba(60, 60, 60, 0.9))
	for _, c := range craterShadow {
		c.fill(s, x, y, r)
	}
}
