package cosmos

import (
	"math"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/stage"
)

func renderNebula(rc *stage.RenderContext) {
	s := rc.Surface
	settings := rc.Quality.Settings()
	cx, cy := rc.Width/2, rc.Height/2

	layers := quality.Pick(rc.Quality, 5, 3, 2)
	clouds := quality.Pick(rc.Quality, 5, 3, 2)

	// Gas adds light where clouds overlap.
	s.Save()
	s.SetAdditive()
	for layer := 0; layer < layers; layer++ {
		// Layer speeds run from 0.5x to 1.5x; only the outer layers move.
		speed := 0.5 + float64(layer)/float64(layers-1)
		offset := 0.0
		if settings.EnableParallax {
			offset = (rc.Progress - 0.5) * 200 * (speed - 1)
		}
		alpha := 0.1 + float64(layer)/float64(layers)*0.2

		for cloud := 0; cloud < clouds; cloud++ {
			seed := float64(layer)*100 + float64(cloud)*37.5
			angle := math.Mod(seed*0.1, tau)
			dist := 100 + math.Mod(seed, 200) + offset
			x, y := cx+math.Cos(angle)*dist, cy+math.Sin(angle)*dist
			size := 100 + math.Mod(seed*7, 200)

			c := fromColorful(nebulaTint(cloud, rc.Progress*0.25), 1)
			disc(s, radial(x, y, size*0.1, size,
				stop(0, canvas.WithAlpha(c, alpha)),
				stop(0.5, canvas.WithAlpha(c, alpha*0.6)),
				stop(1, canvas.WithAlpha(c, 0)),
			))
		}
	}
	s.Restore()

	drawProtoStars(s, cx, cy, quality.Pick(rc.Quality, 10, 5, 3))
}

func drawProtoStars(s *canvas.Surface, cx, cy float64, count int) {
	for i := 0; i < count; i++ {
		seed := float64(i) * 73.2
		angle := math.Mod(seed*0.15, tau)
		dist := 50 + math.Mod(seed, 250)
		x, y := cx+math.Cos(angle)*dist, cy+math.Sin(angle)*dist
		size := 5 + float64(i%6)

		disc(s, radial(x, y, 0, size*3,
			stop(0, rgba(255, 255, 255, 1)),
			stop(0.2, rgba(255, 255, 255, 0.8)),
			stop(0.5, rgba(255, 255, 220, 0.4)),
			stop(1, rgba(255, 255, 200, 0)),
		))
		dot(s, x, y, size, rgba(255, 255, 255, 1))
	}
}
