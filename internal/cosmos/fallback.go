package cosmos

import (
	"math"

	"github.com/Faultbox/spacejourney/internal/canvas"
)

const fallbackStars = 50

// DrawFallback paints the static sky shown when the device is too weak for
// the animated journey: a faint central vignette and fixed star dots.
func DrawFallback(s *canvas.Surface) {
	w, h := s.Width(), s.Height()
	cx, cy := w/2, h/2

	// An elliptical vignette, stretched to the viewport's aspect ratio.
	s.Save()
	s.Translate(cx, cy)
	s.Scale(1, h/math.Max(w, 1))
	s.SetGradient(radial(0, 0, 0, w*0.5*0.7,
		stop(0, rgba(20, 20, 40, 0.3)),
		stop(1, rgba(20, 20, 40, 0)),
	))
	s.FillCircle(0, 0, w*0.5*0.7)
	s.Restore()

	s.Save()
	s.SetGlobalAlpha(0.6)
	for i := 0; i < fallbackStars; i++ {
		seed := float64(i) * 47.3
		x := math.Mod(seed*7.1, 100) / 100 * w
		y := math.Mod(seed*13.7, 100) / 100 * h
		size := 1 + float64(i%3)*0.5
		a := 0.3 + float64(i%5)*0.15
		dot(s, x, y, size, rgba(255, 255, 255, a))
	}
	s.Restore()
}
