package cosmos

import (
	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/spacejourney/internal/canvas"
)

// rgba builds a colour from 8-bit channels and a float alpha.
func rgba(r, g, b uint8, a float64) gg.RGBA {
	return gg.RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: a}
}

func fromColorful(c colorful.Color, a float64) gg.RGBA {
	c = c.Clamped()
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Nebula gas colours: blue, purple, pink, orange.
var nebulaPalette = []colorful.Color{
	hex("#6496ff"),
	hex("#9664ff"),
	hex("#ff6496"),
	hex("#ff9664"),
}

// nebulaTint returns the cloud colour for index i drifted towards the next
// palette entry by shift in [0,1]. Blending in Luv keeps the perceived
// brightness even across hues.
func nebulaTint(i int, shift float64) colorful.Color {
	a := nebulaPalette[i%len(nebulaPalette)]
	b := nebulaPalette[(i+1)%len(nebulaPalette)]
	return a.BlendLuv(b, shift)
}

// Accretion disk ramp from the hot inner rim to the cooler outer edge.
var (
	diskHot  = hex("#ffc864")
	diskCool = hex("#ff6414")
)

func diskColor(t float64) colorful.Color {
	return diskHot.BlendLuv(diskCool, t)
}

func stop(offset float64, c gg.RGBA) canvas.Stop {
	return canvas.Stop{Offset: offset, Color: c}
}

// radial builds a centred gradient from r0 to r1.
func radial(x, y, r0, r1 float64, st ...canvas.Stop) canvas.RadialGradient {
	return canvas.Radial(x, y, r0, r1, st...)
}

// lit builds a sphere-shading gradient whose focus sits up and to the left of
// centre by the given fraction of the radius.
func lit(x, y, r, offset float64, st ...canvas.Stop) canvas.RadialGradient {
	return canvas.RadialGradient{
		X0: x - r*offset, Y0: y - r*offset, R0: r * 0.1,
		X1: x, Y1: y, R1: r,
		Stops: st,
	}
}

// disc fills a circle with a gradient.
func disc(s *canvas.Surface, g canvas.RadialGradient) {
	s.SetGradient(g)
	s.FillCircle(g.X1, g.Y1, g.R1)
}

// dot fills a circle with a solid colour.
func dot(s *canvas.Surface, x, y, r float64, c gg.RGBA) {
	s.SetColor(c)
	s.FillCircle(x, y, r)
}
