// Package starfield is the secondary star layer drawn behind the journey:
// slowly orbiting stars, a fading pointer trail and comets launched toward
// clicked points.
package starfield

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"github.com/Faultbox/spacejourney/internal/canvas"
	mathx "github.com/Faultbox/spacejourney/pkg/math"
)

const (
	DefaultStars = 75

	TrailLength = 15
	TrailFade   = 0.05
	trailRadius = 3

	CometStep   = 0.024
	CometTail   = 10
	cometMargin = 50
	cometSpan   = 0.1
)

var (
	white     = gg.RGBA{R: 1, G: 1, B: 1, A: 1}
	trailBlue = gg.RGBA{R: 147.0 / 255, G: 197.0 / 255, B: 253.0 / 255, A: 1}
)

// Path is the orbit family a star was generated in.
type Path int

const (
	Circular Path = iota
	Elliptical
	Sweeping
)

// Star orbits an ellipse centred at Center.
type Star struct {
	Path            Path
	Center          mathx.Vec2
	Orbit           mathx.Vec2
	Angle           float64
	AngularVelocity float64
	Size            float64
	Opacity         float64
}

// Position returns the star's current point on its orbit.
func (s Star) Position() mathx.Vec2 {
	return mathx.OnEllipse(s.Center, s.Orbit, s.Angle)
}

// brightness folds twinkle and speed into the drawn opacity. Faster stars
// shine brighter.
func (s Star) brightness(i int) float64 {
	twinkle := math.Sin(s.Angle*5+float64(i))*0.15 + 0.85
	boost := 1.3 + math.Abs(s.AngularVelocity)*200
	return math.Min(1, s.Opacity*twinkle*boost*1.25)
}

// TrailPoint is one sample of the pointer trail.
type TrailPoint struct {
	Pos     mathx.Vec2
	Opacity float64
}

// Comet travels in a straight line from From to To.
type Comet struct {
	From, To mathx.Vec2
	Progress float64
	// OnComplete runs once when the comet reaches its target.
	OnComplete func()
}

// Field holds the simulation state. It is not safe for concurrent use.
type Field struct {
	rng    *rand.Rand
	count  int
	width  float64
	height float64

	stars  []Star
	trail  []TrailPoint
	comets []Comet
}

// NewField creates a field of count stars scattered over a width x height
// viewport. The same seed always produces the same sky.
func NewField(width, height float64, count int, seed uint64) *Field {
	if count < 0 {
		count = 0
	}
	f := &Field{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), count: count}
	f.Reset(width, height)
	return f
}

// Reset regenerates the stars for a new viewport size. The trail and any
// comets in flight are kept.
func (f *Field) Reset(width, height float64) {
	f.width, f.height = width, height
	f.stars = f.stars[:0]
	for i := 0; i < f.count; i++ {
		f.stars = append(f.stars, f.newStar())
	}
}

func (f *Field) newStar() Star {
	r := f.rng.Float64
	w, h := f.width, f.height
	s := Star{
		Angle:           r() * 2 * math.Pi,
		AngularVelocity: (r() - 0.5) * 0.01,
		Size:            math.Max(0.72, r()*1.08+0.72),
		Opacity:         r()*0.3 + 0.875,
	}
	switch p := r(); {
	case p < 0.4:
		s.Path = Circular
		s.Center = mathx.V2(r()*w, r()*h)
		rx := r()*150 + 50
		s.Orbit = mathx.V2(rx, rx*(r()*0.2+0.9))
	case p < 0.8:
		s.Path = Elliptical
		s.Center = mathx.V2(r()*w, r()*h)
		s.Orbit = mathx.V2(r()*w/4+50, r()*h/4+50)
	default:
		s.Path = Sweeping
		s.Center = mathx.V2(w/2+(r()-0.5)*w*1.5, h/2+(r()-0.5)*h*1.5)
		s.Orbit = mathx.V2(r()*w+w/2, r()*h+h/2)
	}
	return s
}

// Stars returns the current stars. The slice is owned by the field.
func (f *Field) Stars() []Star { return f.stars }

// Trail returns the live trail points, oldest first.
func (f *Field) Trail() []TrailPoint { return f.trail }

// Comets returns the comets in flight.
func (f *Field) Comets() []Comet { return f.comets }

// AddTrailPoint records a pointer position at full opacity, dropping the
// oldest point beyond TrailLength.
func (f *Field) AddTrailPoint(p mathx.Vec2) {
	f.trail = append(f.trail, TrailPoint{Pos: p, Opacity: 1})
	if n := len(f.trail) - TrailLength; n > 0 {
		f.trail = append(f.trail[:0], f.trail[n:]...)
	}
}

// LaunchComet starts a comet just outside a random edge of the viewport,
// heading for target. onComplete may be nil.
func (f *Field) LaunchComet(target mathx.Vec2, onComplete func()) {
	f.comets = append(f.comets, Comet{From: f.edgePoint(), To: target, OnComplete: onComplete})
}

func (f *Field) edgePoint() mathx.Vec2 {
	w, h := f.width, f.height
	switch f.rng.IntN(4) {
	case 0:
		return mathx.V2(f.rng.Float64()*w, -cometMargin)
	case 1:
		return mathx.V2(w+cometMargin, f.rng.Float64()*h)
	case 2:
		return mathx.V2(f.rng.Float64()*w, h+cometMargin)
	default:
		return mathx.V2(-cometMargin, f.rng.Float64()*h)
	}
}

// Step advances the simulation by one frame. Comets that arrive are removed
// and their callbacks run after the field is updated.
func (f *Field) Step() {
	for i := range f.stars {
		f.stars[i].Angle += f.stars[i].AngularVelocity
	}

	live := f.trail[:0]
	for _, p := range f.trail {
		p.Opacity -= TrailFade
		if p.Opacity > 1e-9 {
			live = append(live, p)
		}
	}
	f.trail = live

	var done []func()
	flying := f.comets[:0]
	for _, c := range f.comets {
		c.Progress += CometStep
		if c.Progress >= 1 {
			if c.OnComplete != nil {
				done = append(done, c.OnComplete)
			}
			continue
		}
		flying = append(flying, c)
	}
	clear(f.comets[len(flying):])
	f.comets = flying

	for _, fn := range done {
		fn()
	}
}

// Draw paints the current state onto s. It does not clear the surface.
func (f *Field) Draw(s *canvas.Surface) {
	for i, st := range f.stars {
		p := st.Position()
		s.SetColor(canvas.WithAlpha(white, st.brightness(i)))
		s.FillCircle(p.X, p.Y, math.Max(0.1, st.Size))
	}

	for _, tp := range f.trail {
		r := trailRadius * tp.Opacity
		if r <= 0.1 {
			continue
		}
		s.SetGradient(canvas.Radial(tp.Pos.X, tp.Pos.Y, 0, r,
			canvas.Stop{Offset: 0, Color: canvas.WithAlpha(trailBlue, tp.Opacity*0.8)},
			canvas.Stop{Offset: 1, Color: canvas.WithAlpha(trailBlue, 0)},
		))
		s.FillCircle(tp.Pos.X, tp.Pos.Y, r)
	}

	for _, c := range f.comets {
		drawComet(s, c)
	}
}

func drawComet(s *canvas.Surface, c Comet) {
	for i := 0; i < CometTail; i++ {
		t := c.Progress - float64(i)/CometTail*cometSpan
		if t < 0 {
			continue
		}
		p := c.From.Lerp(c.To, t)
		a := (1 - float64(i)/CometTail) * (1 - c.Progress)
		size := float64(CometTail-i) * 0.5
		s.SetGradient(canvas.Radial(p.X, p.Y, 0, size*2,
			canvas.Stop{Offset: 0, Color: canvas.WithAlpha(white, a)},
			canvas.Stop{Offset: 0.5, Color: canvas.WithAlpha(white, a*0.5)},
			canvas.Stop{Offset: 1, Color: canvas.WithAlpha(white, 0)},
		))
		s.FillCircle(p.X, p.Y, size)
	}

	head := c.From.Lerp(c.To, c.Progress)
	s.SetGradient(canvas.Radial(head.X, head.Y, 0, 8,
		canvas.Stop{Offset: 0, Color: white},
		canvas.Stop{Offset: 0.3, Color: canvas.WithAlpha(white, 0.8)},
		canvas.Stop{Offset: 1, Color: canvas.WithAlpha(white, 0)},
	))
	s.FillCircle(head.X, head.Y, 4)
}
