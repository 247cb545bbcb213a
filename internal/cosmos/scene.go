// Package cosmos holds the scene renderers of the space journey: Earth and
// Moon, the Sun, Betelgeuse, a stellar nebula, a black hole and a field of
// spiral galaxies.
//
// Every renderer draws around the centre of the logical surface, derives
// all motion from the animation clock and scales its detail with quality.
package cosmos

import (
	"fmt"
	"math"
	"time"

	"github.com/Faultbox/spacejourney/internal/stage"
)

// Scene is the closed set of renderable scenes.
type Scene int

const (
	EarthMoon Scene = iota
	Sun
	Betelgeuse
	Nebula
	BlackHole
	Galaxies

	sceneCount
)

var sceneNames = [sceneCount]string{
	EarthMoon:  "earth-moon",
	Sun:        "sun",
	Betelgeuse: "betelgeuse",
	Nebula:     "nebula",
	BlackHole:  "black-hole",
	Galaxies:   "galaxies",
}

func (s Scene) String() string {
	if s < 0 || s >= sceneCount {
		return fmt.Sprintf("scene(%d)", int(s))
	}
	return sceneNames[s]
}

// Scenes lists every scene in journey order.
func Scenes() []Scene {
	out := make([]Scene, sceneCount)
	for i := range out {
		out[i] = Scene(i)
	}
	return out
}

// ParseScene looks a scene up by name.
func ParseScene(name string) (Scene, error) {
	for i, n := range sceneNames {
		if n == name {
			return Scene(i), nil
		}
	}
	return 0, fmt.Errorf("cosmos: unknown scene %q", name)
}

// Render draws the scene.
func (s Scene) Render(rc *stage.RenderContext) {
	switch s {
	case EarthMoon:
		renderEarthMoon(rc)
	case Sun:
		renderSun(rc)
	case Betelgeuse:
		renderBetelgeuse(rc)
	case Nebula:
		renderNebula(rc)
	case BlackHole:
		renderBlackHole(rc)
	case Galaxies:
		renderGalaxies(rc)
	}
}

// window is a scene's place on the journey.
type window struct {
	start, end float64
}

var windows = [sceneCount]window{
	EarthMoon:  {0.00, 0.15},
	Sun:        {0.15, 0.30},
	Betelgeuse: {0.35, 0.50},
	Nebula:     {0.45, 0.65},
	BlackHole:  {0.60, 0.80},
	Galaxies:   {0.75, 1.00},
}

const fade = 0.05

// Stage returns the scene bound to its scroll window.
func (s Scene) Stage() stage.Stage {
	w := windows[s]
	return stage.Stage{
		Name:          s.String(),
		ScrollStart:   w.start,
		ScrollEnd:     w.end,
		TransitionIn:  fade,
		TransitionOut: fade,
		Render:        s.Render,
	}
}

// DefaultStages returns the journey in render order. The Betelgeuse/nebula,
// nebula/black-hole and black-hole/galaxies windows overlap and crossfade;
// 0.30 to 0.35 is empty sky.
func DefaultStages() []stage.Stage {
	out := make([]stage.Stage, 0, sceneCount)
	for _, s := range Scenes() {
		out = append(out, s.Stage())
	}
	return out
}

// NewRegistry builds the validated default journey.
func NewRegistry() (*stage.Registry, error) {
	return stage.NewRegistry(DefaultStages()...)
}

const tau = 2 * math.Pi

// millis returns the animation clock in fractional milliseconds.
func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// wave is sin(2π·t/period) with t and period in milliseconds.
func wave(t, period float64) float64 {
	return math.Sin(t / period * tau)
}
