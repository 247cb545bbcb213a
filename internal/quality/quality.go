// Package quality defines rendering quality tiers, their fixed presets, and
// the one-shot device capability heuristics used to seed them.
package quality

import (
	"fmt"
	"strings"
)

// Level is a discrete performance/fidelity tier. Levels are ordered:
// Low < Medium < High.
type Level int

const (
	Low Level = iota
	Medium
	High
)

// String returns the lowercase tier name.
func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Valid reports whether l is one of the three defined tiers.
func (l Level) Valid() bool {
	return l >= Low && l <= High
}

// Lower returns the next tier down. Low stays Low.
func (l Level) Lower() Level {
	if l <= Low {
		return Low
	}
	return l - 1
}

// Higher returns the next tier up. High stays High.
func (l Level) Higher() Level {
	if l >= High {
		return High
	}
	return l + 1
}

// Pick returns high, medium or low depending on l. Renderers use it to scale
// feature counts per tier.
func Pick[T any](l Level, high, medium, low T) T {
	switch l {
	case High:
		return high
	case Medium:
		return medium
	default:
		return low
	}
}

// ParseLevel parses a tier name. The empty string is an error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low":
		return Low, nil
	}
	return Low, fmt.Errorf("unknown quality level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid quality level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Complexity selects how many optional sub-effects a renderer draws.
type Complexity int

const (
	Full Complexity = iota
	Reduced
	Minimal
)

func (c Complexity) String() string {
	switch c {
	case Full:
		return "full"
	case Reduced:
		return "reduced"
	default:
		return "minimal"
	}
}

// Settings is the immutable preset attached to a Level.
type Settings struct {
	ParticleCount  int
	Complexity     Complexity
	EnableLensing  bool
	EnableParallax bool
	RenderScale    float64
}

var presets = [...]Settings{
	Low: {
		ParticleCount:  200,
		Complexity:     Minimal,
		EnableLensing:  false,
		EnableParallax: false,
		RenderScale:    0.5,
	},
	Medium: {
		ParticleCount:  500,
		Complexity:     Reduced,
		EnableLensing:  true,
		EnableParallax: false,
		RenderScale:    0.75,
	},
	High: {
		ParticleCount:  1000,
		Complexity:     Full,
		EnableLensing:  true,
		EnableParallax: true,
		RenderScale:    1.0,
	},
}

// SettingsFor returns the preset for l. Out-of-range levels get the Low preset.
func SettingsFor(l Level) Settings {
	if !l.Valid() {
		return presets[Low]
	}
	return presets[l]
}

// Settings returns the preset for l.
func (l Level) Settings() Settings {
	return SettingsFor(l)
}
