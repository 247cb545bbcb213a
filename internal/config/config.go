// Package config handles loading, validating and saving the application
// configuration.
package config

import (
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/scroll"
)

// Config holds all settings.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Animation   AnimationConfig   `yaml:"animation"`
	Device      DeviceConfig      `yaml:"device"`
	Page        PageConfig        `yaml:"page"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Capture     CaptureConfig     `yaml:"capture"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" validate:"required"`
	Width      int    `yaml:"width" validate:"gte=320"`
	Height     int    `yaml:"height" validate:"gte=240"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// AnimationConfig controls the animated layers.
type AnimationConfig struct {
	// ReducedMotion is read once at start; when set the journey never runs.
	ReducedMotion bool `yaml:"reduced_motion"`
	// InitialQuality overrides the detected tier when non-empty.
	InitialQuality string `yaml:"initial_quality" validate:"omitempty,oneof=low medium high"`
	Starfield      bool   `yaml:"starfield"`
	Stars          int    `yaml:"stars" validate:"gte=0,lte=1000"`
	// Seed fixes the star layout. Zero picks one at start.
	Seed uint64 `yaml:"seed"`
}

// DeviceConfig overrides probed device properties. Zero values keep the
// probed ones.
type DeviceConfig struct {
	UserAgent     string  `yaml:"user_agent"`
	ViewportWidth float64 `yaml:"viewport_width" validate:"gte=0"`
	Touch         bool    `yaml:"touch"`
	Cores         int     `yaml:"cores" validate:"gte=0"`
}

// SectionConfig is one block of the page.
type SectionConfig struct {
	Name   string  `yaml:"name" validate:"required"`
	Height float64 `yaml:"height" validate:"gt=0"`
}

// PageConfig describes the scrollable page driving the journey.
type PageConfig struct {
	Sections  []SectionConfig `yaml:"sections" validate:"required,min=1,dive"`
	WheelStep float64         `yaml:"wheel_step" validate:"gt=0"`
}

// PreferencesConfig selects the preference store.
type PreferencesConfig struct {
	// Path is the Badger directory. Empty uses ConfigDir()/prefs.
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the HTTP address for /metrics. Empty disables the endpoint.
	Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
}

// CaptureConfig controls screenshots.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix" validate:"required"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" validate:"oneof=debug info warn error"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Space Journey",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Animation: AnimationConfig{
			Starfield: true,
			Stars:     75,
		},
		Page: PageConfig{
			Sections: []SectionConfig{
				{Name: "hero", Height: 900},
				{Name: "about", Height: 1200},
				{Name: "experience", Height: 1800},
				{Name: "projects", Height: 2000},
				{Name: "skills", Height: 1000},
				{Name: "contact", Height: 800},
			},
			WheelStep: 60,
		},
		Capture: CaptureConfig{
			Dir:    "screenshots",
			Prefix: "journey",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DocumentSections converts the page layout for scroll.NewDocument.
func (p PageConfig) DocumentSections() []scroll.Section {
	out := make([]scroll.Section, len(p.Sections))
	for i, s := range p.Sections {
		out[i] = scroll.Section{Name: s.Name, Height: s.Height}
	}
	return out
}

// Overrides returns the overrides as a quality.Device.
func (d DeviceConfig) Overrides() quality.Device {
	return quality.Device{
		UserAgent:           d.UserAgent,
		ViewportWidth:       d.ViewportWidth,
		Touch:               d.Touch,
		HardwareConcurrency: d.Cores,
	}
}

// Quality returns the configured initial tier, or ok=false when unset.
func (a AnimationConfig) Quality() (quality.Level, bool) {
	if a.InitialQuality == "" {
		return 0, false
	}
	l, err := quality.ParseLevel(a.InitialQuality)
	return l, err == nil
}
