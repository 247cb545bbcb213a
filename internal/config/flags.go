package config

import "flag"

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed      = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen    = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth         = flag.Int("width", 0, "Window width")
	flagHeight        = flag.Int("height", 0, "Window height")
	flagReducedMotion = flag.Bool("reduced-motion", false, "Disable the animated journey")
	flagQuality       = flag.String("quality", "", "Initial quality: low, medium or high")
	flagNoStarfield   = flag.Bool("no-starfield", false, "Disable the star layer")
	flagMetrics       = flag.String("metrics", "", "Serve Prometheus metrics on this address")
	flagMemoryPrefs   = flag.Bool("memory-prefs", false, "Keep preferences in memory only")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagReducedMotion {
		cfg.Animation.ReducedMotion = true
	}
	if *flagQuality != "" {
		cfg.Animation.InitialQuality = *flagQuality
	}
	if *flagNoStarfield {
		cfg.Animation.Starfield = false
	}
	if *flagMetrics != "" {
		cfg.Metrics.Listen = *flagMetrics
	}
	if *flagMemoryPrefs {
		cfg.Preferences.InMemory = true
	}
}
