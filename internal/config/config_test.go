package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/spacejourney/internal/quality"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}
	if !cfg.Animation.Starfield || cfg.Animation.Stars != 75 {
		t.Errorf("expected starfield with 75 stars, got %+v", cfg.Animation)
	}
	if cfg.Animation.ReducedMotion {
		t.Error("expected reduced motion off by default")
	}
	if len(cfg.Page.Sections) == 0 || cfg.Page.WheelStep <= 0 {
		t.Errorf("page = %+v", cfg.Page)
	}
	if cfg.Metrics.Listen != "" {
		t.Errorf("expected metrics disabled, got %q", cfg.Metrics.Listen)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

animation:
  reduced_motion: true
  initial_quality: medium
  starfield: false
  seed: 42

device:
  user_agent: "Android"
  viewport_width: 400
  touch: true
  cores: 2

page:
  sections:
    - name: intro
      height: 1000
    - name: outro
      height: 500
  wheel_step: 40

preferences:
  in_memory: true

metrics:
  listen: "127.0.0.1:9464"

logging:
  level: "debug"
  log_file: "journey.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config invalid: %v", err)
	}

	if cfg.Window.Width != 1920 || !cfg.Window.Fullscreen || cfg.Window.VSync {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Window.Title != "Space Journey" {
		t.Errorf("unset title should keep default, got %q", cfg.Window.Title)
	}
	if q, ok := cfg.Animation.Quality(); !ok || q != quality.Medium {
		t.Errorf("Quality() = %v, %v", q, ok)
	}
	if !cfg.Animation.ReducedMotion || cfg.Animation.Starfield || cfg.Animation.Seed != 42 {
		t.Errorf("animation = %+v", cfg.Animation)
	}
	if cfg.Animation.Stars != 75 {
		t.Errorf("unset star count should keep default, got %d", cfg.Animation.Stars)
	}

	dev := cfg.Device.Overrides()
	if dev.UserAgent != "Android" || dev.ViewportWidth != 400 || !dev.Touch || dev.HardwareConcurrency != 2 {
		t.Errorf("device = %+v", dev)
	}

	secs := cfg.Page.DocumentSections()
	if len(secs) != 2 || secs[0].Name != "intro" || secs[1].Height != 500 {
		t.Errorf("sections = %+v", secs)
	}
	if cfg.PrefsDir() != "" {
		t.Errorf("in-memory prefs should have no dir, got %q", cfg.PrefsDir())
	}
	if cfg.Metrics.Listen != "127.0.0.1:9464" || cfg.Logging.LogFile != "journey.log" {
		t.Errorf("metrics %q log %q", cfg.Metrics.Listen, cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax": `
window:
  width: not a number
  invalid syntax here
`,
		"unknown key": `
window:
  widht: 800
`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"tiny window", func(c *Config) { c.Window.Width = 100 }, "Window.Width"},
		{"no title", func(c *Config) { c.Window.Title = "" }, "Window.Title"},
		{"bad quality", func(c *Config) { c.Animation.InitialQuality = "ultra" }, "Animation.InitialQuality"},
		{"too many stars", func(c *Config) { c.Animation.Stars = 5000 }, "Animation.Stars"},
		{"no sections", func(c *Config) { c.Page.Sections = nil }, "Page.Sections"},
		{"empty section", func(c *Config) { c.Page.Sections[0].Height = 0 }, "Page.Sections[0].Height"},
		{"zero wheel step", func(c *Config) { c.Page.WheelStep = 0 }, "Page.WheelStep"},
		{"bad listen", func(c *Config) { c.Metrics.Listen = "nowhere" }, "Metrics.Listen"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "Logging.Level"},
		{"negative cores", func(c *Config) { c.Device.Cores = -1 }, "Device.Cores"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestPrefsDir(t *testing.T) {
	cfg := Default()
	if got, want := cfg.PrefsDir(), filepath.Join(ConfigDir(), "prefs"); got != want {
		t.Errorf("PrefsDir() = %q, want %q", got, want)
	}
	cfg.Preferences.Path = "/tmp/p"
	if cfg.PrefsDir() != "/tmp/p" {
		t.Errorf("explicit path ignored")
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "spacejourney.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find spacejourney.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "animation flags",
			setup: func() {
				*flagReducedMotion = true
				*flagQuality = "low"
				*flagNoStarfield = true
			},
			verify: func(cfg *Config) {
				if !cfg.Animation.ReducedMotion || cfg.Animation.Starfield {
					t.Errorf("animation = %+v", cfg.Animation)
				}
				if q, ok := cfg.Animation.Quality(); !ok || q != quality.Low {
					t.Errorf("Quality() = %v, %v", q, ok)
				}
			},
			teardown: func() {
				*flagReducedMotion = false
				*flagQuality = ""
				*flagNoStarfield = false
			},
		},
		{
			name: "metrics and prefs flags",
			setup: func() {
				*flagMetrics = "127.0.0.1:9464"
				*flagMemoryPrefs = true
			},
			verify: func(cfg *Config) {
				if cfg.Metrics.Listen != "127.0.0.1:9464" || !cfg.Preferences.InMemory {
					t.Errorf("metrics %q in-memory %v", cfg.Metrics.Listen, cfg.Preferences.InMemory)
				}
			},
			teardown: func() {
				*flagMetrics = ""
				*flagMemoryPrefs = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalidFlags(t *testing.T) {
	*flagQuality = "ultra"
	defer func() { *flagQuality = "" }()
	if _, err := Load(); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Animation.Seed = 7
	cfg.Page.Sections = cfg.Page.Sections[:2]
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Animation.Seed != 7 || len(got.Page.Sections) != 2 {
		t.Errorf("reloaded = %+v", got)
	}
}
