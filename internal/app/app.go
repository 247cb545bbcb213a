// Package app runs the scroll-driven journey inside an SDL window: it owns
// the main loop, the preference store, the metrics endpoint and the layer
// textures that put the software-rendered surfaces on screen.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Faultbox/spacejourney/internal/config"
	"github.com/Faultbox/spacejourney/internal/engine/capture"
	"github.com/Faultbox/spacejourney/internal/engine/input"
	"github.com/Faultbox/spacejourney/internal/engine/presenter"
	"github.com/Faultbox/spacejourney/internal/engine/window"
	"github.com/Faultbox/spacejourney/internal/logger"
	"github.com/Faultbox/spacejourney/internal/perf"
	"github.com/Faultbox/spacejourney/internal/prefs"
	"github.com/Faultbox/spacejourney/internal/quality"
)

// Clear colours behind the layers.
var (
	darkBackground  = presenter.Color{R: 0.02, G: 0.02, B: 0.06, A: 1}
	lightBackground = presenter.Color{R: 0.96, G: 0.97, B: 0.99, A: 1}
)

// keyBindings maps keyboard keys to journey commands.
var keyBindings = map[sdl.Keycode]Key{
	sdl.K_s:        KeyToggleStars,
	sdl.K_t:        KeyToggleTheme,
	sdl.K_UP:       KeyLineUp,
	sdl.K_DOWN:     KeyLineDown,
	sdl.K_PAGEUP:   KeyPageUp,
	sdl.K_PAGEDOWN: KeyPageDown,
	sdl.K_HOME:     KeyHome,
	sdl.K_END:      KeyEnd,
	sdl.K_F12:      KeyCapture,
	sdl.K_ESCAPE:   KeyQuit,
}

// App is the running application.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window    *window.Window
	presenter *presenter.Presenter
	input     *input.Input
	events    *input.Dispatcher
	store     *prefs.Store
	metrics   *MetricsServer
	capture   *capture.Capture
	journey   *Journey

	textures  []*presenter.Texture
	removeKey func()
	section   string
}

// New opens the window and wires every component. On error anything already
// created is released.
func New(cfg *config.Config) (_ *App, err error) {
	log := logger.Named("app")
	log.Info("initializing",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// Window first: the GL context must exist before the presenter.
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	a.presenter, err = presenter.New(logger.Named("presenter"))
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	a.input = input.New()
	a.events = input.NewDispatcher()

	a.store, err = openPrefs(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	inst := perf.NewInstruments(reg)
	if cfg.Metrics.Listen != "" {
		a.metrics, err = StartMetrics(cfg.Metrics.Listen, reg, logger.Named("metrics"))
		if err != nil {
			return nil, err
		}
	}

	a.capture = capture.New(cfg.Capture.Dir, cfg.Capture.Prefix)

	seed := cfg.Animation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	var initial *quality.Level
	if q, ok := cfg.Animation.Quality(); ok {
		initial = &q
	}
	device := window.Override(a.window.Device(), cfg.Device.Overrides())

	a.journey, err = NewJourney(JourneyConfig{
		Bus:            a.events,
		Viewport:       a.window,
		Prefs:          a.store,
		Sections:       cfg.Page.DocumentSections(),
		WheelStep:      cfg.Page.WheelStep,
		Device:         device,
		ReducedMotion:  cfg.Animation.ReducedMotion,
		InitialQuality: initial,
		Starfield:      cfg.Animation.Starfield,
		Stars:          cfg.Animation.Stars,
		Seed:           seed,
		Capture:        a.captureFrame,
		Instruments:    inst,
		Logger:         logger.Named("journey"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create journey: %w", err)
	}

	a.removeKey = a.events.OnKey(func(k sdl.Keycode) {
		if cmd, ok := keyBindings[k]; ok {
			a.journey.HandleKey(cmd)
		}
	})

	log.Info("initialized",
		zap.String("platform", device.UserAgent),
		zap.Int("cores", device.HardwareConcurrency),
		zap.Bool("touch", device.Touch),
	)
	return a, nil
}

func openPrefs(cfg *config.Config) (*prefs.Store, error) {
	log := logger.Named("prefs")
	dir := cfg.PrefsDir()
	if dir == "" {
		return prefs.Open(prefs.NewMemoryBackend(), log)
	}
	backend, err := prefs.OpenBadger(dir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	return openStore(backend, log)
}

// openStore loads preferences from backend, closing it if loading fails.
func openStore(backend prefs.Backend, log *zap.Logger) (*prefs.Store, error) {
	store, err := prefs.Open(backend, log)
	if err != nil {
		if cerr := backend.Close(); cerr != nil {
			log.Warn("preferences backend close", zap.Error(cerr))
		}
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return store, nil
}

// Run drives the main loop until the window closes or the user quits.
func (a *App) Run() error {
	start := time.Now()
	frameCount := 0
	fpsTimer := start

	a.log.Info("starting main loop")
	for {
		// 1. Input
		now := time.Since(start)
		a.journey.Advance(now)
		if a.input.Update() {
			break
		}
		events := a.input.Events()
		for _, e := range events {
			switch e.Type {
			case input.EventWheel:
				a.journey.Wheel(e.WheelY)
			case input.EventWindowResize:
				a.journey.Resize()
			}
		}
		a.events.Dispatch(filterResize(events))
		if a.journey.Quit() {
			break
		}

		// 2. Advance timers, frame callbacks and the performance monitor
		a.journey.Tick(now)
		a.updateTitle()

		// 3. Composite
		if err := a.present(); err != nil {
			return fmt.Errorf("present: %w", err)
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			m := a.journey.Metrics()
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("avg", m.FPS),
				zap.Stringer("quality", m.Quality),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	a.log.Info("main loop finished")
	return nil
}

// filterResize drops resize events, which Run already delivered through
// the journey so the page geometry updates before the listeners run.
func filterResize(events []input.Event) []input.Event {
	out := events[:0:0]
	for _, e := range events {
		if e.Type != input.EventWindowResize {
			out = append(out, e)
		}
	}
	return out
}

// present uploads every visible layer and draws them back to front.
func (a *App) present() error {
	bg := darkBackground
	if a.store.Get().Theme == prefs.Light {
		bg = lightBackground
	}
	w, h := a.window.DrawableSize()
	a.presenter.Begin(w, h, bg)

	for i, s := range a.journey.Layers() {
		if i == len(a.textures) {
			a.textures = append(a.textures, a.presenter.NewTexture())
		}
		tw, th := s.BackingSize()
		if err := a.presenter.Upload(a.textures[i], s.Pixels(), tw, th); err != nil {
			return err
		}
		a.presenter.Draw(a.textures[i], 1)
	}
	return nil
}

func (a *App) updateTitle() {
	section := a.journey.Section()
	if section == a.section {
		return
	}
	a.section = section
	a.window.SetTitle(windowTitle(a.cfg.Window.Title, section))
}

var sectionCase = cases.Title(language.English)

// windowTitle appends the current section, "hero" showing as "Hero".
func windowTitle(base, section string) string {
	if section == "" {
		return base
	}
	return fmt.Sprintf("%s | %s", base, sectionCase.String(section))
}

// captureFrame composites the current layers and writes the result to the
// capture directory. It may run from a frame callback, before this loop
// iteration has presented, so it draws its own copy first.
func (a *App) captureFrame() (string, error) {
	if err := a.present(); err != nil {
		return "", err
	}
	pixels, w, h := a.presenter.ReadPixels()
	if pixels == nil {
		return "", errors.New("empty drawable")
	}
	return a.capture.FromBottomUp(pixels, w, h)
}

// Close releases resources in reverse order of creation.
func (a *App) Close() {
	a.log.Info("closing")
	if a.removeKey != nil {
		a.removeKey()
	}
	if a.journey != nil {
		if err := a.journey.Close(); err != nil {
			a.log.Warn("journey close", zap.Error(err))
		}
	}
	if a.metrics != nil {
		if err := a.metrics.Close(); err != nil {
			a.log.Warn("metrics close", zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("preferences close", zap.Error(err))
		}
	}
	if a.presenter != nil {
		for _, t := range a.textures {
			a.presenter.DeleteTexture(t)
		}
		a.presenter.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
