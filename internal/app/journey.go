package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/cosmos"
	"github.com/Faultbox/spacejourney/internal/host"
	"github.com/Faultbox/spacejourney/internal/perf"
	"github.com/Faultbox/spacejourney/internal/prefs"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/scroll"
	"github.com/Faultbox/spacejourney/internal/starfield"
	"github.com/Faultbox/spacejourney/internal/timer"
)

// Bus is the listener registry the components subscribe to, plus the two
// notifications the journey raises itself.
type Bus interface {
	OnScroll(fn func()) (remove func())
	OnResize(fn func()) (remove func())
	OnPointerMove(fn func(x, y float64)) (remove func())
	OnClick(fn func(x, y float64)) (remove func())
	Scrolled()
	Resized()
}

// Viewport reports the logical output size and device pixel ratio.
type Viewport interface {
	Size() (width, height float64)
	DPR() float64
}

// Key is an application command bound to a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyToggleStars
	KeyToggleTheme
	KeyLineUp
	KeyLineDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyCapture
	KeyQuit
)

// pageFraction is how much of the viewport PageUp/PageDown move.
const pageFraction = 0.9

// JourneyConfig wires a Journey. Bus, Viewport and Prefs are required.
type JourneyConfig struct {
	Bus      Bus
	Viewport Viewport
	Prefs    *prefs.Store

	Sections  []scroll.Section
	WheelStep float64

	Device        quality.Device
	ReducedMotion bool
	// InitialQuality overrides the detected tier when set.
	InitialQuality *quality.Level

	Starfield bool
	Stars     int
	Seed      uint64

	// Capture writes the current composed frame. Nil disables captures.
	Capture func() (string, error)

	Instruments *perf.Instruments
	Logger      *zap.Logger
}

// Journey ties the scroll tracker, performance monitor, preferences, host
// and star layer together. All methods run on the main thread.
type Journey struct {
	cfg JourneyConfig
	log *zap.Logger

	frames  *FrameQueue
	timers  *timer.Queue
	doc     *scroll.Document
	tracker *scroll.Tracker
	monitor *perf.Monitor
	host    *host.Host
	layer   *starfield.Layer

	below       bool
	unsubscribe func()
	quit        bool
	captures    int
	closed      bool
}

// NewJourney builds the pipeline and attaches every listener. The animation
// starts on the first Tick.
func NewJourney(cfg JourneyConfig) (*Journey, error) {
	if cfg.Bus == nil || cfg.Viewport == nil || cfg.Prefs == nil {
		return nil, errors.New("app: bus, viewport and prefs are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.WheelStep <= 0 {
		cfg.WheelStep = 60
	}

	reg, err := cosmos.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("stage registry: %w", err)
	}

	j := &Journey{
		cfg:    cfg,
		log:    cfg.Logger,
		frames: &FrameQueue{},
		timers: timer.NewQueue(),
		below:  cfg.Device.BelowPerformanceThreshold(),
	}

	initial := cfg.Device.DetectCapability()
	if cfg.InitialQuality != nil {
		initial = *cfg.InitialQuality
	}
	j.monitor = perf.NewMonitor(initial,
		perf.WithLogger(cfg.Logger.Named("perf")),
		perf.WithInstruments(cfg.Instruments),
	)

	_, h := cfg.Viewport.Size()
	j.doc = scroll.NewDocument(h, cfg.Sections...)
	j.tracker = scroll.NewTracker(j.doc, j.frames, j.timers, cfg.Logger.Named("scroll"))

	j.host, err = host.New(host.Config{
		Registry:    reg,
		Frames:      j.frames,
		Resize:      cfg.Bus,
		Viewport:    cfg.Viewport,
		Progress:    func() float64 { return j.tracker.Progress().Progress },
		Quality:     j.monitor.Quality,
		Fallback:    cosmos.DrawFallback,
		Logger:      cfg.Logger.Named("host"),
		Instruments: cfg.Instruments,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Starfield {
		j.layer = starfield.NewLayer(starfield.LayerConfig{
			Frames:   j.frames,
			Events:   cfg.Bus,
			Viewport: cfg.Viewport,
			Stars:    cfg.Stars,
			Seed:     cfg.Seed,
			Logger:   cfg.Logger.Named("starfield"),
		})
	}

	j.tracker.Attach(cfg.Bus)
	j.unsubscribe = cfg.Prefs.Subscribe(j.onPrefs)
	j.onPrefs(cfg.Prefs.Get())

	cfg.Logger.Info("journey ready",
		zap.Stringer("quality", initial),
		zap.Bool("below_threshold", j.below),
		zap.Bool("reduced_motion", cfg.ReducedMotion),
		zap.Float64("page_height", j.doc.ScrollHeight()),
	)
	return j, nil
}

func (j *Journey) onPrefs(p prefs.Prefs) {
	if j.layer != nil {
		j.layer.SetEnabled(p.Animated())
	}
	j.updateGate()
}

func (j *Journey) signals() host.Signals {
	return host.Signals{
		Enabled:        j.cfg.Prefs.Get().Animated(),
		BelowThreshold: j.below,
		ReducedMotion:  j.cfg.ReducedMotion,
		ShouldRender:   j.monitor.ShouldRender(),
	}
}

// updateGate re-evaluates the host. When the animation resumes the monitor
// window is restarted so rates sampled while idle do not count.
func (j *Journey) updateGate() host.Signals {
	sig := j.signals()
	was := j.host.State()
	j.host.Update(sig)
	if was != host.Running && j.host.State() == host.Running {
		j.monitor.Reset()
	}
	return sig
}

// Advance moves the timer clock to now. The main loop calls it before
// delivering input so timers armed by event handlers count from this
// refresh.
func (j *Journey) Advance(now time.Duration) {
	j.timers.Advance(now)
}

// Tick runs one display refresh: due timers, then the frame batch, then
// the performance sample and gate update.
func (j *Journey) Tick(now time.Duration) {
	j.timers.Advance(now)
	j.frames.Run(now)
	j.monitor.Sample(now)
	if sig := j.updateGate(); sig.Throttled() && !j.host.Failed() {
		j.cfg.Instruments.FrameSkipped()
	}

	if !j.tracker.Progress().IsScrolling && j.doc.Settle() {
		j.cfg.Bus.Scrolled()
	}
}

// Wheel scrolls the page by dy notches.
func (j *Journey) Wheel(dy float64) {
	j.scrollBy(dy * j.cfg.WheelStep)
}

func (j *Journey) scrollBy(dy float64) {
	if j.doc.ScrollBy(dy) {
		j.cfg.Bus.Scrolled()
	}
}

func (j *Journey) scrollTo(y float64) {
	if j.doc.ScrollTo(y) {
		j.cfg.Bus.Scrolled()
	}
}

// Resize applies a new viewport size.
func (j *Journey) Resize() {
	_, h := j.cfg.Viewport.Size()
	j.doc.SetViewport(h)
	j.cfg.Bus.Resized()
}

// HandleKey runs the command bound to k.
func (j *Journey) HandleKey(k Key) {
	view := j.doc.ViewportHeight()
	switch k {
	case KeyToggleStars:
		// The star toggle only exists in the dark theme.
		if j.cfg.Prefs.Get().Theme != prefs.Dark {
			return
		}
		if err := j.cfg.Prefs.ToggleStars(); err != nil {
			j.log.Warn("toggle stars", zap.Error(err))
		}
	case KeyToggleTheme:
		if err := j.cfg.Prefs.ToggleTheme(); err != nil {
			j.log.Warn("toggle theme", zap.Error(err))
		}
	case KeyLineUp:
		j.scrollBy(-j.cfg.WheelStep)
	case KeyLineDown:
		j.scrollBy(j.cfg.WheelStep)
	case KeyPageUp:
		j.scrollBy(-view * pageFraction)
	case KeyPageDown:
		j.scrollBy(view * pageFraction)
	case KeyHome:
		j.scrollTo(0)
	case KeyEnd:
		j.scrollTo(j.doc.MaxScroll())
	case KeyCapture:
		j.requestCapture()
	case KeyQuit:
		j.quit = true
	}
}

// requestCapture takes a screenshot. With the star layer running a comet
// flies to the centre first and the shot is taken when it lands.
func (j *Journey) requestCapture() {
	if j.cfg.Capture == nil {
		return
	}
	if j.layer != nil && j.layer.Running() {
		w, h := j.cfg.Viewport.Size()
		j.layer.Launch(w/2, h/2, j.capture)
		return
	}
	j.capture()
}

func (j *Journey) capture() {
	name, err := j.cfg.Capture()
	if err != nil {
		j.log.Error("capture failed", zap.Error(err))
		return
	}
	j.captures++
	j.log.Info("captured frame", zap.String("file", name))
}

// Quit reports whether the user asked to leave.
func (j *Journey) Quit() bool { return j.quit }

// Layers returns the surfaces to composite, back to front. Nil entries are
// skipped by the caller.
func (j *Journey) Layers() []*canvas.Surface {
	var out []*canvas.Surface
	if j.layer != nil && j.layer.Running() {
		out = append(out, j.layer.Surface())
	}
	if s := j.host.Surface(); s != nil && (j.host.State() == host.Running || j.host.Fallback()) {
		out = append(out, s)
	}
	return out
}

// Progress returns the current scroll snapshot.
func (j *Journey) Progress() scroll.Progress { return j.tracker.Progress() }

// Section returns the page section at the top of the viewport.
func (j *Journey) Section() string {
	s, _ := j.doc.SectionAt()
	return s.Name
}

// Metrics returns the performance monitor's view.
func (j *Journey) Metrics() perf.Metrics { return j.monitor.Metrics() }

// Host exposes the animation host.
func (j *Journey) Host() *host.Host { return j.host }

// Close detaches every listener and releases both surfaces. The preference
// store is left open for its owner.
func (j *Journey) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true
	j.unsubscribe()
	j.tracker.Detach()
	var errs []error
	if j.layer != nil {
		errs = append(errs, j.layer.Close())
	}
	errs = append(errs, j.host.Close())
	return errors.Join(errs...)
}
