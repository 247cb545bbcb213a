// Package host owns the journey surface and drives the per-frame compositing
// of the active stages. It starts and stops its frame loop as the render gate
// opens and closes.
package host

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/perf"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/stage"
)

// State is the host lifecycle state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Scheduler runs a callback on the next display refresh.
type Scheduler interface {
	RequestFrame(fn func(now time.Duration)) (cancel func())
}

// ResizeSource notifies about viewport size changes.
type ResizeSource interface {
	OnResize(fn func()) (remove func())
}

// Viewport reports the logical size and device pixel ratio of the output.
type Viewport interface {
	Size() (width, height float64)
	DPR() float64
}

// Signals are the inputs to the render gate.
type Signals struct {
	// Enabled is the user preference: stars on and dark theme.
	Enabled bool
	// BelowThreshold is true when the device cannot sustain the animation.
	BelowThreshold bool
	ReducedMotion  bool
	// ShouldRender comes from the performance monitor.
	ShouldRender bool
}

// open reports whether the animated journey may run.
func (s Signals) open() bool {
	return s.Enabled && !s.BelowThreshold && !s.ReducedMotion && s.ShouldRender
}

// Throttled reports whether the frame-rate check alone keeps the animated
// journey off for this refresh.
func (s Signals) Throttled() bool {
	return s.Enabled && !s.BelowThreshold && !s.ReducedMotion && !s.ShouldRender
}

// fallback reports whether only the threshold check keeps the journey off.
func (s Signals) fallback() bool {
	return s.Enabled && s.BelowThreshold && !s.ReducedMotion
}

// Config wires a Host to its collaborators. Registry, Frames, Resize and
// Viewport are required.
type Config struct {
	Registry *stage.Registry
	Frames   Scheduler
	Resize   ResizeSource
	Viewport Viewport

	// Progress returns the current scroll progress in [0, 1].
	Progress func() float64
	// Quality returns the current quality tier.
	Quality func() quality.Level
	// Fallback paints the static sky. Nil leaves the surface clear.
	Fallback func(*canvas.Surface)
	// NewSurface acquires the drawing surface. Defaults to canvas.New.
	NewSurface func(width, height, dpr float64) (*canvas.Surface, error)

	Logger      *zap.Logger
	Instruments *perf.Instruments
}

// Host runs the journey frame loop.
type Host struct {
	cfg Config
	id  uuid.UUID
	log *zap.Logger

	state   State
	signals Signals
	failed  bool
	showing bool // fallback painted

	surface      *canvas.Surface
	cancelFrame  func()
	removeResize func()

	// The animation clock starts at the first frame and keeps running
	// through pauses.
	origin  time.Duration
	elapsed time.Duration
	started bool
	frames  uint64
	active  []stage.Active

	skipLog rate.Sometimes
}

// New validates cfg and returns an idle host.
func New(cfg Config) (*Host, error) {
	if cfg.Registry == nil || cfg.Frames == nil || cfg.Resize == nil || cfg.Viewport == nil {
		return nil, errors.New("host: registry, frames, resize and viewport are required")
	}
	if cfg.Progress == nil {
		cfg.Progress = func() float64 { return 0 }
	}
	if cfg.Quality == nil {
		cfg.Quality = func() quality.Level { return quality.High }
	}
	if cfg.NewSurface == nil {
		cfg.NewSurface = canvas.New
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	id := uuid.New()
	return &Host{
		cfg:     cfg,
		id:      id,
		log:     cfg.Logger.With(zap.String("host", id.String()[:8])),
		skipLog: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}, nil
}

// ID identifies this host in logs.
func (h *Host) ID() uuid.UUID { return h.id }

// State returns the lifecycle state.
func (h *Host) State() State { return h.state }

// Failed reports whether surface acquisition failed. A failed host never
// starts again.
func (h *Host) Failed() bool { return h.failed }

// Fallback reports whether the static fallback is being shown.
func (h *Host) Fallback() bool { return h.showing }

// Frames returns the number of frames composed so far.
func (h *Host) Frames() uint64 { return h.frames }

// Surface returns the drawing surface, or nil if none is held.
func (h *Host) Surface() *canvas.Surface { return h.surface }

// Update re-evaluates the render gate with new signals and starts or stops
// the frame loop accordingly.
func (h *Host) Update(sig Signals) {
	prev := h.signals
	h.signals = sig
	if h.failed {
		return
	}

	if prev.Enabled && prev.ShouldRender && !sig.ShouldRender && h.state == Running {
		h.skipLog.Do(func() {
			h.log.Info("frame budget exceeded, pausing animation")
		})
	}

	switch {
	case sig.open():
		h.hideFallback()
		h.start()
	case sig.fallback():
		h.stop()
		h.showFallback()
	default:
		h.stop()
		h.hideFallback()
	}
}

func (h *Host) start() {
	if h.state == Running {
		return
	}
	if err := h.acquire(); err != nil {
		return
	}
	h.state = Running
	h.listen()
	h.cancelFrame = h.cfg.Frames.RequestFrame(h.frame)
	h.log.Debug("animation started")
}

func (h *Host) stop() {
	if h.state != Running {
		return
	}
	h.state = Idle
	if h.cancelFrame != nil {
		h.cancelFrame()
		h.cancelFrame = nil
	}
	h.unlisten()
	if h.surface != nil {
		h.surface.Clear()
	}
	h.log.Debug("animation stopped", zap.Uint64("frames", h.frames))
}

func (h *Host) showFallback() {
	if h.showing {
		return
	}
	if err := h.acquire(); err != nil {
		return
	}
	h.showing = true
	h.listen()
	h.paintFallback()
}

func (h *Host) hideFallback() {
	if !h.showing {
		return
	}
	h.showing = false
	h.unlisten()
	if h.surface != nil {
		h.surface.Clear()
	}
}

func (h *Host) paintFallback() {
	h.surface.Clear()
	if h.cfg.Fallback != nil {
		h.cfg.Fallback(h.surface)
	}
}

// acquire makes sure a surface sized to the viewport is held. A failure is
// logged once and disables the host.
func (h *Host) acquire() error {
	if h.surface != nil {
		return nil
	}
	w, ht := h.cfg.Viewport.Size()
	s, err := h.cfg.NewSurface(w, ht, h.cfg.Viewport.DPR())
	if err != nil {
		h.failed = true
		h.log.Error("drawing surface unavailable, animation disabled", zap.Error(err))
		return fmt.Errorf("acquire surface: %w", err)
	}
	s.SetLogger(h.log)
	h.surface = s
	return nil
}

func (h *Host) listen() {
	if h.removeResize == nil {
		h.removeResize = h.cfg.Resize.OnResize(h.resize)
	}
}

func (h *Host) unlisten() {
	if h.removeResize != nil {
		h.removeResize()
		h.removeResize = nil
	}
}

// resize resizes the surface to the viewport immediately.
func (h *Host) resize() {
	if h.surface == nil {
		return
	}
	w, ht := h.cfg.Viewport.Size()
	if err := h.surface.Resize(w, ht, h.cfg.Viewport.DPR()); err != nil {
		// Minimised windows report an empty size; keep the old backing store.
		h.log.Debug("resize skipped", zap.Float64("width", w), zap.Float64("height", ht), zap.Error(err))
		return
	}
	if h.showing {
		h.paintFallback()
	}
}

func (h *Host) frame(now time.Duration) {
	h.cancelFrame = nil
	if h.state != Running {
		return
	}
	if !h.started {
		h.origin = now
		h.started = true
	}
	if t := now - h.origin; t > h.elapsed {
		h.elapsed = t
	}

	s := h.surface
	s.Clear()
	h.active = h.cfg.Registry.AppendActive(h.active[:0], h.cfg.Progress())
	stage.Draw(s, h.active, h.cfg.Quality(), h.elapsed)
	s.Flush()

	h.frames++
	h.cfg.Instruments.FrameRendered(len(h.active))
	h.cancelFrame = h.cfg.Frames.RequestFrame(h.frame)
}

// Close stops the loop, removes every listener and releases the surface.
func (h *Host) Close() error {
	h.stop()
	h.showing = false
	h.unlisten()
	if h.surface == nil {
		return nil
	}
	err := h.surface.Close()
	h.surface = nil
	return err
}
