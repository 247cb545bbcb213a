package starfield

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/spacejourney/internal/canvas"
	mathx "github.com/Faultbox/spacejourney/pkg/math"
)

// Scheduler runs a callback on the next display refresh.
type Scheduler interface {
	RequestFrame(fn func(now time.Duration)) (cancel func())
}

// Events delivers the viewport and pointer notifications the layer reacts
// to. Each On call returns a function that removes the listener.
type Events interface {
	OnResize(fn func()) (remove func())
	OnPointerMove(fn func(x, y float64)) (remove func())
	OnClick(fn func(x, y float64)) (remove func())
}

// Viewport reports the logical size and device pixel ratio of the output.
type Viewport interface {
	Size() (width, height float64)
	DPR() float64
}

// LayerConfig wires a Layer. Frames, Events and Viewport are required.
type LayerConfig struct {
	Frames   Scheduler
	Events   Events
	Viewport Viewport
	Stars    int
	Seed     uint64
	Logger   *zap.Logger
}

// Layer runs a Field on its own surface while enabled.
type Layer struct {
	cfg LayerConfig
	log *zap.Logger

	field   *Field
	surface *canvas.Surface
	failed  bool

	running     bool
	cancelFrame func()
	removes     []func()
}

// NewLayer returns a stopped layer.
func NewLayer(cfg LayerConfig) *Layer {
	if cfg.Stars <= 0 {
		cfg.Stars = DefaultStars
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Layer{cfg: cfg, log: cfg.Logger}
}

// Field returns the simulation, or nil before the first start.
func (l *Layer) Field() *Field { return l.field }

// Surface returns the layer's surface, or nil if none is held.
func (l *Layer) Surface() *canvas.Surface { return l.surface }

// Running reports whether the frame loop is active.
func (l *Layer) Running() bool { return l.running }

// SetEnabled starts or stops the layer.
func (l *Layer) SetEnabled(on bool) {
	if on {
		l.start()
	} else {
		l.stop()
	}
}

// Launch sends a comet toward (x, y). It is a no-op while stopped.
func (l *Layer) Launch(x, y float64, onComplete func()) {
	if !l.running {
		return
	}
	l.field.LaunchComet(mathx.V2(x, y), onComplete)
}

func (l *Layer) start() {
	if l.running || l.failed {
		return
	}
	w, h := l.cfg.Viewport.Size()
	if l.surface == nil {
		s, err := canvas.New(w, h, l.cfg.Viewport.DPR())
		if err != nil {
			l.failed = true
			l.log.Error("star layer surface unavailable", zap.Error(err))
			return
		}
		s.SetLogger(l.log)
		l.surface = s
	}
	if l.field == nil {
		l.field = NewField(w, h, l.cfg.Stars, l.cfg.Seed)
	} else {
		l.field.Reset(w, h)
	}

	l.running = true
	ev := l.cfg.Events
	l.removes = append(l.removes,
		ev.OnResize(l.resize),
		ev.OnPointerMove(func(x, y float64) { l.field.AddTrailPoint(mathx.V2(x, y)) }),
		ev.OnClick(func(x, y float64) { l.field.LaunchComet(mathx.V2(x, y), nil) }),
	)
	l.cancelFrame = l.cfg.Frames.RequestFrame(l.frame)
	l.log.Debug("star layer started", zap.Int("stars", l.cfg.Stars))
}

func (l *Layer) stop() {
	if !l.running {
		return
	}
	l.running = false
	if l.cancelFrame != nil {
		l.cancelFrame()
		l.cancelFrame = nil
	}
	for _, rm := range l.removes {
		rm()
	}
	l.removes = l.removes[:0]
	l.surface.Clear()
	l.log.Debug("star layer stopped")
}

func (l *Layer) resize() {
	w, h := l.cfg.Viewport.Size()
	if err := l.surface.Resize(w, h, l.cfg.Viewport.DPR()); err != nil {
		l.log.Debug("star layer resize skipped", zap.Error(err))
		return
	}
	l.field.Reset(w, h)
}

func (l *Layer) frame(time.Duration) {
	l.cancelFrame = nil
	if !l.running {
		return
	}
	l.surface.Clear()
	l.field.Step()
	l.field.Draw(l.surface)
	l.surface.Flush()
	l.cancelFrame = l.cfg.Frames.RequestFrame(l.frame)
}

// Close stops the layer and releases its surface.
func (l *Layer) Close() error {
	l.stop()
	if l.surface == nil {
		return nil
	}
	err := l.surface.Close()
	l.surface = nil
	return err
}
