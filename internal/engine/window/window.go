// Package window handles the SDL2 window, its OpenGL context and the
// geometry the background is sized from.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/spacejourney/internal/quality"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	log       *zap.Logger
	sdlWindow *sdl.Window
	glContext sdl.GLContext
}

// New creates a resizable, HiDPI-aware window with an OpenGL 4.1 core
// context.
func New(cfg Config, log *zap.Logger) (*Window, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Window{config: cfg, log: log}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core is the newest profile macOS offers.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	lw, lh := w.Size()
	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Float64("width", lw),
		zap.Float64("height", lh),
		zap.Float64("dpr", w.DPR()),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the logical window size.
func (w *Window) Size() (float64, float64) {
	width, height := w.sdlWindow.GetSize()
	return float64(width), float64(height)
}

// DrawableSize returns the size of the GL drawable in physical pixels.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// DPR returns physical pixels per logical pixel. It is 1 when the window
// has no size yet.
func (w *Window) DPR() float64 {
	lw, _ := w.sdlWindow.GetSize()
	dw, _ := w.sdlWindow.GLGetDrawableSize()
	return ratio(int(dw), int(lw))
}

func ratio(drawable, logical int) float64 {
	if logical <= 0 || drawable <= 0 {
		return 1
	}
	return float64(drawable) / float64(logical)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Device describes this machine for the capability heuristics. Desktop SDL
// has no user agent, so the platform name stands in for it.
func (w *Window) Device() quality.Device {
	lw, _ := w.Size()
	return quality.Device{
		UserAgent:           sdl.GetPlatform(),
		ViewportWidth:       lw,
		Touch:               sdl.GetNumTouchDevices() > 0,
		HardwareConcurrency: sdl.GetCPUCount(),
	}
}

// Override replaces the probed values of d with any non-zero field of o.
func Override(d, o quality.Device) quality.Device {
	if o.UserAgent != "" {
		d.UserAgent = o.UserAgent
	}
	if o.ViewportWidth > 0 {
		d.ViewportWidth = o.ViewportWidth
	}
	if o.Touch {
		d.Touch = true
	}
	if o.HardwareConcurrency > 0 {
		d.HardwareConcurrency = o.HardwareConcurrency
	}
	return d
}
