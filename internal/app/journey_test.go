package app

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Faultbox/spacejourney/internal/host"
	"github.com/Faultbox/spacejourney/internal/perf"
	"github.com/Faultbox/spacejourney/internal/prefs"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/scroll"
)

// bus is an in-memory listener registry that counts live listeners.
type bus struct {
	next   int
	scroll map[int]func()
	resize map[int]func()
	move   map[int]func(x, y float64)
	click  map[int]func(x, y float64)
}

func newBus() *bus {
	return &bus{
		scroll: map[int]func(){},
		resize: map[int]func(){},
		move:   map[int]func(x, y float64){},
		click:  map[int]func(x, y float64){},
	}
}

func add[F any](b *bus, m map[int]F, fn F) func() {
	b.next++
	id := b.next
	m[id] = fn
	return func() { delete(m, id) }
}

func (b *bus) OnScroll(fn func()) func()                  { return add(b, b.scroll, fn) }
func (b *bus) OnResize(fn func()) func()                  { return add(b, b.resize, fn) }
func (b *bus) OnPointerMove(fn func(x, y float64)) func() { return add(b, b.move, fn) }
func (b *bus) OnClick(fn func(x, y float64)) func()       { return add(b, b.click, fn) }

func (b *bus) Scrolled() {
	for _, fn := range b.scroll {
		fn()
	}
}

func (b *bus) Resized() {
	for _, fn := range b.resize {
		fn()
	}
}

func (b *bus) live() int { return len(b.scroll) + len(b.resize) + len(b.move) + len(b.click) }

type viewport struct{ w, h float64 }

func (v *viewport) Size() (float64, float64) { return v.w, v.h }
func (v *viewport) DPR() float64             { return 1 }

var desktop = quality.Device{UserAgent: "Linux", ViewportWidth: 400, HardwareConcurrency: 8}

func newJourney(t *testing.T, mutate func(*JourneyConfig)) (*Journey, *bus, *prefs.Store) {
	t.Helper()
	store, err := prefs.Open(prefs.NewMemoryBackend(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b := newBus()
	cfg := JourneyConfig{
		Bus:       b,
		Viewport:  &viewport{400, 300},
		Prefs:     store,
		Sections:  []scroll.Section{{Name: "top", Height: 600}, {Name: "bottom", Height: 600}},
		WheelStep: 50,
		Device:    desktop,
		Starfield: true,
		Stars:     10,
		Seed:      1,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	j, err := NewJourney(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		j.Close()
		store.Close()
	})
	return j, b, store
}

// run ticks at 60fps for n frames starting at from.
func run(j *Journey, from time.Duration, n int) time.Duration {
	now := from
	for i := 0; i < n; i++ {
		now += time.Second / 60
		j.Tick(now)
	}
	return now
}

func TestJourneyStartsAndComposes(t *testing.T) {
	j, _, _ := newJourney(t, nil)
	run(j, 0, 3)
	if j.Host().State() != host.Running {
		t.Fatalf("host state = %v", j.Host().State())
	}
	if j.Host().Frames() == 0 {
		t.Error("no journey frames composed")
	}
	if got := len(j.Layers()); got != 2 {
		t.Errorf("Layers() = %d, want star layer and journey", got)
	}
}

func TestScrollDrivesProgress(t *testing.T) {
	j, _, _ := newJourney(t, nil)
	now := run(j, 0, 1)

	j.HandleKey(KeyEnd)
	now = run(j, now, 1)
	if p := j.Progress(); p.Progress != 1 || !p.IsScrolling {
		t.Errorf("after End: %+v", p)
	}
	if j.Section() != "bottom" {
		t.Errorf("Section() = %q", j.Section())
	}

	j.HandleKey(KeyHome)
	j.Wheel(2)
	now = run(j, now, 1)
	if p := j.Progress(); p.ScrollY != 100 {
		t.Errorf("after Home and two wheel notches ScrollY = %v, want 100", p.ScrollY)
	}

	run(j, now, 12)
	if j.Progress().IsScrolling {
		t.Error("IsScrolling should clear after the settle delay")
	}
}

func TestOverscrollSettles(t *testing.T) {
	j, _, _ := newJourney(t, nil)
	now := run(j, 0, 1)
	j.Wheel(-1)
	now = run(j, now, 1)
	if y := j.doc.ScrollY(); y >= 0 {
		t.Fatalf("expected elastic overscroll, y = %v", y)
	}
	if p := j.Progress(); p.Progress != 0 {
		t.Errorf("overscrolled progress = %v, want clamped 0", p.Progress)
	}
	run(j, now, 15)
	if y := j.doc.ScrollY(); y != 0 {
		t.Errorf("y = %v after settling, want 0", y)
	}
}

func TestToggles(t *testing.T) {
	j, _, store := newJourney(t, nil)
	now := run(j, 0, 1)

	j.HandleKey(KeyToggleStars)
	now = run(j, now, 1)
	if store.Get().StarsEnabled {
		t.Fatal("stars still enabled")
	}
	if j.Host().State() != host.Idle || len(j.Layers()) != 0 {
		t.Errorf("disabled: host %v layers %d", j.Host().State(), len(j.Layers()))
	}

	j.HandleKey(KeyToggleStars)
	j.HandleKey(KeyToggleTheme)
	if store.Get().Theme != prefs.Light {
		t.Fatal("theme not toggled")
	}
	j.HandleKey(KeyToggleStars)
	if !store.Get().StarsEnabled {
		t.Error("stars toggle should be ignored in the light theme")
	}
	run(j, now, 1)
	if j.Host().State() != host.Idle {
		t.Error("light theme should stop the journey")
	}
}

func TestReducedMotionKeepsHostIdle(t *testing.T) {
	j, _, _ := newJourney(t, func(c *JourneyConfig) { c.ReducedMotion = true })
	run(j, 0, 3)
	if j.Host().State() != host.Idle || j.Host().Fallback() {
		t.Errorf("state %v fallback %v", j.Host().State(), j.Host().Fallback())
	}
}

func TestWeakDeviceShowsFallback(t *testing.T) {
	j, _, _ := newJourney(t, func(c *JourneyConfig) {
		c.Device = quality.Device{UserAgent: "Android", ViewportWidth: 360, Touch: true, HardwareConcurrency: 2}
		c.Starfield = false
	})
	run(j, 0, 2)
	if !j.Host().Fallback() {
		t.Fatal("expected the static fallback")
	}
	if got := len(j.Layers()); got != 1 {
		t.Errorf("Layers() = %d, want the fallback surface", got)
	}
}

func TestInitialQualityOverride(t *testing.T) {
	low := quality.Low
	j, _, _ := newJourney(t, func(c *JourneyConfig) { c.InitialQuality = &low })
	if q := j.Metrics().Quality; q != quality.Low {
		t.Errorf("quality = %v, want low", q)
	}
}

func TestCaptureWaitsForComet(t *testing.T) {
	shots := 0
	j, _, _ := newJourney(t, func(c *JourneyConfig) {
		c.Capture = func() (string, error) {
			shots++
			return "shot.png", nil
		}
	})
	now := run(j, 0, 1)
	j.HandleKey(KeyCapture)
	if shots != 0 {
		t.Fatal("capture should wait for the comet")
	}
	run(j, now, 45)
	if shots != 1 || j.captures != 1 {
		t.Errorf("shots = %d captures = %d", shots, j.captures)
	}
}

func TestCaptureImmediateWithoutStars(t *testing.T) {
	calls := 0
	j, _, _ := newJourney(t, func(c *JourneyConfig) {
		c.Starfield = false
		c.Capture = func() (string, error) {
			calls++
			return "", errors.New("disk full")
		}
	})
	j.HandleKey(KeyCapture)
	if calls != 1 || j.captures != 0 {
		t.Errorf("calls = %d captures = %d", calls, j.captures)
	}
}

func TestQuitKey(t *testing.T) {
	j, _, _ := newJourney(t, nil)
	if j.Quit() {
		t.Fatal("quit before key")
	}
	j.HandleKey(KeyQuit)
	if !j.Quit() {
		t.Error("Quit() = false after KeyQuit")
	}
}

func TestCloseRemovesEverything(t *testing.T) {
	j, b, store := newJourney(t, nil)
	run(j, 0, 2)
	if b.live() == 0 || j.frames.Len() == 0 {
		t.Fatal("expected live listeners and frames while running")
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}
	if b.live() != 0 {
		t.Errorf("%d listeners left after Close", b.live())
	}
	if n := j.frames.Len(); n != 0 {
		t.Errorf("%d frame requests left after Close", n)
	}
	if j.timers.Len() != 0 {
		t.Errorf("%d timers left after Close", j.timers.Len())
	}
	if store.Subscribers() != 0 {
		t.Errorf("%d preference subscribers left", store.Subscribers())
	}
	if err := j.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestResizeUpdatesViewport(t *testing.T) {
	vp := &viewport{400, 300}
	j, _, _ := newJourney(t, func(c *JourneyConfig) { c.Viewport = vp })
	run(j, 0, 1)
	vp.w, vp.h = 800, 600
	j.Resize()
	if j.doc.ViewportHeight() != 600 {
		t.Errorf("viewport height = %v", j.doc.ViewportHeight())
	}
	if w, h := j.Host().Surface().BackingSize(); w != 800 || h != 600 {
		t.Errorf("host surface = %dx%d", w, h)
	}
}

func TestResizeSettlesFromCurrentRefresh(t *testing.T) {
	j, _, _ := newJourney(t, nil)
	now := run(j, 0, 20)
	if j.Progress().IsScrolling {
		t.Fatal("still scrolling before resize")
	}

	// The main loop advances the clock before delivering the resize.
	now += time.Second / 60
	j.Advance(now)
	j.Resize()
	j.Tick(now)

	j.Tick(now + scroll.SettleDelay - time.Millisecond)
	if !j.Progress().IsScrolling {
		t.Fatal("settled before the delay elapsed")
	}
	j.Tick(now + scroll.SettleDelay)
	if j.Progress().IsScrolling {
		t.Error("not settled after the delay")
	}
}

func TestSlowFramesPauseAndCount(t *testing.T) {
	in := perf.NewInstruments(prometheus.NewRegistry())
	j, _, _ := newJourney(t, func(c *JourneyConfig) {
		c.Starfield = false
		c.Instruments = in
	})
	now := run(j, 0, 2)

	// 10fps drags the average under the safety margin.
	for i := 0; i < 30 && j.Host().State() == host.Running; i++ {
		now += 100 * time.Millisecond
		j.Tick(now)
	}
	if j.Host().State() != host.Idle {
		t.Fatal("host still running at 10fps")
	}
	for i := 0; i < 3; i++ {
		now += 100 * time.Millisecond
		j.Tick(now)
	}
	if got := testutil.ToFloat64(in.FramesSkipped); got != 4 {
		t.Errorf("frames skipped = %v, want one per paused refresh (4)", got)
	}

	for i := 0; i < 120 && j.Host().State() != host.Running; i++ {
		now = run(j, now, 1)
	}
	if j.Host().State() != host.Running {
		t.Fatal("host did not resume")
	}
	if m := j.Metrics(); m.FPS != 60 {
		t.Errorf("FPS = %v after resume, want the window restarted", m.FPS)
	}
}
