package scroll

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/spacejourney/internal/timer"
)

// SettleDelay is how long the page must stay still before IsScrolling clears.
const SettleDelay = 150 * time.Millisecond

// Page exposes the scroll geometry of the document being tracked.
type Page interface {
	ScrollY() float64
	ScrollHeight() float64
	ViewportHeight() float64
}

// Events is the source of scroll and resize notifications. Each On call
// returns a function that removes the listener.
type Events interface {
	OnScroll(fn func()) (remove func())
	OnResize(fn func()) (remove func())
}

// Scheduler runs a callback on the next display refresh. The returned
// function cancels the request if it has not run yet.
type Scheduler interface {
	RequestFrame(fn func(now time.Duration)) (cancel func())
}

// Tracker keeps the current Progress up to date. Scroll events are coalesced
// to one recompute per frame; resizes recompute immediately.
type Tracker struct {
	page   Page
	frames Scheduler
	timers *timer.Queue
	log    *zap.Logger

	current Progress

	pending     bool
	cancelFrame func()
	settle      *timer.Timer

	removeScroll func()
	removeResize func()
}

// NewTracker creates a detached tracker. A nil logger disables logging.
func NewTracker(page Page, frames Scheduler, timers *timer.Queue, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{page: page, frames: frames, timers: timers, log: log}
}

// Progress returns the latest snapshot.
func (t *Tracker) Progress() Progress {
	return t.current
}

// Attach subscribes to events and computes the initial progress.
func (t *Tracker) Attach(ev Events) {
	if t.removeScroll != nil {
		return
	}
	t.removeScroll = ev.OnScroll(t.HandleScroll)
	t.removeResize = ev.OnResize(t.HandleResize)
	t.recompute()
}

// Detach removes both listeners, drops any pending frame and stops the
// settle timer. The last progress is kept.
func (t *Tracker) Detach() {
	if t.removeScroll != nil {
		t.removeScroll()
		t.removeResize()
		t.removeScroll, t.removeResize = nil, nil
	}
	if t.cancelFrame != nil {
		t.cancelFrame()
		t.cancelFrame = nil
	}
	t.pending = false
	if t.settle.Stop() {
		t.current.IsScrolling = false
	}
}

// Attached reports whether listeners are registered.
func (t *Tracker) Attached() bool {
	return t.removeScroll != nil
}

// HandleScroll schedules a recompute on the next frame unless one is
// already pending.
func (t *Tracker) HandleScroll() {
	if t.pending {
		return
	}
	t.pending = true
	t.cancelFrame = t.frames.RequestFrame(func(time.Duration) {
		t.pending = false
		t.cancelFrame = nil
		t.recompute()
	})
}

// HandleResize recomputes synchronously since the scroll range may change
// without the offset moving.
func (t *Tracker) HandleResize() {
	t.recompute()
}

func (t *Tracker) recompute() {
	p := CalculateProgress(t.page.ScrollY(), t.page.ScrollHeight(), t.page.ViewportHeight())
	p.IsScrolling = true
	t.current = p

	t.settle.Stop()
	t.settle = t.timers.AfterFunc(SettleDelay, func() {
		t.current.IsScrolling = false
		t.log.Debug("scroll settled", zap.Float64("progress", t.current.Progress))
	})
}
