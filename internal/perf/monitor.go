// Package perf measures frame rate and adapts the rendering quality tier to
// it with asymmetric hysteresis: degrade after a short sustained shortfall,
// recover only after a long sustained surplus.
package perf

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/spacejourney/internal/quality"
)

// Tuning constants.
const (
	WindowSize = 60

	DowngradeBelow = 24.0
	UpgradeAbove   = 45.0
	DowngradeAfter = 2 * time.Second
	UpgradeAfter   = 5 * time.Second

	highFloor   = 30.0
	normalFloor = 24.0
	floorMargin = 5.0

	nominalFPS = 60.0
)

// Metrics is the monitor's output for one frame.
type Metrics struct {
	FPS          float64
	Quality      quality.Level
	ShouldRender bool
}

// Phase is the hysteresis state.
type Phase int

const (
	Stable Phase = iota
	PendingDowngrade
	PendingUpgrade
)

func (p Phase) String() string {
	switch p {
	case PendingDowngrade:
		return "pending-downgrade"
	case PendingUpgrade:
		return "pending-upgrade"
	}
	return "stable"
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger logs tier changes.
func WithLogger(l *zap.Logger) Option {
	return func(m *Monitor) { m.log = l }
}

// WithInstruments publishes samples and tier changes to in.
func WithInstruments(in *Instruments) Option {
	return func(m *Monitor) { m.inst = in }
}

// Monitor keeps a rolling window of frame rates and the current tier.
// It is not safe for concurrent use.
type Monitor struct {
	samples [WindowSize]float64
	n       int
	next    int
	sum     float64

	last    time.Duration
	hasLast bool

	level   quality.Level
	phase   Phase
	entered time.Duration

	log  *zap.Logger
	inst *Instruments
}

// NewMonitor starts at the given tier, normally the device's detected
// capability.
func NewMonitor(initial quality.Level, opts ...Option) *Monitor {
	if !initial.Valid() {
		initial = quality.Low
	}
	m := &Monitor{level: initial, log: zap.NewNop()}
	for _, o := range opts {
		o(m)
	}
	m.inst.setLevel(initial)
	return m
}

// Sample records a frame presented at now, deriving its instantaneous rate
// from the previous call. The first call only establishes the baseline and
// reports the current state.
func (m *Monitor) Sample(now time.Duration) Metrics {
	if !m.hasLast {
		m.hasLast = true
		m.last = now
		return m.Metrics()
	}
	delta := now - m.last
	m.last = now

	fps := nominalFPS
	if delta > 0 {
		fps = float64(time.Second) / float64(delta)
	}
	return m.Observe(now, fps)
}

// Observe records an instantaneous frame rate measured at now and runs the
// tier state machine.
func (m *Monitor) Observe(now time.Duration, fps float64) Metrics {
	m.push(fps)
	m.inst.observe(fps)

	avg := m.Average()
	m.step(now, avg)

	out := m.Metrics()
	m.inst.setShouldRender(out.ShouldRender)
	return out
}

func (m *Monitor) push(fps float64) {
	if m.n == WindowSize {
		m.sum -= m.samples[m.next]
	} else {
		m.n++
	}
	m.samples[m.next] = fps
	m.sum += fps
	m.next = (m.next + 1) % WindowSize
}

// Average is the mean of the sampled window, or the nominal rate before any
// sample exists.
func (m *Monitor) Average() float64 {
	if m.n == 0 {
		return nominalFPS
	}
	return m.sum / float64(m.n)
}

// step applies one transition of the hysteresis table.
func (m *Monitor) step(now time.Duration, avg float64) {
	switch {
	case avg < DowngradeBelow:
		if m.phase != PendingDowngrade {
			m.enter(PendingDowngrade, now)
			return
		}
		if now-m.entered >= DowngradeAfter {
			m.change(m.level.Lower(), avg)
			m.enter(Stable, now)
		}
	case avg > UpgradeAbove:
		if m.phase != PendingUpgrade {
			m.enter(PendingUpgrade, now)
			return
		}
		if now-m.entered >= UpgradeAfter {
			m.change(m.level.Higher(), avg)
			m.enter(Stable, now)
		}
	default:
		m.enter(Stable, now)
	}
}

func (m *Monitor) enter(p Phase, now time.Duration) {
	if m.phase == p {
		return
	}
	m.phase = p
	m.entered = now
}

func (m *Monitor) change(to quality.Level, avg float64) {
	if to == m.level {
		return
	}
	m.log.Info("quality changed",
		zap.Stringer("from", m.level),
		zap.Stringer("to", to),
		zap.Float64("avg_fps", avg))
	m.inst.transition(m.level, to)
	m.level = to
}

// Quality returns the current tier.
func (m *Monitor) Quality() quality.Level { return m.level }

// Phase returns the hysteresis state.
func (m *Monitor) Phase() Phase { return m.phase }

// ShouldRender reports whether the average rate is within the tier's safety
// margin. Unlike the tier it reacts on every sample.
func (m *Monitor) ShouldRender() bool {
	floor := normalFloor
	if m.level == quality.High {
		floor = highFloor
	}
	return m.Average() >= floor-floorMargin
}

// Metrics returns the current state without recording a sample.
func (m *Monitor) Metrics() Metrics {
	return Metrics{FPS: m.Average(), Quality: m.level, ShouldRender: m.ShouldRender()}
}

// Reset forgets the window and timing baseline, keeping the tier. Used when
// rendering resumes after a pause so stale rates do not leak in.
func (m *Monitor) Reset() {
	m.n, m.next, m.sum = 0, 0, 0
	m.hasLast = false
	m.phase = Stable
}
