package perf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Faultbox/spacejourney/internal/quality"
)

// Instruments exports frame timing and quality decisions as Prometheus
// collectors. A nil *Instruments is valid and records nothing.
type Instruments struct {
	FrameRate       prometheus.Histogram
	QualityLevel    prometheus.Gauge
	ShouldRender    prometheus.Gauge
	Transitions     *prometheus.CounterVec
	FramesRendered  prometheus.Counter
	FramesSkipped   prometheus.Counter
	StagesComposite prometheus.Histogram
}

// NewInstruments registers the collectors with reg.
func NewInstruments(reg prometheus.Registerer) *Instruments {
	f := promauto.With(reg)
	return &Instruments{
		FrameRate: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "spacejourney_frame_rate_fps",
			Help:    "Instantaneous frames per second of the background animation",
			Buckets: []float64{5, 10, 15, 20, 24, 30, 45, 60, 90, 120},
		}),
		QualityLevel: f.NewGauge(prometheus.GaugeOpts{
			Name: "spacejourney_quality_level",
			Help: "Current quality tier (0 low, 1 medium, 2 high)",
		}),
		ShouldRender: f.NewGauge(prometheus.GaugeOpts{
			Name: "spacejourney_should_render",
			Help: "1 while the average frame rate is inside the tier's safety margin",
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "spacejourney_quality_transitions_total",
			Help: "Quality tier changes by direction",
		}, []string{"from", "to"}),
		FramesRendered: f.NewCounter(prometheus.CounterOpts{
			Name: "spacejourney_frames_rendered_total",
			Help: "Frames composed by the animation host",
		}),
		FramesSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "spacejourney_frames_skipped_total",
			Help: "Refreshes skipped while the frame rate is below the safety margin",
		}),
		StagesComposite: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "spacejourney_active_stages",
			Help:    "Number of stages composited per frame",
			Buckets: []float64{0, 1, 2, 3},
		}),
	}
}

func (in *Instruments) observe(fps float64) {
	if in == nil {
		return
	}
	in.FrameRate.Observe(fps)
}

func (in *Instruments) setLevel(l quality.Level) {
	if in == nil {
		return
	}
	in.QualityLevel.Set(float64(l))
}

func (in *Instruments) setShouldRender(ok bool) {
	if in == nil {
		return
	}
	v := 0.0
	if ok {
		v = 1
	}
	in.ShouldRender.Set(v)
}

func (in *Instruments) transition(from, to quality.Level) {
	if in == nil {
		return
	}
	in.Transitions.WithLabelValues(from.String(), to.String()).Inc()
	in.QualityLevel.Set(float64(to))
}

// FrameRendered counts a composed frame with n active stages.
func (in *Instruments) FrameRendered(n int) {
	if in == nil {
		return
	}
	in.FramesRendered.Inc()
	in.StagesComposite.Observe(float64(n))
}

// FrameSkipped counts a refresh the frame-rate check kept from rendering.
func (in *Instruments) FrameSkipped() {
	if in == nil {
		return
	}
	in.FramesSkipped.Inc()
}
