package window

import (
	"testing"

	"github.com/Faultbox/spacejourney/internal/quality"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		drawable, logical int
		want              float64
	}{
		{1600, 800, 2},
		{800, 800, 1},
		{1200, 800, 1.5},
		{0, 800, 1},
		{800, 0, 1},
	}
	for _, tt := range tests {
		if got := ratio(tt.drawable, tt.logical); got != tt.want {
			t.Errorf("ratio(%d, %d) = %v, want %v", tt.drawable, tt.logical, got, tt.want)
		}
	}
}

func TestOverride(t *testing.T) {
	probed := quality.Device{UserAgent: "Linux", ViewportWidth: 1280, HardwareConcurrency: 8}

	if got := Override(probed, quality.Device{}); got != probed {
		t.Errorf("empty override changed device: %+v", got)
	}

	got := Override(probed, quality.Device{UserAgent: "Android", ViewportWidth: 360, Touch: true, HardwareConcurrency: 2})
	want := quality.Device{UserAgent: "Android", ViewportWidth: 360, Touch: true, HardwareConcurrency: 2}
	if got != want {
		t.Errorf("Override() = %+v, want %+v", got, want)
	}
	if !got.BelowPerformanceThreshold() {
		t.Error("overridden small phone should be below threshold")
	}
}
