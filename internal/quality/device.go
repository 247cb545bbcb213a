package quality

import "regexp"

var mobileUA = regexp.MustCompile(`(?i)iPhone|iPad|iPod|Android|webOS|BlackBerry|Windows Phone`)

// Viewport width breakpoints, in logical pixels.
const (
	mobileWidth     = 768
	smallPhoneWidth = 480
	minimumWidth    = 375
	lowEndCoreCount = 2
)

// Device describes the host as far as the capability heuristics care.
// HardwareConcurrency of 0 means "not reported".
type Device struct {
	UserAgent           string
	ViewportWidth       float64
	Touch               bool
	HardwareConcurrency int
}

// IsMobile reports a mobile device when the user agent says so, or when the
// viewport is narrow and touch input is present.
func (d Device) IsMobile() bool {
	if mobileUA.MatchString(d.UserAgent) {
		return true
	}
	return d.ViewportWidth < mobileWidth && d.Touch
}

func (d Device) lowCPU() bool {
	return d.HardwareConcurrency > 0 && d.HardwareConcurrency <= lowEndCoreCount
}

// DetectCapability returns the initial tier. Desktops always start at High;
// the performance monitor demotes them if needed.
func (d Device) DetectCapability() Level {
	if !d.IsMobile() {
		return High
	}
	if d.ViewportWidth < minimumWidth || d.lowCPU() {
		return Low
	}
	return Medium
}

// BelowPerformanceThreshold reports whether the animated background should
// not start at all and the static fallback should be shown instead.
func (d Device) BelowPerformanceThreshold() bool {
	if d.ViewportWidth < minimumWidth {
		return true
	}
	return d.IsMobile() && d.ViewportWidth < smallPhoneWidth && d.lowCPU()
}
