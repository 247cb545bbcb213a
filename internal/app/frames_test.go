package app

import (
	"slices"
	"testing"
	"time"
)

func TestFrameQueueOrder(t *testing.T) {
	var q FrameQueue
	var got []int
	for i := range 3 {
		q.RequestFrame(func(time.Duration) { got = append(got, i) })
	}
	if n := q.Run(time.Second); n != 3 {
		t.Errorf("Run() = %d, want 3", n)
	}
	if !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("order = %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after run", q.Len())
	}
}

func TestFrameQueueDefersRequestsFromCallbacks(t *testing.T) {
	var q FrameQueue
	var times []time.Duration
	var loop func(now time.Duration)
	loop = func(now time.Duration) {
		times = append(times, now)
		q.RequestFrame(loop)
	}
	q.RequestFrame(loop)

	q.Run(1)
	q.Run(2)
	if !slices.Equal(times, []time.Duration{1, 2}) {
		t.Errorf("times = %v, want one call per run", times)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want the re-requested frame", q.Len())
	}
}

func TestFrameQueueCancel(t *testing.T) {
	var q FrameQueue
	ran := false
	cancel := q.RequestFrame(func(time.Duration) { ran = true })
	cancel()
	cancel()
	if q.Run(0) != 0 || ran {
		t.Error("cancelled callback ran")
	}
}

func TestFrameQueueCancelWithinBatch(t *testing.T) {
	var q FrameQueue
	var cancelSecond func()
	secondRan := false
	q.RequestFrame(func(time.Duration) { cancelSecond() })
	cancelSecond = q.RequestFrame(func(time.Duration) { secondRan = true })

	if n := q.Run(0); n != 1 {
		t.Errorf("Run() = %d, want 1", n)
	}
	if secondRan {
		t.Error("callback cancelled earlier in the batch still ran")
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d", q.Len())
	}
}
