package timer

import (
	"testing"
	"time"
)

func TestAfterFuncFiresAtDeadline(t *testing.T) {
	q := NewQueue()
	fired := 0
	q.AfterFunc(150*time.Millisecond, func() { fired++ })

	q.Advance(149 * time.Millisecond)
	if fired != 0 {
		t.Fatal("timer fired early")
	}
	q.Advance(150 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after firing, want 0", q.Len())
	}
	q.Advance(time.Second)
	if fired != 1 {
		t.Errorf("timer fired twice")
	}
}

func TestStopRemovesTimer(t *testing.T) {
	q := NewQueue()
	fired := false
	tm := q.AfterFunc(10*time.Millisecond, func() { fired = true })

	if !tm.Stop() {
		t.Fatal("Stop() on pending timer returned false")
	}
	if tm.Stop() {
		t.Error("second Stop() returned true")
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	q.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestFireOrder(t *testing.T) {
	q := NewQueue()
	var order []int
	q.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
	q.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
	q.AfterFunc(10*time.Millisecond, func() { order = append(order, 2) })

	if n := q.Advance(50 * time.Millisecond); n != 3 {
		t.Fatalf("Advance fired %d, want 3", n)
	}
	want := []int{1, 2, 3}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRescheduleFromCallbackWaitsForNextAdvance(t *testing.T) {
	q := NewQueue()
	count := 0
	var tick func()
	tick = func() {
		count++
		q.AfterFunc(0, tick)
	}
	q.AfterFunc(0, tick)

	q.Advance(0)
	if count != 1 {
		t.Fatalf("count = %d after first advance, want 1", count)
	}
	q.Advance(time.Millisecond)
	if count != 2 {
		t.Fatalf("count = %d after second advance, want 2", count)
	}
}

func TestClockNeverGoesBackwards(t *testing.T) {
	q := NewQueue()
	q.Advance(100 * time.Millisecond)
	q.Advance(50 * time.Millisecond)
	if q.Now() != 100*time.Millisecond {
		t.Errorf("Now() = %v, want 100ms", q.Now())
	}
}
