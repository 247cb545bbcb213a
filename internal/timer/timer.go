// Package timer provides delayed callbacks that run on the render thread.
//
// Callbacks never fire on their own goroutine: the owner of a Queue calls
// Advance once per display refresh and due callbacks run synchronously
// inside that call, in deadline order.
package timer

import "time"

// Timer is a pending callback. A stopped or fired timer is inert.
type Timer struct {
	q        *Queue
	deadline time.Duration
	seq      uint64
	fn       func()
	active   bool
}

// Stop cancels the timer. It returns false if the timer already fired or was
// already stopped.
func (t *Timer) Stop() bool {
	if t == nil || !t.active {
		return false
	}
	t.active = false
	t.q.remove(t)
	return true
}

// Active reports whether the timer is still pending.
func (t *Timer) Active() bool {
	return t != nil && t.active
}

// Queue holds pending timers against a monotonic clock supplied by the caller.
type Queue struct {
	now     time.Duration
	seq     uint64
	pending []*Timer
}

// NewQueue returns an empty queue whose clock starts at zero.
func NewQueue() *Queue {
	return &Queue{}
}

// Now returns the clock value of the last Advance.
func (q *Queue) Now() time.Duration {
	return q.now
}

// AfterFunc schedules fn to run once the clock reaches Now()+d.
func (q *Queue) AfterFunc(d time.Duration, fn func()) *Timer {
	q.seq++
	t := &Timer{q: q, deadline: q.now + d, seq: q.seq, fn: fn, active: true}
	q.pending = append(q.pending, t)
	return t
}

// Len returns the number of pending timers.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Advance moves the clock to now and runs every timer whose deadline has
// passed. Timers scheduled by a callback are only run by a later Advance.
// A clock that goes backwards is ignored.
func (q *Queue) Advance(now time.Duration) int {
	if now > q.now {
		q.now = now
	}

	fired := 0
	limit := q.seq
	for {
		t := q.nextDue(limit)
		if t == nil {
			return fired
		}
		t.active = false
		q.remove(t)
		t.fn()
		fired++
	}
}

func (q *Queue) nextDue(limit uint64) *Timer {
	var best *Timer
	for _, t := range q.pending {
		if t.deadline > q.now || t.seq > limit {
			continue
		}
		if best == nil || t.deadline < best.deadline || (t.deadline == best.deadline && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (q *Queue) remove(t *Timer) {
	for i, p := range q.pending {
		if p == t {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}
