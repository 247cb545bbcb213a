package app

import "time"

// FrameQueue is the display-refresh scheduler. Callbacks requested before a
// call to Run execute in that Run, in request order; callbacks requested
// while Run is executing wait for the next one.
type FrameQueue struct {
	next    uint64
	pending []frameRequest
	running []frameRequest
}

type frameRequest struct {
	id uint64
	fn func(now time.Duration)
}

// RequestFrame schedules fn for the next refresh. The returned function
// cancels the request if it has not run yet.
func (q *FrameQueue) RequestFrame(fn func(now time.Duration)) (cancel func()) {
	q.next++
	id := q.next
	q.pending = append(q.pending, frameRequest{id: id, fn: fn})
	return func() { q.cancel(id) }
}

func (q *FrameQueue) cancel(id uint64) {
	for i := range q.pending {
		if q.pending[i].id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	// Cancelling a later callback of the batch being run.
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].fn = nil
			return
		}
	}
}

// Len returns the number of outstanding requests.
func (q *FrameQueue) Len() int {
	n := len(q.pending)
	for _, r := range q.running {
		if r.fn != nil {
			n++
		}
	}
	return n
}

// Run executes the current batch and returns how many callbacks ran.
func (q *FrameQueue) Run(now time.Duration) int {
	q.running, q.pending = q.pending, q.running[:0]
	ran := 0
	for i := range q.running {
		fn := q.running[i].fn
		if fn == nil {
			continue
		}
		q.running[i].fn = nil
		fn(now)
		ran++
	}
	q.running = q.running[:0]
	return ran
}
