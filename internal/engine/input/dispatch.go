package input

import "github.com/veandco/go-sdl2/sdl"

// listeners is an ordered set of callbacks. Removal during a broadcast is
// allowed and takes effect for the next broadcast.
type listeners[F any] struct {
	next    int
	entries []entry[F]
}

type entry[F any] struct {
	id int
	fn F
}

func (l *listeners[F]) add(fn F) (remove func()) {
	l.next++
	id := l.next
	l.entries = append(l.entries, entry[F]{id: id, fn: fn})
	return func() {
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

// snapshot returns the callbacks registered right now.
func (l *listeners[F]) snapshot() []F {
	out := make([]F, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.fn
	}
	return out
}

// Dispatcher fans window and pointer notifications out to listeners. It
// belongs to the main thread and is not safe for concurrent use.
type Dispatcher struct {
	scroll listeners[func()]
	resize listeners[func()]
	move   listeners[func(x, y float64)]
	click  listeners[func(x, y float64)]
	key    listeners[func(sdl.Keycode)]
}

// NewDispatcher returns a dispatcher with no listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnScroll registers fn for page scroll notifications.
func (d *Dispatcher) OnScroll(fn func()) (remove func()) { return d.scroll.add(fn) }

// OnResize registers fn for viewport size changes.
func (d *Dispatcher) OnResize(fn func()) (remove func()) { return d.resize.add(fn) }

// OnPointerMove registers fn for pointer motion in logical pixels.
func (d *Dispatcher) OnPointerMove(fn func(x, y float64)) (remove func()) { return d.move.add(fn) }

// OnClick registers fn for primary button presses.
func (d *Dispatcher) OnClick(fn func(x, y float64)) (remove func()) { return d.click.add(fn) }

// OnKey registers fn for key presses, auto-repeat excluded.
func (d *Dispatcher) OnKey(fn func(sdl.Keycode)) (remove func()) { return d.key.add(fn) }

// Listeners returns the total number of registered callbacks.
func (d *Dispatcher) Listeners() int {
	return len(d.scroll.entries) + len(d.resize.entries) + len(d.move.entries) +
		len(d.click.entries) + len(d.key.entries)
}

// Scrolled notifies scroll listeners. The page position has already moved.
func (d *Dispatcher) Scrolled() {
	for _, fn := range d.scroll.snapshot() {
		fn()
	}
}

// Resized notifies resize listeners.
func (d *Dispatcher) Resized() {
	for _, fn := range d.resize.snapshot() {
		fn()
	}
}

// Dispatch forwards pointer, key and resize events. Wheel and quit events
// are left to the caller, which owns the page and the main loop.
func (d *Dispatcher) Dispatch(events []Event) {
	for _, e := range events {
		switch e.Type {
		case EventWindowResize:
			d.Resized()
		case EventMouseMove:
			for _, fn := range d.move.snapshot() {
				fn(float64(e.MouseX), float64(e.MouseY))
			}
		case EventMouseDown:
			if e.Button != sdl.BUTTON_LEFT {
				continue
			}
			for _, fn := range d.click.snapshot() {
				fn(float64(e.MouseX), float64(e.MouseY))
			}
		case EventKeyDown:
			if e.Repeat {
				continue
			}
			for _, fn := range d.key.snapshot() {
				fn(e.Key)
			}
		}
	}
}
