package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   sdl.Event
		want Event
		ok   bool
	}{
		{"quit", &sdl.QuitEvent{}, Event{Type: EventQuit}, true},
		{"resize", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 640, Data2: 480},
			Event{Type: EventWindowResize, Width: 640, Height: 480}, true},
		{"focus ignored", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_GAINED}, Event{}, false},
		{"key down", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_s}},
			Event{Type: EventKeyDown, Key: sdl.K_s}, true},
		{"key repeat", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Sym: sdl.K_DOWN}},
			Event{Type: EventKeyDown, Key: sdl.K_DOWN, Repeat: true}, true},
		{"move", &sdl.MouseMotionEvent{X: 3, Y: 4}, Event{Type: EventMouseMove, MouseX: 3, MouseY: 4}, true},
		{"click", &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, X: 5, Y: 6, Button: sdl.BUTTON_LEFT},
			Event{Type: EventMouseDown, MouseX: 5, MouseY: 6, Button: sdl.BUTTON_LEFT}, true},
		{"wheel away", &sdl.MouseWheelEvent{Y: 1}, Event{Type: EventWheel, WheelY: -1}, true},
		{"wheel flipped", &sdl.MouseWheelEvent{Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED}, Event{Type: EventWheel, WheelY: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Translate() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDispatcherRemoval(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	removeA := d.OnScroll(func() { calls++ })
	removeB := d.OnScroll(func() { calls += 10 })
	removeR := d.OnResize(func() {})
	if d.Listeners() != 3 {
		t.Fatalf("Listeners() = %d", d.Listeners())
	}

	d.Scrolled()
	if calls != 11 {
		t.Fatalf("calls = %d, want 11", calls)
	}

	removeA()
	removeA()
	d.Scrolled()
	if calls != 21 {
		t.Errorf("calls = %d, want 21", calls)
	}

	removeB()
	removeR()
	if d.Listeners() != 0 {
		t.Errorf("Listeners() = %d after removing all", d.Listeners())
	}
}

func TestRemoveDuringBroadcast(t *testing.T) {
	d := NewDispatcher()
	var order []string
	var removeSecond func()
	d.OnResize(func() {
		order = append(order, "first")
		removeSecond()
	})
	removeSecond = d.OnResize(func() { order = append(order, "second") })

	d.Resized()
	d.Resized()
	if len(order) != 3 || order[1] != "second" || order[2] != "first" {
		t.Errorf("order = %v", order)
	}
}

func TestDispatch(t *testing.T) {
	d := NewDispatcher()
	var moves, clicks, keys, resizes int
	d.OnPointerMove(func(x, y float64) {
		if x != 7 || y != 8 {
			t.Errorf("move at %v,%v", x, y)
		}
		moves++
	})
	d.OnClick(func(x, y float64) { clicks++ })
	d.OnKey(func(k sdl.Keycode) { keys++ })
	d.OnResize(func() { resizes++ })

	d.Dispatch([]Event{
		{Type: EventMouseMove, MouseX: 7, MouseY: 8},
		{Type: EventMouseDown, Button: sdl.BUTTON_LEFT},
		{Type: EventMouseDown, Button: sdl.BUTTON_RIGHT},
		{Type: EventKeyDown, Key: sdl.K_t},
		{Type: EventKeyDown, Key: sdl.K_t, Repeat: true},
		{Type: EventKeyUp, Key: sdl.K_t},
		{Type: EventWindowResize, Width: 1, Height: 1},
		{Type: EventWheel, WheelY: 1},
	})
	if moves != 1 || clicks != 1 || keys != 1 || resizes != 1 {
		t.Errorf("moves %d clicks %d keys %d resizes %d", moves, clicks, keys, resizes)
	}
}
