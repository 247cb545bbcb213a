package app

import (
	"errors"
	"testing"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/spacejourney/internal/engine/input"
)

// brokenBackend fails every read and its close.
type brokenBackend struct{ closed bool }

func (b *brokenBackend) Get(string) (string, bool, error) { return "", false, errors.New("corrupt") }
func (b *brokenBackend) Set(string, string) error         { return errors.New("corrupt") }
func (b *brokenBackend) Close() error {
	b.closed = true
	return errors.New("already closed")
}

func TestOpenStoreClosesBackendOnError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := &brokenBackend{}
	if _, err := openStore(b, zap.New(core)); err == nil {
		t.Fatal("expected load error")
	}
	if !b.closed {
		t.Error("backend not closed")
	}
	if n := logs.FilterMessage("preferences backend close").Len(); n != 1 {
		t.Errorf("close warnings = %d, want 1", n)
	}
}

func TestFilterResize(t *testing.T) {
	events := []input.Event{
		{Type: input.EventMouseMove},
		{Type: input.EventWindowResize, Width: 10, Height: 10},
		{Type: input.EventKeyDown, Key: sdl.K_t},
	}
	got := filterResize(events)
	if len(got) != 2 || got[0].Type != input.EventMouseMove || got[1].Type != input.EventKeyDown {
		t.Errorf("filterResize() = %+v", got)
	}
	if events[1].Type != input.EventWindowResize {
		t.Error("input slice was modified")
	}
}

func TestKeyBindingsCoverEveryCommand(t *testing.T) {
	bound := map[Key]bool{}
	for _, k := range keyBindings {
		bound[k] = true
	}
	for k := KeyToggleStars; k <= KeyQuit; k++ {
		if !bound[k] {
			t.Errorf("command %d has no key", k)
		}
	}
}

func TestWindowTitle(t *testing.T) {
	tests := []struct{ section, want string }{
		{"", "Space Journey"},
		{"hero", "Space Journey | Hero"},
		{"open source", "Space Journey | Open Source"},
	}
	for _, tt := range tests {
		if got := windowTitle("Space Journey", tt.section); got != tt.want {
			t.Errorf("windowTitle(%q) = %q, want %q", tt.section, got, tt.want)
		}
	}
}
