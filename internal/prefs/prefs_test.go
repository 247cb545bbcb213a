package prefs

import (
	"errors"
	"testing"
)

func TestDefaultsWhenEmpty(t *testing.T) {
	s, err := Open(NewMemoryBackend(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get(); got != Defaults {
		t.Errorf("Get() = %+v, want %+v", got, Defaults)
	}
	if !s.Get().Animated() {
		t.Error("defaults should allow animation")
	}
}

func TestLoadsStoredValues(t *testing.T) {
	b := NewMemoryBackend()
	b.Set(KeyStarsEnabled, "false")
	b.Set(KeyTheme, "light")

	s, err := Open(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get(); got.StarsEnabled || got.Theme != Light {
		t.Errorf("Get() = %+v", got)
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	b := NewMemoryBackend()
	b.Set(KeyStarsEnabled, "maybe")
	b.Set(KeyTheme, "sepia")

	s, err := Open(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get(); got != Defaults {
		t.Errorf("Get() = %+v, want defaults", got)
	}
}

func TestBroadcastToAllSubscribers(t *testing.T) {
	b := NewMemoryBackend()
	s, _ := Open(b, nil)

	var a, c []Prefs
	unsubA := s.Subscribe(func(p Prefs) { a = append(a, p) })
	unsubC := s.Subscribe(func(p Prefs) { c = append(c, p) })

	if err := s.ToggleStars(); err != nil {
		t.Fatal(err)
	}
	if len(a) != 1 || len(c) != 1 || a[0].StarsEnabled {
		t.Fatalf("a=%v c=%v", a, c)
	}
	if v, _, _ := b.Get(KeyStarsEnabled); v != "false" {
		t.Errorf("persisted %q, want false", v)
	}

	unsubA()
	unsubA()
	if err := s.ToggleTheme(); err != nil {
		t.Fatal(err)
	}
	if len(a) != 1 {
		t.Errorf("unsubscribed callback ran")
	}
	if len(c) != 2 || c[1].Theme != Light || c[1].Animated() {
		t.Errorf("c = %v", c)
	}

	unsubC()
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d", s.Subscribers())
	}
}

func TestNoBroadcastWithoutChange(t *testing.T) {
	s, _ := Open(NewMemoryBackend(), nil)
	calls := 0
	s.Subscribe(func(Prefs) { calls++ })
	if err := s.SetTheme(Dark); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	s, _ := Open(NewMemoryBackend(), nil)
	if err := s.SetTheme("sepia"); err == nil {
		t.Error("expected error")
	}
}

func TestClosed(t *testing.T) {
	s, _ := Open(NewMemoryBackend(), nil)
	s.Subscribe(func(Prefs) {})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.Subscribers() != 0 {
		t.Error("Close should drop subscribers")
	}
	if err := s.ToggleStars(); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestBadgerPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	b, err := OpenBadger(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := Open(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetStarsEnabled(false); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTheme(Light); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	b, err = OpenBadger(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err = Open(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got := s.Get(); got.StarsEnabled || got.Theme != Light {
		t.Errorf("reopened prefs = %+v", got)
	}
}

func TestBadgerInMemory(t *testing.T) {
	b, err := OpenBadger("", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if _, ok, err := b.Get(KeyTheme); ok || err != nil {
		t.Errorf("Get on empty db = ok %v err %v", ok, err)
	}
	if err := b.Set(KeyTheme, "light"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := b.Get(KeyTheme); !ok || v != "light" {
		t.Errorf("Get = %q, %v", v, ok)
	}
}
