// Package prefs is the observable store for the user's background
// preferences: whether the star layers are enabled and the display theme.
//
// Values are persisted through a Backend under fixed keys and every change
// is broadcast to all subscribers.
package prefs

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Persisted keys.
const (
	KeyStarsEnabled = "stars-enabled"
	KeyTheme        = "theme"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("prefs: store closed")

// Theme is the display theme.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Prefs is a snapshot of the preferences.
type Prefs struct {
	StarsEnabled bool
	Theme        Theme
}

// Animated reports whether the decorative background may run: stars on and
// a dark theme.
func (p Prefs) Animated() bool {
	return p.StarsEnabled && p.Theme == Dark
}

// Defaults are used for keys that were never written.
var Defaults = Prefs{StarsEnabled: true, Theme: Dark}

// Backend persists string values.
type Backend interface {
	// Get returns ok=false when the key was never written.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Store caches the current preferences and notifies subscribers on change.
// It is safe for concurrent use; callbacks run on the goroutine that made
// the change, outside the store's lock.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     *zap.Logger
	cur     Prefs
	subs    map[uint64]func(Prefs)
	nextID  uint64
	closed  bool
}

// Open loads the stored preferences from b, falling back to Defaults for
// missing or unreadable values.
func Open(b Backend, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{backend: b, log: log, cur: Defaults, subs: make(map[uint64]func(Prefs))}

	if v, ok, err := b.Get(KeyStarsEnabled); err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyStarsEnabled, err)
	} else if ok {
		enabled, perr := strconv.ParseBool(v)
		if perr != nil {
			log.Warn("ignoring malformed preference", zap.String("key", KeyStarsEnabled), zap.String("value", v))
		} else {
			s.cur.StarsEnabled = enabled
		}
	}

	if v, ok, err := b.Get(KeyTheme); err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyTheme, err)
	} else if ok {
		switch Theme(v) {
		case Dark, Light:
			s.cur.Theme = Theme(v)
		default:
			log.Warn("ignoring unknown theme", zap.String("value", v))
		}
	}
	return s, nil
}

// Get returns the current preferences.
func (s *Store) Get() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Subscribe registers fn to be called with the new value after every
// change. The returned function removes the subscription; calling it more
// than once is harmless.
func (s *Store) Subscribe(fn func(Prefs)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// SetStarsEnabled persists the star toggle and broadcasts the change.
func (s *Store) SetStarsEnabled(on bool) error {
	return s.update(KeyStarsEnabled, strconv.FormatBool(on), func(p *Prefs) { p.StarsEnabled = on })
}

// ToggleStars flips the star toggle.
func (s *Store) ToggleStars() error {
	return s.SetStarsEnabled(!s.Get().StarsEnabled)
}

// SetTheme persists the theme and broadcasts the change.
func (s *Store) SetTheme(t Theme) error {
	if t != Dark && t != Light {
		return fmt.Errorf("prefs: unknown theme %q", t)
	}
	return s.update(KeyTheme, string(t), func(p *Prefs) { p.Theme = t })
}

// ToggleTheme switches between dark and light.
func (s *Store) ToggleTheme() error {
	return s.SetTheme(s.Get().Theme.Toggle())
}

func (s *Store) update(key, value string, apply func(*Prefs)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err := s.backend.Set(key, value); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save %s: %w", key, err)
	}
	next := s.cur
	apply(&next)
	changed := next != s.cur
	s.cur = next
	subs := make([]func(Prefs), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if !changed {
		return nil
	}
	s.log.Info("preference changed", zap.String("key", key), zap.String("value", value))
	for _, fn := range subs {
		fn(next)
	}
	return nil
}

// Close drops all subscribers and closes the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.subs = make(map[uint64]func(Prefs))
	return s.backend.Close()
}
