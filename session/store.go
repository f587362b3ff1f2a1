// Package session tracks the authenticated identity for the process.
//
// The store is a single process-wide observable: independently-mounted views
// subscribe for sign-in/sign-out changes and must release their subscription
// when they are torn down, rather than reading ambient global state.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Identity is the authenticated actor: the opaque stable id, the username it
// signed in with, and the session token backing its backend calls.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Token    string
}

// Listener is notified on every session change. active is false when the
// session was cleared (sign-out or expiry).
type Listener func(identity Identity, active bool)

type Store struct {
	mu       sync.RWMutex
	current  Identity
	active   bool
	nextID   int
	watchers map[int]Listener
}

func NewStore() *Store {
	return &Store{watchers: make(map[int]Listener)}
}

// Current returns the held identity; the second result is false when
// unauthenticated.
func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.active
}

// Set installs a signed-in identity and notifies subscribers.
func (s *Store) Set(identity Identity) {
	s.mu.Lock()
	s.current = identity
	s.active = true
	listeners := s.snapshot()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(identity, true)
	}
}

// Clear drops the session and notifies subscribers.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = Identity{}
	s.active = false
	listeners := s.snapshot()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(Identity{}, false)
	}
}

// OnChange registers a listener and returns its unsubscribe function. The
// caller must invoke it when the owning view is torn down, so a destroyed
// consumer is never called back.
func (s *Store) OnChange(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// snapshot copies the listener set so callbacks run outside the lock.
// Callers must hold mu.
func (s *Store) snapshot() []Listener {
	listeners := make([]Listener, 0, len(s.watchers))
	for _, fn := range s.watchers {
		listeners = append(listeners, fn)
	}
	return listeners
}
