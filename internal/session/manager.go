// internal/session/manager.go

// Package session tracks the authenticated identity and broadcasts
// sign-in and sign-out transitions to interested subscribers.
package session

import (
	"sync"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event is one auth state transition.
type Event struct {
	Kind   EventKind
	UserID uuid.UUID
	Email  string
}

// Manager holds the current session identity and fans events out to
// subscribers. Subscribers with full channels miss events rather than
// blocking the announcer.
type Manager struct {
	mu      sync.Mutex
	current *Event
	subs    map[int]chan Event
	nextID  int
}

func NewManager() *Manager {
	return &Manager{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel of future events and a cancel func that must be
// called when the subscriber is done.
func (m *Manager) Subscribe(buffer int) (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan Event, buffer)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Announce records the transition and notifies every subscriber.
func (m *Manager) Announce(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.Kind == EventSignedOut {
		m.current = nil
	} else {
		m.current = &ev
	}

	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Current returns the signed-in identity, or false when signed out.
func (m *Manager) Current() (Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Event{}, false
	}
	return *m.current, true
}
