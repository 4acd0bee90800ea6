//go:build integration

package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mvolkov/dispatch/internal/domain/event"
	porteventbus "github.com/mvolkov/dispatch/internal/port/eventbus"
)

// EventRecorder collects events delivered on a bus subscription so tests can
// assert on the asynchronous feed. It records with a mutex so it is safe for
// concurrent use.
type EventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

// Handler returns a bus handler that records every delivered event.
func (r *EventRecorder) Handler() porteventbus.Handler {
	return func(_ context.Context, e event.Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	}
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByType returns all recorded events of the given type.
func (r *EventRecorder) ByType(t event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// ForEntity returns all recorded events carrying the given entity id.
func (r *EventRecorder) ForEntity(id uuid.UUID) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.EntityID == id {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
