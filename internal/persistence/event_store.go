// Package persistence holds the session journal stores.
package persistence

import (
	"context"
	"sync"

	"github.com/petrijr/typewriter/pkg/api"
)

// NoopEventStore discards all events.
type NoopEventStore struct{}

var _ api.EventStore = NoopEventStore{}

func (NoopEventStore) AppendEvent(ctx context.Context, ev api.Event) error { return nil }
func (NoopEventStore) ListEvents(ctx context.Context, sessionID string) ([]api.Event, error) {
	return nil, nil
}

// InMemoryEventStore is a goroutine-safe event journal backed by a map of
// per-session slices.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[string][]api.Event
}

// NewInMemoryEventStore creates a new InMemoryEventStore.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{events: make(map[string][]api.Event)}
}

var _ api.EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(ctx context.Context, ev api.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.SessionID] = append(s.events[ev.SessionID], ev)
	return nil
}

func (s *InMemoryEventStore) ListEvents(ctx context.Context, sessionID string) ([]api.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.events[sessionID]
	out := make([]api.Event, len(evs))
	copy(out, evs)
	return out, nil
}
