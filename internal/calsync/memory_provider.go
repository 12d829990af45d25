package calsync

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/circaplan/circaplan/internal/calevent"
)

// InMemoryProvider is an in-memory Provider for tests and dry runs.
type InMemoryProvider struct {
	mu     sync.Mutex
	events map[string]*calevent.Event
}

// NewInMemoryProvider creates an empty in-memory provider.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{events: make(map[string]*calevent.Event)}
}

// Name returns the provider identifier.
func (p *InMemoryProvider) Name() string {
	return "in-memory"
}

// CreateEvent stores the event under a fresh id.
func (p *InMemoryProvider) CreateEvent(_ context.Context, event *calevent.Event) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := uuid.NewString()
	p.events[id] = event
	return id, nil
}

// DeleteEvent removes an event, returning ErrEventNotFound for unknown ids.
func (p *InMemoryProvider) DeleteEvent(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(p.events, id)
	return nil
}

// Events returns a snapshot of stored events keyed by id.
func (p *InMemoryProvider) Events() map[string]*calevent.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]*calevent.Event, len(p.events))
	for k, v := range p.events {
		out[k] = v
	}
	return out
}
