package repository

import (
	"context"
	"sync"
	"time"

	"minute-empire-backend/internal/events"
)

const (
	assertEventuallyTimeout = 2 * time.Second
	assertEventuallyTick    = 10 * time.Millisecond
)

// capturingBus is a minimal events.Bus stub that counts every published
// event, so repository tests can assert a write triggered the expected
// notification without spinning up the real worker-pool bus.
type capturingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func newCapturingBus() *capturingBus {
	return &capturingBus{}
}

func (b *capturingBus) Subscribe(eventType string, listener events.Listener) {}
func (b *capturingBus) Unsubscribe(eventType string, listener events.Listener) {}
func (b *capturingBus) Close() error { return nil }

func (b *capturingBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *capturingBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
