package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"minute-empire-backend/internal/logger"

	"go.uber.org/zap"
)

// ErrEventBusClosed is returned when trying to use a closed event bus.
var ErrEventBusClosed = errors.New("event bus is closed")

// Listener handles one event.
type Listener func(ctx context.Context, event Event) error

// Bus publishes domain events to registered listeners. The scheduler and
// orchestrator publish on this bus; the websocket hub subscribes to decide
// which connected users need a fresh map_update frame.
type Bus interface {
	Subscribe(eventType string, listener Listener)
	Publish(ctx context.Context, event Event) error
	Unsubscribe(eventType string, listener Listener)
	Close() error
}

type job struct {
	ctx      context.Context
	event    Event
	listener Listener
}

// InMemoryEventBus implements Bus with a bounded worker pool, so a slow
// websocket broadcast never blocks the scheduler goroutine that published
// the event. Grounded on the teacher's internal/events.InMemoryEventBus.
type InMemoryEventBus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	jobs      chan job
	workers   int
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    chan struct{}
	sem       chan struct{}
}

const (
	defaultWorkers = 8
	defaultBuffer  = 500
)

// NewInMemoryEventBus builds a bus with the default worker/buffer sizing.
func NewInMemoryEventBus() *InMemoryEventBus {
	return NewInMemoryEventBusWithWorkers(defaultWorkers, defaultBuffer)
}

// NewInMemoryEventBusWithWorkers builds a bus with explicit sizing, mainly
// for tests that want a single-worker bus to assert ordering.
func NewInMemoryEventBusWithWorkers(workers, buffer int) *InMemoryEventBus {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	bus := &InMemoryEventBus{
		listeners: make(map[string][]Listener),
		jobs:      make(chan job, buffer),
		workers:   workers,
		closed:    make(chan struct{}),
		sem:       make(chan struct{}, workers),
	}
	bus.start()
	return bus
}

func (b *InMemoryEventBus) start() {
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.worker(i)
	}
}

func (b *InMemoryEventBus) worker(id int) {
	defer b.wg.Done()
	log := logger.Get().With(zap.Int("worker_id", id))

	for {
		select {
		case <-b.closed:
			return
		case j := <-b.jobs:
			b.sem <- struct{}{}
			func() {
				defer func() {
					<-b.sem
					if r := recover(); r != nil {
						log.Error("event listener panicked", zap.Any("panic", r), zap.String("event_type", j.event.GetType()))
					}
				}()
				ctx, cancel := context.WithTimeout(j.ctx, 10*time.Second)
				defer cancel()
				if err := j.listener(ctx, j.event); err != nil {
					log.Error("event listener failed",
						zap.String("event_type", j.event.GetType()),
						zap.String("village_id", j.event.GetVillageID()),
						zap.Error(err))
				}
			}()
		}
	}
}

// Subscribe registers a listener for events of the given type tag.
func (b *InMemoryEventBus) Subscribe(eventType string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = append(b.listeners[eventType], listener)
}

// Publish enqueues the event for every listener registered on its type tag.
// Publish never blocks on listener execution; if the job queue itself is
// full, the job is dropped rather than waited for.
func (b *InMemoryEventBus) Publish(ctx context.Context, event Event) error {
	select {
	case <-b.closed:
		return ErrEventBusClosed
	default:
	}

	b.mu.RLock()
	listeners := b.listeners[event.GetType()]
	b.mu.RUnlock()

	for _, l := range listeners {
		select {
		case b.jobs <- job{ctx: ctx, event: event, listener: l}:
		case <-ctx.Done():
			return ctx.Err()
		case <-b.closed:
			return ErrEventBusClosed
		default:
			logger.Warn("event job queue full, dropping event",
				zap.String("event_type", event.GetType()),
				zap.String("village_id", event.GetVillageID()))
		}
	}
	return nil
}

// Unsubscribe drops every listener registered for eventType.
func (b *InMemoryEventBus) Unsubscribe(eventType string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = nil
}

// Close stops accepting new jobs and waits (bounded) for workers to drain.
func (b *InMemoryEventBus) Close() error {
	var closeErr error
	b.closeOnce.Do(func() {
		close(b.closed)
		done := make(chan struct{})
		go func() {
			b.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			closeErr = errors.New("event bus worker pool shutdown timeout")
		}
	})
	return closeErr
}
