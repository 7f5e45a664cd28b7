// ABOUTME: Typed event bus used to observe dispatch outcomes and poll-loop states
// ABOUTME: Goroutine-safe subscribe/unsubscribe; delivery follows subscription order

package eventbus

import (
	"slices"
	"sync"
)

// Handler is a callback function for events.
type Handler[T any] func(T)

type subscriber[T any] struct {
	id      int
	handler Handler[T]
}

// Bus is a typed event bus that delivers events to registered handlers.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []subscriber[T]
	nextID int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns an unsubscribe function.
// Calling the returned function more than once is a no-op.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber[T]{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		b.subs = slices.DeleteFunc(b.subs, func(s subscriber[T]) bool { return s.id == id })
		b.mu.Unlock()
	}
}

// Publish sends an event to all registered handlers synchronously, oldest
// subscription first. Handlers may subscribe or unsubscribe while running.
func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	snapshot := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.handler(event)
	}
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
