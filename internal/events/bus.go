package events

import (
	"context"
	"fmt"
	"sync"
)

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus delivers dispatched events to in-process subscribers. Delivery is
// synchronous from the publisher's point of view: a handler error propagates
// to the caller, which is what lets the dispatch processor leave the event
// undispatched and retry it on the next poll.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
	SubscribeAll(handler Handler)
}

type InProcessBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	catchAll []Handler
}

func NewInProcessBus() *InProcessBus {
	return &InProcessBus{handlers: make(map[string][]Handler)}
}

func (b *InProcessBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
	b.mu.Unlock()
}

func (b *InProcessBus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	b.catchAll = append(b.catchAll, handler)
	b.mu.Unlock()
}

func (b *InProcessBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Name()])+len(b.catchAll))
	handlers = append(handlers, b.handlers[event.Name()]...)
	handlers = append(handlers, b.catchAll...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			return fmt.Errorf("handler failed for %s: %w", event.Name(), err)
		}
	}
	return nil
}
