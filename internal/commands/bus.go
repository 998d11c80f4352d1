package commands

import (
	"context"
	"errors"
	"sync"
)

var ErrHandlerNotFound = errors.New("no handler registered for command")

// CommandLog remembers which idempotency keys have already produced a
// result, so redelivered commands can be answered without re-executing.
type CommandLog interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Record(ctx context.Context, key, commandType, aggregateID string) error
}

type Bus struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	log      CommandLog
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string]Handler)}
}

// UseCommandLog enables idempotency-key deduplication on Execute.
func (b *Bus) UseCommandLog(log CommandLog) {
	b.mu.Lock()
	b.log = log
	b.mu.Unlock()
}

func (b *Bus) Register(commandType string, handler Handler) {
	b.mu.Lock()
	b.handlers[commandType] = handler
	b.mu.Unlock()
}

func (b *Bus) Execute(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}
	b.mu.RLock()
	h, ok := b.handlers[cmd.CommandType()]
	log := b.log
	b.mu.RUnlock()
	if !ok {
		return Result{}, ErrHandlerNotFound
	}

	key := cmd.IdempotencyKey()
	if key != "" && log != nil {
		if cached, seen, err := log.Get(ctx, key); err == nil && seen {
			return cached, nil
		}
	}

	res, err := h.Handle(ctx, cmd)
	if err != nil {
		return res, err
	}
	// Only successful executions are recorded, so a retry after a failure
	// runs the command again. A failed Record is tolerated: the worst case
	// is one redundant execution against an idempotent handler.
	if key != "" && log != nil {
		_ = log.Record(ctx, key, cmd.CommandType(), res.AggregateID)
	}
	return res, nil
}
