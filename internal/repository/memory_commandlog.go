package repository

import (
	"context"
	"sync"

	"clearcheck/internal/commands"
)

type MemoryCommandLogRepository struct {
	mu      sync.Mutex
	results map[string]commands.Result
}

func NewMemoryCommandLogRepository() *MemoryCommandLogRepository {
	return &MemoryCommandLogRepository{results: make(map[string]commands.Result)}
}

func (r *MemoryCommandLogRepository) Get(ctx context.Context, key string) (commands.Result, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[key]
	return res, ok, nil
}

func (r *MemoryCommandLogRepository) Record(ctx context.Context, key, commandType, aggregateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.results[key]; !ok {
		r.results[key] = commands.Result{AggregateID: aggregateID}
	}
	return nil
}
