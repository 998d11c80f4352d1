package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"clearcheck/internal/domain/event"
)

// MemoryEventRepository is an in-memory event log with the same dispatch
// semantics as the Postgres store. Used by tests and the dev harness.
type MemoryEventRepository struct {
	mu     sync.Mutex
	log    []event.DomainEvent
	nextID int64
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{nextID: 1}
}

func (r *MemoryEventRepository) Append(ctx context.Context, tx *gorm.DB, e *event.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.Position = r.nextID
	r.nextID++
	r.log = append(r.log, *e)
	return nil
}

func (r *MemoryEventRepository) GetUndispatched(ctx context.Context, limit int) ([]event.DomainEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.DomainEvent
	for _, e := range r.log {
		if e.Dispatched {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryEventRepository) GetByStreamTypes(ctx context.Context, streamTypes []string, afterPosition int64, limit int) ([]event.DomainEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.DomainEvent
	for _, e := range r.log {
		if e.Position <= afterPosition || !containsString(streamTypes, e.StreamType) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryEventRepository) MarkDispatched(ctx context.Context, positions []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	marked := make(map[int64]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}
	for i := range r.log {
		if marked[r.log[i].Position] {
			r.log[i].Dispatched = true
		}
	}
	return nil
}

// All returns a copy of the full log, oldest first.
func (r *MemoryEventRepository) All() []event.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.DomainEvent, len(r.log))
	copy(out, r.log)
	return out
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
