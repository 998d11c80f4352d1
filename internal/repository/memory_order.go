package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clearcheck/internal/domain/order"
	clearcheck_errors "clearcheck/pkg/errors"
)

type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders map[uuid.UUID]order.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[uuid.UUID]order.Order)}
}

func (r *MemoryOrderRepository) Create(ctx context.Context, tx *gorm.DB, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[o.ID]; exists {
		return clearcheck_errors.ErrAlreadyExists
	}
	stored := *o
	stored.ClearPendingEvents()
	r.orders[o.ID] = stored
	return nil
}

func (r *MemoryOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, clearcheck_errors.ErrNotFound
	}
	return o, nil
}

func (r *MemoryOrderRepository) Update(ctx context.Context, tx *gorm.DB, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return clearcheck_errors.ErrNotFound
	}
	stored := *o
	stored.ClearPendingEvents()
	r.orders[o.ID] = stored
	return nil
}

func (r *MemoryOrderRepository) GetTouchedAfter(ctx context.Context, after time.Time, afterID string, limit int) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []order.Order
	for _, o := range r.orders {
		if o.UpdatedAt.After(after) || (o.UpdatedAt.Equal(after) && o.ID.String() > afterID) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
