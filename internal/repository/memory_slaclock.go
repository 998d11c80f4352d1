package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clearcheck/internal/domain/slaclock"
	clearcheck_errors "clearcheck/pkg/errors"
)

type MemorySlaClockRepository struct {
	mu     sync.Mutex
	clocks map[uuid.UUID]slaclock.Clock
}

func NewMemorySlaClockRepository() *MemorySlaClockRepository {
	return &MemorySlaClockRepository{clocks: make(map[uuid.UUID]slaclock.Clock)}
}

func (r *MemorySlaClockRepository) Create(ctx context.Context, tx *gorm.DB, c *slaclock.Clock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clocks[c.ID]; exists {
		return clearcheck_errors.ErrAlreadyExists
	}
	stored := *c
	stored.ClearPendingEvents()
	r.clocks[c.ID] = stored
	return nil
}

func (r *MemorySlaClockRepository) GetByID(ctx context.Context, id uuid.UUID) (slaclock.Clock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clocks[id]
	if !ok {
		return slaclock.Clock{}, clearcheck_errors.ErrNotFound
	}
	return c, nil
}

func (r *MemorySlaClockRepository) Update(ctx context.Context, tx *gorm.DB, c *slaclock.Clock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clocks[c.ID]; !ok {
		return clearcheck_errors.ErrNotFound
	}
	stored := *c
	stored.ClearPendingEvents()
	r.clocks[c.ID] = stored
	return nil
}

func (r *MemorySlaClockRepository) GetActiveByOrderAndKind(ctx context.Context, orderID uuid.UUID, kind slaclock.Kind) (slaclock.Clock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clocks {
		if c.OrderID == orderID && c.Kind == kind && !c.State.Terminal() {
			return c, nil
		}
	}
	return slaclock.Clock{}, clearcheck_errors.ErrNotFound
}

func (r *MemorySlaClockRepository) ListActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]slaclock.Clock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []slaclock.Clock
	for _, c := range r.clocks {
		if c.OrderID == orderID && !c.State.Terminal() {
			out = append(out, c)
		}
	}
	sortClocks(out)
	return out, nil
}

func (r *MemorySlaClockRepository) GetAtRiskCandidates(ctx context.Context, now time.Time, limit int) ([]slaclock.Clock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []slaclock.Clock
	for _, c := range r.clocks {
		if c.State == slaclock.StateRunning && !c.AtRiskThresholdAt.After(now) && !c.AtRiskAt.Valid {
			out = append(out, c)
		}
	}
	sortClocks(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemorySlaClockRepository) GetBreachCandidates(ctx context.Context, now time.Time, limit int) ([]slaclock.Clock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []slaclock.Clock
	for _, c := range r.clocks {
		if (c.State == slaclock.StateRunning || c.State == slaclock.StateAtRisk) && !c.DeadlineAt.After(now) {
			out = append(out, c)
		}
	}
	sortClocks(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortClocks(clocks []slaclock.Clock) {
	sort.Slice(clocks, func(i, j int) bool {
		if !clocks[i].CreatedAt.Equal(clocks[j].CreatedAt) {
			return clocks[i].CreatedAt.Before(clocks[j].CreatedAt)
		}
		return clocks[i].ID.String() < clocks[j].ID.String()
	})
}
