package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"clearcheck/internal/domain/readmodel"
	clearcheck_errors "clearcheck/pkg/errors"
)

type MemoryOrderSummaryRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]readmodel.OrderSummary
}

func NewMemoryOrderSummaryRepository() *MemoryOrderSummaryRepository {
	return &MemoryOrderSummaryRepository{rows: make(map[uuid.UUID]readmodel.OrderSummary)}
}

func (r *MemoryOrderSummaryRepository) Upsert(ctx context.Context, row readmodel.OrderSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.OrderID] = row
	return nil
}

func (r *MemoryOrderSummaryRepository) GetByID(ctx context.Context, orderID uuid.UUID) (readmodel.OrderSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[orderID]
	if !ok {
		return readmodel.OrderSummary{}, clearcheck_errors.ErrNotFound
	}
	return row, nil
}

func (r *MemoryOrderSummaryRepository) List(ctx context.Context, limit, offset int) ([]readmodel.OrderSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]readmodel.OrderSummary, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryOrderSummaryRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = make(map[uuid.UUID]readmodel.OrderSummary)
	return nil
}

// Len reports the number of rows, for tests.
func (r *MemoryOrderSummaryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type MemorySlaDashboardRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]readmodel.SlaDashboardRow
}

func NewMemorySlaDashboardRepository() *MemorySlaDashboardRepository {
	return &MemorySlaDashboardRepository{rows: make(map[uuid.UUID]readmodel.SlaDashboardRow)}
}

func (r *MemorySlaDashboardRepository) Upsert(ctx context.Context, row readmodel.SlaDashboardRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.ClockID] = row
	return nil
}

func (r *MemorySlaDashboardRepository) GetByClockID(ctx context.Context, clockID uuid.UUID) (readmodel.SlaDashboardRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[clockID]
	if !ok {
		return readmodel.SlaDashboardRow{}, clearcheck_errors.ErrNotFound
	}
	return row, nil
}

func (r *MemorySlaDashboardRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]readmodel.SlaDashboardRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []readmodel.SlaDashboardRow
	for _, row := range r.rows {
		if row.OrderID == orderID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

func (r *MemorySlaDashboardRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = make(map[uuid.UUID]readmodel.SlaDashboardRow)
	return nil
}

// Len reports the number of rows, for tests.
func (r *MemorySlaDashboardRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
