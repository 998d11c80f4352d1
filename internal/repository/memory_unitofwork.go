package repository

import (
	"context"

	"gorm.io/gorm"
)

// MemoryUnitOfWork mirrors the transactional unit of work without a
// database. The save callback receives a nil transaction handle; the memory
// repositories ignore it. Not crash-atomic, which is fine for tests and the
// dev harness.
type MemoryUnitOfWork struct {
	Events *MemoryEventRepository
}

func NewMemoryUnitOfWork(events *MemoryEventRepository) *MemoryUnitOfWork {
	return &MemoryUnitOfWork{Events: events}
}

func (u *MemoryUnitOfWork) Commit(ctx context.Context, save func(tx *gorm.DB) error, aggregates ...Aggregate) error {
	if err := save(nil); err != nil {
		return err
	}
	for _, agg := range aggregates {
		for _, ev := range agg.PendingEvents() {
			rec, err := ToDomainEvent(ev)
			if err != nil {
				return err
			}
			if err := u.Events.Append(ctx, nil, rec); err != nil {
				return err
			}
		}
		agg.ClearPendingEvents()
	}
	return nil
}
