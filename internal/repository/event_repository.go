package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clearcheck/internal/domain/event"
	clearcheck_errors "clearcheck/pkg/errors"
)

type PostgresEventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &PostgresEventRepository{db: db}
}

// Append inserts inside the caller's transaction so the event commits or
// rolls back together with the aggregate mutation that produced it. The
// database assigns the position.
func (r *PostgresEventRepository) Append(ctx context.Context, tx *gorm.DB, e *event.DomainEvent) error {
	execDB := tx
	if execDB == nil {
		execDB = r.db
	}
	res := execDB.WithContext(ctx).Create(e)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return clearcheck_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresEventRepository) GetUndispatched(ctx context.Context, limit int) ([]event.DomainEvent, error) {
	var batch []event.DomainEvent
	q := r.db.WithContext(ctx).Where("dispatched = false")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("position ASC").Find(&batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *PostgresEventRepository) GetByStreamTypes(ctx context.Context, streamTypes []string, afterPosition int64, limit int) ([]event.DomainEvent, error) {
	var batch []event.DomainEvent
	q := r.db.WithContext(ctx).
		Where("stream_type IN ? AND position > ?", streamTypes, afterPosition)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("position ASC").Find(&batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

// MarkDispatched is idempotent: positions already dispatched are untouched
// and never flip back.
func (r *PostgresEventRepository) MarkDispatched(ctx context.Context, positions []int64) error {
	if len(positions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&event.DomainEvent{}).
		Where("position IN ? AND dispatched = false", positions).
		Update("dispatched", true).Error
}
