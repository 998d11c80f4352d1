package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clearcheck/internal/domain/order"
	clearcheck_errors "clearcheck/pkg/errors"
)

type PostgresOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &PostgresOrderRepository{db: db}
}

func (r *PostgresOrderRepository) Create(ctx context.Context, tx *gorm.DB, o *order.Order) error {
	execDB := tx
	if execDB == nil {
		execDB = r.db
	}
	res := execDB.WithContext(ctx).Create(o)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return clearcheck_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Order{}, clearcheck_errors.ErrNotFound
		}
		return order.Order{}, err
	}
	return o, nil
}

func (r *PostgresOrderRepository) Update(ctx context.Context, tx *gorm.DB, o *order.Order) error {
	execDB := tx
	if execDB == nil {
		execDB = r.db
	}
	res := execDB.WithContext(ctx).Save(o)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return clearcheck_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresOrderRepository) GetTouchedAfter(ctx context.Context, after time.Time, afterID string, limit int) ([]order.Order, error) {
	var out []order.Order
	// The id tie-break compares on text so the cursor ordering matches the
	// in-memory implementation byte for byte.
	q := r.db.WithContext(ctx).
		Where("updated_at > ? OR (updated_at = ? AND id::text > ?)", after, after, afterID)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("updated_at ASC, id::text ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
