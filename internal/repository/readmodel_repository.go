package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clearcheck/internal/domain/readmodel"
	clearcheck_errors "clearcheck/pkg/errors"
)

type PostgresOrderSummaryRepository struct {
	db *gorm.DB
}

func NewOrderSummaryRepository(db *gorm.DB) OrderSummaryRepository {
	return &PostgresOrderSummaryRepository{db: db}
}

func (r *PostgresOrderSummaryRepository) Upsert(ctx context.Context, row readmodel.OrderSummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func (r *PostgresOrderSummaryRepository) GetByID(ctx context.Context, orderID uuid.UUID) (readmodel.OrderSummary, error) {
	var row readmodel.OrderSummary
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return readmodel.OrderSummary{}, clearcheck_errors.ErrNotFound
		}
		return readmodel.OrderSummary{}, err
	}
	return row, nil
}

func (r *PostgresOrderSummaryRepository) List(ctx context.Context, limit, offset int) ([]readmodel.OrderSummary, error) {
	var rows []readmodel.OrderSummary
	q := r.db.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresOrderSummaryRepository) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&readmodel.OrderSummary{}).Error
}

type PostgresSlaDashboardRepository struct {
	db *gorm.DB
}

func NewSlaDashboardRepository(db *gorm.DB) SlaDashboardRepository {
	return &PostgresSlaDashboardRepository{db: db}
}

func (r *PostgresSlaDashboardRepository) Upsert(ctx context.Context, row readmodel.SlaDashboardRow) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clock_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func (r *PostgresSlaDashboardRepository) GetByClockID(ctx context.Context, clockID uuid.UUID) (readmodel.SlaDashboardRow, error) {
	var row readmodel.SlaDashboardRow
	err := r.db.WithContext(ctx).Where("clock_id = ?", clockID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return readmodel.SlaDashboardRow{}, clearcheck_errors.ErrNotFound
		}
		return readmodel.SlaDashboardRow{}, err
	}
	return row, nil
}

func (r *PostgresSlaDashboardRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]readmodel.SlaDashboardRow, error) {
	var rows []readmodel.SlaDashboardRow
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("started_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresSlaDashboardRepository) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&readmodel.SlaDashboardRow{}).Error
}
