package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clearcheck/internal/commands"
	"clearcheck/internal/domain/event"
)

type PostgresCommandLogRepository struct {
	db *gorm.DB
}

func NewCommandLogRepository(db *gorm.DB) *PostgresCommandLogRepository {
	return &PostgresCommandLogRepository{db: db}
}

func (r *PostgresCommandLogRepository) Get(ctx context.Context, key string) (commands.Result, bool, error) {
	var rec event.CommandLog
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return commands.Result{}, false, nil
		}
		return commands.Result{}, false, err
	}
	return commands.Result{AggregateID: rec.AggregateID}, true, nil
}

func (r *PostgresCommandLogRepository) Record(ctx context.Context, key, commandType, aggregateID string) error {
	// DoNothing keeps a concurrent duplicate from failing the write; both
	// executions ran against the same idempotent handler.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).
		Create(&event.CommandLog{
			IdempotencyKey: key,
			CommandType:    commandType,
			AggregateID:    aggregateID,
		}).Error
}
