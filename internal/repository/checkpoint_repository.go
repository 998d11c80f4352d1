package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clearcheck/internal/domain/event"
	clearcheck_errors "clearcheck/pkg/errors"
)

type PostgresCheckpointRepository struct {
	db *gorm.DB
}

func NewCheckpointRepository(db *gorm.DB) CheckpointRepository {
	return &PostgresCheckpointRepository{db: db}
}

func (r *PostgresCheckpointRepository) Get(ctx context.Context, projectionName, tenantID string) (event.ProjectionCheckpoint, error) {
	var cp event.ProjectionCheckpoint
	err := r.db.WithContext(ctx).
		Where("projection_name = ? AND tenant_id = ?", projectionName, tenantID).
		First(&cp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return event.ProjectionCheckpoint{}, clearcheck_errors.ErrNotFound
		}
		return event.ProjectionCheckpoint{}, err
	}
	return cp, nil
}

func (r *PostgresCheckpointRepository) Save(ctx context.Context, cp event.ProjectionCheckpoint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "projection_name"}, {Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "cursor", "updated_at"}),
		}).
		Create(&cp).Error
}

func (r *PostgresCheckpointRepository) Delete(ctx context.Context, projectionName, tenantID string) error {
	return r.db.WithContext(ctx).
		Where("projection_name = ? AND tenant_id = ?", projectionName, tenantID).
		Delete(&event.ProjectionCheckpoint{}).Error
}
