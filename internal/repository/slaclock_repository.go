package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clearcheck/internal/domain/slaclock"
	clearcheck_errors "clearcheck/pkg/errors"
)

type PostgresSlaClockRepository struct {
	db *gorm.DB
}

func NewSlaClockRepository(db *gorm.DB) SlaClockRepository {
	return &PostgresSlaClockRepository{db: db}
}

func (r *PostgresSlaClockRepository) Create(ctx context.Context, tx *gorm.DB, c *slaclock.Clock) error {
	execDB := tx
	if execDB == nil {
		execDB = r.db
	}
	res := execDB.WithContext(ctx).Create(c)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return clearcheck_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresSlaClockRepository) GetByID(ctx context.Context, id uuid.UUID) (slaclock.Clock, error) {
	var c slaclock.Clock
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return slaclock.Clock{}, clearcheck_errors.ErrNotFound
		}
		return slaclock.Clock{}, err
	}
	return c, nil
}

func (r *PostgresSlaClockRepository) Update(ctx context.Context, tx *gorm.DB, c *slaclock.Clock) error {
	execDB := tx
	if execDB == nil {
		execDB = r.db
	}
	res := execDB.WithContext(ctx).Save(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return clearcheck_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresSlaClockRepository) GetActiveByOrderAndKind(ctx context.Context, orderID uuid.UUID, kind slaclock.Kind) (slaclock.Clock, error) {
	var c slaclock.Clock
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND kind = ? AND state NOT IN ?", orderID, kind, terminalStates()).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return slaclock.Clock{}, clearcheck_errors.ErrNotFound
		}
		return slaclock.Clock{}, err
	}
	return c, nil
}

func (r *PostgresSlaClockRepository) ListActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]slaclock.Clock, error) {
	var out []slaclock.Clock
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND state NOT IN ?", orderID, terminalStates()).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSlaClockRepository) GetAtRiskCandidates(ctx context.Context, now time.Time, limit int) ([]slaclock.Clock, error) {
	var out []slaclock.Clock
	q := r.db.WithContext(ctx).
		Where("state = ? AND at_risk_threshold_at <= ? AND at_risk_at IS NULL", slaclock.StateRunning, now)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("at_risk_threshold_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSlaClockRepository) GetBreachCandidates(ctx context.Context, now time.Time, limit int) ([]slaclock.Clock, error) {
	var out []slaclock.Clock
	q := r.db.WithContext(ctx).
		Where("state IN ? AND deadline_at <= ?", []slaclock.State{slaclock.StateRunning, slaclock.StateAtRisk}, now)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("deadline_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func terminalStates() []slaclock.State {
	return []slaclock.State{slaclock.StateBreached, slaclock.StateCompleted}
}
