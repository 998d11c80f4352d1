package projection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clearcheck/internal/domain/readmodel"
	"clearcheck/internal/domain/slaclock"
	"clearcheck/internal/events"
	"clearcheck/internal/repository"
	clearcheck_errors "clearcheck/pkg/errors"
	"clearcheck/pkg/logger"
)

const SlaDashboardName = "sla_dashboard"

// SlaDashboardTarget folds the sla_clock event stream into one row per
// clock. Each event sets fixed fields on the row, so re-applying it lands
// on the same values.
type SlaDashboardTarget struct {
	repo repository.SlaDashboardRepository
}

func NewSlaDashboardTarget(repo repository.SlaDashboardRepository) *SlaDashboardTarget {
	return &SlaDashboardTarget{repo: repo}
}

func (t *SlaDashboardTarget) Apply(ctx context.Context, data interface{}) error {
	ev, ok := data.(events.Event)
	if !ok {
		return fmt.Errorf("%w: sla dashboard projection got %T", clearcheck_errors.ErrInvalidInput, data)
	}

	row, err := t.repo.GetByClockID(ctx, ev.StreamID())
	if err != nil && !errors.Is(err, clearcheck_errors.ErrNotFound) {
		return err
	}

	switch e := ev.(type) {
	case events.SlaClockStarted:
		row = readmodel.SlaDashboardRow{
			ClockID:           e.ClockID,
			OrderID:           e.OrderID,
			CustomerID:        e.CustomerID,
			Kind:              e.Kind,
			State:             string(slaclock.StateRunning),
			StartedAt:         e.StartedAt,
			DeadlineAt:        e.DeadlineAt,
			AtRiskThresholdAt: e.AtRiskThresholdAt,
			UpdatedAt:         e.StartedAt,
		}
	case events.SlaClockPaused:
		row.State = string(slaclock.StatePaused)
		row.UpdatedAt = e.PausedAt
	case events.SlaClockResumed:
		if e.AtRisk {
			row.State = string(slaclock.StateAtRisk)
		} else {
			row.State = string(slaclock.StateRunning)
		}
		row.DeadlineAt = e.NewDeadlineAt
		row.AtRiskThresholdAt = e.NewAtRiskThresholdAt
		row.UpdatedAt = e.ResumedAt
	case events.SlaClockAtRisk:
		// The clock may be paused; the dashboard mirrors aggregate state on
		// the next resume event, so only the flag moves here.
		row.AtRiskAt = sql.NullTime{Time: e.AtRiskAt, Valid: true}
		if row.State == string(slaclock.StateRunning) {
			row.State = string(slaclock.StateAtRisk)
		}
		row.UpdatedAt = e.AtRiskAt
	case events.SlaClockBreached:
		row.State = string(slaclock.StateBreached)
		row.BreachedAt = sql.NullTime{Time: e.BreachedAt, Valid: true}
		row.UpdatedAt = e.BreachedAt
	case events.SlaClockCompleted:
		row.State = string(slaclock.StateCompleted)
		row.CompletedAt = sql.NullTime{Time: e.CompletedAt, Valid: true}
		row.UpdatedAt = e.CompletedAt
	default:
		return fmt.Errorf("%w: sla dashboard projection got %s", clearcheck_errors.ErrInvalidInput, ev.Name())
	}

	return t.repo.Upsert(ctx, row)
}

func (t *SlaDashboardTarget) Reset(ctx context.Context) error {
	return t.repo.Reset(ctx)
}

// NewSlaDashboardRunner wires the sla_clock event stream to the dashboard
// table.
func NewSlaDashboardRunner(eventRepo repository.EventRepository, dashboard repository.SlaDashboardRepository, checkpoints repository.CheckpointRepository, log *logger.Logger, batchSize int) *Runner {
	return NewRunner(
		SlaDashboardName,
		NewEventLogSource(eventRepo, events.StreamTypeSlaClock),
		NewSlaDashboardTarget(dashboard),
		checkpoints,
		log,
		batchSize,
	)
}
