package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clearcheck/internal/domain/event"
	"clearcheck/internal/domain/order"
	"clearcheck/internal/domain/readmodel"
	"clearcheck/internal/domain/slaclock"
	"clearcheck/internal/events"
)

// Aggregate is anything the unit of work can commit: state mutation plus
// the events it accumulated while mutating.
type Aggregate interface {
	PendingEvents() []events.Event
	ClearPendingEvents()
}

// UnitOfWork commits one or more aggregate mutations and their pending
// events in a single transaction. The pending lists are cleared only after
// a successful commit. Implementations pass the transaction handle to the
// save callback; repositories fall back to their base connection when it is
// nil.
type UnitOfWork interface {
	Commit(ctx context.Context, save func(tx *gorm.DB) error, aggregates ...Aggregate) error
}

type EventRepository interface {
	Append(ctx context.Context, tx *gorm.DB, e *event.DomainEvent) error
	GetUndispatched(ctx context.Context, limit int) ([]event.DomainEvent, error)
	GetByStreamTypes(ctx context.Context, streamTypes []string, afterPosition int64, limit int) ([]event.DomainEvent, error)
	MarkDispatched(ctx context.Context, positions []int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *order.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (order.Order, error)
	Update(ctx context.Context, tx *gorm.DB, o *order.Order) error
	// GetTouchedAfter pages the current-state table in (updated_at, id)
	// order for projection replay. The id tie-break keeps records with
	// colliding timestamps from being skipped or repeated.
	GetTouchedAfter(ctx context.Context, after time.Time, afterID string, limit int) ([]order.Order, error)
}

type SlaClockRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *slaclock.Clock) error
	GetByID(ctx context.Context, id uuid.UUID) (slaclock.Clock, error)
	Update(ctx context.Context, tx *gorm.DB, c *slaclock.Clock) error
	GetActiveByOrderAndKind(ctx context.Context, orderID uuid.UUID, kind slaclock.Kind) (slaclock.Clock, error)
	ListActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]slaclock.Clock, error)
	// GetAtRiskCandidates returns running clocks past their at-risk
	// threshold that have not been flagged yet.
	GetAtRiskCandidates(ctx context.Context, now time.Time, limit int) ([]slaclock.Clock, error)
	// GetBreachCandidates returns running or at-risk clocks past their
	// deadline.
	GetBreachCandidates(ctx context.Context, now time.Time, limit int) ([]slaclock.Clock, error)
}

type CheckpointRepository interface {
	Get(ctx context.Context, projectionName, tenantID string) (event.ProjectionCheckpoint, error)
	Save(ctx context.Context, cp event.ProjectionCheckpoint) error
	Delete(ctx context.Context, projectionName, tenantID string) error
}

type OrderSummaryRepository interface {
	Upsert(ctx context.Context, row readmodel.OrderSummary) error
	GetByID(ctx context.Context, orderID uuid.UUID) (readmodel.OrderSummary, error)
	List(ctx context.Context, limit, offset int) ([]readmodel.OrderSummary, error)
	Reset(ctx context.Context) error
}

type SlaDashboardRepository interface {
	Upsert(ctx context.Context, row readmodel.SlaDashboardRow) error
	GetByClockID(ctx context.Context, clockID uuid.UUID) (readmodel.SlaDashboardRow, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]readmodel.SlaDashboardRow, error)
	Reset(ctx context.Context) error
}
