package events

import (
	"time"

	"github.com/google/uuid"
)

// Event name constants. These follow the format: stream.action
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	EventSlaClockStarted   = "sla_clock.started"
	EventSlaClockPaused    = "sla_clock.paused"
	EventSlaClockResumed   = "sla_clock.resumed"
	EventSlaClockAtRisk    = "sla_clock.at_risk"
	EventSlaClockBreached  = "sla_clock.breached"
	EventSlaClockCompleted = "sla_clock.completed"
)

// Stream type constants
const (
	StreamTypeOrder    = "order"
	StreamTypeSlaClock = "sla_clock"
)

// Event is a domain event appended by an aggregate and carried through the
// deferred dispatch pipeline. Implementations are plain JSON-serializable
// structs.
type Event interface {
	Name() string
	StreamType() string
	StreamID() uuid.UUID
	At() time.Time
}

type OrderCreated struct {
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e OrderCreated) Name() string        { return EventOrderCreated }
func (e OrderCreated) StreamType() string  { return StreamTypeOrder }
func (e OrderCreated) StreamID() uuid.UUID { return e.OrderID }
func (e OrderCreated) At() time.Time       { return e.OccurredAt }

type OrderStatusChanged struct {
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	NewStatus  string    `json:"new_status"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e OrderStatusChanged) Name() string        { return EventOrderStatusChanged }
func (e OrderStatusChanged) StreamType() string  { return StreamTypeOrder }
func (e OrderStatusChanged) StreamID() uuid.UUID { return e.OrderID }
func (e OrderStatusChanged) At() time.Time       { return e.OccurredAt }

type SlaClockStarted struct {
	ClockID           uuid.UUID `json:"clock_id"`
	OrderID           uuid.UUID `json:"order_id"`
	CustomerID        uuid.UUID `json:"customer_id"`
	Kind              string    `json:"kind"`
	StartedAt         time.Time `json:"started_at"`
	DeadlineAt        time.Time `json:"deadline_at"`
	AtRiskThresholdAt time.Time `json:"at_risk_threshold_at"`
}

func (e SlaClockStarted) Name() string        { return EventSlaClockStarted }
func (e SlaClockStarted) StreamType() string  { return StreamTypeSlaClock }
func (e SlaClockStarted) StreamID() uuid.UUID { return e.ClockID }
func (e SlaClockStarted) At() time.Time       { return e.StartedAt }

type SlaClockPaused struct {
	ClockID  uuid.UUID `json:"clock_id"`
	OrderID  uuid.UUID `json:"order_id"`
	Kind     string    `json:"kind"`
	Reason   string    `json:"reason"`
	PausedAt time.Time `json:"paused_at"`
}

func (e SlaClockPaused) Name() string        { return EventSlaClockPaused }
func (e SlaClockPaused) StreamType() string  { return StreamTypeSlaClock }
func (e SlaClockPaused) StreamID() uuid.UUID { return e.ClockID }
func (e SlaClockPaused) At() time.Time       { return e.PausedAt }

type SlaClockResumed struct {
	ClockID              uuid.UUID     `json:"clock_id"`
	OrderID              uuid.UUID     `json:"order_id"`
	Kind                 string        `json:"kind"`
	ResumedAt            time.Time     `json:"resumed_at"`
	PauseDuration        time.Duration `json:"pause_duration"`
	NewDeadlineAt        time.Time     `json:"new_deadline_at"`
	NewAtRiskThresholdAt time.Time     `json:"new_at_risk_threshold_at"`
	AtRisk               bool          `json:"at_risk"`
}

func (e SlaClockResumed) Name() string        { return EventSlaClockResumed }
func (e SlaClockResumed) StreamType() string  { return StreamTypeSlaClock }
func (e SlaClockResumed) StreamID() uuid.UUID { return e.ClockID }
func (e SlaClockResumed) At() time.Time       { return e.ResumedAt }

type SlaClockAtRisk struct {
	ClockID    uuid.UUID `json:"clock_id"`
	OrderID    uuid.UUID `json:"order_id"`
	Kind       string    `json:"kind"`
	AtRiskAt   time.Time `json:"at_risk_at"`
	DeadlineAt time.Time `json:"deadline_at"`
}

func (e SlaClockAtRisk) Name() string        { return EventSlaClockAtRisk }
func (e SlaClockAtRisk) StreamType() string  { return StreamTypeSlaClock }
func (e SlaClockAtRisk) StreamID() uuid.UUID { return e.ClockID }
func (e SlaClockAtRisk) At() time.Time       { return e.AtRiskAt }

type SlaClockBreached struct {
	ClockID    uuid.UUID `json:"clock_id"`
	OrderID    uuid.UUID `json:"order_id"`
	Kind       string    `json:"kind"`
	BreachedAt time.Time `json:"breached_at"`
	DeadlineAt time.Time `json:"deadline_at"`
}

func (e SlaClockBreached) Name() string        { return EventSlaClockBreached }
func (e SlaClockBreached) StreamType() string  { return StreamTypeSlaClock }
func (e SlaClockBreached) StreamID() uuid.UUID { return e.ClockID }
func (e SlaClockBreached) At() time.Time       { return e.BreachedAt }

type SlaClockCompleted struct {
	ClockID      uuid.UUID     `json:"clock_id"`
	OrderID      uuid.UUID     `json:"order_id"`
	Kind         string        `json:"kind"`
	CompletedAt  time.Time     `json:"completed_at"`
	TotalElapsed time.Duration `json:"total_elapsed"`
	WasAtRisk    bool          `json:"was_at_risk"`
}

func (e SlaClockCompleted) Name() string        { return EventSlaClockCompleted }
func (e SlaClockCompleted) StreamType() string  { return StreamTypeSlaClock }
func (e SlaClockCompleted) StreamID() uuid.UUID { return e.ClockID }
func (e SlaClockCompleted) At() time.Time       { return e.CompletedAt }
