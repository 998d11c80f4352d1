package order

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"clearcheck/internal/events"
)

// Order represents the orders table. Milestone timestamps are nullable and
// written once when the matching transition happens. Terminal orders are
// never deleted.
type Order struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID     `gorm:"type:uuid;not null;index"`
	SubjectID  uuid.NullUUID `gorm:"type:uuid"`

	Status            Status         `gorm:"type:varchar(30);not null"`
	BlockedFromStatus sql.NullString `gorm:"type:varchar(30)"`
	LastStatusReason  string         `gorm:"type:text"`

	ActiveIntakeSessionID        uuid.NullUUID `gorm:"type:uuid"`
	LastCompletedIntakeSessionID uuid.NullUUID `gorm:"type:uuid"`

	InvitedAt             sql.NullTime
	IntakeStartedAt       sql.NullTime
	IntakeCompletedAt     sql.NullTime
	ReadyForFulfillmentAt sql.NullTime
	ClosedAt              sql.NullTime
	CanceledAt            sql.NullTime

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now();index:idx_orders_touch,priority:1"`

	pending []events.Event `gorm:"-"`
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

func (o *Order) PendingEvents() []events.Event {
	return o.pending
}

func (o *Order) ClearPendingEvents() {
	o.pending = nil
}

func (o *Order) appendEvent(e events.Event) {
	o.pending = append(o.pending, e)
}
