package slaclock

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"clearcheck/internal/events"
)

// Clock represents the sla_clocks table. DeadlineAt and AtRiskThresholdAt
// only ever move later (shifted by realized pause time), and
// AccumulatedPause never decreases.
type Clock struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null"`
	Kind       Kind      `gorm:"type:varchar(20);not null"`
	State      State     `gorm:"type:varchar(20);not null;index"`

	StartedAt         time.Time `gorm:"not null"`
	DeadlineAt        time.Time `gorm:"not null;index"`
	AtRiskThresholdAt time.Time `gorm:"not null;index"`

	AtRiskAt    sql.NullTime
	BreachedAt  sql.NullTime
	PausedAt    sql.NullTime
	CompletedAt sql.NullTime

	PauseReason      sql.NullString `gorm:"type:text"`
	AccumulatedPause time.Duration  `gorm:"type:bigint;not null;default:0"`

	TargetBusinessDays     int     `gorm:"not null"`
	AtRiskThresholdPercent float64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	pending []events.Event `gorm:"-"`
}

// TableName returns the database table name
func (Clock) TableName() string {
	return "sla_clocks"
}

func (c *Clock) PendingEvents() []events.Event {
	return c.pending
}

func (c *Clock) ClearPendingEvents() {
	c.pending = nil
}

func (c *Clock) appendEvent(e events.Event) {
	c.pending = append(c.pending, e)
}
