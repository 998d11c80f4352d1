package readmodel

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// OrderSummary is the denormalized per-order row backing the order list and
// detail read APIs. Rebuilt from the orders table by the projection runner.
type OrderSummary struct {
	OrderID          uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Status           string    `gorm:"type:varchar(30);not null"`
	LastStatusReason string    `gorm:"type:text"`

	InvitedAt         sql.NullTime
	IntakeCompletedAt sql.NullTime
	ClosedAt          sql.NullTime
	CanceledAt        sql.NullTime

	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name
func (OrderSummary) TableName() string {
	return "order_summaries"
}

// SlaDashboardRow is the per-clock row backing the SLA dashboard. Rebuilt
// from the sla_clock event stream by the projection runner.
type SlaDashboardRow struct {
	ClockID    uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"type:uuid"`
	Kind       string    `gorm:"type:varchar(20);not null"`
	State      string    `gorm:"type:varchar(20);not null;index"`

	StartedAt         time.Time
	DeadlineAt        time.Time
	AtRiskThresholdAt time.Time

	AtRiskAt    sql.NullTime
	BreachedAt  sql.NullTime
	CompletedAt sql.NullTime

	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name
func (SlaDashboardRow) TableName() string {
	return "sla_dashboard"
}
