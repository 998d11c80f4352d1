package event

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent stores domain events in the append-only log waiting to be
// dispatched to the event bus. Position is assigned by the database at
// append time; once Dispatched flips to true it never reverts, and rows are
// never mutated otherwise or deleted.
type DomainEvent struct {
	Position   int64     `gorm:"primaryKey;autoIncrement"`
	StreamType string    `gorm:"type:varchar(50);not null;index:idx_domain_events_stream,priority:1"`
	StreamID   uuid.UUID `gorm:"type:uuid;not null;index:idx_domain_events_stream,priority:2"`
	EventName  string    `gorm:"type:varchar(100);not null"`
	Payload    []byte    `gorm:"type:jsonb;not null"`
	Dispatched bool      `gorm:"not null;default:false"`
	OccurredAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
}

// TableName returns the database table name
func (DomainEvent) TableName() string {
	return "domain_events"
}

// ProjectionCheckpoint records how far a projection has replayed its source.
// Created on the first successful batch, updated after every batch, deleted
// only on an explicit reset.
type ProjectionCheckpoint struct {
	ProjectionName string    `gorm:"type:varchar(100);primaryKey"`
	TenantID       string    `gorm:"type:varchar(50);primaryKey"`
	Position       int64     `gorm:"not null"`
	Cursor         []byte    `gorm:"type:jsonb"`
	UpdatedAt      time.Time `gorm:"not null;default:now()"`
}

// TableName returns the database table name
func (ProjectionCheckpoint) TableName() string {
	return "projection_checkpoints"
}

// DefaultTenantID keys checkpoints in single-tenant deployments.
const DefaultTenantID = "default"

// CommandLog records the result of each command executed with an
// idempotency key. A redelivered command with a seen key is answered from
// this table instead of running again.
type CommandLog struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	IdempotencyKey string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CommandType    string    `gorm:"type:varchar(100);not null"`
	AggregateID    string    `gorm:"type:varchar(50)"`
	CreatedAt      time.Time `gorm:"not null;default:now()"`
}

// TableName returns the database table name
func (CommandLog) TableName() string {
	return "command_logs"
}
