package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"clearcheck/internal/domain/event"
	"clearcheck/internal/events"
)

// GormUnitOfWork commits aggregate state and pending events in one database
// transaction, which is what makes persist-then-publish safe: an event can
// only reach the dispatch loop if the state change that produced it is
// durable.
type GormUnitOfWork struct {
	db        *gorm.DB
	eventRepo EventRepository
}

func NewUnitOfWork(db *gorm.DB, eventRepo EventRepository) UnitOfWork {
	return &GormUnitOfWork{db: db, eventRepo: eventRepo}
}

func (u *GormUnitOfWork) Commit(ctx context.Context, save func(tx *gorm.DB) error, aggregates ...Aggregate) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := save(tx); err != nil {
			return err
		}
		for _, agg := range aggregates {
			for _, ev := range agg.PendingEvents() {
				rec, err := ToDomainEvent(ev)
				if err != nil {
					return err
				}
				if err := u.eventRepo.Append(ctx, tx, rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, agg := range aggregates {
		agg.ClearPendingEvents()
	}
	return nil
}

// ToDomainEvent serializes a typed event into its append-only log record.
func ToDomainEvent(ev events.Event) (*event.DomainEvent, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ev.Name(), err)
	}
	return &event.DomainEvent{
		StreamType: ev.StreamType(),
		StreamID:   ev.StreamID(),
		EventName:  ev.Name(),
		Payload:    payload,
		Dispatched: false,
		OccurredAt: ev.At(),
	}, nil
}
