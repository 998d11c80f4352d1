package projection

import (
	"context"

	"clearcheck/internal/events"
	"clearcheck/internal/repository"
)

// EventLogSource replays the append-only event log filtered to a set of
// stream types, in position order. Records carry the deserialized typed
// event.
type EventLogSource struct {
	repo        repository.EventRepository
	streamTypes []string
}

func NewEventLogSource(repo repository.EventRepository, streamTypes ...string) *EventLogSource {
	return &EventLogSource{repo: repo, streamTypes: streamTypes}
}

func (s *EventLogSource) FetchBatch(ctx context.Context, after Cursor, limit int) ([]Record, error) {
	batch, err := s.repo.GetByStreamTypes(ctx, s.streamTypes, after.Position, limit)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(batch))
	for _, rec := range batch {
		ev, err := events.Deserialize(rec.EventName, rec.Payload)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			Cursor: Cursor{
				Position:  rec.Position,
				TouchedAt: rec.OccurredAt,
				LastID:    rec.StreamID.String(),
			},
			Data: ev,
		})
	}
	return records, nil
}

// OrderTableSource scans the orders current-state table in
// (updated_at, id) order. The synthetic position counts processed records
// so checkpoint rows stay comparable across both source shapes.
type OrderTableSource struct {
	repo repository.OrderRepository
}

func NewOrderTableSource(repo repository.OrderRepository) *OrderTableSource {
	return &OrderTableSource{repo: repo}
}

func (s *OrderTableSource) FetchBatch(ctx context.Context, after Cursor, limit int) ([]Record, error) {
	batch, err := s.repo.GetTouchedAfter(ctx, after.TouchedAt, after.LastID, limit)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(batch))
	position := after.Position
	for _, o := range batch {
		position++
		records = append(records, Record{
			Cursor: Cursor{
				Position:  position,
				TouchedAt: o.UpdatedAt,
				LastID:    o.ID.String(),
			},
			Data: o,
		})
	}
	return records, nil
}
