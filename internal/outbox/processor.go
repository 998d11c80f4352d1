package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"clearcheck/internal/events"
	"clearcheck/internal/repository"
	"clearcheck/pkg/logger"
)

// Processor is the deferred dispatch worker. It polls the event log for
// undispatched events, publishes them to the bus and marks the ones that
// went through. Events whose handler failed stay undispatched and are
// retried on the next poll, so delivery is at-least-once and every
// subscriber must be idempotent.
type Processor struct {
	repo         repository.EventRepository
	bus          events.Bus
	log          *logger.Logger
	batchSize    int
	busyInterval time.Duration
	idleInterval time.Duration
}

func NewProcessor(repo repository.EventRepository, bus events.Bus, log *logger.Logger, batchSize int, busyInterval, idleInterval time.Duration) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	return &Processor{
		repo:         repo,
		bus:          bus,
		log:          log,
		batchSize:    batchSize,
		busyInterval: busyInterval,
		idleInterval: idleInterval,
	}
}

func DefaultProcessor(repo repository.EventRepository, bus events.Bus, log *logger.Logger) *Processor {
	return NewProcessor(repo, bus, log, 100, 100*time.Millisecond, time.Second)
}

// Run loops until the context is canceled. The short interval after a busy
// batch bounds latency; the long one after an empty poll bounds load.
func (p *Processor) Run(ctx context.Context) {
	for {
		found := p.ProcessBatch(ctx)

		interval := p.idleInterval
		if found {
			interval = p.busyInterval
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// ProcessBatch runs one poll-publish-mark iteration and reports whether any
// work was found. A panic anywhere inside the iteration is recovered so the
// loop itself never dies.
func (p *Processor) ProcessBatch(ctx context.Context) (found bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error(ctx, "dispatch iteration panicked", zap.Any("panic", r))
		}
	}()

	batch, err := p.repo.GetUndispatched(ctx, p.batchSize)
	if err != nil {
		p.log.Error(ctx, "failed to read undispatched events", zap.Error(err))
		return false
	}
	if len(batch) == 0 {
		return false
	}

	dispatched := make([]int64, 0, len(batch))
	for _, rec := range batch {
		ev, err := events.Deserialize(rec.EventName, rec.Payload)
		if err != nil {
			// Poisoned row: it stays undispatched; keep going so one bad
			// event cannot stall the rest of the batch.
			p.log.Error(ctx, "failed to deserialize event",
				zap.Int64("position", rec.Position),
				zap.String("event_name", rec.EventName),
				zap.Error(err))
			continue
		}
		if err := p.bus.Publish(ctx, ev); err != nil {
			p.log.Error(ctx, "failed to publish event",
				zap.Int64("position", rec.Position),
				zap.String("event_name", rec.EventName),
				zap.Error(err))
			continue
		}
		dispatched = append(dispatched, rec.Position)
	}

	if len(dispatched) > 0 {
		if err := p.repo.MarkDispatched(ctx, dispatched); err != nil {
			// Marking failed after a successful publish: the batch will be
			// re-delivered on the next poll, which idempotent handlers absorb.
			p.log.Error(ctx, "failed to mark events dispatched", zap.Error(err))
		}
	}
	return true
}
