package watchdog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clearcheck/internal/repository"
	"clearcheck/pkg/logger"
)

// ClockCommands is the command surface the watchdog drives. Both commands
// go through the regular aggregate path so the transitions are validated
// and the events land in the log.
type ClockCommands interface {
	MarkClockAtRisk(ctx context.Context, clockID uuid.UUID, at time.Time) error
	MarkClockBreached(ctx context.Context, clockID uuid.UUID, at time.Time) error
}

// Watchdog periodically sweeps active clocks for threshold and deadline
// crossings. Detection latency is bounded by the sweep interval, not by
// any inbound command traffic.
type Watchdog struct {
	clocks    repository.SlaClockRepository
	commands  ClockCommands
	log       *logger.Logger
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

func NewWatchdog(clocks repository.SlaClockRepository, commands ClockCommands, log *logger.Logger, interval time.Duration, batchSize int) *Watchdog {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Watchdog{
		clocks:    clocks,
		commands:  commands,
		log:       log,
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
	}
}

func (w *Watchdog) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watchdog) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one detection pass. Breaches are handled before at-risk flags
// so a clock past both boundaries goes straight to breached. A panic inside
// the pass is recovered to keep the ticker loop alive.
func (w *Watchdog) Sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error(ctx, "watchdog sweep panicked", zap.Any("panic", r))
		}
	}()

	now := w.now()
	w.sweepBreaches(ctx, now)
	w.sweepAtRisk(ctx, now)
}

func (w *Watchdog) sweepBreaches(ctx context.Context, now time.Time) {
	batch, err := w.clocks.GetBreachCandidates(ctx, now, w.batchSize)
	if err != nil {
		w.log.Error(ctx, "failed to read breach candidates", zap.Error(err))
		return
	}
	for _, c := range batch {
		if err := w.commands.MarkClockBreached(ctx, c.ID, now); err != nil {
			// One stuck clock must not block the rest of the sweep.
			w.log.Error(ctx, "failed to mark clock breached",
				zap.String("clock_id", c.ID.String()),
				zap.String("order_id", c.OrderID.String()),
				zap.Error(err))
			continue
		}
		w.log.Warn(ctx, "sla clock breached",
			zap.String("clock_id", c.ID.String()),
			zap.String("order_id", c.OrderID.String()),
			zap.String("kind", string(c.Kind)),
			zap.Time("deadline_at", c.DeadlineAt))
	}
}

func (w *Watchdog) sweepAtRisk(ctx context.Context, now time.Time) {
	batch, err := w.clocks.GetAtRiskCandidates(ctx, now, w.batchSize)
	if err != nil {
		w.log.Error(ctx, "failed to read at-risk candidates", zap.Error(err))
		return
	}
	for _, c := range batch {
		if err := w.commands.MarkClockAtRisk(ctx, c.ID, now); err != nil {
			w.log.Error(ctx, "failed to mark clock at risk",
				zap.String("clock_id", c.ID.String()),
				zap.String("order_id", c.OrderID.String()),
				zap.Error(err))
			continue
		}
		w.log.Warn(ctx, "sla clock at risk",
			zap.String("clock_id", c.ID.String()),
			zap.String("order_id", c.OrderID.String()),
			zap.String("kind", string(c.Kind)),
			zap.Time("deadline_at", c.DeadlineAt))
	}
}
