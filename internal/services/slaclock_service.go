package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clearcheck/internal/commands"
	"clearcheck/internal/domain/slaclock"
	"clearcheck/internal/repository"
	clearcheck_errors "clearcheck/pkg/errors"
	"clearcheck/pkg/logger"
)

// SlaClockService owns the clock command surface. Starts enforce one active
// clock per (order, kind); completes are keyed by (order, kind) and treat a
// missing clock as already done, so redelivered events are harmless.
type SlaClockService struct {
	clockRepo repository.SlaClockRepository
	orderRepo repository.OrderRepository
	uow       repository.UnitOfWork
	calendar  BusinessCalendar
	bus       *commands.Bus
	log       *logger.Logger
	now       func() time.Time
}

func NewSlaClockService(clockRepo repository.SlaClockRepository, orderRepo repository.OrderRepository, uow repository.UnitOfWork, calendar BusinessCalendar, bus *commands.Bus, log *logger.Logger) *SlaClockService {
	if calendar == nil {
		calendar = NewWeekdayCalendar()
	}
	if bus == nil {
		bus = commands.NewBus()
	}
	if log == nil {
		log = logger.Nop()
	}
	svc := &SlaClockService{
		clockRepo: clockRepo,
		orderRepo: orderRepo,
		uow:       uow,
		calendar:  calendar,
		bus:       bus,
		log:       log,
		now:       time.Now,
	}
	svc.RegisterHandlers()
	return svc
}

func (s *SlaClockService) Bus() *commands.Bus {
	return s.bus
}

func (s *SlaClockService) RegisterHandlers() {
	s.bus.Register("sla_clock.start", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.StartClockCommand)
		if !ok {
			return commands.Result{}, clearcheck_errors.ErrInvalidInput
		}
		return s.StartClock(ctx, typed)
	}))
	s.bus.Register("sla_clock.pause", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.PauseClockCommand)
		if !ok {
			return commands.Result{}, clearcheck_errors.ErrInvalidInput
		}
		return s.PauseClock(ctx, typed)
	}))
	s.bus.Register("sla_clock.resume", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.ResumeClockCommand)
		if !ok {
			return commands.Result{}, clearcheck_errors.ErrInvalidInput
		}
		return s.ResumeClock(ctx, typed)
	}))
	s.bus.Register("sla_clock.complete", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.CompleteClockCommand)
		if !ok {
			return commands.Result{}, clearcheck_errors.ErrInvalidInput
		}
		if err := s.CompleteClockForOrder(ctx, typed.OrderID, typed.Kind); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{AggregateID: typed.OrderID.String()}, nil
	}))
}

func (s *SlaClockService) StartClock(ctx context.Context, cmd commands.StartClockCommand) (commands.Result, error) {
	if err := cmd.Validate(); err != nil {
		return commands.Result{}, err
	}
	o, err := s.orderRepo.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return commands.Result{}, err
	}
	if existing, err := s.clockRepo.GetActiveByOrderAndKind(ctx, cmd.OrderID, cmd.Kind); err == nil {
		return commands.Result{AggregateID: existing.ID.String()}, clearcheck_errors.ErrClockActive
	} else if !errors.Is(err, clearcheck_errors.ErrNotFound) {
		return commands.Result{}, err
	}

	days := cmd.TargetBusinessDays
	if days == 0 {
		days = slaclock.DefaultTargetBusinessDays[cmd.Kind]
	}
	startedAt := cmd.StartedAt
	if startedAt.IsZero() {
		startedAt = s.now()
	}
	percent := cmd.AtRiskThresholdPercent
	if percent == 0 {
		percent = slaclock.DefaultAtRiskThresholdPercent
	}
	deadlineAt := s.calendar.AddBusinessDays(startedAt, days, o.CustomerID)
	thresholdAt := s.calendar.AtRiskThreshold(startedAt, deadlineAt, percent)

	c := slaclock.NewClock(uuid.New(), cmd.OrderID, o.CustomerID, cmd.Kind, startedAt, deadlineAt, thresholdAt, days, percent)
	err = s.uow.Commit(ctx, func(tx *gorm.DB) error {
		return s.clockRepo.Create(ctx, tx, c)
	}, c)
	if err != nil {
		return commands.Result{}, err
	}
	s.log.Info(ctx, "sla clock started",
		zap.String("clock_id", c.ID.String()),
		zap.String("order_id", cmd.OrderID.String()),
		zap.String("kind", string(cmd.Kind)),
		zap.Time("deadline_at", deadlineAt))
	return commands.Result{AggregateID: c.ID.String(), Payload: *c}, nil
}

func (s *SlaClockService) PauseClock(ctx context.Context, cmd commands.PauseClockCommand) (commands.Result, error) {
	return s.mutate(ctx, cmd.ClockID, func(c *slaclock.Clock) {
		c.Pause(cmd.Reason, s.now())
	})
}

func (s *SlaClockService) ResumeClock(ctx context.Context, cmd commands.ResumeClockCommand) (commands.Result, error) {
	return s.mutate(ctx, cmd.ClockID, func(c *slaclock.Clock) {
		c.Resume(s.now())
	})
}

// MarkClockAtRisk and MarkClockBreached are the watchdog entry points. The
// sweep time is carried in so all clocks in one pass share a timestamp.
func (s *SlaClockService) MarkClockAtRisk(ctx context.Context, clockID uuid.UUID, at time.Time) error {
	_, err := s.mutate(ctx, clockID, func(c *slaclock.Clock) {
		c.MarkAtRisk(at)
	})
	return err
}

func (s *SlaClockService) MarkClockBreached(ctx context.Context, clockID uuid.UUID, at time.Time) error {
	_, err := s.mutate(ctx, clockID, func(c *slaclock.Clock) {
		c.MarkBreached(at)
	})
	return err
}

// CompleteClockForOrder completes the active clock of the given kind. No
// active clock means the work is already done (or was never tracked), which
// is a success for the caller.
func (s *SlaClockService) CompleteClockForOrder(ctx context.Context, orderID uuid.UUID, kind slaclock.Kind) error {
	c, err := s.clockRepo.GetActiveByOrderAndKind(ctx, orderID, kind)
	if err != nil {
		if errors.Is(err, clearcheck_errors.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = s.mutate(ctx, c.ID, func(c *slaclock.Clock) {
		c.Complete(s.now())
	})
	return err
}

// PauseAllForOrder pauses every active clock on the order, one commit per
// clock so a failure on one does not roll back the others.
func (s *SlaClockService) PauseAllForOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	clocks, err := s.clockRepo.ListActiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for _, c := range clocks {
		if _, err := s.mutate(ctx, c.ID, func(c *slaclock.Clock) {
			c.Pause(reason, s.now())
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *SlaClockService) ResumeAllForOrder(ctx context.Context, orderID uuid.UUID) error {
	clocks, err := s.clockRepo.ListActiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for _, c := range clocks {
		if _, err := s.mutate(ctx, c.ID, func(c *slaclock.Clock) {
			c.Resume(s.now())
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *SlaClockService) GetClock(ctx context.Context, id uuid.UUID) (slaclock.Clock, error) {
	return s.clockRepo.GetByID(ctx, id)
}

func (s *SlaClockService) mutate(ctx context.Context, clockID uuid.UUID, fn func(c *slaclock.Clock)) (commands.Result, error) {
	c, err := s.clockRepo.GetByID(ctx, clockID)
	if err != nil {
		return commands.Result{}, err
	}
	fn(&c)
	err = s.uow.Commit(ctx, func(tx *gorm.DB) error {
		return s.clockRepo.Update(ctx, tx, &c)
	}, &c)
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Result{AggregateID: c.ID.String(), Payload: c}, nil
}
