package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clearcheck/internal/commands"
	"clearcheck/internal/domain/order"
	"clearcheck/internal/repository"
	clearcheck_errors "clearcheck/pkg/errors"
	"clearcheck/pkg/logger"
)

// OrderService owns the order command surface. Every mutation loads the
// aggregate, calls one workflow method and commits state plus pending
// events through the unit of work.
type OrderService struct {
	orderRepo repository.OrderRepository
	uow       repository.UnitOfWork
	bus       *commands.Bus
	log       *logger.Logger
	now       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, uow repository.UnitOfWork, bus *commands.Bus, log *logger.Logger) *OrderService {
	if bus == nil {
		bus = commands.NewBus()
	}
	if log == nil {
		log = logger.Nop()
	}
	svc := &OrderService{
		orderRepo: orderRepo,
		uow:       uow,
		bus:       bus,
		log:       log,
		now:       time.Now,
	}
	svc.RegisterHandlers()
	return svc
}

func (s *OrderService) Bus() *commands.Bus {
	return s.bus
}

func (s *OrderService) RegisterHandlers() {
	s.bus.Register("order.create", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.CreateOrderCommand)
		if !ok {
			return commands.Result{}, clearcheck_errors.ErrInvalidInput
		}
		return s.CreateOrder(ctx, typed)
	}))
	s.bus.Register("order.invite", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.InviteCandidateCommand)
		if !ok {
			return commands.Result{}, clearcheck_errors.ErrInvalidInput
		}
		return s.InviteCandidate(ctx, typed)
	}))
	s.bus.Register("order.intake.start", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.StartIntakeCommand)
		if !ok {
			return commands.Result{}, clearcheck_errors.ErrInvalidInput
		}
		return s.StartIntake(ctx, typed)
	}))
	s.bus.Register("order.intake.submit", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.SubmitIntakeCommand)
		if !ok {
			return commands.Result{}, clearcheck_errors.ErrInvalidInput
		}
		return s.SubmitIntake(ctx, typed)
	}))

	transitions := []string{
		commands.CommandMarkReadyForFulfillment,
		commands.CommandBeginFulfillment,
		commands.CommandMarkReadyForReport,
		commands.CommandCloseOrder,
		commands.CommandBlockOrder,
		commands.CommandResumeOrder,
		commands.CommandCancelOrder,
	}
	for _, t := range transitions {
		s.bus.Register(t, commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
			typed, ok := cmd.(commands.TransitionOrderCommand)
			if !ok {
				return commands.Result{}, clearcheck_errors.ErrInvalidInput
			}
			return s.Transition(ctx, typed)
		}))
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, cmd commands.CreateOrderCommand) (commands.Result, error) {
	if err := cmd.Validate(); err != nil {
		return commands.Result{}, err
	}
	o := order.NewOrder(uuid.New(), cmd.CustomerID, cmd.SubjectID, s.now())
	err := s.uow.Commit(ctx, func(tx *gorm.DB) error {
		return s.orderRepo.Create(ctx, tx, o)
	}, o)
	if err != nil {
		return commands.Result{}, err
	}
	s.log.Info(ctx, "order created", zap.String("order_id", o.ID.String()))
	return commands.Result{AggregateID: o.ID.String(), Payload: *o}, nil
}

func (s *OrderService) InviteCandidate(ctx context.Context, cmd commands.InviteCandidateCommand) (commands.Result, error) {
	return s.mutate(ctx, cmd.OrderID, func(o *order.Order) error {
		return o.RecordInvite(cmd.IntakeSessionID, s.now())
	})
}

func (s *OrderService) StartIntake(ctx context.Context, cmd commands.StartIntakeCommand) (commands.Result, error) {
	return s.mutate(ctx, cmd.OrderID, func(o *order.Order) error {
		return o.MarkIntakeInProgress(cmd.IntakeSessionID, s.now())
	})
}

func (s *OrderService) SubmitIntake(ctx context.Context, cmd commands.SubmitIntakeCommand) (commands.Result, error) {
	return s.mutate(ctx, cmd.OrderID, func(o *order.Order) error {
		return o.MarkIntakeSubmitted(cmd.IntakeSessionID, s.now())
	})
}

func (s *OrderService) Transition(ctx context.Context, cmd commands.TransitionOrderCommand) (commands.Result, error) {
	if err := cmd.Validate(); err != nil {
		return commands.Result{}, err
	}
	return s.mutate(ctx, cmd.OrderID, func(o *order.Order) error {
		at := s.now()
		switch cmd.Type {
		case commands.CommandMarkReadyForFulfillment:
			return o.MarkReadyForFulfillment(cmd.Reason, at)
		case commands.CommandBeginFulfillment:
			return o.BeginFulfillment(cmd.Reason, at)
		case commands.CommandMarkReadyForReport:
			return o.MarkReadyForReport(cmd.Reason, at)
		case commands.CommandCloseOrder:
			return o.Close(cmd.Reason, at)
		case commands.CommandBlockOrder:
			return o.Block(cmd.Reason, at)
		case commands.CommandResumeOrder:
			return o.ResumeFromBlock(cmd.Reason, at)
		case commands.CommandCancelOrder:
			return o.Cancel(cmd.Reason, at)
		}
		return clearcheck_errors.ErrInvalidInput
	})
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (order.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// mutate is the shared load-call-commit path for commands against an
// existing order.
func (s *OrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(o *order.Order) error) (commands.Result, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return commands.Result{}, err
	}
	if err := fn(&o); err != nil {
		return commands.Result{}, err
	}
	err = s.uow.Commit(ctx, func(tx *gorm.DB) error {
		return s.orderRepo.Update(ctx, tx, &o)
	}, &o)
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Result{AggregateID: o.ID.String(), Payload: o}, nil
}
