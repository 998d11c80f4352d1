package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clearcheck/internal/commands"
	"clearcheck/internal/domain/order"
	"clearcheck/internal/domain/slaclock"
	"clearcheck/internal/events"
	"clearcheck/internal/outbox"
	"clearcheck/internal/repository"
	clearcheck_errors "clearcheck/pkg/errors"
)

// OrderServiceSuite wires the full write path against memory stores: the
// command surface, the event log, the dispatch processor and the clock
// policy reacting to dispatched events.
type OrderServiceSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	eventRepo *repository.MemoryEventRepository
	orderRepo *repository.MemoryOrderRepository
	clockRepo *repository.MemorySlaClockRepository
	orders    *OrderService
	clocks    *SlaClockService
	processor *outbox.Processor
}

func (s *OrderServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday
	s.eventRepo = repository.NewMemoryEventRepository()
	s.orderRepo = repository.NewMemoryOrderRepository()
	s.clockRepo = repository.NewMemorySlaClockRepository()
	uow := repository.NewMemoryUnitOfWork(s.eventRepo)

	bus := commands.NewBus()
	bus.UseCommandLog(repository.NewMemoryCommandLogRepository())
	s.orders = NewOrderService(s.orderRepo, uow, bus, nil)
	s.orders.now = func() time.Time { return s.now }
	s.clocks = NewSlaClockService(s.clockRepo, s.orderRepo, uow, NewWeekdayCalendar(), bus, nil)
	s.clocks.now = func() time.Time { return s.now }

	eventBus := events.NewInProcessBus()
	NewClockPolicy(s.clocks, nil).Register(eventBus)
	s.processor = outbox.DefaultProcessor(s.eventRepo, eventBus, nil)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

// drain dispatches until the log is quiet, like the worker loop would.
func (s *OrderServiceSuite) drain() {
	for s.processor.ProcessBatch(s.ctx) {
	}
}

func (s *OrderServiceSuite) createOrder() uuid.UUID {
	res, err := s.orders.CreateOrder(s.ctx, commands.CreateOrderCommand{CustomerID: uuid.New()})
	s.Require().NoError(err)
	id, err := uuid.Parse(res.AggregateID)
	s.Require().NoError(err)
	return id
}

func (s *OrderServiceSuite) TestIntakeScenario() {
	orderID := s.createOrder()
	session := uuid.New()

	_, err := s.orders.InviteCandidate(s.ctx, commands.InviteCandidateCommand{OrderID: orderID, IntakeSessionID: session})
	s.Require().NoError(err)
	_, err = s.orders.StartIntake(s.ctx, commands.StartIntakeCommand{OrderID: orderID, IntakeSessionID: session})
	s.Require().NoError(err)
	_, err = s.orders.SubmitIntake(s.ctx, commands.SubmitIntakeCommand{OrderID: orderID, IntakeSessionID: session})
	s.Require().NoError(err)

	// created + three status changes
	log := s.eventRepo.All()
	s.Require().Len(log, 4)
	s.Equal(events.EventOrderCreated, log[0].EventName)
	for _, rec := range log[1:] {
		s.Equal(events.EventOrderStatusChanged, rec.EventName)
	}

	s.drain()

	o, err := s.orders.GetOrder(s.ctx, orderID)
	s.Require().NoError(err)
	s.Equal(order.StatusIntakeComplete, o.Status)

	s.Run("all events are dispatched", func() {
		for _, rec := range s.eventRepo.All() {
			if rec.StreamType == events.StreamTypeOrder {
				s.True(rec.Dispatched)
			}
		}
	})

	s.Run("policy started the overall clock on create", func() {
		_, err := s.clockRepo.GetActiveByOrderAndKind(s.ctx, orderID, slaclock.KindOverall)
		s.Require().NoError(err)
	})

	s.Run("policy completed the intake clock on submit", func() {
		_, err := s.clockRepo.GetActiveByOrderAndKind(s.ctx, orderID, slaclock.KindIntake)
		s.Require().ErrorIs(err, clearcheck_errors.ErrNotFound, "no active intake clock remains")
	})
}

func (s *OrderServiceSuite) TestRedeliveryIsIdempotent() {
	orderID := s.createOrder()
	s.drain()

	overall, err := s.clockRepo.GetActiveByOrderAndKind(s.ctx, orderID, slaclock.KindOverall)
	s.Require().NoError(err)

	// simulate redelivery after a lost mark-dispatched write
	log := s.eventRepo.All()
	rec := log[0]
	rec.Dispatched = false
	s.Require().NoError(s.eventRepo.Append(s.ctx, nil, &rec))
	s.drain()

	clocks, err := s.clockRepo.ListActiveByOrder(s.ctx, orderID)
	s.Require().NoError(err)
	s.Require().Len(clocks, 1, "duplicate create event must not start a second clock")
	s.Equal(overall.ID, clocks[0].ID)
}

func (s *OrderServiceSuite) TestBlockPausesClocksAndResumeRestarts() {
	orderID := s.createOrder()
	s.drain()

	_, err := s.orders.Transition(s.ctx, commands.TransitionOrderCommand{
		Type:    commands.CommandBlockOrder,
		OrderID: orderID,
		Reason:  "candidate unreachable",
	})
	s.Require().NoError(err)
	s.drain()

	clocks, err := s.clockRepo.ListActiveByOrder(s.ctx, orderID)
	s.Require().NoError(err)
	s.Require().Len(clocks, 1)
	s.Equal(slaclock.StatePaused, clocks[0].State)

	s.now = s.now.Add(4 * time.Hour)
	_, err = s.orders.Transition(s.ctx, commands.TransitionOrderCommand{
		Type:    commands.CommandResumeOrder,
		OrderID: orderID,
	})
	s.Require().NoError(err)
	s.drain()

	clocks, err = s.clockRepo.ListActiveByOrder(s.ctx, orderID)
	s.Require().NoError(err)
	s.Require().Len(clocks, 1)
	s.Equal(slaclock.StateRunning, clocks[0].State)
	s.Equal(4*time.Hour, clocks[0].AccumulatedPause)
}

func (s *OrderServiceSuite) TestCancelCompletesClocks() {
	orderID := s.createOrder()
	s.drain()

	_, err := s.orders.Transition(s.ctx, commands.TransitionOrderCommand{
		Type:    commands.CommandCancelOrder,
		OrderID: orderID,
		Reason:  "customer withdrew",
	})
	s.Require().NoError(err)
	s.drain()

	clocks, err := s.clockRepo.ListActiveByOrder(s.ctx, orderID)
	s.Require().NoError(err)
	s.Empty(clocks, "terminal order leaves no active clocks")
}

func (s *OrderServiceSuite) TestInvalidCommandsDoNotTouchTheLog() {
	orderID := s.createOrder()
	logged := len(s.eventRepo.All())

	s.Run("wrong session", func() {
		session := uuid.New()
		_, err := s.orders.InviteCandidate(s.ctx, commands.InviteCandidateCommand{OrderID: orderID, IntakeSessionID: session})
		s.Require().NoError(err)
		logged = len(s.eventRepo.All())

		_, err = s.orders.StartIntake(s.ctx, commands.StartIntakeCommand{OrderID: orderID, IntakeSessionID: uuid.New()})
		s.Require().ErrorIs(err, clearcheck_errors.ErrSessionMismatch)
		s.Len(s.eventRepo.All(), logged)
	})

	s.Run("illegal transition", func() {
		_, err := s.orders.Transition(s.ctx, commands.TransitionOrderCommand{
			Type:    commands.CommandCloseOrder,
			OrderID: orderID,
		})
		s.Require().ErrorIs(err, clearcheck_errors.ErrInvalidTransition)
		s.Len(s.eventRepo.All(), logged)
	})

	s.Run("unknown order", func() {
		_, err := s.orders.Transition(s.ctx, commands.TransitionOrderCommand{
			Type:    commands.CommandCloseOrder,
			OrderID: uuid.New(),
		})
		s.Require().ErrorIs(err, clearcheck_errors.ErrNotFound)
	})
}

func (s *OrderServiceSuite) TestRetriedCommandIsDeduplicated() {
	cmd := commands.CreateOrderCommand{
		CustomerID:          uuid.New(),
		IdempotencyKeyValue: "create-req-1",
	}

	first, err := s.orders.Bus().Execute(s.ctx, cmd)
	s.Require().NoError(err)
	second, err := s.orders.Bus().Execute(s.ctx, cmd)
	s.Require().NoError(err)

	s.Equal(first.AggregateID, second.AggregateID)
	s.Len(s.eventRepo.All(), 1)

	orderID, err := uuid.Parse(first.AggregateID)
	s.Require().NoError(err)
	session := uuid.New()
	invite := commands.InviteCandidateCommand{
		OrderID:             orderID,
		IntakeSessionID:     session,
		IdempotencyKeyValue: "invite-req-1",
	}
	_, err = s.orders.Bus().Execute(s.ctx, invite)
	s.Require().NoError(err)
	logged := len(s.eventRepo.All())

	// A retried invite answers from the command log; nothing new hits the
	// event log, so subscribers never see a duplicate.
	_, err = s.orders.Bus().Execute(s.ctx, invite)
	s.Require().NoError(err)
	s.Len(s.eventRepo.All(), logged)
}
