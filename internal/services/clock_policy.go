package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clearcheck/internal/commands"
	"clearcheck/internal/domain/order"
	"clearcheck/internal/domain/slaclock"
	"clearcheck/internal/events"
	clearcheck_errors "clearcheck/pkg/errors"
	"clearcheck/pkg/logger"
)

// ClockPolicy subscribes to order events and drives the SLA clocks that
// track them. It runs on the dispatched (at-least-once) side of the event
// log, so every reaction must tolerate redelivery: a duplicate start hits
// the one-active-clock-per-kind rule and is swallowed as success, and the
// clock aggregate absorbs duplicate pause, resume and complete calls.
type ClockPolicy struct {
	clocks *SlaClockService
	log    *logger.Logger
}

func NewClockPolicy(clocks *SlaClockService, log *logger.Logger) *ClockPolicy {
	if log == nil {
		log = logger.Nop()
	}
	return &ClockPolicy{clocks: clocks, log: log}
}

// Register subscribes the policy to the order event stream.
func (p *ClockPolicy) Register(bus events.Bus) {
	bus.Subscribe(events.EventOrderCreated, events.HandlerFunc(p.onOrderCreated))
	bus.Subscribe(events.EventOrderStatusChanged, events.HandlerFunc(p.onStatusChanged))
}

func (p *ClockPolicy) onOrderCreated(ctx context.Context, ev events.Event) error {
	created, ok := ev.(events.OrderCreated)
	if !ok {
		return nil
	}
	return p.startClock(ctx, created.OrderID, slaclock.KindOverall)
}

func (p *ClockPolicy) onStatusChanged(ctx context.Context, ev events.Event) error {
	changed, ok := ev.(events.OrderStatusChanged)
	if !ok {
		return nil
	}
	orderID := changed.OrderID

	switch order.Status(changed.NewStatus) {
	case order.StatusInvited:
		return p.startClock(ctx, orderID, slaclock.KindIntake)
	case order.StatusIntakeComplete:
		return p.clocks.CompleteClockForOrder(ctx, orderID, slaclock.KindIntake)
	case order.StatusReadyForFulfillment:
		return p.startClock(ctx, orderID, slaclock.KindFulfillment)
	case order.StatusReadyForReport:
		return p.clocks.CompleteClockForOrder(ctx, orderID, slaclock.KindFulfillment)
	case order.StatusClosed, order.StatusCanceled:
		return p.completeAll(ctx, orderID)
	case order.StatusBlocked:
		return p.clocks.PauseAllForOrder(ctx, orderID, changed.Reason)
	default:
		// Any other non-terminal status change unblocks paused clocks, which
		// covers resume-from-block regardless of the restored status.
		return p.clocks.ResumeAllForOrder(ctx, orderID)
	}
}

func (p *ClockPolicy) startClock(ctx context.Context, orderID uuid.UUID, kind slaclock.Kind) error {
	_, err := p.clocks.StartClock(ctx, commands.StartClockCommand{OrderID: orderID, Kind: kind})
	if errors.Is(err, clearcheck_errors.ErrClockActive) {
		p.log.Info(ctx, "clock already active, skipping start",
			zap.String("order_id", orderID.String()),
			zap.String("kind", string(kind)))
		return nil
	}
	return err
}

// completeAll closes out whatever clocks are still active when the order
// reaches a terminal status.
func (p *ClockPolicy) completeAll(ctx context.Context, orderID uuid.UUID) error {
	for _, kind := range []slaclock.Kind{slaclock.KindIntake, slaclock.KindFulfillment, slaclock.KindOverall, slaclock.KindCustom} {
		if err := p.clocks.CompleteClockForOrder(ctx, orderID, kind); err != nil {
			return err
		}
	}
	return nil
}
