package order

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"clearcheck/internal/events"
	clearcheck_errors "clearcheck/pkg/errors"
)

// NewOrder creates an order in CREATED and records the creation event.
func NewOrder(id, customerID uuid.UUID, subjectID uuid.NullUUID, at time.Time) *Order {
	o := &Order{
		ID:         id,
		CustomerID: customerID,
		SubjectID:  subjectID,
		Status:     StatusCreated,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	o.appendEvent(events.OrderCreated{
		OrderID:    id,
		CustomerID: customerID,
		OccurredAt: at,
	})
	return o
}

// transition applies the workflow table. Moving to the current status is a
// no-op that refreshes the reason and emits nothing, so redelivered commands
// are harmless.
func (o *Order) transition(to Status, reason string, at time.Time) error {
	if o.Status == to {
		o.LastStatusReason = reason
		o.UpdatedAt = at
		return nil
	}
	if !o.Status.CanTransitionTo(to) {
		return clearcheck_errors.ErrInvalidTransition
	}
	o.applyStatus(to, reason, at)
	return nil
}

// applyStatus mutates the status unconditionally and emits the status-changed
// event. Callers are responsible for having validated the move.
func (o *Order) applyStatus(to Status, reason string, at time.Time) {
	o.Status = to
	o.LastStatusReason = reason
	o.UpdatedAt = at
	o.appendEvent(events.OrderStatusChanged{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		NewStatus:  string(to),
		Reason:     reason,
		OccurredAt: at,
	})
}

// RecordInvite moves CREATED -> INVITED and pins the intake session the
// candidate was invited into.
func (o *Order) RecordInvite(sessionID uuid.UUID, at time.Time) error {
	if err := o.transition(StatusInvited, "candidate invited", at); err != nil {
		return err
	}
	if !o.InvitedAt.Valid {
		o.InvitedAt = nullTime(at)
	}
	o.ActiveIntakeSessionID = uuid.NullUUID{UUID: sessionID, Valid: true}
	return nil
}

// MarkIntakeInProgress requires the caller's session to match the active one.
// A stale or duplicate intake-session event must not touch an order that has
// moved on to a newer session.
func (o *Order) MarkIntakeInProgress(sessionID uuid.UUID, at time.Time) error {
	if err := o.checkSession(sessionID); err != nil {
		return err
	}
	if err := o.transition(StatusIntakeInProgress, "intake started", at); err != nil {
		return err
	}
	if !o.IntakeStartedAt.Valid {
		o.IntakeStartedAt = nullTime(at)
	}
	return nil
}

func (o *Order) MarkIntakeSubmitted(sessionID uuid.UUID, at time.Time) error {
	if err := o.checkSession(sessionID); err != nil {
		return err
	}
	if err := o.transition(StatusIntakeComplete, "intake submitted", at); err != nil {
		return err
	}
	o.IntakeCompletedAt = nullTime(at)
	o.LastCompletedIntakeSessionID = uuid.NullUUID{UUID: sessionID, Valid: true}
	o.ActiveIntakeSessionID = uuid.NullUUID{}
	return nil
}

// MarkReadyForFulfillment additionally requires a completed intake session.
func (o *Order) MarkReadyForFulfillment(reason string, at time.Time) error {
	if !o.LastCompletedIntakeSessionID.Valid {
		return clearcheck_errors.ErrMissingIntake
	}
	if err := o.transition(StatusReadyForFulfillment, reason, at); err != nil {
		return err
	}
	if !o.ReadyForFulfillmentAt.Valid {
		o.ReadyForFulfillmentAt = nullTime(at)
	}
	return nil
}

func (o *Order) BeginFulfillment(reason string, at time.Time) error {
	return o.transition(StatusFulfillmentInProgress, reason, at)
}

func (o *Order) MarkReadyForReport(reason string, at time.Time) error {
	return o.transition(StatusReadyForReport, reason, at)
}

func (o *Order) Close(reason string, at time.Time) error {
	if err := o.transition(StatusClosed, reason, at); err != nil {
		return err
	}
	o.ClosedAt = nullTime(at)
	return nil
}

// Block bypasses the workflow table from any non-terminal state. It records
// the status it left so ResumeFromBlock can restore it. Blocking an already
// blocked order only refreshes the reason.
func (o *Order) Block(reason string, at time.Time) error {
	if o.Status.Terminal() {
		return clearcheck_errors.ErrTerminalState
	}
	if o.Status == StatusBlocked {
		o.LastStatusReason = reason
		o.UpdatedAt = at
		return nil
	}
	o.BlockedFromStatus = nullString(string(o.Status))
	o.applyStatus(StatusBlocked, reason, at)
	return nil
}

// ResumeFromBlock restores the status recorded by Block. No-op when the
// order is not blocked.
func (o *Order) ResumeFromBlock(reason string, at time.Time) error {
	if o.Status != StatusBlocked {
		return nil
	}
	from := Status(o.BlockedFromStatus.String)
	o.BlockedFromStatus = sql.NullString{}
	o.applyStatus(from, reason, at)
	return nil
}

// Cancel bypasses the workflow table. Closed orders cannot be canceled;
// canceling an already canceled order only refreshes the reason.
func (o *Order) Cancel(reason string, at time.Time) error {
	if o.Status == StatusClosed {
		return clearcheck_errors.ErrTerminalState
	}
	if o.Status == StatusCanceled {
		o.LastStatusReason = reason
		o.UpdatedAt = at
		return nil
	}
	if o.Status == StatusBlocked {
		o.BlockedFromStatus = sql.NullString{}
	}
	o.applyStatus(StatusCanceled, reason, at)
	o.CanceledAt = nullTime(at)
	return nil
}

func (o *Order) checkSession(sessionID uuid.UUID) error {
	if !o.ActiveIntakeSessionID.Valid || o.ActiveIntakeSessionID.UUID != sessionID {
		return clearcheck_errors.ErrSessionMismatch
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
