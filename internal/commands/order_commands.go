package commands

import (
	"github.com/google/uuid"

	clearcheck_errors "clearcheck/pkg/errors"
)

type CreateOrderCommand struct {
	CustomerID          uuid.UUID
	SubjectID           uuid.NullUUID
	IdempotencyKeyValue string
}

func (CreateOrderCommand) CommandType() string {
	return "order.create"
}

func (c CreateOrderCommand) Validate() error {
	if c.CustomerID == uuid.Nil {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c CreateOrderCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}

type InviteCandidateCommand struct {
	OrderID             uuid.UUID
	IntakeSessionID     uuid.UUID
	IdempotencyKeyValue string
}

func (InviteCandidateCommand) CommandType() string {
	return "order.invite"
}

func (c InviteCandidateCommand) Validate() error {
	if c.OrderID == uuid.Nil || c.IntakeSessionID == uuid.Nil {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c InviteCandidateCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}

type StartIntakeCommand struct {
	OrderID             uuid.UUID
	IntakeSessionID     uuid.UUID
	IdempotencyKeyValue string
}

func (StartIntakeCommand) CommandType() string {
	return "order.intake.start"
}

func (c StartIntakeCommand) Validate() error {
	if c.OrderID == uuid.Nil || c.IntakeSessionID == uuid.Nil {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c StartIntakeCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}

type SubmitIntakeCommand struct {
	OrderID             uuid.UUID
	IntakeSessionID     uuid.UUID
	IdempotencyKeyValue string
}

func (SubmitIntakeCommand) CommandType() string {
	return "order.intake.submit"
}

func (c SubmitIntakeCommand) Validate() error {
	if c.OrderID == uuid.Nil || c.IntakeSessionID == uuid.Nil {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c SubmitIntakeCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}

// TransitionOrderCommand covers the reason-only workflow moves. Target is
// one of the order transition command types below.
type TransitionOrderCommand struct {
	Type                string
	OrderID             uuid.UUID
	Reason              string
	IdempotencyKeyValue string
}

const (
	CommandMarkReadyForFulfillment = "order.ready_for_fulfillment"
	CommandBeginFulfillment        = "order.fulfillment.begin"
	CommandMarkReadyForReport      = "order.ready_for_report"
	CommandCloseOrder              = "order.close"
	CommandBlockOrder              = "order.block"
	CommandResumeOrder             = "order.resume"
	CommandCancelOrder             = "order.cancel"
)

func (c TransitionOrderCommand) CommandType() string {
	return c.Type
}

func (c TransitionOrderCommand) Validate() error {
	if c.OrderID == uuid.Nil || c.Type == "" {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c TransitionOrderCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}
