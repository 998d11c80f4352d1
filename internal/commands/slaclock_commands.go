package commands

import (
	"time"

	"github.com/google/uuid"

	"clearcheck/internal/domain/slaclock"
	clearcheck_errors "clearcheck/pkg/errors"
)

type StartClockCommand struct {
	OrderID uuid.UUID
	Kind    slaclock.Kind
	// StartedAt of zero falls back to the current time.
	StartedAt time.Time
	// TargetBusinessDays of zero falls back to the per-kind default.
	TargetBusinessDays int
	// AtRiskThresholdPercent of zero falls back to the default percent.
	AtRiskThresholdPercent float64
	IdempotencyKeyValue    string
}

func (StartClockCommand) CommandType() string {
	return "sla_clock.start"
}

func (c StartClockCommand) Validate() error {
	if c.OrderID == uuid.Nil || c.Kind == "" {
		return clearcheck_errors.ErrInvalidInput
	}
	if c.TargetBusinessDays < 0 {
		return clearcheck_errors.ErrInvalidInput
	}
	if c.AtRiskThresholdPercent < 0 || c.AtRiskThresholdPercent >= 1 {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c StartClockCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}

type PauseClockCommand struct {
	ClockID             uuid.UUID
	Reason              string
	IdempotencyKeyValue string
}

func (PauseClockCommand) CommandType() string {
	return "sla_clock.pause"
}

func (c PauseClockCommand) Validate() error {
	if c.ClockID == uuid.Nil {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c PauseClockCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}

type ResumeClockCommand struct {
	ClockID             uuid.UUID
	IdempotencyKeyValue string
}

func (ResumeClockCommand) CommandType() string {
	return "sla_clock.resume"
}

func (c ResumeClockCommand) Validate() error {
	if c.ClockID == uuid.Nil {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c ResumeClockCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}

type CompleteClockCommand struct {
	OrderID             uuid.UUID
	Kind                slaclock.Kind
	IdempotencyKeyValue string
}

func (CompleteClockCommand) CommandType() string {
	return "sla_clock.complete"
}

func (c CompleteClockCommand) Validate() error {
	if c.OrderID == uuid.Nil || c.Kind == "" {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c CompleteClockCommand) IdempotencyKey() string {
	return c.IdempotencyKeyValue
}
