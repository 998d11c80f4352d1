package slaclock

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"clearcheck/internal/events"
)

// NewClock starts a clock in RUNNING. The deadline and at-risk threshold are
// computed by the caller against the customer's business calendar; the
// aggregate itself does no I/O.
func NewClock(id, orderID, customerID uuid.UUID, kind Kind, startedAt, deadlineAt, atRiskThresholdAt time.Time, targetBusinessDays int, atRiskThresholdPercent float64) *Clock {
	c := &Clock{
		ID:                     id,
		OrderID:                orderID,
		CustomerID:             customerID,
		Kind:                   kind,
		State:                  StateRunning,
		StartedAt:              startedAt,
		DeadlineAt:             deadlineAt,
		AtRiskThresholdAt:      atRiskThresholdAt,
		TargetBusinessDays:     targetBusinessDays,
		AtRiskThresholdPercent: atRiskThresholdPercent,
		CreatedAt:              startedAt,
		UpdatedAt:              startedAt,
	}
	c.appendEvent(events.SlaClockStarted{
		ClockID:           id,
		OrderID:           orderID,
		CustomerID:        customerID,
		Kind:              string(kind),
		StartedAt:         startedAt,
		DeadlineAt:        deadlineAt,
		AtRiskThresholdAt: atRiskThresholdAt,
	})
	return c
}

// Pause stops the clock's wall time. Pausing a paused clock only refreshes
// the reason; pausing a terminal clock does nothing.
func (c *Clock) Pause(reason string, at time.Time) {
	if c.State.Terminal() {
		return
	}
	if c.State == StatePaused {
		c.PauseReason = sql.NullString{String: reason, Valid: true}
		c.UpdatedAt = at
		return
	}
	c.PausedAt = sql.NullTime{Time: at, Valid: true}
	c.PauseReason = sql.NullString{String: reason, Valid: true}
	c.State = StatePaused
	c.UpdatedAt = at
	c.appendEvent(events.SlaClockPaused{
		ClockID:  c.ID,
		OrderID:  c.OrderID,
		Kind:     string(c.Kind),
		Reason:   reason,
		PausedAt: at,
	})
}

// Resume shifts the deadline and the at-risk threshold forward by the
// realized pause duration: paused wall-clock time does not count against
// the SLA. A clock that was flagged at risk before (or during) the pause
// comes back as AT_RISK, not RUNNING.
func (c *Clock) Resume(at time.Time) {
	if c.State != StatePaused {
		return
	}
	pauseDuration := at.Sub(c.PausedAt.Time)
	c.AccumulatedPause += pauseDuration
	c.DeadlineAt = c.DeadlineAt.Add(pauseDuration)
	c.AtRiskThresholdAt = c.AtRiskThresholdAt.Add(pauseDuration)
	c.PausedAt = sql.NullTime{}
	c.PauseReason = sql.NullString{}
	if c.AtRiskAt.Valid {
		c.State = StateAtRisk
	} else {
		c.State = StateRunning
	}
	c.UpdatedAt = at
	c.appendEvent(events.SlaClockResumed{
		ClockID:              c.ID,
		OrderID:              c.OrderID,
		Kind:                 string(c.Kind),
		ResumedAt:            at,
		PauseDuration:        pauseDuration,
		NewDeadlineAt:        c.DeadlineAt,
		NewAtRiskThresholdAt: c.AtRiskThresholdAt,
		AtRisk:               c.State == StateAtRisk,
	})
}

// MarkAtRisk records the at-risk flag. While paused the visible state stays
// PAUSED; the flag makes the eventual resume land in AT_RISK. Already
// at-risk or terminal clocks ignore the call.
func (c *Clock) MarkAtRisk(at time.Time) {
	if c.State != StateRunning && c.State != StatePaused {
		return
	}
	c.AtRiskAt = sql.NullTime{Time: at, Valid: true}
	if c.State == StateRunning {
		c.State = StateAtRisk
	}
	c.UpdatedAt = at
	c.appendEvent(events.SlaClockAtRisk{
		ClockID:    c.ID,
		OrderID:    c.OrderID,
		Kind:       string(c.Kind),
		AtRiskAt:   at,
		DeadlineAt: c.DeadlineAt,
	})
}

// MarkBreached is terminal and wins from any non-terminal state.
func (c *Clock) MarkBreached(at time.Time) {
	if c.State.Terminal() {
		return
	}
	c.BreachedAt = sql.NullTime{Time: at, Valid: true}
	c.State = StateBreached
	c.UpdatedAt = at
	c.appendEvent(events.SlaClockBreached{
		ClockID:    c.ID,
		OrderID:    c.OrderID,
		Kind:       string(c.Kind),
		BreachedAt: at,
		DeadlineAt: c.DeadlineAt,
	})
}

// Complete is terminal. Elapsed time excludes accumulated pause time.
func (c *Clock) Complete(at time.Time) {
	if c.State.Terminal() {
		return
	}
	totalElapsed := at.Sub(c.StartedAt) - c.AccumulatedPause
	c.CompletedAt = sql.NullTime{Time: at, Valid: true}
	c.State = StateCompleted
	c.UpdatedAt = at
	c.appendEvent(events.SlaClockCompleted{
		ClockID:      c.ID,
		OrderID:      c.OrderID,
		Kind:         string(c.Kind),
		CompletedAt:  at,
		TotalElapsed: totalElapsed,
		WasAtRisk:    c.AtRiskAt.Valid,
	})
}
