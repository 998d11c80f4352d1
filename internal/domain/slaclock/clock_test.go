package slaclock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clearcheck/internal/events"
)

type ClockSuite struct {
	suite.Suite
	start    time.Time
	deadline time.Time
}

func (s *ClockSuite) SetupTest() {
	s.start = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s.deadline = s.start.Add(5 * 24 * time.Hour)
}

func TestClockSuite(t *testing.T) {
	suite.Run(t, new(ClockSuite))
}

func (s *ClockSuite) newClock() *Clock {
	threshold := s.start.Add(4 * 24 * time.Hour)
	c := NewClock(uuid.New(), uuid.New(), uuid.New(), KindFulfillment, s.start, s.deadline, threshold, 5, DefaultAtRiskThresholdPercent)
	c.ClearPendingEvents()
	return c
}

func (s *ClockSuite) TestStart() {
	c := NewClock(uuid.New(), uuid.New(), uuid.New(), KindIntake, s.start, s.deadline, s.start.Add(4*24*time.Hour), 3, 0.80)
	s.Equal(StateRunning, c.State)

	pending := c.PendingEvents()
	s.Require().Len(pending, 1)
	s.Equal(events.EventSlaClockStarted, pending[0].Name())
}

func (s *ClockSuite) TestPauseArithmetic() {
	c := s.newClock()
	originalDeadline := c.DeadlineAt
	originalThreshold := c.AtRiskThresholdAt

	pausedAt := s.start.Add(24 * time.Hour)
	c.Pause("candidate documents missing", pausedAt)
	s.Equal(StatePaused, c.State)

	resumedAt := pausedAt.Add(48 * time.Hour)
	c.Resume(resumedAt)

	s.Equal(StateRunning, c.State)
	s.Equal(originalDeadline.Add(48*time.Hour), c.DeadlineAt, "deadline shifts by realized pause")
	s.Equal(originalThreshold.Add(48*time.Hour), c.AtRiskThresholdAt, "threshold shifts by realized pause")
	s.Equal(48*time.Hour, c.AccumulatedPause)
	s.False(c.PausedAt.Valid)
	s.False(c.PauseReason.Valid)
}

func (s *ClockSuite) TestRepeatPauseRefreshesReason() {
	c := s.newClock()
	c.Pause("first reason", s.start.Add(time.Hour))
	emitted := len(c.PendingEvents())

	c.Pause("second reason", s.start.Add(2*time.Hour))
	s.Equal(StatePaused, c.State)
	s.Equal("second reason", c.PauseReason.String)
	s.Len(c.PendingEvents(), emitted, "repeat pause must not emit")
	s.True(c.PausedAt.Time.Equal(s.start.Add(time.Hour)), "pause start does not move")
}

func (s *ClockSuite) TestAtRiskStickyAcrossPause() {
	c := s.newClock()
	c.MarkAtRisk(s.start.Add(4 * 24 * time.Hour))
	s.Equal(StateAtRisk, c.State)

	c.Pause("on hold", s.start.Add(4*24*time.Hour+time.Hour))
	s.Equal(StatePaused, c.State)

	c.Resume(s.start.Add(4*24*time.Hour + 3*time.Hour))
	s.Equal(StateAtRisk, c.State, "at-risk survives a pause round trip")

	resumed := c.PendingEvents()[len(c.PendingEvents())-1].(events.SlaClockResumed)
	s.True(resumed.AtRisk)
}

func (s *ClockSuite) TestAtRiskWhilePausedStaysPaused() {
	c := s.newClock()
	c.Pause("on hold", s.start.Add(time.Hour))

	c.MarkAtRisk(s.start.Add(2 * time.Hour))
	s.Equal(StatePaused, c.State, "visible state stays paused")
	s.True(c.AtRiskAt.Valid, "flag is recorded for the eventual resume")

	c.Resume(s.start.Add(3 * time.Hour))
	s.Equal(StateAtRisk, c.State)
}

func (s *ClockSuite) TestBreach() {
	c := s.newClock()
	c.MarkAtRisk(s.start.Add(4 * 24 * time.Hour))
	c.MarkBreached(s.deadline.Add(time.Minute))

	s.Equal(StateBreached, c.State)
	s.True(c.State.Terminal())
	s.True(c.BreachedAt.Valid)

	s.Run("terminal clock ignores further calls", func() {
		emitted := len(c.PendingEvents())
		c.Pause("too late", s.deadline.Add(time.Hour))
		c.Complete(s.deadline.Add(time.Hour))
		c.MarkAtRisk(s.deadline.Add(time.Hour))
		s.Equal(StateBreached, c.State)
		s.Len(c.PendingEvents(), emitted)
	})
}

func (s *ClockSuite) TestCompleteExcludesPausedTime() {
	c := s.newClock()
	c.Pause("hold", s.start.Add(24*time.Hour))
	c.Resume(s.start.Add(48 * time.Hour))
	c.Complete(s.start.Add(72 * time.Hour))

	s.Equal(StateCompleted, c.State)
	completed := c.PendingEvents()[len(c.PendingEvents())-1].(events.SlaClockCompleted)
	s.Equal(48*time.Hour, completed.TotalElapsed, "72h wall time minus 24h pause")
	s.False(completed.WasAtRisk)
}

func (s *ClockSuite) TestCompletedAtRiskClockReportsIt() {
	c := s.newClock()
	c.MarkAtRisk(s.start.Add(4 * 24 * time.Hour))
	c.Complete(s.start.Add(4*24*time.Hour + time.Hour))

	completed := c.PendingEvents()[len(c.PendingEvents())-1].(events.SlaClockCompleted)
	s.True(completed.WasAtRisk)
}

func (s *ClockSuite) TestDuplicateAtRiskIsNoOp() {
	c := s.newClock()
	c.MarkAtRisk(s.start.Add(time.Hour))
	emitted := len(c.PendingEvents())

	c.MarkAtRisk(s.start.Add(2 * time.Hour))
	s.Len(c.PendingEvents(), emitted)
	s.True(c.AtRiskAt.Time.Equal(s.start.Add(time.Hour)))
}
