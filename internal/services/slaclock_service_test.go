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
	"clearcheck/internal/repository"
	clearcheck_errors "clearcheck/pkg/errors"
)

type SlaClockServiceSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	clockRepo *repository.MemorySlaClockRepository
	orderRepo *repository.MemoryOrderRepository
	service   *SlaClockService
	orderID   uuid.UUID
}

func (s *SlaClockServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday
	s.clockRepo = repository.NewMemorySlaClockRepository()
	s.orderRepo = repository.NewMemoryOrderRepository()
	eventRepo := repository.NewMemoryEventRepository()
	uow := repository.NewMemoryUnitOfWork(eventRepo)

	s.service = NewSlaClockService(s.clockRepo, s.orderRepo, uow, NewWeekdayCalendar(), nil, nil)
	s.service.now = func() time.Time { return s.now }

	o := order.NewOrder(uuid.New(), uuid.New(), uuid.NullUUID{}, s.now)
	o.ClearPendingEvents()
	s.Require().NoError(s.orderRepo.Create(s.ctx, nil, o))
	s.orderID = o.ID
}

func TestSlaClockServiceSuite(t *testing.T) {
	suite.Run(t, new(SlaClockServiceSuite))
}

func (s *SlaClockServiceSuite) TestStartUsesCalendarAndDefaults() {
	res, err := s.service.StartClock(s.ctx, commands.StartClockCommand{
		OrderID: s.orderID,
		Kind:    slaclock.KindIntake,
	})
	s.Require().NoError(err)

	clockID, err := uuid.Parse(res.AggregateID)
	s.Require().NoError(err)
	c, err := s.service.GetClock(s.ctx, clockID)
	s.Require().NoError(err)

	s.Equal(slaclock.StateRunning, c.State)
	s.Equal(slaclock.DefaultTargetBusinessDays[slaclock.KindIntake], c.TargetBusinessDays)
	// Mon + 3 business days = Thursday, same time of day
	s.Equal(time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), c.DeadlineAt)
	s.True(c.AtRiskThresholdAt.After(c.StartedAt))
	s.True(c.AtRiskThresholdAt.Before(c.DeadlineAt))
}

func (s *SlaClockServiceSuite) TestStartHonorsExplicitScheduleInputs() {
	startedAt := time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC) // a Tuesday
	res, err := s.service.StartClock(s.ctx, commands.StartClockCommand{
		OrderID:                s.orderID,
		Kind:                   slaclock.KindCustom,
		StartedAt:              startedAt,
		TargetBusinessDays:     2,
		AtRiskThresholdPercent: 0.5,
	})
	s.Require().NoError(err)

	c, err := s.service.GetClock(s.ctx, uuid.MustParse(res.AggregateID))
	s.Require().NoError(err)

	s.Equal(startedAt, c.StartedAt)
	s.Equal(time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC), c.DeadlineAt)
	// Half of the Tue-to-Thu window lands on Wednesday, same time of day.
	s.Equal(time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC), c.AtRiskThresholdAt)
	s.Equal(0.5, c.AtRiskThresholdPercent)
}

func (s *SlaClockServiceSuite) TestStartRejectsOutOfRangePercent() {
	_, err := s.service.StartClock(s.ctx, commands.StartClockCommand{
		OrderID:                s.orderID,
		Kind:                   slaclock.KindIntake,
		AtRiskThresholdPercent: 1.2,
	})
	s.Require().ErrorIs(err, clearcheck_errors.ErrInvalidInput)
}

func (s *SlaClockServiceSuite) TestOneActiveClockPerKind() {
	_, err := s.service.StartClock(s.ctx, commands.StartClockCommand{OrderID: s.orderID, Kind: slaclock.KindIntake})
	s.Require().NoError(err)

	s.Run("duplicate start is rejected", func() {
		_, err := s.service.StartClock(s.ctx, commands.StartClockCommand{OrderID: s.orderID, Kind: slaclock.KindIntake})
		s.Require().ErrorIs(err, clearcheck_errors.ErrClockActive)
	})

	s.Run("another kind is fine", func() {
		_, err := s.service.StartClock(s.ctx, commands.StartClockCommand{OrderID: s.orderID, Kind: slaclock.KindOverall})
		s.Require().NoError(err)
	})

	s.Run("completing frees the kind for a restart", func() {
		s.Require().NoError(s.service.CompleteClockForOrder(s.ctx, s.orderID, slaclock.KindIntake))
		_, err := s.service.StartClock(s.ctx, commands.StartClockCommand{OrderID: s.orderID, Kind: slaclock.KindIntake})
		s.Require().NoError(err)
	})
}

func (s *SlaClockServiceSuite) TestStartUnknownOrderFails() {
	_, err := s.service.StartClock(s.ctx, commands.StartClockCommand{OrderID: uuid.New(), Kind: slaclock.KindIntake})
	s.Require().ErrorIs(err, clearcheck_errors.ErrNotFound)
}

func (s *SlaClockServiceSuite) TestCompleteWithoutClockIsSuccess() {
	s.NoError(s.service.CompleteClockForOrder(s.ctx, s.orderID, slaclock.KindFulfillment))
}

func (s *SlaClockServiceSuite) TestPauseResumeRoundTrip() {
	res, err := s.service.StartClock(s.ctx, commands.StartClockCommand{OrderID: s.orderID, Kind: slaclock.KindFulfillment})
	s.Require().NoError(err)
	clockID := uuid.MustParse(res.AggregateID)
	c, err := s.service.GetClock(s.ctx, clockID)
	s.Require().NoError(err)
	originalDeadline := c.DeadlineAt

	s.now = s.now.Add(2 * time.Hour)
	_, err = s.service.PauseClock(s.ctx, commands.PauseClockCommand{ClockID: clockID, Reason: "hold"})
	s.Require().NoError(err)

	s.now = s.now.Add(6 * time.Hour)
	_, err = s.service.ResumeClock(s.ctx, commands.ResumeClockCommand{ClockID: clockID})
	s.Require().NoError(err)

	c, err = s.service.GetClock(s.ctx, clockID)
	s.Require().NoError(err)
	s.Equal(slaclock.StateRunning, c.State)
	s.Equal(6*time.Hour, c.AccumulatedPause)
	s.Equal(originalDeadline.Add(6*time.Hour), c.DeadlineAt)
}

func (s *SlaClockServiceSuite) TestWatchdogEntryPoints() {
	res, err := s.service.StartClock(s.ctx, commands.StartClockCommand{OrderID: s.orderID, Kind: slaclock.KindOverall})
	s.Require().NoError(err)
	clockID := uuid.MustParse(res.AggregateID)

	s.Require().NoError(s.service.MarkClockAtRisk(s.ctx, clockID, s.now.Add(8*24*time.Hour)))
	c, err := s.service.GetClock(s.ctx, clockID)
	s.Require().NoError(err)
	s.Equal(slaclock.StateAtRisk, c.State)

	s.Require().NoError(s.service.MarkClockBreached(s.ctx, clockID, s.now.Add(11*24*time.Hour)))
	c, err = s.service.GetClock(s.ctx, clockID)
	s.Require().NoError(err)
	s.Equal(slaclock.StateBreached, c.State)
}
