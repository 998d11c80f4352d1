package watchdog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clearcheck/internal/domain/slaclock"
	"clearcheck/internal/repository"
)

// recordingCommands captures watchdog dispatches and applies them to the
// repository the way the real service does, so consecutive sweeps see the
// updated states.
type recordingCommands struct {
	repo     *repository.MemorySlaClockRepository
	atRisk   []uuid.UUID
	breached []uuid.UUID
	failures map[uuid.UUID]error
}

func (r *recordingCommands) MarkClockAtRisk(ctx context.Context, clockID uuid.UUID, at time.Time) error {
	if err := r.failures[clockID]; err != nil {
		return err
	}
	c, err := r.repo.GetByID(ctx, clockID)
	if err != nil {
		return err
	}
	c.MarkAtRisk(at)
	c.ClearPendingEvents()
	if err := r.repo.Update(ctx, nil, &c); err != nil {
		return err
	}
	r.atRisk = append(r.atRisk, clockID)
	return nil
}

func (r *recordingCommands) MarkClockBreached(ctx context.Context, clockID uuid.UUID, at time.Time) error {
	if err := r.failures[clockID]; err != nil {
		return err
	}
	c, err := r.repo.GetByID(ctx, clockID)
	if err != nil {
		return err
	}
	c.MarkBreached(at)
	c.ClearPendingEvents()
	if err := r.repo.Update(ctx, nil, &c); err != nil {
		return err
	}
	r.breached = append(r.breached, clockID)
	return nil
}

type WatchdogSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	repo     *repository.MemorySlaClockRepository
	commands *recordingCommands
	dog      *Watchdog
}

func (s *WatchdogSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	s.repo = repository.NewMemorySlaClockRepository()
	s.commands = &recordingCommands{repo: s.repo, failures: map[uuid.UUID]error{}}
	s.dog = NewWatchdog(s.repo, s.commands, nil, time.Minute, 100)
	s.dog.now = func() time.Time { return s.now }
}

func TestWatchdogSuite(t *testing.T) {
	suite.Run(t, new(WatchdogSuite))
}

// seedClock creates a running clock whose threshold and deadline sit at the
// given offsets from the sweep time.
func (s *WatchdogSuite) seedClock(thresholdOffset, deadlineOffset time.Duration) *slaclock.Clock {
	started := s.now.Add(-5 * 24 * time.Hour)
	c := slaclock.NewClock(uuid.New(), uuid.New(), uuid.New(), slaclock.KindFulfillment,
		started, s.now.Add(deadlineOffset), s.now.Add(thresholdOffset), 5, 0.80)
	c.ClearPendingEvents()
	s.Require().NoError(s.repo.Create(s.ctx, nil, c))
	return c
}

func (s *WatchdogSuite) TestHealthyClockIsLeftAlone() {
	s.seedClock(time.Hour, 24*time.Hour)
	s.dog.Sweep(s.ctx)
	s.Empty(s.commands.atRisk)
	s.Empty(s.commands.breached)
}

func (s *WatchdogSuite) TestThresholdCrossingFlagsAtRisk() {
	c := s.seedClock(-time.Minute, 24*time.Hour)
	s.dog.Sweep(s.ctx)

	s.Equal([]uuid.UUID{c.ID}, s.commands.atRisk)
	s.Empty(s.commands.breached)

	s.Run("second sweep does not flag again", func() {
		s.dog.Sweep(s.ctx)
		s.Len(s.commands.atRisk, 1)
	})
}

func (s *WatchdogSuite) TestDeadlineCrossingBreaches() {
	c := s.seedClock(-24*time.Hour, -time.Minute)
	s.dog.Sweep(s.ctx)

	s.Equal([]uuid.UUID{c.ID}, s.commands.breached)
	// breach sweep runs first, so the terminal clock never shows up as an
	// at-risk candidate
	s.Empty(s.commands.atRisk)
}

func (s *WatchdogSuite) TestPausedClockIsNotSwept() {
	c := s.seedClock(-time.Hour, -time.Minute)
	paused, err := s.repo.GetByID(s.ctx, c.ID)
	s.Require().NoError(err)
	paused.Pause("hold", s.now.Add(-time.Hour))
	paused.ClearPendingEvents()
	s.Require().NoError(s.repo.Update(s.ctx, nil, &paused))

	s.dog.Sweep(s.ctx)
	s.Empty(s.commands.atRisk)
	s.Empty(s.commands.breached)
}

func (s *WatchdogSuite) TestOneFailureDoesNotStopTheSweep() {
	bad := s.seedClock(-time.Minute, 24*time.Hour)
	good := s.seedClock(-time.Minute, 24*time.Hour)
	s.commands.failures[bad.ID] = errors.New("commit failed")

	s.dog.Sweep(s.ctx)

	s.Contains(s.commands.atRisk, good.ID)
	s.NotContains(s.commands.atRisk, bad.ID)
}

type panickingCommands struct{}

func (panickingCommands) MarkClockAtRisk(ctx context.Context, clockID uuid.UUID, at time.Time) error {
	panic("command handler bug")
}

func (panickingCommands) MarkClockBreached(ctx context.Context, clockID uuid.UUID, at time.Time) error {
	panic("command handler bug")
}

func (s *WatchdogSuite) TestSweepRecoversFromPanic() {
	s.seedClock(-time.Minute, 24*time.Hour)
	dog := NewWatchdog(s.repo, panickingCommands{}, nil, time.Minute, 100)
	dog.now = func() time.Time { return s.now }

	s.NotPanics(func() {
		dog.Sweep(s.ctx)
	})
}
