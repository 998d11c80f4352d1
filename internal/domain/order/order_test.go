package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clearcheck/internal/events"
	clearcheck_errors "clearcheck/pkg/errors"
)

type OrderWorkflowSuite struct {
	suite.Suite
	now time.Time
}

func (s *OrderWorkflowSuite) SetupTest() {
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func TestOrderWorkflowSuite(t *testing.T) {
	suite.Run(t, new(OrderWorkflowSuite))
}

func (s *OrderWorkflowSuite) newOrder() *Order {
	o := NewOrder(uuid.New(), uuid.New(), uuid.NullUUID{}, s.now)
	o.ClearPendingEvents()
	return o
}

// advance walks an order up to intake-complete with a fresh session.
func (s *OrderWorkflowSuite) advanceThroughIntake(o *Order) uuid.UUID {
	session := uuid.New()
	s.Require().NoError(o.RecordInvite(session, s.now))
	s.Require().NoError(o.MarkIntakeInProgress(session, s.now))
	s.Require().NoError(o.MarkIntakeSubmitted(session, s.now))
	return session
}

func (s *OrderWorkflowSuite) TestCreation() {
	o := NewOrder(uuid.New(), uuid.New(), uuid.NullUUID{}, s.now)
	s.Equal(StatusCreated, o.Status)

	pending := o.PendingEvents()
	s.Require().Len(pending, 1)
	s.Equal(events.EventOrderCreated, pending[0].Name())
}

func (s *OrderWorkflowSuite) TestHappyPath() {
	o := s.newOrder()
	s.advanceThroughIntake(o)
	s.Require().NoError(o.MarkReadyForFulfillment("intake verified", s.now))
	s.Require().NoError(o.BeginFulfillment("checks ordered", s.now))
	s.Require().NoError(o.MarkReadyForReport("checks returned", s.now))
	s.Require().NoError(o.Close("report delivered", s.now))

	s.Equal(StatusClosed, o.Status)
	s.True(o.Status.Terminal())
	s.True(o.ClosedAt.Valid)
	// one status-changed event per actual move
	s.Len(o.PendingEvents(), 7)
}

func (s *OrderWorkflowSuite) TestIllegalTransitions() {
	s.Run("cannot skip intake", func() {
		o := s.newOrder()
		err := o.BeginFulfillment("too early", s.now)
		s.Require().ErrorIs(err, clearcheck_errors.ErrInvalidTransition)
		s.Equal(StatusCreated, o.Status)
		s.Empty(o.PendingEvents())
	})

	s.Run("ready-for-fulfillment requires completed intake", func() {
		o := s.newOrder()
		session := uuid.New()
		s.Require().NoError(o.RecordInvite(session, s.now))
		s.Require().NoError(o.MarkIntakeInProgress(session, s.now))

		err := o.MarkReadyForFulfillment("no submission yet", s.now)
		s.Require().ErrorIs(err, clearcheck_errors.ErrMissingIntake)
	})

	s.Run("closed order rejects workflow moves", func() {
		o := s.newOrder()
		s.advanceThroughIntake(o)
		s.Require().NoError(o.MarkReadyForFulfillment("", s.now))
		s.Require().NoError(o.BeginFulfillment("", s.now))
		s.Require().NoError(o.MarkReadyForReport("", s.now))
		s.Require().NoError(o.Close("", s.now))

		s.ErrorIs(o.BeginFulfillment("reopen attempt", s.now), clearcheck_errors.ErrInvalidTransition)
		s.ErrorIs(o.Block("hold", s.now), clearcheck_errors.ErrTerminalState)
		s.ErrorIs(o.Cancel("too late", s.now), clearcheck_errors.ErrTerminalState)
	})
}

func (s *OrderWorkflowSuite) TestSameStatusIsNoOp() {
	o := s.newOrder()
	session := uuid.New()
	s.Require().NoError(o.RecordInvite(session, s.now))
	emitted := len(o.PendingEvents())

	s.Require().NoError(o.RecordInvite(session, s.now))
	s.Equal(StatusInvited, o.Status)
	s.Len(o.PendingEvents(), emitted, "repeat move must not emit")
}

func (s *OrderWorkflowSuite) TestSessionFencing() {
	o := s.newOrder()
	session := uuid.New()
	s.Require().NoError(o.RecordInvite(session, s.now))

	s.Run("wrong session cannot start intake", func() {
		err := o.MarkIntakeInProgress(uuid.New(), s.now)
		s.Require().ErrorIs(err, clearcheck_errors.ErrSessionMismatch)
		s.Equal(StatusInvited, o.Status)
	})

	s.Run("submit clears the active session", func() {
		s.Require().NoError(o.MarkIntakeInProgress(session, s.now))
		s.Require().NoError(o.MarkIntakeSubmitted(session, s.now))
		s.False(o.ActiveIntakeSessionID.Valid)
		s.True(o.LastCompletedIntakeSessionID.Valid)
		s.Equal(session, o.LastCompletedIntakeSessionID.UUID)

		// a late duplicate from the now-closed session is fenced out
		s.ErrorIs(o.MarkIntakeSubmitted(session, s.now), clearcheck_errors.ErrSessionMismatch)
	})
}

func (s *OrderWorkflowSuite) TestBlockAndResume() {
	o := s.newOrder()
	s.advanceThroughIntake(o)
	s.Require().NoError(o.MarkReadyForFulfillment("", s.now))
	s.Require().NoError(o.BeginFulfillment("", s.now))

	s.Require().NoError(o.Block("candidate unreachable", s.now))
	s.Equal(StatusBlocked, o.Status)
	s.Require().True(o.BlockedFromStatus.Valid)
	s.Equal(string(StatusFulfillmentInProgress), o.BlockedFromStatus.String)

	s.Run("blocking again only refreshes the reason", func() {
		emitted := len(o.PendingEvents())
		s.Require().NoError(o.Block("still unreachable", s.now))
		s.Len(o.PendingEvents(), emitted)
		s.Equal("still unreachable", o.LastStatusReason)
	})

	s.Run("resume restores the pre-block status", func() {
		s.Require().NoError(o.ResumeFromBlock("candidate responded", s.now))
		s.Equal(StatusFulfillmentInProgress, o.Status)
		s.False(o.BlockedFromStatus.Valid)
	})

	s.Run("resume on an unblocked order is a no-op", func() {
		emitted := len(o.PendingEvents())
		s.Require().NoError(o.ResumeFromBlock("noise", s.now))
		s.Equal(StatusFulfillmentInProgress, o.Status)
		s.Len(o.PendingEvents(), emitted)
	})
}

func (s *OrderWorkflowSuite) TestCancel() {
	s.Run("cancel works from any active status", func() {
		o := s.newOrder()
		s.Require().NoError(o.Cancel("customer withdrew", s.now))
		s.Equal(StatusCanceled, o.Status)
		s.True(o.CanceledAt.Valid)
	})

	s.Run("cancel from blocked clears the blocked-from marker", func() {
		o := s.newOrder()
		s.advanceThroughIntake(o)
		s.Require().NoError(o.Block("hold", s.now))
		s.Require().NoError(o.Cancel("withdrawn while blocked", s.now))
		s.Equal(StatusCanceled, o.Status)
		s.False(o.BlockedFromStatus.Valid)
	})

	s.Run("repeat cancel refreshes the reason without events", func() {
		o := s.newOrder()
		s.Require().NoError(o.Cancel("first", s.now))
		emitted := len(o.PendingEvents())
		s.Require().NoError(o.Cancel("second", s.now))
		s.Equal("second", o.LastStatusReason)
		s.Len(o.PendingEvents(), emitted)
	})
}

func (s *OrderWorkflowSuite) TestTransitionTable() {
	s.True(StatusCreated.CanTransitionTo(StatusInvited))
	s.True(StatusReadyForReport.CanTransitionTo(StatusClosed))
	s.False(StatusCreated.CanTransitionTo(StatusClosed))
	s.False(StatusClosed.CanTransitionTo(StatusInvited))
	s.True(StatusClosed.Terminal())
	s.True(StatusCanceled.Terminal())
	s.False(StatusBlocked.Terminal())
}
