package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	clearcheck_errors "clearcheck/pkg/errors"
)

type fakeCommandLog struct {
	results map[string]Result
}

func newFakeCommandLog() *fakeCommandLog {
	return &fakeCommandLog{results: make(map[string]Result)}
}

func (l *fakeCommandLog) Get(ctx context.Context, key string) (Result, bool, error) {
	res, ok := l.results[key]
	return res, ok, nil
}

func (l *fakeCommandLog) Record(ctx context.Context, key, commandType, aggregateID string) error {
	if _, ok := l.results[key]; !ok {
		l.results[key] = Result{AggregateID: aggregateID}
	}
	return nil
}

type testCommand struct {
	typ     string
	key     string
	invalid bool
}

func (c testCommand) CommandType() string { return c.typ }

func (c testCommand) Validate() error {
	if c.invalid {
		return clearcheck_errors.ErrInvalidInput
	}
	return nil
}

func (c testCommand) IdempotencyKey() string { return c.key }

type BusSuite struct {
	suite.Suite
	ctx context.Context
	bus *Bus
	log *fakeCommandLog
}

func (s *BusSuite) SetupTest() {
	s.ctx = context.Background()
	s.bus = NewBus()
	s.log = newFakeCommandLog()
	s.bus.UseCommandLog(s.log)
}

func TestBusSuite(t *testing.T) {
	suite.Run(t, new(BusSuite))
}

func (s *BusSuite) TestUnknownCommandType() {
	_, err := s.bus.Execute(s.ctx, testCommand{typ: "order.retired"})
	s.Require().ErrorIs(err, ErrHandlerNotFound)
}

func (s *BusSuite) TestValidationRunsBeforeDispatch() {
	_, err := s.bus.Execute(s.ctx, testCommand{typ: "order.create", invalid: true})
	s.Require().ErrorIs(err, clearcheck_errors.ErrInvalidInput)
}

func (s *BusSuite) TestDuplicateKeyExecutesOnce() {
	calls := 0
	s.bus.Register("order.create", HandlerFunc(func(ctx context.Context, cmd Command) (Result, error) {
		calls++
		return Result{AggregateID: "order-1"}, nil
	}))

	first, err := s.bus.Execute(s.ctx, testCommand{typ: "order.create", key: "req-42"})
	s.Require().NoError(err)
	second, err := s.bus.Execute(s.ctx, testCommand{typ: "order.create", key: "req-42"})
	s.Require().NoError(err)

	s.Equal(1, calls)
	s.Equal(first.AggregateID, second.AggregateID)
}

func (s *BusSuite) TestDistinctKeysExecuteSeparately() {
	calls := 0
	s.bus.Register("order.create", HandlerFunc(func(ctx context.Context, cmd Command) (Result, error) {
		calls++
		return Result{}, nil
	}))

	_, err := s.bus.Execute(s.ctx, testCommand{typ: "order.create", key: "req-1"})
	s.Require().NoError(err)
	_, err = s.bus.Execute(s.ctx, testCommand{typ: "order.create", key: "req-2"})
	s.Require().NoError(err)

	s.Equal(2, calls)
}

func (s *BusSuite) TestEmptyKeyNeverDeduplicates() {
	calls := 0
	s.bus.Register("order.create", HandlerFunc(func(ctx context.Context, cmd Command) (Result, error) {
		calls++
		return Result{}, nil
	}))

	for i := 0; i < 3; i++ {
		_, err := s.bus.Execute(s.ctx, testCommand{typ: "order.create"})
		s.Require().NoError(err)
	}

	s.Equal(3, calls)
}

func (s *BusSuite) TestFailedExecutionIsRetried() {
	calls := 0
	s.bus.Register("order.create", HandlerFunc(func(ctx context.Context, cmd Command) (Result, error) {
		calls++
		if calls == 1 {
			return Result{}, errors.New("storage hiccup")
		}
		return Result{AggregateID: "order-1"}, nil
	}))

	_, err := s.bus.Execute(s.ctx, testCommand{typ: "order.create", key: "req-7"})
	s.Require().Error(err)

	res, err := s.bus.Execute(s.ctx, testCommand{typ: "order.create", key: "req-7"})
	s.Require().NoError(err)
	s.Equal(2, calls)
	s.Equal("order-1", res.AggregateID)
}

func (s *BusSuite) TestBusWithoutLogStillExecutes() {
	bus := NewBus()
	calls := 0
	bus.Register("order.create", HandlerFunc(func(ctx context.Context, cmd Command) (Result, error) {
		calls++
		return Result{}, nil
	}))

	_, err := bus.Execute(s.ctx, testCommand{typ: "order.create", key: "req-9"})
	s.Require().NoError(err)
	_, err = bus.Execute(s.ctx, testCommand{typ: "order.create", key: "req-9"})
	s.Require().NoError(err)
	s.Equal(2, calls)
}
