package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CalendarSuite struct {
	suite.Suite
	cal WeekdayCalendar
}

func (s *CalendarSuite) SetupTest() {
	s.cal = NewWeekdayCalendar()
}

func TestCalendarSuite(t *testing.T) {
	suite.Run(t, new(CalendarSuite))
}

func (s *CalendarSuite) TestAddBusinessDays() {
	monday := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	s.Run("within one week", func() {
		got := s.cal.AddBusinessDays(monday, 3, uuid.Nil)
		s.Equal(time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC), got, "Mon + 3 business days = Thu")
	})

	s.Run("spans a weekend", func() {
		got := s.cal.AddBusinessDays(monday, 5, uuid.Nil)
		s.Equal(time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC), got, "Mon + 5 business days = next Mon")
		s.Equal(time.Monday, got.Weekday())
	})

	s.Run("friday start skips the weekend", func() {
		friday := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
		got := s.cal.AddBusinessDays(friday, 1, uuid.Nil)
		s.Equal(time.Monday, got.Weekday())
		s.Equal(time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC), got)
	})

	s.Run("weekend start rolls to monday first", func() {
		saturday := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
		got := s.cal.AddBusinessDays(saturday, 1, uuid.Nil)
		s.Equal(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), got, "Sat rolls to Mon, +1 = Tue")
	})

	s.Run("zero days returns the next business instant", func() {
		sunday := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
		got := s.cal.AddBusinessDays(sunday, 0, uuid.Nil)
		s.Equal(time.Monday, got.Weekday())
	})

	s.Run("preserves time of day", func() {
		got := s.cal.AddBusinessDays(monday, 10, uuid.Nil)
		s.Equal(9, got.Hour())
		s.Equal(30, got.Minute())
	})
}

func (s *CalendarSuite) TestAtRiskThreshold() {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	deadline := start.Add(10 * 24 * time.Hour)

	s.Run("eighty percent of the window", func() {
		got := s.cal.AtRiskThreshold(start, deadline, 0.80)
		s.Equal(start.Add(8*24*time.Hour), got)
	})

	s.Run("threshold is strictly inside the window", func() {
		got := s.cal.AtRiskThreshold(start, deadline, 0.80)
		s.True(got.After(start))
		s.True(got.Before(deadline))
	})
}
