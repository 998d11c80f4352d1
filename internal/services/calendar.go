package services

import (
	"time"

	"github.com/google/uuid"
)

// BusinessCalendar computes SLA boundaries in business time. Customer id
// is passed through so a per-customer calendar (regional holidays, custom
// work weeks) can be wired in later without touching callers.
type BusinessCalendar interface {
	// AddBusinessDays returns the instant `days` business days after start,
	// preserving the time of day.
	AddBusinessDays(start time.Time, days int, customerID uuid.UUID) time.Time
	// AtRiskThreshold returns the instant at which `percent` of the window
	// between start and deadline has elapsed.
	AtRiskThreshold(start, deadline time.Time, percent float64) time.Time
}

// WeekdayCalendar counts Monday through Friday as business days for every
// customer. Weekend start instants are first rolled forward to Monday.
type WeekdayCalendar struct{}

func NewWeekdayCalendar() WeekdayCalendar {
	return WeekdayCalendar{}
}

func (WeekdayCalendar) AddBusinessDays(start time.Time, days int, _ uuid.UUID) time.Time {
	t := rollForward(start)
	for i := 0; i < days; i++ {
		t = rollForward(t.AddDate(0, 0, 1))
	}
	return t
}

func (WeekdayCalendar) AtRiskThreshold(start, deadline time.Time, percent float64) time.Time {
	window := deadline.Sub(start)
	return start.Add(time.Duration(float64(window) * percent))
}

func rollForward(t time.Time) time.Time {
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
