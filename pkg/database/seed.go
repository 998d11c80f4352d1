package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clearcheck/internal/domain/order"
	"clearcheck/internal/domain/slaclock"
	"clearcheck/internal/repository"
	"clearcheck/internal/services"
)

// SeedConfig controls how much demo data the seeder produces.
type SeedConfig struct {
	CustomerCount  int
	OrdersPerStage int
}

func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		CustomerCount:  3,
		OrdersPerStage: 2,
	}
}

// SeedResult summarizes what the seeder wrote.
type SeedResult struct {
	Orders []*order.Order
	Clocks []*slaclock.Clock
}

// SeedDemo populates the database with orders at every lifecycle stage,
// together with their clocks. Orders go through the same domain workflow as
// production traffic, so the event log and read models replay correctly.
func SeedDemo(ctx context.Context, db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	orderRepo := repository.NewOrderRepository(db)
	clockRepo := repository.NewSlaClockRepository(db)
	eventRepo := repository.NewEventRepository(db)
	uow := repository.NewUnitOfWork(db, eventRepo)
	calendar := services.NewWeekdayCalendar()

	customers := make([]uuid.UUID, cfg.CustomerCount)
	for i := range customers {
		customers[i] = uuid.New()
	}

	result := &SeedResult{}
	base := time.Now().UTC().Add(-14 * 24 * time.Hour)

	stages := []order.Status{
		order.StatusCreated,
		order.StatusInvited,
		order.StatusIntakeInProgress,
		order.StatusIntakeComplete,
		order.StatusReadyForFulfillment,
		order.StatusFulfillmentInProgress,
		order.StatusReadyForReport,
		order.StatusClosed,
		order.StatusBlocked,
		order.StatusCanceled,
	}

	for i, stage := range stages {
		for j := 0; j < cfg.OrdersPerStage; j++ {
			customer := customers[(i+j)%len(customers)]
			at := base.Add(time.Duration(i*24+j) * time.Hour)

			o, err := seedOrderAtStage(customer, stage, at)
			if err != nil {
				return nil, fmt.Errorf("seed order at %s: %w", stage, err)
			}
			if err := uow.Commit(ctx, func(tx *gorm.DB) error {
				return orderRepo.Create(ctx, tx, o)
			}, o); err != nil {
				return nil, fmt.Errorf("persist order: %w", err)
			}
			result.Orders = append(result.Orders, o)

			clocks := seedClocksForStage(o, calendar, at)
			for _, c := range clocks {
				if err := uow.Commit(ctx, func(tx *gorm.DB) error {
					return clockRepo.Create(ctx, tx, c)
				}, c); err != nil {
					return nil, fmt.Errorf("persist clock: %w", err)
				}
				result.Clocks = append(result.Clocks, c)
			}
		}
	}

	return result, nil
}

// seedOrderAtStage walks a fresh order through the workflow until it sits at
// the wanted status.
func seedOrderAtStage(customerID uuid.UUID, target order.Status, at time.Time) (*order.Order, error) {
	o := order.NewOrder(uuid.New(), customerID, uuid.NullUUID{}, at)
	if target == order.StatusCreated {
		return o, nil
	}

	session := uuid.New()
	steps := []struct {
		status order.Status
		apply  func() error
	}{
		{order.StatusInvited, func() error { return o.RecordInvite(session, at.Add(1*time.Hour)) }},
		{order.StatusIntakeInProgress, func() error { return o.MarkIntakeInProgress(session, at.Add(2*time.Hour)) }},
		{order.StatusIntakeComplete, func() error { return o.MarkIntakeSubmitted(session, at.Add(3*time.Hour)) }},
		{order.StatusReadyForFulfillment, func() error { return o.MarkReadyForFulfillment("checks selected", at.Add(4*time.Hour)) }},
		{order.StatusFulfillmentInProgress, func() error { return o.BeginFulfillment("vendor dispatch", at.Add(5*time.Hour)) }},
		{order.StatusReadyForReport, func() error { return o.MarkReadyForReport("all checks returned", at.Add(6*time.Hour)) }},
		{order.StatusClosed, func() error { return o.Close("report delivered", at.Add(7*time.Hour)) }},
	}

	switch target {
	case order.StatusBlocked:
		if err := o.RecordInvite(session, at.Add(1*time.Hour)); err != nil {
			return nil, err
		}
		if err := o.Block("candidate unreachable", at.Add(2*time.Hour)); err != nil {
			return nil, err
		}
		return o, nil
	case order.StatusCanceled:
		if err := o.Cancel("customer withdrew the request", at.Add(1*time.Hour)); err != nil {
			return nil, err
		}
		return o, nil
	}

	for _, step := range steps {
		if err := step.apply(); err != nil {
			return nil, err
		}
		if step.status == target {
			return o, nil
		}
	}
	return nil, fmt.Errorf("unreachable status %s", target)
}

// seedClocksForStage attaches the clocks an order at this stage would carry.
func seedClocksForStage(o *order.Order, calendar services.BusinessCalendar, at time.Time) []*slaclock.Clock {
	newClock := func(kind slaclock.Kind, startedAt time.Time) *slaclock.Clock {
		days := slaclock.DefaultTargetBusinessDays[kind]
		deadline := calendar.AddBusinessDays(startedAt, days, o.CustomerID)
		threshold := calendar.AtRiskThreshold(startedAt, deadline, slaclock.DefaultAtRiskThresholdPercent)
		c := slaclock.NewClock(uuid.New(), o.ID, o.CustomerID, kind, startedAt, deadline, threshold, days, slaclock.DefaultAtRiskThresholdPercent)
		return c
	}

	overall := newClock(slaclock.KindOverall, at)
	clocks := []*slaclock.Clock{overall}

	switch o.Status {
	case order.StatusCreated:
	case order.StatusInvited, order.StatusIntakeInProgress:
		clocks = append(clocks, newClock(slaclock.KindIntake, at.Add(1*time.Hour)))
	case order.StatusIntakeComplete, order.StatusReadyForFulfillment:
		intake := newClock(slaclock.KindIntake, at.Add(1*time.Hour))
		intake.Complete(at.Add(3 * time.Hour))
		clocks = append(clocks, intake)
	case order.StatusFulfillmentInProgress, order.StatusReadyForReport:
		intake := newClock(slaclock.KindIntake, at.Add(1*time.Hour))
		intake.Complete(at.Add(3 * time.Hour))
		fulfillment := newClock(slaclock.KindFulfillment, at.Add(5*time.Hour))
		if o.Status == order.StatusReadyForReport {
			fulfillment.Complete(at.Add(6 * time.Hour))
		}
		clocks = append(clocks, intake, fulfillment)
	case order.StatusBlocked:
		overall.Pause(o.LastStatusReason, at.Add(2*time.Hour))
		intake := newClock(slaclock.KindIntake, at.Add(1*time.Hour))
		intake.Pause(o.LastStatusReason, at.Add(2*time.Hour))
		clocks = append(clocks, intake)
	case order.StatusClosed, order.StatusCanceled:
		overall.Complete(at.Add(7 * time.Hour))
	}

	return clocks
}
