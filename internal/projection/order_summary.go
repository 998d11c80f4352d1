package projection

import (
	"context"
	"fmt"

	"clearcheck/internal/domain/order"
	"clearcheck/internal/domain/readmodel"
	"clearcheck/internal/repository"
	clearcheck_errors "clearcheck/pkg/errors"
	"clearcheck/pkg/logger"
)

const OrderSummaryName = "order_summary"

// OrderSummaryTarget maps one order row to its denormalized summary row.
// Pure field mapping, so replaying any prefix of the source reproduces the
// same table contents.
type OrderSummaryTarget struct {
	repo repository.OrderSummaryRepository
}

func NewOrderSummaryTarget(repo repository.OrderSummaryRepository) *OrderSummaryTarget {
	return &OrderSummaryTarget{repo: repo}
}

func (t *OrderSummaryTarget) Apply(ctx context.Context, data interface{}) error {
	o, ok := data.(order.Order)
	if !ok {
		return fmt.Errorf("%w: order summary projection got %T", clearcheck_errors.ErrInvalidInput, data)
	}
	return t.repo.Upsert(ctx, readmodel.OrderSummary{
		OrderID:           o.ID,
		CustomerID:        o.CustomerID,
		Status:            string(o.Status),
		LastStatusReason:  o.LastStatusReason,
		InvitedAt:         o.InvitedAt,
		IntakeCompletedAt: o.IntakeCompletedAt,
		ClosedAt:          o.ClosedAt,
		CanceledAt:        o.CanceledAt,
		UpdatedAt:         o.UpdatedAt,
	})
}

func (t *OrderSummaryTarget) Reset(ctx context.Context) error {
	return t.repo.Reset(ctx)
}

// NewOrderSummaryRunner wires the orders table scan to the summary table.
func NewOrderSummaryRunner(orders repository.OrderRepository, summaries repository.OrderSummaryRepository, checkpoints repository.CheckpointRepository, log *logger.Logger, batchSize int) *Runner {
	return NewRunner(
		OrderSummaryName,
		NewOrderTableSource(orders),
		NewOrderSummaryTarget(summaries),
		checkpoints,
		log,
		batchSize,
	)
}
