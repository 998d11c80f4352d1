package httpdto

import (
	"time"

	"clearcheck/internal/domain/order"
	"clearcheck/internal/domain/readmodel"
)

type CreateOrderRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	SubjectID  string `json:"subject_id"`
}

type InviteRequest struct {
	IntakeSessionID string `json:"intake_session_id" binding:"required"`
}

type IntakeSessionRequest struct {
	IntakeSessionID string `json:"intake_session_id" binding:"required"`
}

type TransitionRequest struct {
	Reason string `json:"reason"`
}

type OrderResponse struct {
	ID                string     `json:"id"`
	CustomerID        string     `json:"customer_id"`
	SubjectID         string     `json:"subject_id,omitempty"`
	Status            string     `json:"status"`
	BlockedFromStatus string     `json:"blocked_from_status,omitempty"`
	LastStatusReason  string     `json:"last_status_reason,omitempty"`
	InvitedAt         *time.Time `json:"invited_at,omitempty"`
	IntakeCompletedAt *time.Time `json:"intake_completed_at,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	CanceledAt        *time.Time `json:"canceled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func FromOrder(o order.Order) OrderResponse {
	resp := OrderResponse{
		ID:               o.ID.String(),
		CustomerID:       o.CustomerID.String(),
		Status:           string(o.Status),
		LastStatusReason: o.LastStatusReason,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if o.SubjectID.Valid {
		resp.SubjectID = o.SubjectID.UUID.String()
	}
	if o.BlockedFromStatus.Valid {
		resp.BlockedFromStatus = o.BlockedFromStatus.String
	}
	resp.InvitedAt = timePtr(o.InvitedAt.Time, o.InvitedAt.Valid)
	resp.IntakeCompletedAt = timePtr(o.IntakeCompletedAt.Time, o.IntakeCompletedAt.Valid)
	resp.ClosedAt = timePtr(o.ClosedAt.Time, o.ClosedAt.Valid)
	resp.CanceledAt = timePtr(o.CanceledAt.Time, o.CanceledAt.Valid)
	return resp
}

type OrderSummaryResponse struct {
	OrderID           string     `json:"order_id"`
	CustomerID        string     `json:"customer_id"`
	Status            string     `json:"status"`
	LastStatusReason  string     `json:"last_status_reason,omitempty"`
	InvitedAt         *time.Time `json:"invited_at,omitempty"`
	IntakeCompletedAt *time.Time `json:"intake_completed_at,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	CanceledAt        *time.Time `json:"canceled_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func FromOrderSummary(row readmodel.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		OrderID:           row.OrderID.String(),
		CustomerID:        row.CustomerID.String(),
		Status:            row.Status,
		LastStatusReason:  row.LastStatusReason,
		InvitedAt:         timePtr(row.InvitedAt.Time, row.InvitedAt.Valid),
		IntakeCompletedAt: timePtr(row.IntakeCompletedAt.Time, row.IntakeCompletedAt.Valid),
		ClosedAt:          timePtr(row.ClosedAt.Time, row.ClosedAt.Valid),
		CanceledAt:        timePtr(row.CanceledAt.Time, row.CanceledAt.Valid),
		UpdatedAt:         row.UpdatedAt,
	}
}

func FromOrderSummarySlice(rows []readmodel.OrderSummary) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromOrderSummary(row))
	}
	return out
}

type ListOrderSummariesResponse struct {
	Orders []OrderSummaryResponse `json:"orders"`
}

func timePtr(t time.Time, valid bool) *time.Time {
	if !valid {
		return nil
	}
	return &t
}
