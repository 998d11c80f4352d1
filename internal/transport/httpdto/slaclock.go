package httpdto

import (
	"time"

	"clearcheck/internal/domain/readmodel"
	"clearcheck/internal/domain/slaclock"
)

type StartClockRequest struct {
	OrderID                string     `json:"order_id" binding:"required"`
	Kind                   string     `json:"kind" binding:"required"`
	StartedAt              *time.Time `json:"started_at"`
	TargetBusinessDays     int        `json:"target_business_days"`
	AtRiskThresholdPercent float64    `json:"at_risk_threshold_percent"`
}

type PauseClockRequest struct {
	Reason string `json:"reason"`
}

type ClockResponse struct {
	ID                string     `json:"id"`
	OrderID           string     `json:"order_id"`
	Kind              string     `json:"kind"`
	State             string     `json:"state"`
	StartedAt         time.Time  `json:"started_at"`
	DeadlineAt        time.Time  `json:"deadline_at"`
	AtRiskThresholdAt time.Time  `json:"at_risk_threshold_at"`
	AtRiskAt          *time.Time `json:"at_risk_at,omitempty"`
	BreachedAt        *time.Time `json:"breached_at,omitempty"`
	PausedAt          *time.Time `json:"paused_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	PauseReason       string     `json:"pause_reason,omitempty"`
	AccumulatedPause  string     `json:"accumulated_pause"`
}

func FromClock(c slaclock.Clock) ClockResponse {
	resp := ClockResponse{
		ID:                c.ID.String(),
		OrderID:           c.OrderID.String(),
		Kind:              string(c.Kind),
		State:             string(c.State),
		StartedAt:         c.StartedAt,
		DeadlineAt:        c.DeadlineAt,
		AtRiskThresholdAt: c.AtRiskThresholdAt,
		AccumulatedPause:  c.AccumulatedPause.String(),
	}
	resp.AtRiskAt = timePtr(c.AtRiskAt.Time, c.AtRiskAt.Valid)
	resp.BreachedAt = timePtr(c.BreachedAt.Time, c.BreachedAt.Valid)
	resp.PausedAt = timePtr(c.PausedAt.Time, c.PausedAt.Valid)
	resp.CompletedAt = timePtr(c.CompletedAt.Time, c.CompletedAt.Valid)
	if c.PauseReason.Valid {
		resp.PauseReason = c.PauseReason.String
	}
	return resp
}

type SlaDashboardRowResponse struct {
	ClockID           string     `json:"clock_id"`
	OrderID           string     `json:"order_id"`
	Kind              string     `json:"kind"`
	State             string     `json:"state"`
	StartedAt         time.Time  `json:"started_at"`
	DeadlineAt        time.Time  `json:"deadline_at"`
	AtRiskThresholdAt time.Time  `json:"at_risk_threshold_at"`
	AtRiskAt          *time.Time `json:"at_risk_at,omitempty"`
	BreachedAt        *time.Time `json:"breached_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func FromSlaDashboardRow(row readmodel.SlaDashboardRow) SlaDashboardRowResponse {
	return SlaDashboardRowResponse{
		ClockID:           row.ClockID.String(),
		OrderID:           row.OrderID.String(),
		Kind:              row.Kind,
		State:             row.State,
		StartedAt:         row.StartedAt,
		DeadlineAt:        row.DeadlineAt,
		AtRiskThresholdAt: row.AtRiskThresholdAt,
		AtRiskAt:          timePtr(row.AtRiskAt.Time, row.AtRiskAt.Valid),
		BreachedAt:        timePtr(row.BreachedAt.Time, row.BreachedAt.Valid),
		CompletedAt:       timePtr(row.CompletedAt.Time, row.CompletedAt.Valid),
		UpdatedAt:         row.UpdatedAt,
	}
}

func FromSlaDashboardSlice(rows []readmodel.SlaDashboardRow) []SlaDashboardRowResponse {
	out := make([]SlaDashboardRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromSlaDashboardRow(row))
	}
	return out
}

type ListSlaDashboardResponse struct {
	Clocks []SlaDashboardRowResponse `json:"clocks"`
}

type RunProjectionResponse struct {
	Projection string `json:"projection"`
	Processed  int    `json:"processed"`
	Reset      bool   `json:"reset"`
}
