package handler

import (
	"net/http"

	"clearcheck/internal/commands"
	"clearcheck/internal/domain/slaclock"
	"clearcheck/internal/repository"
	"clearcheck/internal/services"
	"clearcheck/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlaClockHandler struct {
	service   *services.SlaClockService
	dashboard repository.SlaDashboardRepository
}

func NewSlaClockHandler(service *services.SlaClockService, dashboard repository.SlaDashboardRepository) *SlaClockHandler {
	return &SlaClockHandler{service: service, dashboard: dashboard}
}

func (h *SlaClockHandler) Start(c *gin.Context) {
	var req httpdto.StartClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", httpdto.CodeInvalidRequest))
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", httpdto.CodeInvalidRequest))
		return
	}
	cmd := commands.StartClockCommand{
		OrderID:                orderID,
		Kind:                   slaclock.Kind(req.Kind),
		TargetBusinessDays:     req.TargetBusinessDays,
		AtRiskThresholdPercent: req.AtRiskThresholdPercent,
		IdempotencyKeyValue:    idempotencyKey(c),
	}
	if req.StartedAt != nil {
		cmd.StartedAt = *req.StartedAt
	}
	res, err := h.service.Bus().Execute(c.Request.Context(), cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(gin.H{"clock_id": res.AggregateID}))
}

func (h *SlaClockHandler) Pause(c *gin.Context) {
	clockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid clock id", httpdto.CodeInvalidRequest))
		return
	}
	var req httpdto.PauseClockRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", httpdto.CodeInvalidRequest))
			return
		}
	}
	res, err := h.service.Bus().Execute(c.Request.Context(), commands.PauseClockCommand{
		ClockID:             clockID,
		Reason:              req.Reason,
		IdempotencyKeyValue: idempotencyKey(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"clock_id": res.AggregateID}))
}

func (h *SlaClockHandler) Resume(c *gin.Context) {
	clockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid clock id", httpdto.CodeInvalidRequest))
		return
	}
	res, err := h.service.Bus().Execute(c.Request.Context(), commands.ResumeClockCommand{
		ClockID:             clockID,
		IdempotencyKeyValue: idempotencyKey(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"clock_id": res.AggregateID}))
}

func (h *SlaClockHandler) GetByID(c *gin.Context) {
	clockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid clock id", httpdto.CodeInvalidRequest))
		return
	}
	clock, err := h.service.GetClock(c.Request.Context(), clockID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromClock(clock)))
}

// ListForOrder serves the sla_dashboard read table for one order.
func (h *SlaClockHandler) ListForOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", httpdto.CodeInvalidRequest))
		return
	}
	rows, err := h.dashboard.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListSlaDashboardResponse{
		Clocks: httpdto.FromSlaDashboardSlice(rows),
	}))
}
