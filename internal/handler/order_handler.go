package handler

import (
	"net/http"
	"strconv"

	"clearcheck/internal/commands"
	"clearcheck/internal/repository"
	"clearcheck/internal/services"
	"clearcheck/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service   *services.OrderService
	summaries repository.OrderSummaryRepository
}

func NewOrderHandler(service *services.OrderService, summaries repository.OrderSummaryRepository) *OrderHandler {
	return &OrderHandler{service: service, summaries: summaries}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req httpdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", httpdto.CodeInvalidRequest))
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid customer id", httpdto.CodeInvalidRequest))
		return
	}
	cmd := commands.CreateOrderCommand{
		CustomerID:          customerID,
		IdempotencyKeyValue: idempotencyKey(c),
	}
	if req.SubjectID != "" {
		subjectID, err := uuid.Parse(req.SubjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid subject id", httpdto.CodeInvalidRequest))
			return
		}
		cmd.SubjectID = uuid.NullUUID{UUID: subjectID, Valid: true}
	}

	res, err := h.service.Bus().Execute(c.Request.Context(), cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(gin.H{"order_id": res.AggregateID}))
}

func (h *OrderHandler) Invite(c *gin.Context) {
	h.sessionCommand(c, func(orderID, sessionID uuid.UUID, key string) commands.Command {
		return commands.InviteCandidateCommand{OrderID: orderID, IntakeSessionID: sessionID, IdempotencyKeyValue: key}
	})
}

func (h *OrderHandler) StartIntake(c *gin.Context) {
	h.sessionCommand(c, func(orderID, sessionID uuid.UUID, key string) commands.Command {
		return commands.StartIntakeCommand{OrderID: orderID, IntakeSessionID: sessionID, IdempotencyKeyValue: key}
	})
}

func (h *OrderHandler) SubmitIntake(c *gin.Context) {
	h.sessionCommand(c, func(orderID, sessionID uuid.UUID, key string) commands.Command {
		return commands.SubmitIntakeCommand{OrderID: orderID, IntakeSessionID: sessionID, IdempotencyKeyValue: key}
	})
}

// Transition returns a handler for one of the reason-only workflow moves.
func (h *OrderHandler) Transition(commandType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", httpdto.CodeInvalidRequest))
			return
		}
		var req httpdto.TransitionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", httpdto.CodeInvalidRequest))
				return
			}
		}
		res, err := h.service.Bus().Execute(c.Request.Context(), commands.TransitionOrderCommand{
			Type:                commandType,
			OrderID:             orderID,
			Reason:              req.Reason,
			IdempotencyKeyValue: idempotencyKey(c),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"order_id": res.AggregateID}))
	}
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", httpdto.CodeInvalidRequest))
		return
	}
	o, err := h.service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromOrder(o)))
}

// GetSummary serves from the order_summary read table, not the orders
// table, so it reflects the last projection run.
func (h *OrderHandler) GetSummary(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", httpdto.CodeInvalidRequest))
		return
	}
	row, err := h.summaries.GetByID(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromOrderSummary(row)))
}

func (h *OrderHandler) ListSummaries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.summaries.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListOrderSummariesResponse{
		Orders: httpdto.FromOrderSummarySlice(rows),
	}))
}

func (h *OrderHandler) sessionCommand(c *gin.Context, build func(orderID, sessionID uuid.UUID, key string) commands.Command) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", httpdto.CodeInvalidRequest))
		return
	}
	var req httpdto.IntakeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", httpdto.CodeInvalidRequest))
		return
	}
	sessionID, err := uuid.Parse(req.IntakeSessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid intake session id", httpdto.CodeInvalidRequest))
		return
	}
	res, err := h.service.Bus().Execute(c.Request.Context(), build(orderID, sessionID, idempotencyKey(c)))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"order_id": res.AggregateID}))
}
