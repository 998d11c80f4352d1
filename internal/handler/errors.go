package handler

import (
	"errors"
	"net/http"

	"clearcheck/internal/transport/httpdto"
	clearcheck_errors "clearcheck/pkg/errors"

	"github.com/gin-gonic/gin"
)

// writeError translates command and repository failures into the response
// envelope. Workflow violations are conflicts, not client syntax errors.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, clearcheck_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), httpdto.CodeNotFound))
	case errors.Is(err, clearcheck_errors.ErrInvalidTransition),
		errors.Is(err, clearcheck_errors.ErrTerminalState),
		errors.Is(err, clearcheck_errors.ErrSessionMismatch),
		errors.Is(err, clearcheck_errors.ErrMissingIntake),
		errors.Is(err, clearcheck_errors.ErrClockActive),
		errors.Is(err, clearcheck_errors.ErrAlreadyExists),
		errors.Is(err, clearcheck_errors.ErrConflict):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), httpdto.CodeConflict))
	case errors.Is(err, clearcheck_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), httpdto.CodeInvalidRequest))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), httpdto.CodeInternalError))
	}
}

// idempotencyKey reads the client-supplied retry key, empty when absent.
func idempotencyKey(c *gin.Context) string {
	return c.GetHeader("Idempotency-Key")
}
