package handler

import (
	"net/http"

	"clearcheck/internal/projection"
	"clearcheck/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// ProjectionHandler triggers on-demand projection runs. Runners are also
// safe to drive from a scheduler; this endpoint exists for operators and
// for catch-up after deploys.
type ProjectionHandler struct {
	runners map[string]*projection.Runner
}

func NewProjectionHandler(runners ...*projection.Runner) *ProjectionHandler {
	byName := make(map[string]*projection.Runner, len(runners))
	for _, r := range runners {
		byName[r.Name()] = r
	}
	return &ProjectionHandler{runners: byName}
}

func (h *ProjectionHandler) Run(c *gin.Context) {
	name := c.Param("name")
	runner, ok := h.runners[name]
	if !ok {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("unknown projection", httpdto.CodeNotFound))
		return
	}
	reset := c.Query("reset") == "true"

	processed, err := runner.Run(c.Request.Context(), reset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.RunProjectionResponse{
		Projection: name,
		Processed:  processed,
		Reset:      reset,
	}))
}
