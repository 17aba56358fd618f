package handlers

import (
	"errors"
	"net/http"

	"profit-forecast/internal/api/models"
	"profit-forecast/internal/breakeven"
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/model"

	"github.com/gin-gonic/gin"
)

// BreakEvenHandler handles single-lever searches
type BreakEvenHandler struct {
	engine *forecast.Engine
}

// NewBreakEvenHandler creates a new break-even handler
func NewBreakEvenHandler(engine *forecast.Engine) *BreakEvenHandler {
	if engine == nil {
		engine = forecast.New()
	}
	return &BreakEvenHandler{engine: engine}
}

// Solve handles POST /api/v1/breakeven
func (h *BreakEvenHandler) Solve(c *gin.Context) {
	var req models.BreakEvenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	lever, err := model.ParseLever(req.Lever)
	if err != nil {
		badRequest(c, "INVALID_LEVER", err)
		return
	}
	if req.Day < 0 {
		badRequest(c, "INVALID_DAY", errors.New("day must be >= 0"))
		return
	}

	res, err := h.engine.BreakEven(req.Metrics, req.Day, lever, req.Leads,
		breakeven.Options{SlopeAware: req.SlopeAware})
	switch {
	case errors.Is(err, forecast.ErrDegenerate):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DEGENERATE_DAY",
				Message: err.Error(),
				Details: map[string]interface{}{"day": req.Day},
			},
		})
		return
	case err != nil:
		badRequest(c, "INVALID_METRICS", err)
		return
	}

	c.JSON(http.StatusOK, models.BreakEvenResponse{
		Lever:    string(lever),
		Day:      req.Day,
		Snapshot: forecast.Snapshot(req.Metrics, req.Day),
		Result:   res,
	})
}
