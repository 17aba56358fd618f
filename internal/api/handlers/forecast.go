package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"profit-forecast/internal/analysis"
	"profit-forecast/internal/api/models"
	"profit-forecast/internal/data"
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxDays bounds the horizon a single request may ask for
const MaxDays = 3650

// ForecastHandler handles forecast-related requests
type ForecastHandler struct {
	engine *forecast.Engine
	store  data.ResultStore
}

// NewForecastHandler creates a new forecast handler. A nil store disables
// saving and GET /forecast/:id.
func NewForecastHandler(engine *forecast.Engine, store data.ResultStore) *ForecastHandler {
	if engine == nil {
		engine = forecast.New()
	}
	return &ForecastHandler{engine: engine, store: store}
}

// RunForecast handles POST /api/v1/forecast
func (h *ForecastHandler) RunForecast(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	opts := req.Options.ToEngine()
	if opts.Days > MaxDays {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_OPTIONS",
				Message: "days exceeds the maximum horizon",
				Details: map[string]interface{}{"max_days": MaxDays},
			},
		})
		return
	}

	res, err := h.engine.Run(c.Request.Context(), req.Metrics, opts)
	if err != nil {
		badRequest(c, "INVALID_METRICS", err)
		return
	}

	if req.Save {
		if h.store == nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "STORE_UNAVAILABLE",
					Message: "result storage is not configured",
				},
			})
			return
		}
		res.ID = uuid.NewString()
		if err := h.store.Save(c.Request.Context(), res.ID, res); err != nil {
			log.Error().Err(err).Str("id", res.ID).Msg("save forecast")
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "STORE_ERROR",
					Message: err.Error(),
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, buildForecastResponse(res, req.Options.WantPoints()))
}

// GetForecast handles GET /api/v1/forecast/:id
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "INVALID_ID", err)
		return
	}
	if h.store == nil {
		c.JSON(http.StatusNotFound, notFound(id))
		return
	}

	res, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, data.ErrNotFound) {
		c.JSON(http.StatusNotFound, notFound(id))
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("load forecast")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "STORE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, buildForecastResponse(res, c.Query("include_points") != "false"))
}

// CompareForecasts handles POST /api/v1/forecast/compare
func (h *ForecastHandler) CompareForecasts(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	opts := req.Options.ToEngine()
	if opts.Days > MaxDays {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_OPTIONS",
				Message: "days exceeds the maximum horizon",
				Details: map[string]interface{}{"max_days": MaxDays},
			},
		})
		return
	}

	byName := make(map[string][]model.ChartDataPoint, len(req.Variations))
	var skipped []string
	for _, v := range req.Variations {
		if _, dup := byName[v.Name]; dup {
			badRequest(c, "DUPLICATE_VARIATION", errors.New("variation names must be unique: "+v.Name))
			return
		}
		state, err := v.Apply(req.Base)
		if err != nil {
			badRequest(c, "INVALID_VARIATION", fmt.Errorf("variation %s: %w", v.Name, err))
			return
		}
		res, err := h.engine.Run(c.Request.Context(), state, opts)
		if err != nil {
			if ctxErr := c.Request.Context().Err(); ctxErr != nil {
				return
			}
			log.Warn().Err(err).Str("variation", v.Name).Msg("skipping variation")
			skipped = append(skipped, v.Name)
			continue
		}
		byName[v.Name] = res.Points
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		Comparison: analysis.RankScenarios(byName),
		Skipped:    skipped,
	})
}

func buildForecastResponse(res *forecast.Result, includePoints bool) models.ForecastResponse {
	out := models.ForecastResponse{
		ID:      res.ID,
		Status:  "completed",
		Summary: analysis.Summarize(res.Points),
	}
	if includePoints {
		out.Points = res.Points
	}
	return out
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func notFound(id string) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "no stored forecast with this id",
			Details: map[string]interface{}{"id": id},
		},
	}
}
