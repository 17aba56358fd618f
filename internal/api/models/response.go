package models

import (
	"profit-forecast/internal/analysis"
	"profit-forecast/internal/breakeven"
	"profit-forecast/internal/model"
)

// ForecastResponse represents the response from a forecast run
type ForecastResponse struct {
	ID      string                 `json:"id,omitempty"`
	Status  string                 `json:"status"`
	Summary analysis.SeriesSummary `json:"summary"`
	Points  []model.ChartDataPoint `json:"points,omitempty"`
}

// CompareResponse represents the ranked outcome of a comparison
type CompareResponse struct {
	Comparison []analysis.RankedScenario `json:"comparison"`
	// Skipped names variations whose merged metrics failed validation
	Skipped []string `json:"skipped,omitempty"`
}

// BreakEvenResponse represents the response from a single search
type BreakEvenResponse struct {
	Lever    string              `json:"lever"`
	Day      int                 `json:"day"`
	Snapshot model.ProfitMetrics `json:"snapshot"`
	Result   breakeven.Result    `json:"result"`
}

// ProductInfo represents a product preset on disk
type ProductInfo struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	File    string              `json:"file"`
	Metrics model.ProfitMetrics `json:"metrics"`
}

// LeverInfo describes one lever of the cost model
type LeverInfo struct {
	Name        string `json:"name"`
	Field       string `json:"field"`
	Overrides   string `json:"overrides"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
