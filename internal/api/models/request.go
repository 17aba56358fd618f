package models

import (
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/model"
	"profit-forecast/internal/timeline"
)

// ForecastRequest represents the request body for running a forecast
type ForecastRequest struct {
	Metrics model.MetricsState `json:"metrics"`
	Options ForecastOptions    `json:"options,omitempty"`
	// Save keeps the result so it can be fetched with GET /forecast/:id
	Save bool `json:"save,omitempty"`
}

// ForecastOptions mirrors forecast.Options; days defaults to 180
type ForecastOptions struct {
	Days            *int  `json:"days,omitempty"`
	RecomputePerDay bool  `json:"recompute_per_day,omitempty"`
	SlopeAware      bool  `json:"slope_aware,omitempty"`
	Workers         int   `json:"workers,omitempty"`
	IncludePoints   *bool `json:"include_points,omitempty"` // default: true
}

// ToEngine converts to engine options, applying defaults
func (o ForecastOptions) ToEngine() forecast.Options {
	days := forecast.DefaultDays
	if o.Days != nil {
		days = *o.Days
	}
	return forecast.Options{
		Days:            days,
		RecomputePerDay: o.RecomputePerDay,
		SlopeAware:      o.SlopeAware,
		Workers:         o.Workers,
	}
}

// WantPoints reports whether the per-day points should be returned
func (o ForecastOptions) WantPoints() bool {
	return o.IncludePoints == nil || *o.IncludePoints
}

// CompareRequest represents a request to compare override variations of one product
type CompareRequest struct {
	Base       model.MetricsState `json:"base"`
	Options    ForecastOptions    `json:"options,omitempty"`
	Variations []Variation        `json:"variations" binding:"required,min=1,dive"`
}

// Variation replaces the base override lists it sets. Nil lists keep the base schedule.
// Add and Clear then edit the merged schedule one change at a time
type Variation struct {
	Name                string             `json:"name" binding:"required"`
	AdvertisingChanges  []model.RateChange `json:"advertisingChanges,omitempty"`
	ConfirmationChanges []model.RateChange `json:"confirmationChanges,omitempty"`
	DeliveryChanges     []model.RateChange `json:"deliveryChanges,omitempty"`
	PriceChanges        []model.RateChange `json:"priceChanges,omitempty"`
	StockChanges        []model.RateChange `json:"stockChanges,omitempty"`
	Add                 []LeverChange      `json:"add,omitempty"`
	Clear               []LeverDay         `json:"clear,omitempty"`
}

// LeverChange schedules value for lever from day onward
type LeverChange struct {
	Lever string  `json:"lever"`
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// LeverDay drops every change of lever on day
type LeverDay struct {
	Lever string `json:"lever"`
	Day   int    `json:"day"`
}

// Apply returns base with the variation's schedule merged in, each override
// list sorted by day. Clear runs before Add
func (v Variation) Apply(base model.MetricsState) (model.MetricsState, error) {
	out := base
	if v.AdvertisingChanges != nil {
		out.AdvertisingChanges = v.AdvertisingChanges
	}
	if v.ConfirmationChanges != nil {
		out.ConfirmationChanges = v.ConfirmationChanges
	}
	if v.DeliveryChanges != nil {
		out.DeliveryChanges = v.DeliveryChanges
	}
	if v.PriceChanges != nil {
		out.PriceChanges = v.PriceChanges
	}
	if v.StockChanges != nil {
		out.StockChanges = v.StockChanges
	}
	out = timeline.Normalize(out)

	for _, c := range v.Clear {
		l, err := model.ParseLever(c.Lever)
		if err != nil {
			return model.MetricsState{}, err
		}
		out = timeline.Clear(out, l, c.Day)
	}
	for _, c := range v.Add {
		l, err := model.ParseLever(c.Lever)
		if err != nil {
			return model.MetricsState{}, err
		}
		out = timeline.Schedule(out, l, model.RateChange{Day: c.Day, Value: c.Value})
	}
	return out, nil
}

// BreakEvenRequest represents a single break-even search
type BreakEvenRequest struct {
	Metrics model.MetricsState `json:"metrics"`
	Lever   string             `json:"lever" binding:"required"`
	Day     int                `json:"day,omitempty"`
	// Leads overrides the broadcast leads; 0 uses metrics.leads
	Leads float64 `json:"leads,omitempty"`
	// SlopeAware searches against the lever's own profit slope
	SlopeAware bool `json:"slope_aware,omitempty"`
}
