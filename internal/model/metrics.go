package model

import (
	"errors"
	"fmt"
	"math"
)

// ProfitMetrics is the baseline unit-economics snapshot of a product.
// Units:
// - AvailableStock: units
// - SellingPrice, PurchasePrice, BaseCPL: currency
// - BaseConfirmationRate, BaseDeliveryRate: percent 0..100 (never fractions)
type ProfitMetrics struct {
	AvailableStock       float64 `json:"availableStock" yaml:"available_stock"`
	SellingPrice         float64 `json:"sellingPrice" yaml:"selling_price"`
	PurchasePrice        float64 `json:"purchasePrice" yaml:"purchase_price"`
	BaseCPL              float64 `json:"baseCPL" yaml:"base_cpl"`
	BaseConfirmationRate float64 `json:"baseConfirmationRate" yaml:"base_confirmation_rate"`
	BaseDeliveryRate     float64 `json:"baseDeliveryRate" yaml:"base_delivery_rate"`
}

func (m ProfitMetrics) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"availableStock", m.AvailableStock},
		{"sellingPrice", m.SellingPrice},
		{"purchasePrice", m.PurchasePrice},
		{"baseCPL", m.BaseCPL},
		{"baseConfirmationRate", m.BaseConfirmationRate},
		{"baseDeliveryRate", m.BaseDeliveryRate},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite", f.name)
		}
		if f.v < 0 {
			return fmt.Errorf("%s must be >= 0", f.name)
		}
	}
	if m.BaseConfirmationRate > 100 {
		return errors.New("baseConfirmationRate must be in [0, 100]")
	}
	if m.BaseDeliveryRate > 100 {
		return errors.New("baseDeliveryRate must be in [0, 100]")
	}
	return nil
}

// RateChange schedules a lever value active from Day onward until a later
// change supersedes it.
type RateChange struct {
	Day   int     `json:"day" yaml:"day"`
	Value float64 `json:"value" yaml:"value"`
}

// MetricsState is the full input of a forecast: the baseline, one override list
// per lever, and an externally computed profit snapshot.
//
// Leads, Profit, CallCenterCost and TotalExpenses are broadcast unchanged to
// every projected day unless the forecast recomputes them per day.
// AdvertisingCost is the CPL the caller is currently paying; it is carried
// through for the caller and does not enter any computation.
type MetricsState struct {
	ProfitMetrics

	AdvertisingChanges  []RateChange `json:"advertisingChanges"`
	ConfirmationChanges []RateChange `json:"confirmationChanges"`
	DeliveryChanges     []RateChange `json:"deliveryChanges"`
	PriceChanges        []RateChange `json:"priceChanges"`
	StockChanges        []RateChange `json:"stockChanges"`

	Leads           float64 `json:"leads"`
	Profit          float64 `json:"profit"`
	CallCenterCost  float64 `json:"callCenterCost"`
	TotalExpenses   float64 `json:"totalExpenses"`
	AdvertisingCost float64 `json:"advertisingCost"`
}

func (s MetricsState) Validate() error {
	if err := s.ProfitMetrics.Validate(); err != nil {
		return err
	}
	for _, l := range Levers {
		for i, c := range s.Changes(l) {
			if c.Day < 0 {
				return fmt.Errorf("%s change %d: day must be >= 0", l, i)
			}
			if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
				return fmt.Errorf("%s change %d: value must be finite", l, i)
			}
			if c.Value < 0 {
				return fmt.Errorf("%s change %d: value must be >= 0", l, i)
			}
			if l.IsRate() && c.Value > 100 {
				return fmt.Errorf("%s change %d: value must be in [0, 100]", l, i)
			}
		}
	}
	snapshot := []struct {
		name string
		v    float64
	}{
		{"leads", s.Leads},
		{"profit", s.Profit},
		{"callCenterCost", s.CallCenterCost},
		{"totalExpenses", s.TotalExpenses},
		{"advertisingCost", s.AdvertisingCost},
	}
	for _, f := range snapshot {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite", f.name)
		}
	}
	return nil
}

// Changes returns the override list that drives a lever.
func (s MetricsState) Changes(l Lever) []RateChange {
	switch l {
	case LeverCPL:
		return s.AdvertisingChanges
	case LeverConfirmation:
		return s.ConfirmationChanges
	case LeverDelivery:
		return s.DeliveryChanges
	case LeverPrice:
		return s.PriceChanges
	case LeverStock:
		return s.StockChanges
	}
	return nil
}

// SetChanges replaces the override list that drives a lever.
func (s *MetricsState) SetChanges(l Lever, changes []RateChange) {
	switch l {
	case LeverCPL:
		s.AdvertisingChanges = changes
	case LeverConfirmation:
		s.ConfirmationChanges = changes
	case LeverDelivery:
		s.DeliveryChanges = changes
	case LeverPrice:
		s.PriceChanges = changes
	case LeverStock:
		s.StockChanges = changes
	}
}
