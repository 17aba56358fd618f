package model

// ChartDataPoint is one projected day of a forecast.
//
// ExpectedLeads, Profit, CallCenterCost and TotalExpenses are the broadcast
// snapshot from MetricsState unless the forecast recomputes them per day.
// AdvertisingCost is the CPL in effect on Day.
type ChartDataPoint struct {
	Day int `json:"day"`

	AvailableStock   float64 `json:"availableStock"`
	SellingPrice     float64 `json:"sellingPrice"`
	AdvertisingCost  float64 `json:"advertisingCost"`
	ConfirmationRate float64 `json:"confirmationRate"`
	DeliveryRate     float64 `json:"deliveryRate"`

	ExpectedLeads  float64 `json:"expectedLeads"`
	Profit         float64 `json:"profit"`
	CallCenterCost float64 `json:"callCenterCost"`
	TotalExpenses  float64 `json:"totalExpenses"`

	BreakEvenStock            float64  `json:"breakEvenStock"`
	BreakEvenPrice            float64  `json:"breakEvenPrice"`
	BreakEvenCPL              float64  `json:"breakEvenCPL"`
	BreakEvenConfirmationRate *float64 `json:"breakEvenConfirmationRate,omitempty"`
	BreakEvenDeliveryRate     *float64 `json:"breakEvenDeliveryRate,omitempty"`

	// Degenerate is set when a funnel rate resolves to 0 on this day; the
	// solvers are skipped and every break-even field is left at its zero value.
	Degenerate bool `json:"degenerate,omitempty"`
	// NonConverged lists the levers whose search hit the iteration cap.
	NonConverged []Lever `json:"nonConverged,omitempty"`
}
