package breakeven

import (
	"profit-forecast/internal/costmodel"
	"profit-forecast/internal/model"
)

// Every specialization holds the snapshot fixed except for the lever under
// test, and uses the supplied lead count for the lead-driven cost terms.

// Options selects a search variant. The zero value runs the plain overshoot
// rule for every lever, which is what charts are built with.
type Options struct {
	// SlopeAware orients the overshoot test by each lever's profit slope:
	// CPL is decreasing, the rates are probed with one RateStep forward
	// difference at the seed. A zero seed also starts with a unit step.
	SlopeAware bool
}

func (o Options) slope(s Slope) Slope {
	if o.SlopeAware {
		return s
	}
	return Increasing
}

func (o Options) seedStep(seed float64) float64 {
	step := seed * SeedStepFactor
	if step == 0 && o.SlopeAware {
		return 1
	}
	return step
}

// Price searches the selling price, starting from the purchase price.
// COD fees are recomputed with each trial price.
func (o Options) Price(m model.ProfitMetrics, leads float64) Result {
	return Solve(Problem{
		Profit: func(x float64) float64 {
			t := m
			t.SellingPrice = x
			return costmodel.ProfitWithLeads(t, leads)
		},
		Seed:   m.PurchasePrice,
		Step:   o.seedStep(m.PurchasePrice),
		Slope:  Increasing,
		Domain: NonNegative,
	})
}

// CPL searches the advertising cost per lead, starting from the base CPL.
func (o Options) CPL(m model.ProfitMetrics, leads float64) Result {
	return Solve(Problem{
		Profit: func(x float64) float64 {
			t := m
			t.BaseCPL = x
			return costmodel.ProfitWithLeads(t, leads)
		},
		Seed:   m.BaseCPL,
		Step:   o.seedStep(m.BaseCPL),
		Slope:  o.slope(Decreasing),
		Domain: NonNegative,
	})
}

// Stock searches the available stock, starting from the current stock.
// Stock costs and call-center costs move with the trial stock.
func (o Options) Stock(m model.ProfitMetrics, leads float64) Result {
	return Solve(Problem{
		Profit: func(x float64) float64 {
			t := m
			t.AvailableStock = x
			return costmodel.ProfitWithLeads(t, leads)
		},
		Seed:   m.AvailableStock,
		Step:   o.seedStep(m.AvailableStock),
		Slope:  Increasing,
		Domain: NonNegative,
	})
}

// Rate searches one funnel rate while the other is held. confirmation selects
// the confirmation rate; otherwise the delivery rate is searched.
func (o Options) Rate(m model.ProfitMetrics, leads float64, confirmation bool) Result {
	profit := func(x float64) float64 {
		t := m
		if confirmation {
			t.BaseConfirmationRate = x
		} else {
			t.BaseDeliveryRate = x
		}
		return costmodel.ProfitWithLeads(t, leads)
	}
	seed := m.BaseDeliveryRate
	if confirmation {
		seed = m.BaseConfirmationRate
	}
	// Profit is not monotonic in either rate.
	slope := Increasing
	if o.SlopeAware && profit(seed+RateStep) < profit(seed) {
		slope = Decreasing
	}
	return Solve(Problem{
		Profit: profit,
		Seed:   seed,
		Step:   RateStep,
		Slope:  slope,
		Domain: Percent,
	})
}

// ForLever dispatches to the specialization for l.
func (o Options) ForLever(l model.Lever, m model.ProfitMetrics, leads float64) Result {
	switch l {
	case model.LeverPrice:
		return o.Price(m, leads)
	case model.LeverCPL:
		return o.CPL(m, leads)
	case model.LeverStock:
		return o.Stock(m, leads)
	case model.LeverConfirmation:
		return o.Rate(m, leads, true)
	case model.LeverDelivery:
		return o.Rate(m, leads, false)
	}
	return Result{}
}

// Price runs the plain price search.
func Price(m model.ProfitMetrics, leads float64) Result { return Options{}.Price(m, leads) }

// CPL runs the plain CPL search.
func CPL(m model.ProfitMetrics, leads float64) Result { return Options{}.CPL(m, leads) }

// Stock runs the plain stock search.
func Stock(m model.ProfitMetrics, leads float64) Result { return Options{}.Stock(m, leads) }

// Rate runs the plain funnel-rate search.
func Rate(m model.ProfitMetrics, leads float64, confirmation bool) Result {
	return Options{}.Rate(m, leads, confirmation)
}

// ForLever runs the plain search for l.
func ForLever(l model.Lever, m model.ProfitMetrics, leads float64) Result {
	return Options{}.ForLever(l, m, leads)
}
