package breakeven

import (
	"math"
	"testing"

	"profit-forecast/internal/costmodel"
	"profit-forecast/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseline() model.ProfitMetrics {
	return model.ProfitMetrics{
		AvailableStock:       100,
		SellingPrice:         50,
		PurchasePrice:        20,
		BaseCPL:              2,
		BaseConfirmationRate: 60,
		BaseDeliveryRate:     70,
	}
}

// rootProfit substitutes the solved value back into the pipeline.
func rootProfit(l model.Lever, m model.ProfitMetrics, leads, v float64) float64 {
	switch l {
	case model.LeverPrice:
		m.SellingPrice = v
	case model.LeverCPL:
		m.BaseCPL = v
	case model.LeverStock:
		m.AvailableStock = v
	case model.LeverConfirmation:
		m.BaseConfirmationRate = v
	case model.LeverDelivery:
		m.BaseDeliveryRate = v
	}
	return costmodel.ProfitWithLeads(m, leads)
}

func TestLevers_ReferenceRun(t *testing.T) {
	m := baseline()
	leads := 238.0

	tests := []struct {
		lever      model.Lever
		want       float64
		iterations int
		converged  bool
	}{
		{model.LeverStock, 53.28125, 19, true},
		{model.LeverPrice, 37.53125, 18, true},
		// Profit falls as CPL rises, so the plain rule walks away from the
		// root and the result is clamped at 0.
		{model.LeverCPL, 0, MaxIterations, false},
		{model.LeverConfirmation, 10, MaxIterations, false},
		{model.LeverDelivery, 20, MaxIterations, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.lever), func(t *testing.T) {
			res := ForLever(tt.lever, m, leads)
			assert.InDelta(t, tt.want, res.Value, 1e-9)
			assert.Equal(t, tt.iterations, res.Iterations)
			assert.Equal(t, tt.converged, res.Converged)
			if tt.converged {
				assert.Less(t, math.Abs(rootProfit(tt.lever, m, leads, res.Value)), Tolerance)
			}
		})
	}
}

func TestLevers_SlopeAwareReferenceRun(t *testing.T) {
	m := baseline()
	leads := 238.0
	aware := Options{SlopeAware: true}

	tests := []struct {
		lever      model.Lever
		want       float64
		iterations int
		converged  bool
	}{
		{model.LeverStock, 53.28125, 19, true},
		{model.LeverPrice, 37.53125, 18, true},
		{model.LeverCPL, 6.98125, 31, true},
		// Revenue does not depend on the funnel rates, so a profitable
		// product has no rate root; the search ends clamped at 100.
		{model.LeverConfirmation, 100, 90, false},
		{model.LeverDelivery, 100, MaxIterations, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.lever), func(t *testing.T) {
			res := aware.ForLever(tt.lever, m, leads)
			assert.InDelta(t, tt.want, res.Value, 1e-9)
			assert.Equal(t, tt.iterations, res.Iterations)
			assert.Equal(t, tt.converged, res.Converged)
			if tt.converged {
				assert.Less(t, math.Abs(rootProfit(tt.lever, m, leads, res.Value)), Tolerance)
			}
		})
	}
}

func TestLevers_RateRoot(t *testing.T) {
	m := model.ProfitMetrics{
		AvailableStock:       100,
		SellingPrice:         40,
		PurchasePrice:        20,
		BaseCPL:              1,
		BaseConfirmationRate: 40,
		BaseDeliveryRate:     50,
	}
	leads := 300.0

	conf := Rate(m, leads, true)
	require.True(t, conf.Converged)
	assert.InDelta(t, 8.53125, conf.Value, 1e-9)
	assert.Equal(t, 68, conf.Iterations)
	assert.Less(t, math.Abs(rootProfit(model.LeverConfirmation, m, leads, conf.Value)), Tolerance)

	del := Rate(m, leads, false)
	require.True(t, del.Converged)
	assert.InDelta(t, 21.6875, del.Value, 1e-9)
	assert.Less(t, math.Abs(rootProfit(model.LeverDelivery, m, leads, del.Value)), Tolerance)

	// Profit is not monotonic in the confirmation rate; the oriented search
	// lands on the other crossing.
	aware := Options{SlopeAware: true}.Rate(m, leads, true)
	require.True(t, aware.Converged)
	assert.InDelta(t, 78.25, aware.Value, 1e-9)
	assert.Less(t, math.Abs(rootProfit(model.LeverConfirmation, m, leads, aware.Value)), Tolerance)
}

func TestCPL_NegativeRoot(t *testing.T) {
	m := baseline()
	m.SellingPrice = 30
	m.BaseCPL = 1
	m.BaseConfirmationRate = 40
	m.BaseDeliveryRate = 60

	plain := CPL(m, 300)
	assert.False(t, plain.Converged)
	assert.Equal(t, MaxIterations, plain.Iterations)
	assert.InDelta(t, 11.0, plain.Value, 1e-9)

	aware := Options{SlopeAware: true}.CPL(m, 300)
	assert.False(t, aware.Converged)
	assert.Equal(t, 0.0, aware.Value)
}

func TestPrice_ZeroPurchasePrice(t *testing.T) {
	m := baseline()
	m.PurchasePrice = 0

	// A zero seed gives a zero step, so the plain search never moves.
	plain := Price(m, 238)
	assert.False(t, plain.Converged)
	assert.Equal(t, MaxIterations, plain.Iterations)
	assert.Equal(t, 0.0, plain.Value)

	aware := Options{SlopeAware: true}.Price(m, 238)
	require.True(t, aware.Converged)
	assert.InDelta(t, 16.46875, aware.Value, 1e-9)
	assert.Equal(t, 25, aware.Iterations)
}

func TestForLever_Unknown(t *testing.T) {
	assert.Equal(t, Result{}, ForLever(model.Lever("margin"), baseline(), 238))
	assert.Equal(t, Result{}, Options{SlopeAware: true}.ForLever(model.Lever("margin"), baseline(), 238))
}
