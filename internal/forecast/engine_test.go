package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"testing"

	"profit-forecast/internal/breakeven"
	"profit-forecast/internal/costmodel"
	"profit-forecast/internal/metrics"
	"profit-forecast/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario() model.MetricsState {
	return model.MetricsState{
		ProfitMetrics: model.ProfitMetrics{
			AvailableStock:       100,
			SellingPrice:         50,
			PurchasePrice:        20,
			BaseCPL:              2,
			BaseConfirmationRate: 60,
			BaseDeliveryRate:     70,
		},
		Leads:           238,
		Profit:          1000,
		CallCenterCost:  0,
		TotalExpenses:   0,
		AdvertisingCost: 2,
	}
}

func TestGenerateChartData_SingleDay(t *testing.T) {
	points, err := GenerateChartData(scenario(), 0)
	require.NoError(t, err)
	require.Len(t, points, 1)

	p := points[0]
	assert.Equal(t, 0, p.Day)
	assert.Equal(t, 100.0, p.AvailableStock)
	assert.Equal(t, 50.0, p.SellingPrice)
	assert.Equal(t, 2.0, p.AdvertisingCost)
	assert.Equal(t, 60.0, p.ConfirmationRate)
	assert.Equal(t, 70.0, p.DeliveryRate)
	assert.Equal(t, 238.0, p.ExpectedLeads)
	assert.Equal(t, 1000.0, p.Profit)

	assert.InDelta(t, 53.28125, p.BreakEvenStock, 1e-9)
	assert.InDelta(t, 37.53125, p.BreakEvenPrice, 1e-9)
	assert.Equal(t, 0.0, p.BreakEvenCPL)
	require.NotNil(t, p.BreakEvenConfirmationRate)
	require.NotNil(t, p.BreakEvenDeliveryRate)
	assert.InDelta(t, 10.0, *p.BreakEvenConfirmationRate, 1e-9)
	assert.InDelta(t, 20.0, *p.BreakEvenDeliveryRate, 1e-9)
	assert.Equal(t, []model.Lever{model.LeverCPL, model.LeverConfirmation, model.LeverDelivery}, p.NonConverged)
	assert.False(t, p.Degenerate)
}

func TestGenerateChartData_RootProperty(t *testing.T) {
	points, err := GenerateChartData(scenario(), 0)
	require.NoError(t, err)
	p := points[0]
	m := scenario().ProfitMetrics

	withPrice := m
	withPrice.SellingPrice = p.BreakEvenPrice
	assert.Less(t, math.Abs(costmodel.ProfitWithLeads(withPrice, 238)), breakeven.Tolerance)

	withStock := m
	withStock.AvailableStock = p.BreakEvenStock
	assert.Less(t, math.Abs(costmodel.ProfitWithLeads(withStock, 238)), breakeven.Tolerance)
}

func TestRun_SlopeAware(t *testing.T) {
	res, err := New().Run(context.Background(), scenario(), Options{Days: 0, SlopeAware: true})
	require.NoError(t, err)
	assert.True(t, res.SlopeAware)

	p := res.Points[0]
	assert.InDelta(t, 53.28125, p.BreakEvenStock, 1e-9)
	assert.InDelta(t, 37.53125, p.BreakEvenPrice, 1e-9)
	assert.InDelta(t, 6.98125, p.BreakEvenCPL, 1e-9)
	assert.Equal(t, 100.0, *p.BreakEvenConfirmationRate)
	assert.Equal(t, 100.0, *p.BreakEvenDeliveryRate)
	assert.Equal(t, []model.Lever{model.LeverConfirmation, model.LeverDelivery}, p.NonConverged)

	withCPL := scenario().ProfitMetrics
	withCPL.BaseCPL = p.BreakEvenCPL
	assert.Less(t, math.Abs(costmodel.ProfitWithLeads(withCPL, 238)), breakeven.Tolerance)
}

func TestGenerateChartData_DefaultRange(t *testing.T) {
	points, err := GenerateChartData(scenario(), DefaultDays)
	require.NoError(t, err)
	require.Len(t, points, 181)
	for i, p := range points {
		assert.Equal(t, i, p.Day)
	}
}

func TestRun_ResolvesOverridesAndBroadcastsSnapshot(t *testing.T) {
	s := scenario()
	s.PriceChanges = []model.RateChange{{Day: 15, Value: 40}, {Day: 30, Value: 55}}
	s.AdvertisingChanges = []model.RateChange{{Day: 10, Value: 3}}
	s.StockChanges = []model.RateChange{{Day: 5, Value: 80}}
	s.ConfirmationChanges = []model.RateChange{{Day: 20, Value: 65}}
	s.DeliveryChanges = []model.RateChange{{Day: 25, Value: 75}}

	res, err := New().Run(context.Background(), s, Options{Days: 40})
	require.NoError(t, err)
	pts := res.Points

	assert.Equal(t, 50.0, pts[14].SellingPrice)
	assert.Equal(t, 40.0, pts[20].SellingPrice)
	assert.Equal(t, 55.0, pts[30].SellingPrice)
	assert.Equal(t, 2.0, pts[9].AdvertisingCost)
	assert.Equal(t, 3.0, pts[10].AdvertisingCost)
	assert.Equal(t, 100.0, pts[4].AvailableStock)
	assert.Equal(t, 80.0, pts[5].AvailableStock)
	assert.Equal(t, 65.0, pts[20].ConfirmationRate)
	assert.Equal(t, 75.0, pts[40].DeliveryRate)

	for _, p := range pts {
		assert.Equal(t, 238.0, p.ExpectedLeads)
		assert.Equal(t, 1000.0, p.Profit)
		assert.Equal(t, 0.0, p.CallCenterCost)
		assert.Equal(t, 0.0, p.TotalExpenses)
	}

	// Break-even values follow the resolved day.
	assert.NotEqual(t, pts[0].BreakEvenPrice, pts[5].BreakEvenPrice)
	assert.Equal(t, breakeven.Price(Snapshot(s, 12), 238).Value, pts[12].BreakEvenPrice)
}

func TestRun_RecomputePerDay(t *testing.T) {
	s := scenario()
	s.StockChanges = []model.RateChange{{Day: 3, Value: 200}}

	res, err := New().Run(context.Background(), s, Options{Days: 5, RecomputePerDay: true})
	require.NoError(t, err)

	for _, p := range res.Points {
		m := Snapshot(s, p.Day)
		b := costmodel.Evaluate(m)
		assert.InDelta(t, b.Leads, p.ExpectedLeads, 1e-9)
		assert.InDelta(t, b.Profit, p.Profit, 1e-9)
		assert.InDelta(t, b.CallCenter, p.CallCenterCost, 1e-9)
		assert.InDelta(t, b.TotalCosts, p.TotalExpenses, 1e-9)
		assert.Equal(t, breakeven.Price(m, b.Leads).Value, p.BreakEvenPrice)
	}
	assert.InDelta(t, 2*res.Points[0].ExpectedLeads, res.Points[3].ExpectedLeads, 1e-9)
}

func TestRun_DegenerateDay(t *testing.T) {
	s := scenario()
	s.DeliveryChanges = []model.RateChange{{Day: 2, Value: 0}, {Day: 4, Value: 70}}

	res, err := New().Run(context.Background(), s, Options{Days: 5, RecomputePerDay: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.DegenerateDays)

	for _, day := range []int{2, 3} {
		p := res.Points[day]
		assert.True(t, p.Degenerate)
		assert.Equal(t, 0.0, p.BreakEvenPrice)
		assert.Equal(t, 0.0, p.BreakEvenCPL)
		assert.Equal(t, 0.0, p.BreakEvenStock)
		assert.Nil(t, p.BreakEvenConfirmationRate)
		assert.Nil(t, p.BreakEvenDeliveryRate)
		assert.Equal(t, 0.0, p.ExpectedLeads)
		assert.False(t, math.IsNaN(p.Profit))
	}
	assert.False(t, res.Points[4].Degenerate)
}

func TestRun_Idempotent(t *testing.T) {
	s := scenario()
	s.PriceChanges = []model.RateChange{{Day: 7, Value: 45}}

	a, err := GenerateChartData(s, 30)
	require.NoError(t, err)
	b, err := GenerateChartData(s, 30)
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(ja, jb))
}

func TestRun_WorkersMatchSequential(t *testing.T) {
	s := scenario()
	s.PriceChanges = []model.RateChange{{Day: 10, Value: 35}, {Day: 50, Value: 60}}
	s.ConfirmationChanges = []model.RateChange{{Day: 20, Value: 45}}

	seq, err := New().Run(context.Background(), s, Options{Days: 90})
	require.NoError(t, err)
	par, err := New().Run(context.Background(), s, Options{Days: 90, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestRun_Errors(t *testing.T) {
	_, err := New().Run(context.Background(), scenario(), Options{Days: -1})
	assert.Error(t, err)

	bad := scenario()
	bad.BaseDeliveryRate = 150
	_, err = New().Run(context.Background(), bad, Options{Days: 3})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().Run(ctx, scenario(), Options{Days: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBreakEven(t *testing.T) {
	e := New()
	res, err := e.BreakEven(scenario(), 0, model.LeverPrice, 0, breakeven.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 37.53125, res.Value, 1e-9)

	res, err = e.BreakEven(scenario(), 0, model.LeverCPL, 0, breakeven.Options{})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	res, err = e.BreakEven(scenario(), 0, model.LeverCPL, 0, breakeven.Options{SlopeAware: true})
	require.NoError(t, err)
	assert.InDelta(t, 6.98125, res.Value, 1e-9)

	s := scenario()
	s.ConfirmationChanges = []model.RateChange{{Day: 1, Value: 0}}
	_, err = e.BreakEven(s, 1, model.LeverPrice, 0, breakeven.Options{})
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestRun_ReportsMetrics(t *testing.T) {
	c := metrics.New()
	e := New().WithMetrics(c)

	_, err := e.Run(context.Background(), scenario(), Options{Days: 2})
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.ForecastDays))
	// CPL and the funnel rates never converge for this product.
	assert.Equal(t, 3.0, testutil.ToFloat64(c.SolverNonConverged.WithLabelValues("cpl")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.SolverNonConverged.WithLabelValues("confirmation")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.SolverNonConverged.WithLabelValues("delivery")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.SolverNonConverged.WithLabelValues("price")))
}
