package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profit-forecast/internal/breakeven"
	"profit-forecast/internal/costmodel"
	"profit-forecast/internal/metrics"
	"profit-forecast/internal/model"
	"profit-forecast/internal/timeline"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultDays = 180

// Options controls one forecast run.
type Options struct {
	// Days is the last projected day; points are produced for [0, Days].
	Days int `json:"days" yaml:"days"`
	// RecomputePerDay derives leads, profit, call-center cost and total
	// expenses from each day's resolved snapshot instead of broadcasting the
	// caller's snapshot, and feeds those leads to the break-even searches.
	RecomputePerDay bool `json:"recomputePerDay" yaml:"recompute_per_day"`
	// Workers > 1 computes days concurrently. Output order is unaffected.
	Workers int `json:"workers" yaml:"workers"`
	// SlopeAware runs the break-even searches with breakeven.Options.SlopeAware,
	// so CPL and the funnel rates are searched against their own profit slope.
	SlopeAware bool `json:"slopeAware" yaml:"slope_aware"`
}

func (o Options) search() breakeven.Options {
	return breakeven.Options{SlopeAware: o.SlopeAware}
}

// Result is the output of one forecast run.
type Result struct {
	ID              string                 `json:"id,omitempty"`
	Days            int                    `json:"days"`
	RecomputePerDay bool                   `json:"recomputePerDay"`
	SlopeAware      bool                   `json:"slopeAware"`
	Points          []model.ChartDataPoint `json:"points"`
	// NonConverged counts solver runs that hit the iteration cap.
	NonConverged int `json:"nonConverged"`
	// DegenerateDays counts days with a zero funnel rate.
	DegenerateDays int `json:"degenerateDays"`
}

type Engine struct {
	metrics *metrics.Collectors
}

func New() *Engine { return &Engine{} }

// WithMetrics returns an engine that reports solver and run metrics to c.
func (e *Engine) WithMetrics(c *metrics.Collectors) *Engine {
	return &Engine{metrics: c}
}

// Run projects the state over [0, opts.Days] and returns one point per day.
func (e *Engine) Run(ctx context.Context, state model.MetricsState, opts Options) (*Result, error) {
	if opts.Days < 0 {
		return nil, fmt.Errorf("days must be >= 0, got %d", opts.Days)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metrics: %w", err)
	}
	start := time.Now()

	points := make([]model.ChartDataPoint, opts.Days+1)
	if opts.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for day := 0; day <= opts.Days; day++ {
			day := day
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				points[day] = e.point(state, day, opts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for day := 0; day <= opts.Days; day++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			points[day] = e.point(state, day, opts)
		}
	}

	res := &Result{
		Days:            opts.Days,
		RecomputePerDay: opts.RecomputePerDay,
		SlopeAware:      opts.SlopeAware,
		Points:          points,
	}
	for _, p := range points {
		res.NonConverged += len(p.NonConverged)
		if p.Degenerate {
			res.DegenerateDays++
		}
	}

	elapsed := time.Since(start)
	e.metrics.ObserveForecast(len(points), elapsed)
	log.Debug().
		Int("days", opts.Days).
		Bool("recompute", opts.RecomputePerDay).
		Bool("slope_aware", opts.SlopeAware).
		Int("workers", opts.Workers).
		Int("non_converged", res.NonConverged).
		Int("degenerate_days", res.DegenerateDays).
		Dur("elapsed", elapsed).
		Msg("forecast complete")
	return res, nil
}

// GenerateChartData projects the state over [0, days] with broadcast
// snapshot values and returns the points in day order.
func GenerateChartData(state model.MetricsState, days int) ([]model.ChartDataPoint, error) {
	res, err := New().Run(context.Background(), state, Options{Days: days})
	if err != nil {
		return nil, err
	}
	return res.Points, nil
}

// Snapshot resolves every lever on day and returns the resulting metrics.
func Snapshot(state model.MetricsState, day int) model.ProfitMetrics {
	return model.ProfitMetrics{
		AvailableStock:       timeline.ValueAtDay(state.StockChanges, day, state.AvailableStock),
		SellingPrice:         timeline.ValueAtDay(state.PriceChanges, day, state.SellingPrice),
		PurchasePrice:        state.PurchasePrice,
		BaseCPL:              timeline.ValueAtDay(state.AdvertisingChanges, day, state.BaseCPL),
		BaseConfirmationRate: timeline.ValueAtDay(state.ConfirmationChanges, day, state.BaseConfirmationRate),
		BaseDeliveryRate:     timeline.ValueAtDay(state.DeliveryChanges, day, state.BaseDeliveryRate),
	}
}

// ErrDegenerate is returned by BreakEven when a funnel rate is 0.
var ErrDegenerate = errors.New("confirmation or delivery rate is 0")

// BreakEven resolves the state on day and searches one lever. leads <= 0
// falls back to the state's broadcast leads.
func (e *Engine) BreakEven(state model.MetricsState, day int, lever model.Lever, leads float64, search breakeven.Options) (breakeven.Result, error) {
	if err := state.Validate(); err != nil {
		return breakeven.Result{}, fmt.Errorf("invalid metrics: %w", err)
	}
	m := Snapshot(state, day)
	if isDegenerate(m) {
		return breakeven.Result{}, ErrDegenerate
	}
	if leads <= 0 {
		leads = state.Leads
	}
	r := search.ForLever(lever, m, leads)
	e.metrics.ObserveSolve(string(lever), r.Iterations, r.Converged)
	return r, nil
}

func (e *Engine) point(state model.MetricsState, day int, opts Options) model.ChartDataPoint {
	m := Snapshot(state, day)
	p := model.ChartDataPoint{
		Day:              day,
		AvailableStock:   m.AvailableStock,
		SellingPrice:     m.SellingPrice,
		AdvertisingCost:  m.BaseCPL,
		ConfirmationRate: m.BaseConfirmationRate,
		DeliveryRate:     m.BaseDeliveryRate,
		ExpectedLeads:    state.Leads,
		Profit:           state.Profit,
		CallCenterCost:   state.CallCenterCost,
		TotalExpenses:    state.TotalExpenses,
	}
	leads := state.Leads
	if opts.RecomputePerDay {
		b := costmodel.Evaluate(m)
		p.ExpectedLeads = b.Leads
		p.Profit = b.Profit
		p.CallCenterCost = b.CallCenter
		p.TotalExpenses = b.TotalCosts
		leads = b.Leads
	}
	if isDegenerate(m) {
		p.Degenerate = true
		return p
	}

	search := opts.search()
	for _, lever := range model.Levers {
		r := search.ForLever(lever, m, leads)
		e.metrics.ObserveSolve(string(lever), r.Iterations, r.Converged)
		if !r.Converged {
			p.NonConverged = append(p.NonConverged, lever)
		}
		switch lever {
		case model.LeverStock:
			p.BreakEvenStock = r.Value
		case model.LeverPrice:
			p.BreakEvenPrice = r.Value
		case model.LeverCPL:
			p.BreakEvenCPL = r.Value
		case model.LeverConfirmation:
			v := r.Value
			p.BreakEvenConfirmationRate = &v
		case model.LeverDelivery:
			v := r.Value
			p.BreakEvenDeliveryRate = &v
		}
	}
	return p
}

func isDegenerate(m model.ProfitMetrics) bool {
	return m.BaseConfirmationRate == 0 || m.BaseDeliveryRate == 0
}
