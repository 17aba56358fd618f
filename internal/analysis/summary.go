package analysis

import (
	"math"
	"sort"

	"profit-forecast/internal/model"
)

// LeverStats summarizes one break-even series over the forecast.
// Percentiles use linear interpolation between order statistics.
type LeverStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P05   float64 `json:"p05"`
	P95   float64 `json:"p95"`
}

// SeriesSummary is a forecast-level digest used for scenario comparison.
type SeriesSummary struct {
	Days           int `json:"days"`
	LossDays       int `json:"lossDays"`
	DegenerateDays int `json:"degenerateDays"`
	NonConverged   int `json:"nonConverged"`

	Levers map[model.Lever]LeverStats `json:"levers"`

	// Headroom is sellingPrice - breakEvenPrice: how far the price can drop
	// before the product stops being profitable.
	InitialHeadroom float64 `json:"initialHeadroom"`
	FinalHeadroom   float64 `json:"finalHeadroom"`
}

// Summarize digests a forecast. Degenerate days carry no break-even values
// and are left out of the lever statistics.
func Summarize(points []model.ChartDataPoint) SeriesSummary {
	s := SeriesSummary{Levers: map[model.Lever]LeverStats{}}
	if len(points) == 0 {
		return s
	}
	s.Days = len(points)

	series := map[model.Lever][]float64{}
	for _, p := range points {
		if p.Profit < 0 {
			s.LossDays++
		}
		s.NonConverged += len(p.NonConverged)
		if p.Degenerate {
			s.DegenerateDays++
			continue
		}
		series[model.LeverStock] = append(series[model.LeverStock], p.BreakEvenStock)
		series[model.LeverPrice] = append(series[model.LeverPrice], p.BreakEvenPrice)
		series[model.LeverCPL] = append(series[model.LeverCPL], p.BreakEvenCPL)
		if p.BreakEvenConfirmationRate != nil {
			series[model.LeverConfirmation] = append(series[model.LeverConfirmation], *p.BreakEvenConfirmationRate)
		}
		if p.BreakEvenDeliveryRate != nil {
			series[model.LeverDelivery] = append(series[model.LeverDelivery], *p.BreakEvenDeliveryRate)
		}
	}
	for lever, vals := range series {
		s.Levers[lever] = stats(vals)
	}

	first, last := points[0], points[len(points)-1]
	if !first.Degenerate {
		s.InitialHeadroom = first.SellingPrice - first.BreakEvenPrice
	}
	if !last.Degenerate {
		s.FinalHeadroom = last.SellingPrice - last.BreakEvenPrice
	}
	return s
}

func stats(vals []float64) LeverStats {
	st := LeverStats{Count: len(vals)}
	if len(vals) == 0 {
		return st
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	st.Min = sorted[0]
	st.Max = sorted[len(sorted)-1]
	st.Mean = sum / float64(len(sorted))
	st.P05 = percentileSorted(sorted, 0.05)
	st.P95 = percentileSorted(sorted, 0.95)
	return st
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
