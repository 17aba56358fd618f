// Package breakeven finds the value of one lever at which profit crosses zero.
//
// The search is a bracket-free decaying-step walk: it moves x by a fixed step,
// and each time the objective says it walked past the root it reverses and
// halves the step. It stops when |profit| < Tolerance or after MaxIterations,
// whichever comes first, and the last x is returned either way.
package breakeven

import "math"

const (
	MaxIterations = 100
	Tolerance     = 1.0
	// SeedStepFactor sizes the first step relative to the seed.
	SeedStepFactor = 0.1
	// RateStep is the first step for funnel-rate searches.
	RateStep = 1.0
)

// Slope is the sign of d(profit)/dx around the seed. The overshoot test reads
// profit as if it rose with x, so the zero value behaves as Increasing.
type Slope int

const (
	Increasing Slope = 1
	Decreasing Slope = -1
)

// Domain clamps the returned value into the lever's valid range.
type Domain struct {
	Min float64
	Max float64
}

var (
	NonNegative = Domain{Min: 0, Max: math.Inf(1)}
	Percent     = Domain{Min: 0, Max: 100}
)

func (d Domain) Clamp(x float64) float64 {
	if x < d.Min {
		return d.Min
	}
	if x > d.Max {
		return d.Max
	}
	return x
}

// Problem describes one search.
type Problem struct {
	// Profit evaluates the objective with x substituted for the lever.
	Profit func(x float64) float64
	Seed   float64
	// Step is the initial step. Zero means Seed × SeedStepFactor; a zero seed
	// then leaves x in place until MaxIterations.
	Step   float64
	Slope  Slope
	Domain Domain
}

// Result is the outcome of a search. Converged is false when MaxIterations
// was exhausted or the root lay outside the domain; Value is then a
// best-effort estimate.
type Result struct {
	Value      float64 `json:"value"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// Solve runs the decaying-step search.
func Solve(p Problem) Result {
	x := p.Seed
	step := p.Step
	if step == 0 {
		step = x * SeedStepFactor
	}
	slope := p.Slope
	if slope == 0 {
		slope = Increasing
	}

	direction := 1.0
	iterations := 0
	for iterations < MaxIterations {
		profit := p.Profit(x)
		if math.IsNaN(profit) {
			break
		}
		if math.Abs(profit) < Tolerance {
			// A root outside the domain is clamped and reported as not converged.
			v := p.Domain.Clamp(x)
			return Result{Value: v, Iterations: iterations, Converged: v == x}
		}
		// Positive profit while moving up, or negative while moving down, is
		// an overshoot for an increasing objective.
		signed := profit * float64(slope)
		if (signed > 0 && direction > 0) || (signed < 0 && direction < 0) {
			direction = -direction
			step /= 2
		}
		x += direction * step
		iterations++
	}
	return Result{Value: p.Domain.Clamp(x), Iterations: iterations, Converged: false}
}
