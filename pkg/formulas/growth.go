package formulas

import "math"

// AnnualGrowthCAGR calculates the compound annual growth rate from a series
// of annual values ordered oldest to newest.
//
// Formula: CAGR = (Ending Value / Beginning Value)^(1/years) - 1
//
// Returns nil when fewer than two data points are available or when either
// endpoint is non-positive (the ratio would be meaningless for valuation).
func AnnualGrowthCAGR(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}

	start := values[0]
	end := values[len(values)-1]

	if start <= 0 || end <= 0 {
		return nil
	}

	years := float64(len(values) - 1)
	cagr := math.Pow(end/start, 1/years) - 1

	if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
		return nil
	}

	return &cagr
}

// Clamp restricts value to the [min, max] interval.
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
