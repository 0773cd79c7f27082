// Package analysis implements the read-only correlation and ranking engine
// over materialized event/currency links: Pearson correlation, summary
// statistics, strength interpretation, and top-impact ranking.
package analysis

import (
	"math"
)

// Pearson computes the Pearson correlation coefficient between two series.
// Degenerate inputs (empty series, mismatched lengths, zero variance in
// either series) resolve to 0 rather than an error: a correlation that
// cannot be computed is reported as no correlation.
func Pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) == 0 {
		return 0
	}

	meanX := Mean(xs)
	meanY := Mean(ys)

	var numerator, sumXSq, sumYSq float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		numerator += dx * dy
		sumXSq += dx * dx
		sumYSq += dy * dy
	}

	denominator := math.Sqrt(sumXSq * sumYSq)
	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// Mean returns the arithmetic mean of the series, or 0 for an empty one.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
