// Package safetystock implements the analytical (King's-method) safety-stock
// formula: Z * sqrt(lead time) * sigma of demand per occurrence. It is used
// both to seed target inventory levels before a run and to cross-check
// simulated outcomes against an independent estimate afterwards.
package safetystock

import (
	"errors"
	"math"
)

// DefaultZScore is the service-level quantile for a 98% service level, the
// standard target in this domain.
const DefaultZScore = 2.05

// ErrInsufficientHistory indicates fewer than two nonzero demand
// observations. Callers treat this as a data gap: degraded but continuable.
var ErrInsufficientHistory = errors.New("safetystock: fewer than two nonzero demand observations")

// Recommend computes the recommended safety stock for one SKU instance.
//
// Observations are per-period demand quantities. Zero-demand periods are
// excluded before taking the standard deviation: the domain convention is
// variability of demand per occurrence. Spreading the same total over every
// calendar period (a daily average) systematically understates variance and
// must not be substituted.
//
// The function is pure; identical inputs always yield identical output.
func Recommend(leadTimeDays float64, observations []float64, z float64) (float64, error) {
	if leadTimeDays < 0 {
		leadTimeDays = 0
	}
	if z <= 0 {
		z = DefaultZScore
	}

	nonzero := make([]float64, 0, len(observations))
	for _, obs := range observations {
		if obs > 0 {
			nonzero = append(nonzero, obs)
		}
	}
	if len(nonzero) < 2 {
		return 0, ErrInsufficientHistory
	}

	sigma := sampleStdDev(nonzero)
	return z * math.Sqrt(leadTimeDays) * sigma, nil
}

// sampleStdDev is the n-1 standard deviation of the observations.
func sampleStdDev(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
