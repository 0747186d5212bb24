package safetystock

import "math"

// Comparison relates a calculated safety stock to an external analytical
// reference value for the same SKU instance.
type Comparison struct {
	Calculated float64
	Reference  float64
	Error      float64
	ErrorPct   float64
	WithinTol  bool
}

// Compare measures how far a calculated safety stock sits from a reference
// value, flagging whether it falls within the given percentage tolerance. A
// zero reference with a nonzero calculation reports 100% error.
func Compare(calculated, reference, tolerancePct float64) Comparison {
	err := math.Abs(calculated - reference)
	var pct float64
	switch {
	case reference > 0:
		pct = err / reference * 100
	case calculated > 0:
		pct = 100
	}
	return Comparison{
		Calculated: calculated,
		Reference:  reference,
		Error:      err,
		ErrorPct:   pct,
		WithinTol:  pct <= tolerancePct,
	}
}
