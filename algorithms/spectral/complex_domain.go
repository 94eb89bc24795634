package spectral

import (
	"math"
)

// ComplexDomain measures how far each bin departs from a steady-state
// prediction built from the two previous frames. Magnitude is assumed
// constant and phase is extrapolated linearly, so both amplitude and
// phase deviations contribute.
type ComplexDomain struct{}

// NewComplexDomain creates a new complex domain calculator
func NewComplexDomain() *ComplexDomain {
	return &ComplexDomain{}
}

// Frame returns sum_k |X_k - prevMag_k * exp(i*(2*prevPhase_k - prevPrevPhase_k))|
func (c *ComplexDomain) Frame(current, previous, prevPrevious *Spectrum) float64 {
	bins := min(current.Bins(), previous.Bins(), prevPrevious.Bins())

	sum := 0.0
	for k := range bins {
		predicted := 2*previous.Phase[k] - prevPrevious.Phase[k]
		expectedRe := previous.Magnitude[k] * math.Cos(predicted)
		expectedIm := previous.Magnitude[k] * math.Sin(predicted)

		actualRe := current.Magnitude[k] * math.Cos(current.Phase[k])
		actualIm := current.Magnitude[k] * math.Sin(current.Phase[k])

		sum += math.Hypot(actualRe-expectedRe, actualIm-expectedIm)
	}

	return sum
}
