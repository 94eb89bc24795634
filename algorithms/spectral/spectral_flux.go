package spectral

import (
	"math"
)

// SpectralFlux measures the positive spectral change between two frames.
// Decreases (offsets) are ignored.
type SpectralFlux struct{}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Frame returns sqrt(sum_k max(0, current[k]-previous[k])^2)
func (sf *SpectralFlux) Frame(current, previous []float64) float64 {
	sum := 0.0
	for k := range min(len(current), len(previous)) {
		diff := current[k] - previous[k]
		if diff > 0 {
			sum += diff * diff
		}
	}
	return math.Sqrt(sum)
}
