package spectral

import (
	"math"
)

// HighFrequencyContent weights each bin's energy by the square of its index,
// emphasising broadband attacks.
type HighFrequencyContent struct{}

// NewHighFrequencyContent creates a new HFC calculator
func NewHighFrequencyContent() *HighFrequencyContent {
	return &HighFrequencyContent{}
}

// Frame returns sqrt(sum_k k^2 * magnitude[k]^2)
func (h *HighFrequencyContent) Frame(magnitude []float64) float64 {
	sum := 0.0
	for k, m := range magnitude {
		weighted := float64(k) * m
		sum += weighted * weighted
	}
	return math.Sqrt(sum)
}
