package spectral

import (
	"math"
)

// DFT is a direct discrete Fourier transform. It costs O(N * bins) per frame,
// which is fine for the frame sizes used in onset detection. Twiddle factors
// are tabulated once so the inner loop is multiply-add only.
type DFT struct {
	size int
	cos  []float64
	sin  []float64
}

// NewDFT creates a direct transform for frames of length size
func NewDFT(size int) *DFT {
	d := &DFT{
		size: size,
		cos:  make([]float64, size),
		sin:  make([]float64, size),
	}

	for m := range size {
		angle := -2 * math.Pi * float64(m) / float64(size)
		d.cos[m] = math.Cos(angle)
		d.sin[m] = math.Sin(angle)
	}

	return d
}

// Spectrum implements Transform
func (d *DFT) Spectrum(frame, magnitude, phase []float64) {
	n := min(len(frame), d.size)

	for k := range magnitude {
		re, im := 0.0, 0.0

		// idx tracks (k*i) mod size without overflow
		idx := 0
		for i := range n {
			re += frame[i] * d.cos[idx]
			im += frame[i] * d.sin[idx]
			idx += k
			if idx >= d.size {
				idx -= d.size
			}
		}

		magnitude[k] = math.Sqrt(re*re + im*im)
		phase[k] = math.Atan2(im, re)
	}
}

// Size returns the frame length the transform was built for
func (d *DFT) Size() int {
	return d.size
}
