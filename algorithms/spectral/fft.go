package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT provides Fast Fourier Transform functionality backed by mjibson/go-dsp
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the full complex spectrum of a real signal.
// go-dsp handles all sizes, including non-power-of-2.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// Spectrum implements Transform
func (f *FFT) Spectrum(frame, magnitude, phase []float64) {
	coeffs := f.Compute(frame)
	fillPolar(coeffs, magnitude, phase)
}

// GonumFFT is a real-input FFT backed by gonum's dsp/fourier package.
// It keeps its own coefficient buffer and is not safe for concurrent use.
type GonumFFT struct {
	fft    *fourier.FFT
	coeffs []complex128
	size   int
}

// NewGonumFFT creates a gonum FFT for frames of length size
func NewGonumFFT(size int) *GonumFFT {
	return &GonumFFT{
		fft:    fourier.NewFFT(size),
		coeffs: make([]complex128, size/2+1),
		size:   size,
	}
}

// Spectrum implements Transform
func (g *GonumFFT) Spectrum(frame, magnitude, phase []float64) {
	if len(frame) != g.size {
		// gonum panics on a length mismatch
		padded := make([]float64, g.size)
		copy(padded, frame)
		frame = padded
	}

	g.coeffs = g.fft.Coefficients(g.coeffs, frame)
	fillPolar(g.coeffs, magnitude, phase)
}

func fillPolar(coeffs []complex128, magnitude, phase []float64) {
	bins := min(len(magnitude), len(coeffs))
	for k := range bins {
		magnitude[k] = cmplx.Abs(coeffs[k])
		phase[k] = cmplx.Phase(coeffs[k])
	}
}
