package spectral

import (
	"fmt"
	"strings"
)

// Transform computes the one-sided magnitude and phase spectrum of a real
// frame. magnitude and phase must have the same length (at most
// len(frame)/2+1); bin k is sum_n frame[n]*exp(-2*pi*i*k*n/len(frame)).
type Transform interface {
	Spectrum(frame, magnitude, phase []float64)
}

// TransformType selects a Transform implementation
type TransformType uint8

const (
	// TransformDFT is the direct quadratic-time transform
	TransformDFT TransformType = iota
	// TransformFFT uses mjibson/go-dsp
	TransformFFT
	// TransformGonum uses gonum's dsp/fourier real FFT
	TransformGonum
)

var transformNames = [...]string{
	TransformDFT:   "dft",
	TransformFFT:   "fft",
	TransformGonum: "gonum",
}

func (t TransformType) String() string {
	if int(t) < len(transformNames) {
		return transformNames[t]
	}
	return fmt.Sprintf("TransformType(%d)", uint8(t))
}

// Valid reports whether t names a known transform
func (t TransformType) Valid() bool {
	return int(t) < len(transformNames)
}

// ParseTransformType converts a name such as "dft" into a TransformType
func ParseTransformType(name string) (TransformType, error) {
	for i, n := range transformNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return TransformType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transform: %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (t TransformType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown transform: %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TransformType) UnmarshalText(text []byte) error {
	parsed, err := ParseTransformType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// NewTransform builds a transform for frames of the given size.
// The returned value is not safe for concurrent use.
func NewTransform(kind TransformType, frameSize int) (Transform, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("frame size must be positive")
	}

	switch kind {
	case TransformDFT:
		return NewDFT(frameSize), nil
	case TransformFFT:
		return NewFFT(), nil
	case TransformGonum:
		return NewGonumFFT(frameSize), nil
	default:
		return nil, fmt.Errorf("unknown transform: %d", uint8(kind))
	}
}

// HalfSize returns the number of non-negative frequency bins for a frame size
func HalfSize(frameSize int) int {
	return frameSize/2 + 1
}
