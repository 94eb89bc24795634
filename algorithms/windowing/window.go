package windowing

import (
	"fmt"
	"math"
	"strings"
)

// Type selects a window shape
type Type uint8

const (
	TypeHann Type = iota
	TypeHamming
	TypeBlackman
	TypeRectangular
)

var typeNames = [...]string{
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeRectangular: "rectangular",
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Valid reports whether t names a known window
func (t Type) Valid() bool {
	return int(t) < len(typeNames)
}

// ParseType converts a window name such as "hann" into a Type
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown window: %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown window: %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Window is a precomputed table of window coefficients
type Window struct {
	kind         Type
	coefficients []float64
}

// New builds a symmetric window of the given type and size
func New(kind Type, size int) (*Window, error) {
	size = max(size, 0)

	var coeffs []float64
	switch kind {
	case TypeHann:
		coeffs = hann(size)
	case TypeHamming:
		coeffs = hamming(size)
	case TypeBlackman:
		coeffs = blackman(size)
	case TypeRectangular:
		coeffs = rectangular(size)
	default:
		return nil, fmt.Errorf("unknown window: %d", uint8(kind))
	}

	return &Window{kind: kind, coefficients: coeffs}, nil
}

// cosineSum fills a symmetric generalized cosine window
// w[n] = a0 - a1*cos(x) + a2*cos(2x), x = 2*pi*n/(size-1).
// A one-point window has no taper.
func cosineSum(size int, a0, a1, a2 float64) []float64 {
	c := make([]float64, size)
	if size == 1 {
		c[0] = 1.0
		return c
	}

	denominator := float64(size - 1)
	for i := range size {
		x := 2 * math.Pi * float64(i) / denominator
		c[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return c
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) []float64 {
	if len(signal) != len(w.coefficients) {
		return nil
	}

	windowed := make([]float64, len(signal))
	for i, c := range w.coefficients {
		windowed[i] = signal[i] * c
	}

	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != len(w.coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(w.coefficients))
	}

	for i, c := range w.coefficients {
		signal[i] *= c
	}

	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (w *Window) GetCoefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// GetSize returns the window size
func (w *Window) GetSize() int {
	return len(w.coefficients)
}

// GetType returns the window type
func (w *Window) GetType() Type {
	return w.kind
}
