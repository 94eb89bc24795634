package onset

import (
	"fmt"
	"strings"
)

// Method selects the onset detection function
type Method uint8

const (
	// MethodHFC is High-Frequency Content, best for percussive material
	MethodHFC Method = iota
	// MethodFlux is half-wave rectified spectral flux
	MethodFlux
	// MethodEnergy is the RMS of the unwindowed frame; no spectral analysis
	MethodEnergy
	// MethodComplex combines magnitude and phase prediction error
	MethodComplex
)

var methodNames = [...]string{
	MethodHFC:     "hfc",
	MethodFlux:    "flux",
	MethodEnergy:  "energy",
	MethodComplex: "complex",
}

// Methods returns every supported method in declaration order
func Methods() []Method {
	return []Method{MethodHFC, MethodFlux, MethodEnergy, MethodComplex}
}

// MethodNames returns the names accepted by ParseMethod
func MethodNames() []string {
	return methodNames[:]
}

func (m Method) String() string {
	if m.Valid() {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// Valid reports whether m is one of the supported methods
func (m Method) Valid() bool {
	return int(m) < len(methodNames)
}

// ParseMethod converts a method name into a Method. Unknown names return an
// error wrapping ErrUnknownMethod that quotes the offending value.
func ParseMethod(name string) (Method, error) {
	for i, n := range methodNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownMethod, name, strings.Join(methodNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
