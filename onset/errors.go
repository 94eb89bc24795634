package onset

import "errors"

var (
	// ErrUnknownMethod is returned for a method name or value outside the
	// supported set
	ErrUnknownMethod = errors.New("unknown onset method")

	// ErrInvalidConfig is returned when a detection parameter is out of range
	ErrInvalidConfig = errors.New("invalid onset detection config")

	// ErrInvalidSignal is returned for a non-positive sample rate or channel count
	ErrInvalidSignal = errors.New("invalid signal")
)
