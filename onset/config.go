package onset

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-slicer/algorithms/spectral"
	"github.com/RyanBlaney/sonido-slicer/algorithms/windowing"
)

const (
	DefaultThreshold   = 0.3
	DefaultSensitivity = 1.5
	DefaultMinSpacing  = 0.05 // seconds
	DefaultMethod      = MethodHFC
	DefaultFrameSize   = 1024
	DefaultHopSize     = 256
	DefaultTransform   = spectral.TransformDFT
	DefaultWindow      = windowing.TypeHann

	// DefaultMedianWindowSeconds is the context the adaptive threshold looks
	// at around each frame
	DefaultMedianWindowSeconds = 0.1

	// MaxFrameSize bounds the per-call working memory
	MaxFrameSize = 1 << 16
)

// Config holds the onset detection parameters
type Config struct {
	// Threshold is the global floor of the adaptive threshold, in [0, 1]
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// Sensitivity multiplies the adaptive threshold; higher is stricter
	Sensitivity float64 `yaml:"sensitivity" json:"sensitivity"`
	// MinSpacing is the minimum time between onsets in seconds
	MinSpacing float64 `yaml:"min_spacing" json:"min_spacing"`

	Method    Method                 `yaml:"method" json:"method"`
	FrameSize int                    `yaml:"frame_size" json:"frame_size"`
	HopSize   int                    `yaml:"hop_size" json:"hop_size"`
	Transform spectral.TransformType `yaml:"transform" json:"transform"`
	// Window shapes each frame before spectral analysis. Energy ignores it.
	Window windowing.Type `yaml:"window" json:"window"`

	// MedianWindow is the adaptive threshold context in seconds.
	// Zero means DefaultMedianWindowSeconds.
	MedianWindow float64 `yaml:"median_window,omitempty" json:"median_window,omitempty"`
}

// DefaultConfig returns the default detection parameters
func DefaultConfig() *Config {
	return &Config{
		Threshold:   DefaultThreshold,
		Sensitivity: DefaultSensitivity,
		MinSpacing:  DefaultMinSpacing,
		Method:      DefaultMethod,
		FrameSize:   DefaultFrameSize,
		HopSize:     DefaultHopSize,
		Transform:   DefaultTransform,
		Window:      DefaultWindow,
	}
}

// Validate checks every parameter. The method is checked first.
func (c *Config) Validate() error {
	if !c.Method.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(c.Method))
	}

	switch {
	case !(c.Threshold >= 0 && c.Threshold <= 1):
		return fmt.Errorf("%w: threshold %v outside [0, 1]", ErrInvalidConfig, c.Threshold)
	case !(c.Sensitivity >= 1):
		return fmt.Errorf("%w: sensitivity %v below 1.0", ErrInvalidConfig, c.Sensitivity)
	case !(c.MinSpacing > 0) || math.IsInf(c.MinSpacing, 0):
		return fmt.Errorf("%w: min spacing %v must be positive", ErrInvalidConfig, c.MinSpacing)
	case c.FrameSize <= 0 || c.FrameSize > MaxFrameSize:
		return fmt.Errorf("%w: frame size %d outside (0, %d]", ErrInvalidConfig, c.FrameSize, MaxFrameSize)
	case c.HopSize <= 0:
		return fmt.Errorf("%w: hop size %d must be positive", ErrInvalidConfig, c.HopSize)
	case !c.Transform.Valid():
		return fmt.Errorf("%w: transform %v", ErrInvalidConfig, c.Transform)
	case !c.Window.Valid():
		return fmt.Errorf("%w: window %v", ErrInvalidConfig, c.Window)
	case !(c.MedianWindow >= 0) || math.IsInf(c.MedianWindow, 0):
		return fmt.Errorf("%w: median window %v must not be negative", ErrInvalidConfig, c.MedianWindow)
	}

	return nil
}

func (c *Config) medianWindowSeconds() float64 {
	if c.MedianWindow > 0 {
		return c.MedianWindow
	}
	return DefaultMedianWindowSeconds
}
