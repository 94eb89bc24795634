package temporal

import (
	"github.com/RyanBlaney/sonido-slicer/algorithms/common"
)

// Energy computes frame-wise energy envelopes directly in the time domain.
// No windowing and no spectral analysis are involved.
type Energy struct {
	frameSize int
	hopSize   int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize int) *Energy {
	return &Energy{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// FrameAt returns the RMS of the unwindowed frame f of signal:
// sqrt(sum_n x[n]^2 / frameSize). The frame must lie inside signal.
func (e *Energy) FrameAt(signal []float64, f int) float64 {
	start := f * e.hopSize
	return e.Frame(signal[start : start+e.frameSize])
}

// Frame returns the RMS of a single frame
func (e *Energy) Frame(frame []float64) float64 {
	return common.RMS(frame)
}
