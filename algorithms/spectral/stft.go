package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-slicer/algorithms/windowing"
)

// Spectrum holds the one-sided magnitude and phase of a single frame
type Spectrum struct {
	Magnitude []float64 `json:"magnitude"`
	Phase     []float64 `json:"phase"`
}

// NewSpectrum allocates a zeroed spectrum with the given number of bins
func NewSpectrum(bins int) *Spectrum {
	return &Spectrum{
		Magnitude: make([]float64, bins),
		Phase:     make([]float64, bins),
	}
}

// Bins returns the number of frequency bins
func (s *Spectrum) Bins() int {
	return len(s.Magnitude)
}

// Window is implemented by windowing functions that can be applied in place
type Window interface {
	ApplyInPlace(signal []float64) error
}

// STFT slices a signal into overlapping frames and analyses them one at a
// time. Unlike a full spectrogram it keeps no per-frame results; callers
// decide how much history to retain.
type STFT struct {
	frameSize int
	hopSize   int
	window    Window
	transform Transform
	buffer    []float64
}

// NewSTFT creates a frame-by-frame analyser. A nil window defaults to a
// symmetric Hann window of frameSize; a nil transform defaults to the direct DFT.
func NewSTFT(frameSize, hopSize int, window Window, transform Transform) (*STFT, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}

	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	if window == nil {
		window = windowing.NewHann(frameSize)
	}

	if transform == nil {
		transform = NewDFT(frameSize)
	}

	return &STFT{
		frameSize: frameSize,
		hopSize:   hopSize,
		window:    window,
		transform: transform,
		buffer:    make([]float64, frameSize),
	}, nil
}

// Frame returns the unwindowed samples of frame f. The slice aliases signal.
func (s *STFT) Frame(signal []float64, f int) []float64 {
	start := f * s.hopSize
	return signal[start : start+s.frameSize]
}

// Analyze windows frame f of signal and writes its spectrum into dst
func (s *STFT) Analyze(signal []float64, f int, dst *Spectrum) error {
	copy(s.buffer, s.Frame(signal, f))

	if err := s.window.ApplyInPlace(s.buffer); err != nil {
		return err
	}

	s.transform.Spectrum(s.buffer, dst.Magnitude, dst.Phase)
	return nil
}

// FreqBins returns the number of bins each spectrum holds
func (s *STFT) FreqBins() int {
	return HalfSize(s.frameSize)
}
