package onset

import (
	"fmt"

	"github.com/RyanBlaney/sonido-slicer/algorithms/common"
	"github.com/RyanBlaney/sonido-slicer/algorithms/spectral"
	"github.com/RyanBlaney/sonido-slicer/algorithms/temporal"
	"github.com/RyanBlaney/sonido-slicer/algorithms/windowing"
)

// historyDepth is the number of prior spectra kept for the detection
// functions; complex domain needs two.
const historyDepth = 2

// detectionFunction produces one scalar per frame. Frames must be visited
// in increasing order because spectral methods carry history between calls.
type detectionFunction interface {
	next(mono []float64, frame int) (float64, error)
}

// newDetectionFunction resolves the method once for the whole call
func newDetectionFunction(cfg *Config) (detectionFunction, error) {
	if cfg.Method == MethodEnergy {
		return &energyFunction{
			energy: temporal.NewEnergy(cfg.FrameSize, cfg.HopSize),
		}, nil
	}

	var score spectralScore
	switch cfg.Method {
	case MethodHFC:
		hfc := spectral.NewHighFrequencyContent()
		score = func(cur, _, _ *spectral.Spectrum) float64 {
			return hfc.Frame(cur.Magnitude)
		}
	case MethodFlux:
		flux := spectral.NewSpectralFlux()
		score = func(cur, prev, _ *spectral.Spectrum) float64 {
			return flux.Frame(cur.Magnitude, prev.Magnitude)
		}
	case MethodComplex:
		cd := spectral.NewComplexDomain()
		score = cd.Frame
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(cfg.Method))
	}

	transform, err := spectral.NewTransform(cfg.Transform, cfg.FrameSize)
	if err != nil {
		return nil, err
	}

	window, err := windowing.New(cfg.Window, cfg.FrameSize)
	if err != nil {
		return nil, err
	}

	stft, err := spectral.NewSTFT(cfg.FrameSize, cfg.HopSize, window, transform)
	if err != nil {
		return nil, err
	}

	bins := stft.FreqBins()
	return &spectralFunction{
		stft: stft,
		history: common.NewRing(historyDepth+1, func() *spectral.Spectrum {
			return spectral.NewSpectrum(bins)
		}),
		score: score,
	}, nil
}

type energyFunction struct {
	energy *temporal.Energy
}

func (e *energyFunction) next(mono []float64, frame int) (float64, error) {
	return e.energy.FrameAt(mono, frame), nil
}

type spectralScore func(current, previous, prevPrevious *spectral.Spectrum) float64

// spectralFunction analyses each frame into the oldest history slot, so the
// ring holds the current spectrum plus exactly historyDepth prior ones.
// All slots start zeroed: the first frames are compared against silence.
type spectralFunction struct {
	stft    *spectral.STFT
	history *common.Ring[*spectral.Spectrum]
	score   spectralScore
}

func (s *spectralFunction) next(mono []float64, frame int) (float64, error) {
	current := s.history.Advance()
	if err := s.stft.Analyze(mono, frame, current); err != nil {
		return 0, err
	}
	return s.score(current, s.history.Back(1), s.history.Back(2)), nil
}

// computeODF evaluates the detection function for every frame
func computeODF(fn detectionFunction, mono []float64, numFrames int) ([]float64, error) {
	odf := make([]float64, numFrames)
	for f := range numFrames {
		v, err := fn.next(mono, f)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", f, err)
		}
		odf[f] = v
	}
	return odf, nil
}
