package onset

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/sonido-slicer/algorithms/common"
	"github.com/RyanBlaney/sonido-slicer/logging"
	"github.com/RyanBlaney/sonido-slicer/transcode"
)

// Opener opens an audio file as a stream of interleaved samples
type Opener interface {
	Open(path string) (transcode.Source, error)
}

// Analysis holds the intermediate curves of one detection run alongside the
// onset times. ODF and Threshold are indexed by frame.
type Analysis struct {
	Method     Method    `json:"method"`
	SampleRate int       `json:"sample_rate"`
	HopSize    int       `json:"hop_size"`
	ODF        []float64 `json:"odf"`
	Threshold  []float64 `json:"threshold"`
	Peak       float64   `json:"peak"` // ODF maximum before normalization
	Frames     []int     `json:"frames"`
	Onsets     []float64 `json:"onsets"`
}

func emptyAnalysis(cfg *Config, sampleRate int) *Analysis {
	return &Analysis{
		Method:     cfg.Method,
		SampleRate: sampleRate,
		HopSize:    cfg.HopSize,
		ODF:        []float64{},
		Threshold:  []float64{},
		Frames:     []int{},
		Onsets:     []float64{},
	}
}

// Detector runs onset detection with a fixed configuration. It holds no
// per-call state and is safe for concurrent use.
type Detector struct {
	config  Config
	decoder Opener
	logger  logging.Logger
}

// NewDetector creates a detector. A nil config uses DefaultConfig.
func NewDetector(config *Config) *Detector {
	if config == nil {
		config = DefaultConfig()
	}
	return &Detector{
		config:  *config,
		decoder: transcode.NewDecoder(nil),
		logger: logging.WithFields(logging.Fields{
			"component": "onset_detector",
		}),
	}
}

// WithDecoder returns a copy of the detector that opens files with decoder
func (d *Detector) WithDecoder(decoder Opener) *Detector {
	clone := *d
	clone.decoder = decoder
	return &clone
}

// WithLogger returns a copy of the detector that logs to logger
func (d *Detector) WithLogger(logger logging.Logger) *Detector {
	clone := *d
	clone.logger = logger
	return &clone
}

// Config returns a copy of the detection parameters
func (d *Detector) Config() Config {
	return d.config
}

// Analyze runs the full pipeline on interleaved 32-bit samples and returns
// every intermediate curve. Too little audio is not an error: the result is
// simply empty.
func (d *Detector) Analyze(samples []int32, sampleRate, channels int) (*Analysis, error) {
	cfg := &d.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d must be positive", ErrInvalidSignal, sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d must be positive", ErrInvalidSignal, channels)
	}

	logger := d.logger.WithFields(logging.Fields{
		"function":    "Analyze",
		"method":      cfg.Method.String(),
		"sample_rate": sampleRate,
		"channels":    channels,
	})

	monoLen := len(samples) / channels
	if monoLen < cfg.FrameSize {
		logger.Debug("Signal shorter than one frame", logging.Fields{
			"mono_length": monoLen,
			"frame_size":  cfg.FrameSize,
		})
		return emptyAnalysis(cfg, sampleRate), nil
	}

	numFrames := (monoLen-cfg.FrameSize)/cfg.HopSize + 1
	if numFrames < 3 {
		logger.Debug("Too few frames for peak picking", logging.Fields{
			"frames": numFrames,
		})
		return emptyAnalysis(cfg, sampleRate), nil
	}

	start := time.Now()

	fn, err := newDetectionFunction(cfg)
	if err != nil {
		return nil, err
	}

	mono := common.MixdownInt32(samples, channels)

	odf, err := computeODF(fn, mono, numFrames)
	if err != nil {
		return nil, fmt.Errorf("detection function failed: %w", err)
	}

	peak := common.ScaleToPeak(odf)

	window := medianWindowFrames(cfg.medianWindowSeconds(), sampleRate, cfg.HopSize)
	curve := adaptiveThreshold(odf, window, cfg.Threshold)

	spacing := minSpacingFrames(cfg.MinSpacing, sampleRate, cfg.HopSize)
	frames := pickPeaks(odf, curve, cfg.Sensitivity, spacing)
	onsets := framesToSeconds(frames, cfg.HopSize, sampleRate)

	logger.Debug("Onset detection completed", logging.Fields{
		"frames":        numFrames,
		"median_window": window,
		"min_spacing":   spacing,
		"odf_peak":      peak,
		"onsets":        len(onsets),
		"elapsed":       time.Since(start).String(),
	})

	return &Analysis{
		Method:     cfg.Method,
		SampleRate: sampleRate,
		HopSize:    cfg.HopSize,
		ODF:        odf,
		Threshold:  curve,
		Peak:       peak,
		Frames:     frames,
		Onsets:     onsets,
	}, nil
}

// DetectOnsets returns onset times in seconds, in increasing order
func (d *Detector) DetectOnsets(samples []int32, sampleRate, channels int) ([]float64, error) {
	analysis, err := d.Analyze(samples, sampleRate, channels)
	if err != nil {
		return nil, err
	}
	return analysis.Onsets, nil
}

// Detect decodes the file at path and returns its onset times. The whole
// stream is read before detection starts.
func (d *Detector) Detect(path string) ([]float64, error) {
	if err := d.config.Validate(); err != nil {
		return nil, err
	}

	src, err := d.decoder.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	samples, err := transcode.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return d.DetectOnsets(samples, src.SampleRate(), src.Channels())
}

// DetectOnsets runs detection on interleaved 32-bit samples. A nil config
// uses DefaultConfig.
func DetectOnsets(samples []int32, sampleRate, channels int, config *Config) ([]float64, error) {
	return NewDetector(config).DetectOnsets(samples, sampleRate, channels)
}

// Detect decodes the file at path with the default decoder and runs
// detection. A nil config uses DefaultConfig.
func Detect(path string, config *Config) ([]float64, error) {
	return NewDetector(config).Detect(path)
}
