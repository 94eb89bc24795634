package slicer

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/sonido-slicer/logging"
	"github.com/RyanBlaney/sonido-slicer/onset"
	"github.com/RyanBlaney/sonido-slicer/transcode"
)

const (
	DefaultSlices        = 4
	DefaultBeatsPerSlice = 1
)

// ErrInvalidConfig is returned for out-of-range slicing parameters
var ErrInvalidConfig = errors.New("invalid slice configuration")

// Mode names how slice points are chosen
type Mode string

const (
	ModeOnsets       Mode = "onsets"
	ModeBPM          Mode = "bpm"
	ModeBeatDuration Mode = "beat_duration"
	ModeCount        Mode = "count"
)

// Config selects how a loop is cut. Onsets, BPM, BeatDuration and Slices are
// consulted in that order; the first one set wins.
type Config struct {
	Slices        int     `yaml:"slices" json:"slices"`
	BPM           float64 `yaml:"bpm" json:"bpm"`
	BeatsPerSlice int     `yaml:"beats_per_slice" json:"beats_per_slice"`
	BeatDuration  float64 `yaml:"beat_duration" json:"beat_duration"` // seconds

	// Onsets enables onset-based slicing when non-nil
	Onsets *onset.Config `yaml:"-" json:"onsets,omitempty"`

	Decoder *transcode.DecoderConfig `yaml:"-" json:"-"`
}

// DefaultConfig returns a config that cuts the loop into four equal parts
func DefaultConfig() *Config {
	return &Config{
		Slices:        DefaultSlices,
		BeatsPerSlice: DefaultBeatsPerSlice,
	}
}

// Mode reports which slicing strategy the config selects
func (c *Config) Mode() Mode {
	switch {
	case c.Onsets != nil:
		return ModeOnsets
	case c.BPM > 0:
		return ModeBPM
	case c.BeatDuration > 0:
		return ModeBeatDuration
	default:
		return ModeCount
	}
}

// Validate checks the parameters of the selected mode
func (c *Config) Validate() error {
	switch c.Mode() {
	case ModeOnsets:
		return c.Onsets.Validate()
	case ModeBPM:
		if math.IsInf(c.BPM, 0) {
			return fmt.Errorf("%w: bpm %v", ErrInvalidConfig, c.BPM)
		}
		if c.BeatsPerSlice <= 0 {
			return fmt.Errorf("%w: beats per slice %d must be positive", ErrInvalidConfig, c.BeatsPerSlice)
		}
	case ModeBeatDuration:
		if math.IsInf(c.BeatDuration, 0) {
			return fmt.Errorf("%w: beat duration %v", ErrInvalidConfig, c.BeatDuration)
		}
	case ModeCount:
		if c.Slices <= 0 {
			return fmt.Errorf("%w: slice count %d must be positive", ErrInvalidConfig, c.Slices)
		}
	}
	return nil
}

// Slice is one written segment of the source
type Slice struct {
	Index int     `json:"index"`
	Path  string  `json:"path"`
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
}

// SliceLoop decodes the file at path once, cuts it at the points the config
// selects and writes each segment as <stem>_slice_NNN.wav in outputDir.
// A nil config uses DefaultConfig.
func SliceLoop(path, outputDir string, config *Config) ([]Slice, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "slicer",
		"function":  "SliceLoop",
		"filename":  path,
		"mode":      string(config.Mode()),
	})

	audio, err := transcode.NewDecoder(config.Decoder).DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if audio.SampleRate <= 0 || audio.Channels <= 0 {
		return nil, fmt.Errorf("%s: invalid stream (sample rate %d, channels %d)", path, audio.SampleRate, audio.Channels)
	}

	duration := float64(audio.Frames()) / float64(audio.SampleRate)

	points, err := slicePoints(config, audio, duration)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	slices := make([]Slice, 0, len(points))

	for i, start := range points {
		end := duration
		if i+1 < len(points) {
			end = points[i+1]
		}

		segment := segmentSamples(audio, start, end)
		if len(segment) == 0 {
			logger.Debug("Skipping empty slice", logging.Fields{
				"index": i,
				"start": start,
				"end":   end,
			})
			continue
		}

		out := filepath.Join(outputDir, fmt.Sprintf("%s_slice_%03d.wav", stem, i))
		if err := transcode.WriteWAV(out, segment, audio.SampleRate, audio.Channels, audio.BitDepth); err != nil {
			return nil, fmt.Errorf("write slice %d: %w", i, err)
		}

		slices = append(slices, Slice{Index: i, Path: out, Start: start, End: end})
	}

	logger.Info("Loop sliced", logging.Fields{
		"points":   len(points),
		"written":  len(slices),
		"duration": duration,
	})

	return slices, nil
}

// slicePoints returns the start time of every slice in seconds
func slicePoints(config *Config, audio *transcode.AudioData, duration float64) ([]float64, error) {
	switch config.Mode() {
	case ModeOnsets:
		onsets, err := onset.DetectOnsets(audio.Samples, audio.SampleRate, audio.Channels, config.Onsets)
		if err != nil {
			return nil, fmt.Errorf("onset detection failed: %w", err)
		}
		if len(onsets) == 0 {
			return []float64{0}, nil
		}
		return onsets, nil

	case ModeBPM:
		length := 60.0 / config.BPM * float64(config.BeatsPerSlice)
		if err := checkSliceLength(length, audio.SampleRate); err != nil {
			return nil, err
		}
		return evenPoints(int(duration/length), length), nil

	case ModeBeatDuration:
		if err := checkSliceLength(config.BeatDuration, audio.SampleRate); err != nil {
			return nil, err
		}
		return evenPoints(int(duration/config.BeatDuration), config.BeatDuration), nil

	default:
		if frames := audio.Frames(); config.Slices > frames {
			return nil, fmt.Errorf("%w: %d slices for %d frames", ErrInvalidConfig, config.Slices, frames)
		}
		return evenPoints(config.Slices, duration/float64(config.Slices)), nil
	}
}

// checkSliceLength rejects slices shorter than one sample frame
func checkSliceLength(length float64, sampleRate int) error {
	if length*float64(sampleRate) < 1 {
		return fmt.Errorf("%w: slice length %gs is shorter than one frame at %d Hz", ErrInvalidConfig, length, sampleRate)
	}
	return nil
}

// evenPoints returns count start times spaced length apart. A loop shorter
// than one slice yields none.
func evenPoints(count int, length float64) []float64 {
	if count <= 0 {
		return []float64{}
	}
	points := make([]float64, count)
	for i := range points {
		points[i] = float64(i) * length
	}
	return points
}

// segmentSamples returns the interleaved samples between two times, aligned
// to whole frames
func segmentSamples(audio *transcode.AudioData, start, end float64) []int32 {
	frames := audio.Frames()
	first := min(frames, max(0, int(math.Round(start*float64(audio.SampleRate)))))
	last := min(frames, max(0, int(math.Round(end*float64(audio.SampleRate)))))
	if last <= first {
		return nil
	}
	return audio.Samples[first*audio.Channels : last*audio.Channels]
}
