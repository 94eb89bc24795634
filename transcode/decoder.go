package transcode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-slicer/logging"
)

// AudioData represents a fully decoded file
type AudioData struct {
	Samples    []int32       `json:"-"` // Interleaved 32-bit samples
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	BitDepth   int           `json:"bit_depth"`
	Format     string        `json:"format"`
	Duration   time.Duration `json:"duration"`
}

// Frames returns the number of sample frames (samples per channel)
func (a *AudioData) Frames() int {
	if a.Channels <= 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	FFmpegPath  string        `yaml:"ffmpeg_path" json:"ffmpeg_path"`   // Path to ffmpeg binary
	FFprobePath string        `yaml:"ffprobe_path" json:"ffprobe_path"` // Path to ffprobe binary
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`           // Timeout for ffmpeg operations
	// DisableNative routes every file through ffmpeg, even WAV and MP3
	DisableNative bool `yaml:"disable_native" json:"disable_native"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		FFmpegPath:  "ffmpeg",  // Assume in PATH
		FFprobePath: "ffprobe", // Assume in PATH
		Timeout:     60 * time.Second,
	}
}

// Validate checks the decoder configuration
func (c *DecoderConfig) Validate() error {
	if c.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg path must not be empty")
	}
	if c.FFprobePath == "" {
		return fmt.Errorf("ffprobe path must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %v", c.Timeout)
	}
	return nil
}

// Decoder opens audio files as Sources. WAV and MP3 are decoded natively;
// everything else is handed to ffmpeg.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// Open opens the file at path using the decoder chosen by its extension
func Open(path string) (Source, error) {
	return NewDecoder(nil).Open(path)
}

// Open opens the file at path using the decoder chosen by its extension
func (d *Decoder) Open(path string) (Source, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "Open",
		"filename":  path,
	})

	format := formatFromPath(path)
	if d.config.DisableNative {
		format = ""
	}

	var (
		src Source
		err error
	)
	switch format {
	case "wav":
		src, err = OpenWAV(path)
		if errors.Is(err, ErrUnsupportedWAV) {
			logger.Debug("Native WAV reader declined file, falling back to ffmpeg", logging.Fields{
				"reason": err.Error(),
			})
			src, err = d.openFFmpeg(path)
		}
	case "mp3":
		src, err = OpenMP3(path)
	default:
		src, err = d.openFFmpeg(path)
	}
	if err != nil {
		logger.Error(err, "Failed to open audio file")
		return nil, err
	}

	logger.Debug("Opened audio source", logging.Fields{
		"sample_rate": src.SampleRate(),
		"channels":    src.Channels(),
		"bit_depth":   src.BitDepth(),
	})

	return src, nil
}

// DecodeFile decodes the whole file into memory
func (d *Decoder) DecodeFile(path string) (*AudioData, error) {
	src, err := d.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	samples, err := ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	data := &AudioData{
		Samples:    samples,
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
		BitDepth:   src.BitDepth(),
		Format:     d.formatName(path),
	}
	if data.SampleRate > 0 {
		data.Duration = time.Duration(float64(data.Frames()) / float64(data.SampleRate) * float64(time.Second))
	}

	return data, nil
}

// Probe decodes the file and reports its properties
func (d *Decoder) Probe(path string) (*AudioInfo, error) {
	data, err := d.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	return &AudioInfo{
		Path:       path,
		Format:     data.Format,
		SampleRate: data.SampleRate,
		Channels:   data.Channels,
		BitDepth:   data.BitDepth,
		Frames:     data.Frames(),
		Duration:   data.Duration,
	}, nil
}

// Probe reports the properties of the file at path using the default decoder
func Probe(path string) (*AudioInfo, error) {
	return NewDecoder(nil).Probe(path)
}

// GetConfig returns the decoder configuration
func (d *Decoder) GetConfig() DecoderConfig {
	return *d.config
}

func (d *Decoder) formatName(path string) string {
	if f := formatFromPath(path); f != "" && !d.config.DisableNative {
		return f
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		return ext
	}
	return "unknown"
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return "wav"
	case ".mp3":
		return "mp3"
	default:
		return ""
	}
}
