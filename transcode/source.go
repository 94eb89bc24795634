package transcode

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// DefaultChunkSize is the number of samples ReadAll requests per Read call
const DefaultChunkSize = 8192

// Source is an open audio stream yielding interleaved 32-bit fixed-point
// samples. Samples narrower than 32 bits are shifted up to full scale.
type Source interface {
	// SampleRate returns the rate in Hz
	SampleRate() int
	// Channels returns the number of interleaved channels
	Channels() int
	// BitDepth returns the precision of the underlying encoding
	BitDepth() int
	// Read fills samples with up to len(samples) interleaved samples.
	// It returns 0, io.EOF once the stream is exhausted.
	Read(samples []int32) (int, error)
	// Close releases the stream
	Close() error
}

// ReadAll drains src and returns every sample it yields
func ReadAll(src Source) ([]int32, error) {
	chunk := DefaultChunkSize * max(1, src.Channels())
	buf := make([]int32, chunk)

	var samples []int32
	for {
		n, err := src.Read(buf)
		samples = append(samples, buf[:n]...)

		if errors.Is(err, io.EOF) || (n == 0 && err == nil) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read samples: %w", err)
		}
	}

	// Drop a trailing partial frame
	if ch := src.Channels(); ch > 0 {
		samples = samples[:len(samples)-len(samples)%ch]
	}

	return samples, nil
}

// AudioInfo describes a decoded audio file
type AudioInfo struct {
	Path       string        `json:"path"`
	Format     string        `json:"format"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	BitDepth   int           `json:"bits_per_sample"`
	Frames     int           `json:"frames"`
	Duration   time.Duration `json:"duration"`
}

// Seconds returns the duration in seconds
func (a *AudioInfo) Seconds() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.Frames) / float64(a.SampleRate)
}
