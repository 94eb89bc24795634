package transcode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-slicer/algorithms/common"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag
const wavFormatPCM = 1

// ErrUnsupportedWAV is returned for WAV encodings the native reader cannot
// handle (IEEE float, A-law, ...). Decoder.Open falls back to ffmpeg.
var ErrUnsupportedWAV = errors.New("unsupported WAV encoding")

type wavSource struct {
	file     *os.File
	decoder  *wav.Decoder
	buf      *audio.IntBuffer
	bitDepth int
}

// OpenWAV opens an integer PCM WAV file
func OpenWAV(path string) (Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		file.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		file.Close()
		return nil, fmt.Errorf("%w: format tag %d in %s", ErrUnsupportedWAV, decoder.WavAudioFormat, path)
	}

	if err := decoder.FwdToPCM(); err != nil {
		file.Close()
		return nil, fmt.Errorf("could not locate PCM data: %w", err)
	}

	channels := int(decoder.NumChans)
	return &wavSource{
		file:    file,
		decoder: decoder,
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  int(decoder.SampleRate),
			},
			SourceBitDepth: int(decoder.BitDepth),
		},
		bitDepth: int(decoder.BitDepth),
	}, nil
}

func (w *wavSource) SampleRate() int { return int(w.decoder.SampleRate) }
func (w *wavSource) Channels() int   { return int(w.decoder.NumChans) }
func (w *wavSource) BitDepth() int   { return w.bitDepth }

func (w *wavSource) Read(samples []int32) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]

	n, err := w.decoder.PCMBuffer(w.buf)
	for i := range n {
		samples[i] = common.ScaleToInt32(w.buf.Data[i], w.bitDepth)
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("could not read PCM buffer: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (w *wavSource) Close() error {
	return w.file.Close()
}

// WriteWAV encodes interleaved 32-bit samples as an integer PCM WAV file at
// the given bit depth
func WriteWAV(path string, samples []int32, sampleRate, channels, bitDepth int) error {
	if bitDepth <= 0 {
		bitDepth = 32
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output file creation error: %w", err)
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = common.ScaleFromInt32(s, bitDepth)
	}

	encoder := wav.NewEncoder(out, sampleRate, bitDepth, channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(buf); err != nil {
		out.Close()
		return fmt.Errorf("data writing error: %w", err)
	}
	if err := encoder.Close(); err != nil {
		out.Close()
		return fmt.Errorf("could not finalize WAV header: %w", err)
	}
	return out.Close()
}
