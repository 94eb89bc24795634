package transcode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces 16-bit little-endian stereo
const (
	mp3Channels = 2
	mp3BitDepth = 16
)

type mp3Source struct {
	file    *os.File
	decoder *mp3.Decoder
	raw     []byte
}

// OpenMP3 opens an MP3 file
func OpenMP3(path string) (Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("invalid MP3 file %s: %w", path, err)
	}

	return &mp3Source{file: file, decoder: decoder}, nil
}

func (m *mp3Source) SampleRate() int { return m.decoder.SampleRate() }
func (m *mp3Source) Channels() int   { return mp3Channels }
func (m *mp3Source) BitDepth() int   { return mp3BitDepth }

func (m *mp3Source) Read(samples []int32) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	need := len(samples) * 2
	if cap(m.raw) < need {
		m.raw = make([]byte, need)
	}
	m.raw = m.raw[:need]

	got, err := io.ReadFull(m.decoder, m.raw)
	n := got / 2
	for i := range n {
		s := int16(binary.LittleEndian.Uint16(m.raw[2*i:]))
		samples[i] = int32(s) << 16
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	case err != nil:
		return n, fmt.Errorf("mp3 decode failed: %w", err)
	}
	return n, nil
}

func (m *mp3Source) Close() error {
	return m.file.Close()
}
