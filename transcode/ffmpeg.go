package transcode

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

const ffmpegMaxChannels = 8

// StreamMetadata is the subset of ffprobe stream info the decoder needs
type StreamMetadata struct {
	Codec      string  `json:"codec"`
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	BitDepth   int     `json:"bit_depth"`
	Duration   float64 `json:"duration"`
}

// probeStream runs ffprobe against the first audio stream of path
func (d *Decoder) probeStream(ctx context.Context, path string) (*StreamMetadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		path,
	}

	cmd := exec.CommandContext(ctx, d.config.FFprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseFFprobeOutput(output)
}

// parseFFprobeOutput extracts stream metadata from ffprobe JSON
func parseFFprobeOutput(jsonData []byte) (*StreamMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType        string `json:"codec_type"`
			CodecName        string `json:"codec_name"`
			SampleRate       string `json:"sample_rate"`
			Channels         int    `json:"channels"`
			Duration         string `json:"duration"`
			BitsPerSample    int    `json:"bits_per_sample"`
			BitsPerRawSample string `json:"bits_per_raw_sample"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s", stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %q", stream.SampleRate)
	}

	if stream.Channels <= 0 || stream.Channels > ffmpegMaxChannels {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	bitDepth := stream.BitsPerSample
	if raw, err := strconv.Atoi(stream.BitsPerRawSample); err == nil && raw > 0 {
		bitDepth = raw
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	return &StreamMetadata{
		Codec:      stream.CodecName,
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		BitDepth:   bitDepth,
		Duration:   duration,
	}, nil
}

// ffmpegArgs builds the decode command line. Output is raw interleaved
// signed 32-bit little-endian PCM on stdout.
func ffmpegArgs(path string, meta *StreamMetadata) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-vn",
		"-f", "s32le",
		"-acodec", "pcm_s32le",
		"-ac", strconv.Itoa(meta.Channels),
		"-ar", strconv.Itoa(meta.SampleRate),
		"pipe:1",
	}
}

type ffmpegSource struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stdout io.ReadCloser
	reader *bufio.Reader
	stderr *strings.Builder
	meta   *StreamMetadata
	raw    []byte
	closed bool
}

// openFFmpeg probes path and starts an ffmpeg process streaming its PCM
func (d *Decoder) openFFmpeg(path string) (Source, error) {
	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if d.config.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
	}

	meta, err := d.probeStream(ctx, path)
	if err != nil {
		cancel()
		return nil, err
	}

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, ffmpegArgs(path, meta)...)
	stderr := &strings.Builder{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg start failed: %w", err)
	}

	return &ffmpegSource{
		cmd:    cmd,
		cancel: cancel,
		stdout: stdout,
		reader: bufio.NewReaderSize(stdout, 64*1024),
		stderr: stderr,
		meta:   meta,
	}, nil
}

func (f *ffmpegSource) SampleRate() int { return f.meta.SampleRate }
func (f *ffmpegSource) Channels() int   { return f.meta.Channels }

func (f *ffmpegSource) BitDepth() int {
	if f.meta.BitDepth > 0 {
		return f.meta.BitDepth
	}
	return 32
}

func (f *ffmpegSource) Read(samples []int32) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	need := len(samples) * 4
	if cap(f.raw) < need {
		f.raw = make([]byte, need)
	}
	f.raw = f.raw[:need]

	got, err := io.ReadFull(f.reader, f.raw)
	n := got / 4
	for i := range n {
		samples[i] = int32(binary.LittleEndian.Uint32(f.raw[4*i:]))
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		if werr := f.wait(); werr != nil {
			return n, werr
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	case err != nil:
		return n, fmt.Errorf("ffmpeg read failed: %w", err)
	}
	return n, nil
}

// wait reaps the process once stdout is drained
func (f *ffmpegSource) wait() error {
	if f.closed {
		return nil
	}
	f.closed = true
	defer f.cancel()

	if err := f.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg decode failed: %w, stderr: %s", err, f.stderr.String())
	}
	return nil
}

func (f *ffmpegSource) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.cancel()
	f.stdout.Close()
	// The process was killed or closed early; its exit status is not an error
	_ = f.cmd.Wait()
	return nil
}
