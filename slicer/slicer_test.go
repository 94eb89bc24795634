package slicer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/RyanBlaney/sonido-slicer/onset"
	"github.com/RyanBlaney/sonido-slicer/transcode"
)

const testRate = 8000

// writeLoop writes one second of 16-bit stereo with clicks at the given
// frame positions
func writeLoop(t *testing.T, clicks ...int) string {
	t.Helper()
	samples := make([]int32, 2*testRate)
	for _, c := range clicks {
		samples[2*c] = 1 << 30
		samples[2*c+1] = 1 << 30
	}
	path := filepath.Join(t.TempDir(), "drums.wav")
	if err := transcode.WriteWAV(path, samples, testRate, 2, 16); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	return path
}

func totalFrames(t *testing.T, slices []Slice) int {
	t.Helper()
	total := 0
	for _, s := range slices {
		info, err := transcode.Probe(s.Path)
		if err != nil {
			t.Fatalf("Probe(%s): %v", s.Path, err)
		}
		if info.Channels != 2 || info.SampleRate != testRate || info.BitDepth != 16 {
			t.Errorf("%s: %+v", s.Path, info)
		}
		total += info.Frames
	}
	return total
}

func TestSliceLoopEqualParts(t *testing.T) {
	path := writeLoop(t)
	out := filepath.Join(t.TempDir(), "nested", "out")

	slices, err := SliceLoop(path, out, nil)
	if err != nil {
		t.Fatalf("SliceLoop: %v", err)
	}
	if len(slices) != DefaultSlices {
		t.Fatalf("got %d slices, want %d", len(slices), DefaultSlices)
	}

	for i, s := range slices {
		want := filepath.Join(out, fmt.Sprintf("drums_slice_%03d.wav", i))
		if s.Path != want {
			t.Errorf("slice %d path = %s, want %s", i, s.Path, want)
		}
		if s.Start != float64(i)*0.25 {
			t.Errorf("slice %d start = %v", i, s.Start)
		}
	}

	if got := totalFrames(t, slices); got != testRate {
		t.Errorf("slices hold %d frames, want %d", got, testRate)
	}
}

func TestSliceLoopBPM(t *testing.T) {
	path := writeLoop(t)

	// 120 bpm, 1 beat per slice: 0.5s slices
	slices, err := SliceLoop(path, t.TempDir(), &Config{BPM: 120, BeatsPerSlice: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(slices) != 2 {
		t.Fatalf("got %d slices, want 2", len(slices))
	}
	if slices[1].Start != 0.5 || slices[1].End != 1 {
		t.Errorf("second slice = %+v", slices[1])
	}
}

func TestSliceLoopBeatDuration(t *testing.T) {
	path := writeLoop(t)

	slices, err := SliceLoop(path, t.TempDir(), &Config{BeatDuration: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	// three full beats; the remainder stays in the last slice
	if len(slices) != 3 {
		t.Fatalf("got %d slices, want 3", len(slices))
	}
	if got := totalFrames(t, slices); got != testRate {
		t.Errorf("slices hold %d frames, want %d", got, testRate)
	}
}

func TestSliceLoopShorterThanOneSlice(t *testing.T) {
	path := writeLoop(t)

	// one beat at 30 bpm lasts 2s, longer than the 1s loop
	for _, cfg := range []*Config{
		{BPM: 30, BeatsPerSlice: 1},
		{BeatDuration: 5},
	} {
		out := t.TempDir()
		slices, err := SliceLoop(path, out, cfg)
		if err != nil {
			t.Fatalf("%s: %v", cfg.Mode(), err)
		}
		if slices == nil || len(slices) != 0 {
			t.Errorf("%s: got %+v, want no slices", cfg.Mode(), slices)
		}
		if entries, _ := os.ReadDir(out); len(entries) != 0 {
			t.Errorf("%s: wrote %d files", cfg.Mode(), len(entries))
		}
	}
}

func TestSliceLoopRejectsSubFrameSlices(t *testing.T) {
	path := writeLoop(t)

	tests := []struct {
		name string
		cfg  *Config
	}{
		{"tiny beat duration", &Config{BeatDuration: 1e-9}},
		{"huge bpm", &Config{BPM: 1e12, BeatsPerSlice: 1}},
		{"more slices than frames", &Config{Slices: testRate + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			if _, err := SliceLoop(path, out, tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
			if entries, _ := os.ReadDir(out); len(entries) != 0 {
				t.Errorf("wrote %d files", len(entries))
			}
		})
	}

	// 2000-frame beats are well above the limit
	written, err := SliceLoop(path, t.TempDir(), &Config{BeatDuration: 0.25})
	if err != nil || len(written) != 4 {
		t.Errorf("quarter-second beats: %d slices, %v", len(written), err)
	}
}

func TestEvenPoints(t *testing.T) {
	if got := evenPoints(0, 0.5); got == nil || len(got) != 0 {
		t.Errorf("evenPoints(0) = %v, want empty", got)
	}
	if got := evenPoints(3, 0.5); !slices.Equal(got, []float64{0, 0.5, 1}) {
		t.Errorf("evenPoints(3) = %v", got)
	}
}

func TestSliceLoopOnsets(t *testing.T) {
	path := writeLoop(t, 1024, 3072, 5120)

	cfg := onset.DefaultConfig()
	cfg.Method = onset.MethodEnergy
	cfg.FrameSize = 256
	cfg.HopSize = 64

	// onsets win over the other modes
	slices, err := SliceLoop(path, t.TempDir(), &Config{Onsets: cfg, BPM: 120, Slices: 8})
	if err != nil {
		t.Fatal(err)
	}
	if len(slices) != 3 {
		t.Fatalf("got %d slices, want one per click", len(slices))
	}
	if slices[len(slices)-1].End != 1 {
		t.Errorf("last slice should run to the end, got %v", slices[len(slices)-1].End)
	}
}

func TestSliceLoopNoOnsets(t *testing.T) {
	path := writeLoop(t)

	slices, err := SliceLoop(path, t.TempDir(), &Config{Onsets: onset.DefaultConfig()})
	if err != nil {
		t.Fatal(err)
	}
	if len(slices) != 1 || slices[0].Start != 0 || slices[0].End != 1 {
		t.Errorf("silence should yield one whole-file slice, got %+v", slices)
	}
}

func TestSliceLoopInvalid(t *testing.T) {
	path := writeLoop(t)

	if _, err := SliceLoop(path, t.TempDir(), &Config{Slices: 0}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero slices = %v, want ErrInvalidConfig", err)
	}
	if _, err := SliceLoop(path, t.TempDir(), &Config{BPM: 100}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero beats per slice = %v, want ErrInvalidConfig", err)
	}

	bad := onset.DefaultConfig()
	bad.Method = onset.Method(9)
	if _, err := SliceLoop(path, t.TempDir(), &Config{Onsets: bad}); !errors.Is(err, onset.ErrUnknownMethod) {
		t.Errorf("bad onset config = %v, want ErrUnknownMethod", err)
	}

	if _, err := SliceLoop(filepath.Join(t.TempDir(), "missing.wav"), t.TempDir(), nil); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		cfg  Config
		want Mode
	}{
		{Config{Slices: 4}, ModeCount},
		{Config{BeatDuration: 1, Slices: 4}, ModeBeatDuration},
		{Config{BPM: 90, BeatDuration: 1}, ModeBPM},
		{Config{Onsets: onset.DefaultConfig(), BPM: 90}, ModeOnsets},
	}
	for _, tt := range tests {
		if got := tt.cfg.Mode(); got != tt.want {
			t.Errorf("Mode(%+v) = %s, want %s", tt.cfg, got, tt.want)
		}
	}
}

func TestSegmentSamples(t *testing.T) {
	audio := &transcode.AudioData{
		Samples:    []int32{0, 0, 1, 1, 2, 2, 3, 3},
		SampleRate: 4,
		Channels:   2,
	}

	if got := segmentSamples(audio, 0.25, 0.75); len(got) != 4 || got[0] != 1 || got[3] != 2 {
		t.Errorf("segment = %v", got)
	}
	if got := segmentSamples(audio, 0.5, 0.5); got != nil {
		t.Errorf("empty segment = %v", got)
	}
	if got := segmentSamples(audio, 0.75, 5); len(got) != 2 {
		t.Errorf("segment past end = %v", got)
	}
}
