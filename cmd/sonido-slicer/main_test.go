package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/sonido-slicer/transcode"
)

func writeClicks(t *testing.T) string {
	t.Helper()
	samples := make([]int32, 8000)
	for _, p := range []int{1024, 3072, 5120} {
		samples[p] = 1 << 30
	}
	path := filepath.Join(t.TempDir(), "clicks.wav")
	if err := transcode.WriteWAV(path, samples, 8000, 1, 16); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestDetectCommand(t *testing.T) {
	path := writeClicks(t)

	out, err := run(t, "detect", path, "--method", "energy", "--frame-size", "256", "--hop-size", "64", "--json")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	var onsets []float64
	if err := json.Unmarshal([]byte(out), &onsets); err != nil {
		t.Fatalf("output %q: %v", out, err)
	}
	if len(onsets) != 3 {
		t.Errorf("onsets = %v, want 3", onsets)
	}
}

func TestDetectCommandRejectsBadMethod(t *testing.T) {
	path := writeClicks(t)
	if _, err := run(t, "detect", path, "--method", "bogus"); err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Errorf("err = %v", err)
	}
}

func TestSliceCommand(t *testing.T) {
	path := writeClicks(t)
	dir := t.TempDir()

	if _, err := run(t, "slice", path, dir, "--slices", "2"); err != nil {
		t.Fatalf("slice: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name() != "clicks_slice_000.wav" {
		t.Errorf("entries = %v", entries)
	}
}

func TestSliceCommandRejectsDetectionFlagsWithoutOnsets(t *testing.T) {
	path := writeClicks(t)
	dir := t.TempDir()

	_, err := run(t, "slice", path, dir, "--slices", "2", "--method", "energy")
	if err == nil || !strings.Contains(err.Error(), "--method") {
		t.Fatalf("err = %v, want a --method error", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("wrote %d files", len(entries))
	}

	// with a threshold the same flag selects the detection function
	out, err := run(t, "slice", path, dir, "--threshold", "0.3", "--method", "energy",
		"--frame-size", "256", "--hop-size", "64", "--json")
	if err != nil {
		t.Fatalf("onset slice: %v", err)
	}
	var written []map[string]any
	if err := json.Unmarshal([]byte(out), &written); err != nil {
		t.Fatalf("output %q: %v", out, err)
	}
	if len(written) != 3 {
		t.Errorf("got %d slices, want one per click", len(written))
	}
}

func TestInfoCommand(t *testing.T) {
	path := writeClicks(t)

	out, err := run(t, "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Sample rate: 8000 Hz", "Channels:    1", "Frames:      8000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
