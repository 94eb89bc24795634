package windowing

import (
	"math"
	"testing"

	"github.com/mjibson/go-dsp/window"
)

func TestHannMatchesGoDSP(t *testing.T) {
	for _, size := range []int{2, 3, 16, 255, 1024} {
		got := NewHann(size).GetCoefficients()
		want := window.Hann(size)

		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-12 {
				t.Fatalf("size %d: w[%d] = %v, want %v", size, i, got[i], want[i])
			}
		}
	}
}

func TestWindowsMatchGoDSP(t *testing.T) {
	reference := map[Type]func(int) []float64{
		TypeHann:        window.Hann,
		TypeHamming:     window.Hamming,
		TypeBlackman:    window.Blackman,
		TypeRectangular: window.Rectangular,
	}

	for kind, ref := range reference {
		for _, size := range []int{2, 7, 256} {
			w, err := New(kind, size)
			if err != nil {
				t.Fatalf("New(%v): %v", kind, err)
			}
			if w.GetType() != kind || w.GetSize() != size {
				t.Errorf("New(%v, %d) = %v/%d", kind, size, w.GetType(), w.GetSize())
			}

			got, want := w.GetCoefficients(), ref(size)
			for i := range want {
				if math.Abs(got[i]-want[i]) > 1e-12 {
					t.Fatalf("%v size %d: w[%d] = %v, want %v", kind, size, i, got[i], want[i])
				}
			}
		}
	}

	if _, err := New(Type(9), 8); err == nil {
		t.Error("expected error for unknown window type")
	}
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"hann", "Hamming", " blackman ", "RECTANGULAR"} {
		kind, err := ParseType(name)
		if err != nil {
			t.Errorf("ParseType(%q): %v", name, err)
			continue
		}
		text, _ := kind.MarshalText()
		var back Type
		if err := back.UnmarshalText(text); err != nil || back != kind {
			t.Errorf("text round trip of %v = %v, %v", kind, back, err)
		}
	}
	if _, err := ParseType("kaiser"); err == nil {
		t.Error("expected error for unsupported window")
	}
}

func TestHannSymmetric(t *testing.T) {
	h := NewHann(9)
	c := h.GetCoefficients()

	if c[0] != 0 || c[8] > 1e-15 {
		t.Errorf("endpoints = %v, %v, want 0", c[0], c[8])
	}
	if math.Abs(c[4]-1) > 1e-15 {
		t.Errorf("centre = %v, want 1", c[4])
	}
	for i := range 4 {
		if math.Abs(c[i]-c[8-i]) > 1e-15 {
			t.Errorf("w[%d] = %v != w[%d] = %v", i, c[i], 8-i, c[8-i])
		}
	}
}

func TestHannSinglePoint(t *testing.T) {
	c := NewHann(1).GetCoefficients()
	if len(c) != 1 || c[0] != 1 {
		t.Fatalf("NewHann(1) = %v, want [1]", c)
	}
}

func TestHannApplyInPlace(t *testing.T) {
	h := NewHann(4)

	if err := h.ApplyInPlace(make([]float64, 3)); err == nil {
		t.Error("expected length mismatch error")
	}

	signal := []float64{1, 1, 1, 1}
	if err := h.ApplyInPlace(signal); err != nil {
		t.Fatalf("ApplyInPlace: %v", err)
	}

	want := h.GetCoefficients()
	for i := range signal {
		if signal[i] != want[i] {
			t.Errorf("signal[%d] = %v, want %v", i, signal[i], want[i])
		}
	}

	if h.Apply([]float64{1}) != nil {
		t.Error("Apply with wrong length should return nil")
	}
}
