package spectral

import (
	"math"
	"testing"
)

func sine(n int, cycles float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * cycles * float64(i) / float64(n))
	}
	return x
}

func TestDFTSineBin(t *testing.T) {
	const n = 64
	d := NewDFT(n)
	mag := make([]float64, HalfSize(n))
	phase := make([]float64, HalfSize(n))

	d.Spectrum(sine(n, 5), mag, phase)

	for k, m := range mag {
		want := 0.0
		if k == 5 {
			want = n / 2
		}
		if math.Abs(m-want) > 1e-9 {
			t.Errorf("bin %d magnitude = %v, want %v", k, m, want)
		}
	}

	// sin has phase -pi/2 relative to cos
	if math.Abs(phase[5]+math.Pi/2) > 1e-9 {
		t.Errorf("bin 5 phase = %v, want %v", phase[5], -math.Pi/2)
	}
}

func TestDFTImpulse(t *testing.T) {
	const n = 32
	frame := make([]float64, n)
	frame[0] = 1

	mag := make([]float64, HalfSize(n))
	phase := make([]float64, HalfSize(n))
	NewDFT(n).Spectrum(frame, mag, phase)

	for k := range mag {
		if math.Abs(mag[k]-1) > 1e-12 || math.Abs(phase[k]) > 1e-12 {
			t.Fatalf("bin %d = (%v, %v), want (1, 0)", k, mag[k], phase[k])
		}
	}
}

func TestTransformsAgree(t *testing.T) {
	for _, n := range []int{64, 100, 256} {
		frame := make([]float64, n)
		for i := range frame {
			frame[i] = math.Sin(0.37*float64(i)) + 0.5*math.Cos(1.9*float64(i)+0.2)
		}

		bins := HalfSize(n)
		want := make([]float64, bins)
		wantPhase := make([]float64, bins)
		NewDFT(n).Spectrum(frame, want, wantPhase)

		for _, kind := range []TransformType{TransformFFT, TransformGonum} {
			tr, err := NewTransform(kind, n)
			if err != nil {
				t.Fatalf("NewTransform(%v): %v", kind, err)
			}

			mag := make([]float64, bins)
			phase := make([]float64, bins)
			tr.Spectrum(frame, mag, phase)

			for k := range bins {
				if math.Abs(mag[k]-want[k]) > 1e-8 {
					t.Fatalf("%v n=%d bin %d magnitude = %v, want %v", kind, n, k, mag[k], want[k])
				}
				// phase is only meaningful where there is energy
				if want[k] > 1e-6 {
					d := math.Remainder(phase[k]-wantPhase[k], 2*math.Pi)
					if math.Abs(d) > 1e-6 {
						t.Fatalf("%v n=%d bin %d phase = %v, want %v", kind, n, k, phase[k], wantPhase[k])
					}
				}
			}
		}
	}
}

func TestParseTransformType(t *testing.T) {
	tests := []struct {
		in      string
		want    TransformType
		wantErr bool
	}{
		{"dft", TransformDFT, false},
		{"FFT", TransformFFT, false},
		{" gonum ", TransformGonum, false},
		{"fftw", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTransformType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTransformType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTransformType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	var tt TransformType
	if err := tt.UnmarshalText([]byte("gonum")); err != nil || tt != TransformGonum {
		t.Errorf("UnmarshalText = %v, %v", tt, err)
	}
	if _, err := TransformType(9).MarshalText(); err == nil {
		t.Error("expected MarshalText error for invalid transform")
	}
}

func TestHighFrequencyContent(t *testing.T) {
	h := NewHighFrequencyContent()

	// bin 0 carries no weight
	if got := h.Frame([]float64{100, 0, 0}); got != 0 {
		t.Errorf("DC only = %v, want 0", got)
	}

	// sqrt((1*3)^2 + (2*4)^2) = sqrt(9 + 64)
	if got, want := h.Frame([]float64{5, 3, 4}), math.Sqrt(73); math.Abs(got-want) > 1e-12 {
		t.Errorf("HFC = %v, want %v", got, want)
	}
}

func TestSpectralFluxRectifies(t *testing.T) {
	sf := NewSpectralFlux()

	if got := sf.Frame([]float64{1, 1}, []float64{2, 2}); got != 0 {
		t.Errorf("decrease only = %v, want 0", got)
	}
	if got := sf.Frame([]float64{4, 0, 2}, []float64{1, 5, 2}); got != 3 {
		t.Errorf("flux = %v, want 3", got)
	}
	// against silence the flux is the magnitude norm
	if got := sf.Frame([]float64{3, 4}, make([]float64, 2)); got != 5 {
		t.Errorf("flux from silence = %v, want 5", got)
	}
}

func TestComplexDomain(t *testing.T) {
	cd := NewComplexDomain()

	// steady sinusoid: phase advances by a constant step, magnitude fixed
	pp := &Spectrum{Magnitude: []float64{2}, Phase: []float64{0.1}}
	p := &Spectrum{Magnitude: []float64{2}, Phase: []float64{0.4}}
	c := &Spectrum{Magnitude: []float64{2}, Phase: []float64{0.7}}
	if got := cd.Frame(c, p, pp); got > 1e-12 {
		t.Errorf("steady state deviation = %v, want 0", got)
	}

	// from silence every bin contributes its full magnitude
	zero := NewSpectrum(2)
	c = &Spectrum{Magnitude: []float64{3, 4}, Phase: []float64{1, -2}}
	if got := cd.Frame(c, zero, zero); math.Abs(got-7) > 1e-12 {
		t.Errorf("onset from silence = %v, want 7", got)
	}
}

func TestSTFT(t *testing.T) {
	stft, err := NewSTFT(8, 4, nil, nil)
	if err != nil {
		t.Fatalf("NewSTFT: %v", err)
	}

	if stft.FreqBins() != 5 {
		t.Errorf("FreqBins = %d, want 5", stft.FreqBins())
	}

	signal := make([]float64, 20)
	for i := range signal {
		signal[i] = float64(i)
	}
	if f := stft.Frame(signal, 2); f[0] != 8 || len(f) != 8 {
		t.Errorf("Frame(2) = %v", f)
	}

	dst := NewSpectrum(stft.FreqBins())
	if err := stft.Analyze(signal, 1, dst); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if dst.Magnitude[0] <= 0 {
		t.Error("expected non-zero DC for a ramp")
	}

	// analysis must not modify the input
	if signal[4] != 4 {
		t.Errorf("signal modified: %v", signal[4])
	}

	if _, err := NewSTFT(0, 1, nil, nil); err == nil {
		t.Error("expected error for zero frame size")
	}
	if _, err := NewSTFT(8, 0, nil, nil); err == nil {
		t.Error("expected error for zero hop size")
	}
}
