package onset

import (
	"math"

	"github.com/RyanBlaney/sonido-slicer/algorithms/common"
)

// medianWindowFrames converts the threshold context to an odd frame count of
// at least 3
func medianWindowFrames(seconds float64, sampleRate, hopSize int) int {
	frames := int(math.Round(seconds * float64(sampleRate) / float64(hopSize)))
	return common.OddWindow(frames, 3)
}

// minSpacingFrames converts the minimum onset spacing to frames, at least 1
func minSpacingFrames(seconds float64, sampleRate, hopSize int) int {
	frames := int(math.Round(seconds * float64(sampleRate) / float64(hopSize)))
	return max(1, frames)
}

// adaptiveThreshold returns the running median of odf floored at floor
func adaptiveThreshold(odf []float64, window int, floor float64) []float64 {
	curve := common.MedianFilter(odf, window)
	for i, v := range curve {
		curve[i] = math.Max(v, floor)
	}
	return curve
}

// isLocalMax reports whether odf[i] is strictly above its right neighbour and
// the nearest differing value to its left is strictly below it. A flat top
// resolves to its last frame; without plateaus this is the plain strict
// comparison against both neighbours.
func isLocalMax(odf []float64, i int) bool {
	if odf[i] <= odf[i+1] {
		return false
	}
	for j := i - 1; j >= 0; j-- {
		switch {
		case odf[j] < odf[i]:
			return true
		case odf[j] > odf[i]:
			return false
		}
	}
	return false
}

// pickPeaks scans interior frames in order and greedily accepts local maxima
// above curve*sensitivity that are at least minSpacing frames after the last
// accepted peak. Accepted peaks are never revisited.
func pickPeaks(odf, curve []float64, sensitivity float64, minSpacing int) []int {
	peaks := []int{}
	if len(odf) < 3 {
		return peaks
	}

	last := -minSpacing
	for i := 1; i < len(odf)-1; i++ {
		if odf[i] <= curve[i]*sensitivity || !isLocalMax(odf, i) {
			continue
		}
		if i-last < minSpacing {
			continue
		}
		peaks = append(peaks, i)
		last = i
	}

	return peaks
}

// framesToSeconds converts frame indices to frame start times
func framesToSeconds(frames []int, hopSize, sampleRate int) []float64 {
	times := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = float64(f) * float64(hopSize) / float64(sampleRate)
	}
	return times
}
