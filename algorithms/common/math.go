package common

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical helpers shared by the analysis packages, backed by gonum
// where gonum has the exact semantics we want.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Percentile calculates the p-th percentile (p between 0 and 1)
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// Max returns the largest value, or 0 for an empty slice.
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Max(data)
}

// ScaleToPeak divides every value by the slice maximum in place.
// Nothing is changed when the maximum is not strictly positive.
// It returns the maximum that was found.
func ScaleToPeak(data []float64) float64 {
	peak := Max(data)
	if peak > 0 {
		for i := range data {
			data[i] /= peak
		}
	}
	return peak
}

// Median returns the median of data, averaging the two middle values for
// even lengths. scratch is used for sorting when it is large enough.
func Median(data, scratch []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0.0
	}

	if cap(scratch) < n {
		scratch = make([]float64, n)
	}
	window := scratch[:n]
	copy(window, data)
	slices.Sort(window)

	mid := n / 2
	if n%2 == 0 {
		return (window[mid-1] + window[mid]) / 2.0
	}
	return window[mid]
}

// MedianFilter applies a centered median filter with the given window size.
// Windows are truncated at the edges rather than padded.
func MedianFilter(data []float64, windowSize int) []float64 {
	if len(data) == 0 || windowSize <= 0 {
		return slices.Clone(data)
	}

	result := make([]float64, len(data))
	halfWindow := windowSize / 2
	scratch := make([]float64, 0, min(windowSize, len(data)))

	for i := range data {
		start := max(0, i-halfWindow)
		end := min(len(data), i+halfWindow+1)
		result[i] = Median(data[start:end], scratch)
	}

	return result
}

// OddWindow returns n rounded up to the nearest odd integer, never below minSize.
func OddWindow(n, minSize int) int {
	n = max(n, minSize)
	if n%2 == 0 {
		n++
	}
	return n
}
