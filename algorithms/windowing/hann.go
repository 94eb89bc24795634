package windowing

// hann is w[n] = 0.5 * (1 - cos(2*pi*n/(size-1)))
func hann(size int) []float64 {
	return cosineSum(size, 0.5, 0.5, 0)
}

// NewHann creates a symmetric Hann window, the default for onset analysis
func NewHann(size int) *Window {
	return &Window{kind: TypeHann, coefficients: hann(max(size, 0))}
}
