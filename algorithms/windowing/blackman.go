package windowing

// blackman trades main-lobe width for lower side lobes than Hann
func blackman(size int) []float64 {
	return cosineSum(size, 0.42, 0.5, 0.08)
}
