package windowing

func rectangular(size int) []float64 {
	c := make([]float64, size)
	for i := range c {
		c[i] = 1.0
	}
	return c
}
