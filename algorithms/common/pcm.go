package common

// FullScaleInt32 is the magnitude of the most negative 32-bit sample
const FullScaleInt32 = 1 << 31

// MixdownInt32 averages interleaved 32-bit fixed-point samples into a mono
// floating-point signal in approximately [-1, 1]. Trailing samples that do
// not form a complete frame are ignored.
func MixdownInt32(samples []int32, channels int) []float64 {
	if channels <= 0 || len(samples) < channels {
		return []float64{}
	}

	monoLen := len(samples) / channels
	mono := make([]float64, monoLen)
	scale := 1.0 / (float64(channels) * FullScaleInt32)

	for i := range monoLen {
		sum := 0.0
		base := i * channels
		for c := range channels {
			sum += float64(samples[base+c])
		}
		mono[i] = sum * scale
	}

	return mono
}

// ScaleToInt32 shifts a sample of the given bit depth up to 32-bit full scale.
func ScaleToInt32(sample int, bitDepth int) int32 {
	switch {
	case bitDepth <= 0 || bitDepth >= 32:
		return int32(sample)
	case bitDepth == 8:
		// 8-bit PCM is unsigned with a 128 midpoint
		return int32(sample-128) << 24
	default:
		return int32(sample) << (32 - bitDepth)
	}
}

// ScaleFromInt32 is the inverse of ScaleToInt32
func ScaleFromInt32(sample int32, bitDepth int) int {
	switch {
	case bitDepth <= 0 || bitDepth >= 32:
		return int(sample)
	case bitDepth == 8:
		return int(sample>>24) + 128
	default:
		return int(sample >> (32 - bitDepth))
	}
}
