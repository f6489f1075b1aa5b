package transcode

import "math"

// ToInt16 converts float PCM in [-1, 1] to 16-bit signed PCM with
// rounding, clamping out-of-range input to the representable range.
func ToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32768)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		out[i] = int16(v)
	}
	return out
}
