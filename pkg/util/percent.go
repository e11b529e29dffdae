package util

import "math"

// Percent renders a 0.0-1.0 confidence value as a whole percentage.
// Missing probabilities decode to zero and therefore render as 0.
func Percent(p float64) int {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	return int(math.Round(p * 100))
}
