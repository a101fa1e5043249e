package match

import "math"

// ListeningScore converts a zero-based rank position in a top-artist list
// into a 0-100 preference score. The top artist scores 100, the last one
// in a full list scores close to 1.
func ListeningScore(position, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(total-position) / float64(total) * 100))
}
