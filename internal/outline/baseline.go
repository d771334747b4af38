package outline

import "sort"

// Median returns the median of sizes, averaging the two middle values for
// even-length input. It returns 0 for an empty slice. The input is not modified.
func Median(sizes []float64) float64 {
	n := len(sizes)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, sizes)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
