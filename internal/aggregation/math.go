// Package aggregation rolls decrypted entries up into daily, weekly and
// monthly metric summaries. Every function here is pure.
package aggregation

import (
	"math"
	"slices"
)

// Sum returns the sum of values, 0 for none.
func Sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// Average returns the arithmetic mean, 0 for none.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Median returns the middle value (mean of the two middle values for even
// lengths), 0 for none. values is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 != 0 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Min(values)
}

func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}

// PercentageDelta returns the change from previous to current in percent of
// |previous|. From zero it is 0 when current is zero too and 100 otherwise.
func PercentageDelta(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / math.Abs(previous) * 100
}
