// Package stats provides small numeric helpers shared by the scale and curve
// builders. Helpers that take optional values skip NaN entries.
package stats

import (
	"cmp"
	"math"
)

// Clamp restricts val to the range [lo, hi].
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	return max(lo, min(val, hi))
}

// Extent returns the minimum and maximum of the finite values.
// ok is false when no finite value exists.
func Extent(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		if !ok {
			lo, hi, ok = v, v, true

			continue
		}

		lo = min(lo, v)
		hi = max(hi, v)
	}

	return lo, hi, ok
}

// Mean returns the arithmetic mean of the finite values.
// ok is false when no finite value exists.
func Mean(values []float64) (mean float64, ok bool) {
	var (
		sum   float64
		count int
	)

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		sum += v
		count++
	}

	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}
