// Package scale provides immutable value-to-pixel mappings. Scales are built
// fresh for each render and never mutated in place.
package scale

import "math"

const (
	defaultTickCount = 10
	niceMaxIter      = 10
	midpoint         = 0.5
)

// Thresholds for the 1-2-5 tick step ladder.
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear maps the continuous domain [D0, D1] onto the range [R0, R1].
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear builds a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map returns the range position of v. A degenerate domain maps every value
// to the middle of the range.
func (s Linear) Map(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return s.R0 + (s.R1-s.R0)*midpoint
	}

	return s.R0 + (v-s.D0)*(s.R1-s.R0)/span
}

// Invert returns the domain value at range position y.
func (s Linear) Invert(y float64) float64 {
	span := s.R1 - s.R0
	if span == 0 {
		return s.D0 + (s.D1-s.D0)*midpoint
	}

	return s.D0 + (y-s.R0)*(s.D1-s.D0)/span
}

// Domain returns the domain bounds.
func (s Linear) Domain() (d0, d1 float64) { return s.D0, s.D1 }

// WithRange returns a copy mapping onto [r0, r1].
func (s Linear) WithRange(r0, r1 float64) Linear {
	return Linear{D0: s.D0, D1: s.D1, R0: r0, R1: r1}
}

// Nice extends the domain outward to round tick values for roughly count
// ticks. A count <= 0 uses 10.
func (s Linear) Nice(count int) Linear {
	if count <= 0 {
		count = defaultTickCount
	}

	start, stop := s.D0, s.D1
	reversed := stop < start

	if reversed {
		start, stop = stop, start
	}

	var prestep float64

	for range niceMaxIter {
		step := tickIncrement(start, stop, float64(count))

		if step == prestep {
			break
		}

		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return s
		}

		prestep = step
	}

	if reversed {
		start, stop = stop, start
	}

	return Linear{D0: start, D1: stop, R0: s.R0, R1: s.R1}
}

// Ticks returns round values inside the domain, about count of them.
func (s Linear) Ticks(count int) []float64 {
	if count <= 0 {
		count = defaultTickCount
	}

	lo, hi := min(s.D0, s.D1), max(s.D0, s.D1)

	step := tickIncrement(lo, hi, float64(count))
	if step == 0 || math.IsNaN(step) {
		return nil
	}

	var ticks []float64

	if step > 0 {
		for i := math.Ceil(lo / step); i*step <= hi; i++ {
			ticks = append(ticks, i*step)
		}

		return ticks
	}

	inv := -step
	for i := math.Ceil(lo * inv); i/inv <= hi; i++ {
		ticks = append(ticks, i/inv)
	}

	return ticks
}

// tickIncrement returns the tick step when positive, or the negated inverse
// of a sub-unit step (so -10 means 0.1). Zero means no usable step.
func tickIncrement(start, stop, count float64) float64 {
	if stop <= start || count <= 0 || math.IsInf(stop-start, 0) || math.IsNaN(stop-start) {
		return 0
	}

	step := (stop - start) / count
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)

	factor := 1.0

	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}

	if power >= 0 {
		return math.Pow(10, power) * factor
	}

	return -math.Pow(10, -power) / factor
}
