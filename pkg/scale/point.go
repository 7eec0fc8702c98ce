package scale

import (
	"math"

	"github.com/Sumatoshi-tech/seasonality/pkg/alg/stats"
)

// Point places an ordered list of week numbers at evenly spaced positions
// across [R0, R1], first at R0 and last at R1. A single week sits at the
// middle of the range.
type Point struct {
	weeks  []int
	index  map[int]int
	r0, r1 float64
}

// NewPoint builds a point scale over the weeks in the given order.
func NewPoint(weeks []int, r0, r1 float64) Point {
	index := make(map[int]int, len(weeks))
	for i, w := range weeks {
		if _, dup := index[w]; !dup {
			index[w] = i
		}
	}

	return Point{weeks: weeks, index: index, r0: r0, r1: r1}
}

// Step returns the distance between adjacent weeks.
func (p Point) Step() float64 {
	return (p.r1 - p.r0) / float64(max(1, len(p.weeks)-1))
}

func (p Point) start() float64 {
	n := len(p.weeks)
	if n == 1 {
		return p.r0 + (p.r1-p.r0)*midpoint
	}

	return p.r0
}

// Map returns the position of week, or NaN and false for an unknown week.
func (p Point) Map(week int) (float64, bool) {
	i, ok := p.index[week]
	if !ok {
		return math.NaN(), false
	}

	return p.start() + p.Step()*float64(i), true
}

// Weeks returns the domain in order.
func (p Point) Weeks() []int { return p.weeks }

// IndexAt returns the domain index under range position x: the week whose
// slot starts at or before x. Positions outside the range clamp to the ends.
func (p Point) IndexAt(x float64) (int, bool) {
	n := len(p.weeks)
	if n == 0 {
		return 0, false
	}

	step := p.Step()
	if step == 0 {
		return 0, true
	}

	i := int(math.Floor((x - p.r0) / step))

	return stats.Clamp(i, 0, n-1), true
}

// WeekAt returns the week under range position x.
func (p Point) WeekAt(x float64) (int, bool) {
	i, ok := p.IndexAt(x)
	if !ok {
		return 0, false
	}

	return p.weeks[i], true
}
