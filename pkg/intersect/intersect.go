// Package intersect aligns two weekly series on a shared axis, finds where
// their lines cross and splits the band between them into above and below
// segments for fill rendering.
package intersect

import (
	"math"
	"slices"

	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/scale"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// parallelEpsilon is the slope difference under which two segments are
// treated as parallel.
const parallelEpsilon = 1e-10

// AlignedPoint is a week where both series are defined, in pixel space.
// Smaller Y is higher on screen. Intersection points have AY == BY and no
// week or raw values.
type AlignedPoint struct {
	WeekNumber     int                 `json:"weekNumber"`
	WeekStart      season.CalendarDate `json:"weekStart"`
	X              float64             `json:"x"`
	AY             float64             `json:"aY"`
	BY             float64             `json:"bY"`
	RawA           dataset.Value       `json:"rawA"`
	RawB           dataset.Value       `json:"rawB"`
	IsIntersection bool                `json:"isIntersection"`
}

// AAbove reports whether series A is drawn strictly above series B.
func (p AlignedPoint) AAbove() bool {
	return p.AY < p.BY
}

// Align pairs the two series week by week. Weeks are collected from both
// series, ordered by calendar date, and kept only when both series have a
// defined value and the week is on the axis. The first row per week wins.
func Align(a, b curve.Series, x scale.Point, y scale.Linear) []AlignedPoint {
	type weekRef struct {
		week  int
		start season.CalendarDate
	}

	var weeks []weekRef

	seen := make(map[int]bool)

	for _, rows := range [][]dataset.MetricRow{a.Rows, b.Rows} {
		for _, r := range rows {
			if seen[r.WeekNumber] {
				continue
			}

			seen[r.WeekNumber] = true
			weeks = append(weeks, weekRef{week: r.WeekNumber, start: r.WeekStart})
		}
	}

	slices.SortStableFunc(weeks, func(l, r weekRef) int {
		return l.start.Compare(r.start)
	})

	aByWeek := firstByWeek(a)
	bByWeek := firstByWeek(b)

	points := make([]AlignedPoint, 0, len(weeks))

	for _, w := range weeks {
		av, bv := aByWeek[w.week], bByWeek[w.week]
		if !av.Valid || !bv.Valid {
			continue
		}

		px, ok := x.Map(w.week)
		if !ok {
			continue
		}

		points = append(points, AlignedPoint{
			WeekNumber: w.week,
			WeekStart:  w.start,
			X:          px,
			AY:         y.Map(av.Float),
			BY:         y.Map(bv.Float),
			RawA:       av,
			RawB:       bv,
		})
	}

	return points
}

func firstByWeek(s curve.Series) map[int]dataset.Value {
	out := make(map[int]dataset.Value, len(s.Rows))

	for _, r := range s.Rows {
		if _, ok := out[r.WeekNumber]; ok {
			continue
		}

		out[r.WeekNumber] = r.Value(s.Metric)
	}

	return out
}

// Crossing returns the point where the segments p1→p2 of A and B cross.
// It reports false when the above/below relation does not change (equal Y
// counts as not above), when the segments are parallel, or when the
// computed x falls outside [p1.X, p2.X].
func Crossing(p1, p2 AlignedPoint) (AlignedPoint, bool) {
	if p1.AAbove() == p2.AAbove() {
		return AlignedPoint{}, false
	}

	dx := p2.X - p1.X
	if dx == 0 {
		return AlignedPoint{}, false
	}

	slopeA := (p2.AY - p1.AY) / dx
	slopeB := (p2.BY - p1.BY) / dx

	if math.Abs(slopeA-slopeB) < parallelEpsilon {
		return AlignedPoint{}, false
	}

	interceptA := p1.AY - slopeA*p1.X
	interceptB := p1.BY - slopeB*p1.X

	x := (interceptB - interceptA) / (slopeA - slopeB)
	if x < min(p1.X, p2.X) || x > max(p1.X, p2.X) {
		return AlignedPoint{}, false
	}

	cy := slopeA*x + interceptA

	return AlignedPoint{
		X:              x,
		AY:             cy,
		BY:             cy,
		IsIntersection: true,
	}, true
}

// Intersections returns the crossings between consecutive aligned points.
func Intersections(points []AlignedPoint) []AlignedPoint {
	var out []AlignedPoint

	for i := 1; i < len(points); i++ {
		if c, ok := Crossing(points[i-1], points[i]); ok {
			out = append(out, c)
		}
	}

	return out
}
