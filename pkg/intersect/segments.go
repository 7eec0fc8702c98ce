package intersect

import (
	"slices"

	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
)

// minSegmentLen is the fewest points a fillable segment may have.
const minSegmentLen = 2

// Segment is a run of points over which one series stays on the same side
// of the other. Crossing points bound it at either end.
type Segment []AlignedPoint

// AreaPath renders the fill polygon between the two lines over the segment.
func (s Segment) AreaPath() string {
	xs := make([]float64, len(s))
	top := make([]float64, len(s))
	bottom := make([]float64, len(s))

	for i, p := range s {
		xs[i], top[i], bottom[i] = p.X, p.BY, p.AY
	}

	return curve.AreaPath(xs, top, bottom)
}

// Segments holds the fill regions: Above where A is over B, Below where A is
// under B, plus the crossing points found.
type Segments struct {
	Above         []Segment      `json:"above"`
	Below         []Segment      `json:"below"`
	Intersections []AlignedPoint `json:"intersections"`
}

// Split merges crossings into the aligned points, orders everything by x and
// walks it, closing a segment at each crossing and flipping sides. Runs of
// fewer than two points are dropped.
func Split(points []AlignedPoint) Segments {
	crossings := Intersections(points)

	all := make([]AlignedPoint, 0, len(points)+len(crossings))
	all = append(all, points...)
	all = append(all, crossings...)

	slices.SortStableFunc(all, func(l, r AlignedPoint) int {
		switch {
		case l.X < r.X:
			return -1
		case l.X > r.X:
			return 1
		default:
			return 0
		}
	})

	out := Segments{Intersections: crossings}
	if len(all) < minSegmentLen {
		return out
	}

	var (
		current Segment
		above   bool
		started bool
	)

	flush := func() {
		if len(current) < minSegmentLen {
			return
		}

		if above {
			out.Above = append(out.Above, current)
		} else {
			out.Below = append(out.Below, current)
		}
	}

	for _, p := range all {
		side := above
		if !p.IsIntersection {
			side = p.AAbove()
		}

		switch {
		case !started:
			started = true
			above = side
			current = Segment{p}
		case p.IsIntersection:
			current = append(current, p)
			flush()

			current = Segment{p}
			above = !above
		case side == above:
			current = append(current, p)
		default:
			// Side changed without a computed crossing, e.g. parallel guard.
			flush()

			current = Segment{p}
			above = side
		}
	}

	flush()

	return out
}
