// Package curve turns ordered metric rows into plotted points and SVG path
// strings with breaks at null values.
package curve

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/scale"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// Point is one plotted observation. Undefined points carry no coordinates
// and break the line.
type Point struct {
	X          float64             `json:"x"`
	Y          float64             `json:"y"`
	Value      dataset.Value       `json:"value"`
	WeekNumber int                 `json:"weekNumber"`
	WeekStart  season.CalendarDate `json:"weekStart"`
	Defined    bool                `json:"defined"`
}

// Curve is a built line: its points in calendar order and the SVG path.
type Curve struct {
	Points []Point `json:"points"`
	Path   string  `json:"path"`
}

// XFunc positions a row horizontally; false means the row cannot be placed.
type XFunc func(row dataset.MetricRow) (float64, bool)

// ByWeek positions rows on a week-number point scale.
func ByWeek(p scale.Point) XFunc {
	return func(row dataset.MetricRow) (float64, bool) {
		return p.Map(row.WeekNumber)
	}
}

// Build maps rows to points and a path. Rows are ordered by week start date,
// never by week number, so week 52 precedes week 1 of the next year. A null
// value or an unplaceable row splits the path into a new subpath.
func Build(rows []dataset.MetricRow, metric string, x XFunc, y scale.Linear) Curve {
	sorted := SortByDate(rows)
	points := make([]Point, len(sorted))

	for i, row := range sorted {
		v := row.Value(metric)
		pt := Point{Value: v, WeekNumber: row.WeekNumber, WeekStart: row.WeekStart}

		if v.Valid {
			if px, ok := x(row); ok {
				pt.X = px
				pt.Y = y.Map(v.Float)
				pt.Defined = true
			}
		}

		points[i] = pt
	}

	return Curve{Points: points, Path: LinePath(points)}
}

// SortByDate returns a copy of rows ordered by week start. Equal dates keep
// their input order.
func SortByDate(rows []dataset.MetricRow) []dataset.MetricRow {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b dataset.MetricRow) int {
		return a.WeekStart.Compare(b.WeekStart)
	})

	return sorted
}

// LinePath renders defined points as an SVG path. Each run of consecutive
// defined points becomes a subpath starting with M. A run of a single point
// is closed with Z so it still paints as a dot.
func LinePath(points []Point) string {
	var (
		sb     strings.Builder
		runLen int
	)

	closeRun := func() {
		if runLen == 1 {
			sb.WriteByte('Z')
		}

		runLen = 0
	}

	for _, p := range points {
		if !p.Defined {
			closeRun()

			continue
		}

		if runLen == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}

		writePair(&sb, p.X, p.Y)
		runLen++
	}

	closeRun()

	return sb.String()
}

// AreaPath renders the closed polygon between two lines sharing x positions:
// along top left to right, then back along bottom right to left.
func AreaPath(xs, top, bottom []float64) string {
	n := min(len(xs), len(top), len(bottom))
	if n == 0 {
		return ""
	}

	var sb strings.Builder

	for i := range n {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}

		writePair(&sb, xs[i], top[i])
	}

	for i := n - 1; i >= 0; i-- {
		sb.WriteByte('L')
		writePair(&sb, xs[i], bottom[i])
	}

	sb.WriteByte('Z')

	return sb.String()
}

func writePair(sb *strings.Builder, x, y float64) {
	sb.WriteString(FormatFloat(x))
	sb.WriteByte(',')
	sb.WriteString(FormatFloat(y))
}

// FormatFloat renders a coordinate with the shortest exact representation.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
