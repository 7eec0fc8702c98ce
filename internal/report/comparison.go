package report

import (
	"fmt"

	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/format"
	"github.com/Sumatoshi-tech/seasonality/pkg/intersect"
	"github.com/Sumatoshi-tech/seasonality/pkg/scale"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const (
	// ReferenceValue is the index baseline drawn as a horizontal rule.
	ReferenceValue = 100.0

	niceTicks = 10
	// The top domain label is shown only when it clears the reference label.
	topLabelClearance = 5.0
	// Month labels narrower than this are hidden.
	minMonthLabelWidth = 30.0
)

// MonthGeom is a month band positioned on the time axis.
type MonthGeom struct {
	season.MonthBand

	X0        float64 `json:"x0"`
	X1        float64 `json:"x1"`
	ShowLabel bool    `json:"showLabel"`
}

// AxisLabel is a value label on the y axis.
type AxisLabel struct {
	Value float64 `json:"value"`
	Y     float64 `json:"y"`
}

// ComparisonView overlays one indexed user metric and one advertiser
// metric within a season period.
type ComparisonView struct {
	State            store.State              `json:"state"`
	Layout           ComparisonLayout         `json:"layout"`
	UserMetric       Metric                   `json:"userMetric"`
	AdvertiserMetric Metric                   `json:"advertiserMetric"`
	UserState        filter.State             `json:"userState"`
	AdvertiserState  filter.State             `json:"advertiserState"`
	NoData           bool                     `json:"noData"`
	Recovery         *filter.Recovery         `json:"recovery,omitempty"`
	Weeks            []int                    `json:"weeks"`
	Window           season.Range             `json:"window"`
	HasDomain        bool                     `json:"hasDomain"`
	Lo               float64                  `json:"lo"`
	Hi               float64                  `json:"hi"`
	YLabels          []AxisLabel              `json:"yLabels"`
	User             curve.Curve              `json:"user"`
	Advertiser       curve.Curve              `json:"advertiser"`
	Points           []intersect.AlignedPoint `json:"points"`
	Segments         intersect.Segments       `json:"segments"`
	AbovePaths       []string                 `json:"abovePaths"`
	BelowPaths       []string                 `json:"belowPaths"`
	Months           []MonthGeom              `json:"months"`
	Holidays         []annotate.Placement     `json:"holidays"`
	Countries        []string                 `json:"countries"`

	weeks    scale.Point
	userRows []dataset.MetricRow
	advRows  []dataset.MetricRow
}

// BuildComparison windows both datasets to the query period, puts them on
// one nice value axis and splits the band between the lines at each
// crossing.
func BuildComparison(b *loader.Bundle, q store.State, cal *season.Calendar, opts Options) (ComparisonView, error) {
	in := bundleOrEmpty(b)

	userMetric, err := UserMetrics.Lookup(q.UserMetric)
	if err != nil {
		return ComparisonView{}, err
	}

	advMetric, err := AdvertiserMetrics.Lookup(q.AdvertiserMetric)
	if err != nil {
		return ComparisonView{}, err
	}

	period, err := cal.Period(q.Period)
	if err != nil {
		return ComparisonView{}, fmt.Errorf("comparison: %w", err)
	}

	layout := NewComparisonLayout(opts)

	v := ComparisonView{
		State:            q,
		Layout:           layout,
		UserMetric:       userMetric,
		AdvertiserMetric: advMetric,
		Window:           period.Window(q.Season),
		Weeks:            period.WeekAxis(q.Season),
		Countries:        dataset.CommonCountries(in.User, in.Advertiser),
	}

	userRes := filter.Apply(in.User, q.Selection, in.Inclusion)
	advRes := filter.Apply(in.Advertiser, q.Selection, in.Inclusion)

	v.UserState, v.AdvertiserState = userRes.State, advRes.State
	v.NoData = userRes.Empty() && advRes.Empty()

	if v.NoData {
		if rec, ok := userRes.Recovery(); ok {
			v.Recovery = &rec
		}

		return v, nil
	}

	v.userRows = filter.ByWindow(userRes.Rows, v.Window.Start, v.Window.End)
	v.advRows = filter.ByWindow(advRes.Rows, v.Window.Start, v.Window.End)
	v.weeks = scale.NewPoint(v.Weeks, 0, layout.InnerWidth)

	userSeries := curve.Series{Rows: v.userRows, Metric: userMetric.Key}
	advSeries := curve.Series{Rows: v.advRows, Metric: advMetric.Key}

	timeX := scale.NewTime(v.Window.Start, v.Window.End, 0, layout.InnerWidth)
	v.Months = monthGeometry(cal, q, timeX)
	v.Holidays = layoutHolidays(cal, q.Season, v.Window, layout, opts)

	lo, hi, ok := curve.SharedDomain(userSeries, advSeries)
	if !ok {
		return v, nil
	}

	y := scale.NewLinear(lo, hi, layout.InnerHeight, 0).Nice(niceTicks)
	v.HasDomain = true
	v.Lo, v.Hi = y.Domain()
	v.YLabels = yLabels(y)

	x := curve.ByWeek(v.weeks)
	v.User = curve.Build(v.userRows, userMetric.Key, x, y)
	v.Advertiser = curve.Build(v.advRows, advMetric.Key, x, y)

	v.Points = intersect.Align(userSeries, advSeries, v.weeks, y)
	v.Segments = intersect.Split(v.Points)

	for _, seg := range v.Segments.Above {
		v.AbovePaths = append(v.AbovePaths, seg.AreaPath())
	}

	for _, seg := range v.Segments.Below {
		v.BelowPaths = append(v.BelowPaths, seg.AreaPath())
	}

	return v, nil
}

// ComparisonHolidays places the holiday markers of a season period on the
// comparison chart.
func ComparisonHolidays(cal *season.Calendar, s season.Season, id season.PeriodID, opts Options) ([]annotate.Placement, error) {
	window, err := cal.Window(s, id)
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}

	return layoutHolidays(cal, s, window, NewComparisonLayout(opts), opts), nil
}

func layoutHolidays(cal *season.Calendar, s season.Season, window season.Range, layout ComparisonLayout, opts Options) []annotate.Placement {
	timeX := scale.NewTime(window.Start, window.End, 0, layout.InnerWidth)

	return annotate.Layout(cal.Holidays(), s, timeX.MapDate, annotate.Bounds{
		Width: layout.Width,
		Left:  layout.Margin.Left,
		Right: layout.Margin.Right,
	}, opts.Annotate)
}

func bundleOrEmpty(b *loader.Bundle) *loader.Bundle {
	if b == nil {
		return &loader.Bundle{}
	}

	return b
}

func yLabels(y scale.Linear) []AxisLabel {
	lo, hi := y.Domain()

	labels := make([]AxisLabel, 0, 3)
	if hi-topLabelClearance > ReferenceValue {
		labels = append(labels, AxisLabel{Value: hi, Y: y.Map(hi)})
	}

	labels = append(labels,
		AxisLabel{Value: ReferenceValue, Y: y.Map(ReferenceValue)},
		AxisLabel{Value: lo, Y: y.Map(lo)},
	)

	return labels
}

func monthGeometry(cal *season.Calendar, q store.State, x scale.Time) []MonthGeom {
	bands, err := cal.Months(q.Season, q.Period)
	if err != nil {
		return nil
	}

	out := make([]MonthGeom, 0, len(bands))

	for _, b := range bands {
		x0, x1 := x.MapDate(b.Begin), x.MapDate(b.End)
		out = append(out, MonthGeom{MonthBand: b, X0: x0, X1: x1, ShowLabel: x1-x0 >= minMonthLabelWidth})
	}

	return out
}

// YScale is the value axis of the view. It is meaningful only when
// HasDomain is set.
func (v ComparisonView) YScale() scale.Linear {
	return scale.NewLinear(v.Lo, v.Hi, v.Layout.InnerHeight, 0)
}

// ReferenceY returns the y of the index baseline. ok is false without a
// value domain.
func (v ComparisonView) ReferenceY() (float64, bool) {
	for _, l := range v.YLabels {
		if l.Value == ReferenceValue {
			return l.Y, true
		}
	}

	return 0, false
}

// ComparisonHover is the tooltip content under a pointer.
type ComparisonHover struct {
	Week            int                 `json:"week"`
	Title           string              `json:"title"`
	WeekStart       season.CalendarDate `json:"weekStart"`
	UserLabel       string              `json:"userLabel"`
	UserValue       dataset.Value       `json:"userValue"`
	UserText        string              `json:"userText"`
	AdvertiserLabel string              `json:"advertiserLabel"`
	AdvertiserValue dataset.Value       `json:"advertiserValue"`
	AdvertiserText  string              `json:"advertiserText"`
}

// Hover resolves the week under (x, y) in view coordinates. Values are
// shown in the indexed format.
func (v ComparisonView) Hover(x, y float64) (ComparisonHover, bool) {
	if v.NoData || (len(v.userRows) == 0 && len(v.advRows) == 0) {
		return ComparisonHover{}, false
	}

	l := v.Layout
	if x < l.Margin.Left || x > l.Margin.Left+l.InnerWidth || y < l.Margin.Top || y > l.Height-l.Margin.Bottom {
		return ComparisonHover{}, false
	}

	week, ok := v.weeks.WeekAt(x - l.Margin.Left)
	if !ok {
		return ComparisonHover{}, false
	}

	h := ComparisonHover{
		Week:            week,
		UserLabel:       v.UserMetric.Label + ", indexed",
		AdvertiserLabel: v.AdvertiserMetric.Label + ", indexed",
		UserText:        format.Placeholder,
		AdvertiserText:  format.Placeholder,
	}

	if row, found := findWeek(v.userRows, week); found {
		h.WeekStart = row.WeekStart
		h.UserValue = row.Value(v.UserMetric.Key)
		h.UserText = format.Indexed(h.UserValue)
	}

	if row, found := findWeek(v.advRows, week); found {
		if h.WeekStart.IsZero() {
			h.WeekStart = row.WeekStart
		}

		h.AdvertiserValue = row.Value(v.AdvertiserMetric.Key)
		h.AdvertiserText = format.Indexed(h.AdvertiserValue)
	}

	h.Title = format.WeekOf(h.WeekStart)

	return h, true
}

// ComparisonRow is one axis week of the comparison. Found is false when
// neither series has a row for the week.
type ComparisonRow struct {
	Week       int                 `json:"week"`
	WeekStart  season.CalendarDate `json:"weekStart"`
	User       dataset.Value       `json:"user"`
	Advertiser dataset.Value       `json:"advertiser"`
	Found      bool                `json:"found"`
}

// Rows lists the raw values of both series for every axis week.
func (v ComparisonView) Rows() []ComparisonRow {
	out := make([]ComparisonRow, 0, len(v.Weeks))

	for _, week := range v.Weeks {
		r := ComparisonRow{Week: week}

		if row, found := findWeek(v.userRows, week); found {
			r.Found = true
			r.WeekStart = row.WeekStart
			r.User = row.Value(v.UserMetric.Key)
		}

		if row, found := findWeek(v.advRows, week); found {
			if !r.Found {
				r.WeekStart = row.WeekStart
			}

			r.Found = true
			r.Advertiser = row.Value(v.AdvertiserMetric.Key)
		}

		out = append(out, r)
	}

	return out
}

// CrossingPoint is a crossing of the two lines in both pixel and value
// space. AfterWeek is the last aligned week at or left of the crossing.
type CrossingPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Value     float64 `json:"value"`
	AfterWeek int     `json:"afterWeek"`
}

// Crossings returns the line crossings in axis order.
func (v ComparisonView) Crossings() []CrossingPoint {
	if !v.HasDomain {
		return nil
	}

	y := v.YScale()
	out := make([]CrossingPoint, 0, len(v.Segments.Intersections))

	for _, c := range v.Segments.Intersections {
		cp := CrossingPoint{X: c.X, Y: c.AY, Value: y.Invert(c.AY)}

		for _, p := range v.Points {
			if p.X > c.X {
				break
			}

			cp.AfterWeek = p.WeekNumber
		}

		out = append(out, cp)
	}

	return out
}
