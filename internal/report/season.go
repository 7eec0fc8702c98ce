package report

import (
	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/format"
	"github.com/Sumatoshi-tech/seasonality/pkg/scale"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// seasonPadding lowers each season chart's domain by this share of its span.
const seasonPadding = 0.2

// SeasonChart is one metric drawn for both seasons on a shared value axis.
type SeasonChart struct {
	Metric  Metric      `json:"metric"`
	Top     float64     `json:"top"`
	Lo      float64     `json:"lo"`
	Hi      float64     `json:"hi"`
	HasData bool        `json:"hasData"`
	Past    curve.Curve `json:"past"`
	Current curve.Curve `json:"current"`
}

// SeasonView overlays the past and current season per metric on the full
// week axis.
type SeasonView struct {
	Layout    SeasonLayout         `json:"layout"`
	State     filter.State         `json:"state"`
	Selection filter.Selection     `json:"selection"`
	Recovery  *filter.Recovery     `json:"recovery,omitempty"`
	Weeks     []int                `json:"weeks"`
	Charts    []SeasonChart        `json:"charts"`
	Holidays  []annotate.Placement `json:"holidays"`

	cal     *season.Calendar
	weeks   scale.Point
	past    []dataset.MetricRow
	current []dataset.MetricRow
}

// BuildSeason filters ds by sel and builds one chart per metric. inclusion
// may be nil to skip the inclusion check. Holiday markers use the current
// season's dates.
func BuildSeason(
	ds *dataset.Dataset,
	inclusion *dataset.InclusionSet,
	sel filter.Selection,
	metrics Catalog,
	cal *season.Calendar,
	opts Options,
) SeasonView {
	layout := NewSeasonLayout(opts, len(metrics))
	result := filter.Apply(ds, sel, inclusion)

	v := SeasonView{
		Layout:    layout,
		State:     result.State,
		Selection: sel,
		Weeks:     season.FullWeekAxis(),
		cal:       cal,
	}

	if rec, ok := result.Recovery(); ok {
		v.Recovery = &rec
	}

	v.weeks = scale.NewPoint(v.Weeks, 0, layout.ChartWidth)
	v.past = filter.BySeason(result.Rows, cal, season.Past)
	v.current = filter.BySeason(result.Rows, cal, season.Current)

	x := curve.ByWeek(v.weeks)

	for i, m := range metrics {
		chart := SeasonChart{Metric: m, Top: layout.PlotTop(i)}

		lo, hi, ok := curve.SharedDomain(
			curve.Series{Rows: v.past, Metric: m.Key},
			curve.Series{Rows: v.current, Metric: m.Key},
		)
		if ok {
			chart.Lo, chart.Hi = curve.Padded(lo, hi, seasonPadding)
			chart.HasData = true

			y := scale.NewLinear(chart.Lo, chart.Hi, layout.ChartInnerHeight, 0)
			chart.Past = curve.Build(v.past, m.Key, x, y)
			chart.Current = curve.Build(v.current, m.Key, x, y)
		}

		v.Charts = append(v.Charts, chart)
	}

	axis := cal.Axis(season.Current)
	timeX := scale.NewTime(axis.Start, axis.End, 0, layout.ChartWidth)

	v.Holidays = annotate.Layout(cal.Holidays(), season.Current, timeX.MapDate, annotate.Bounds{
		Width: layout.Width,
		Left:  layout.Margin.Left + layout.ChartMargin.Left,
		Right: layout.Margin.Right + layout.ChartMargin.Right,
	}, opts.Annotate)

	return v
}

// HoverEntry is one season's line in a tooltip.
type HoverEntry struct {
	Label     string              `json:"label"`
	Starts    string              `json:"starts"`
	WeekStart season.CalendarDate `json:"weekStart"`
	Value     dataset.Value       `json:"value"`
	Formatted string              `json:"formatted"`
}

// SeasonHover is the tooltip content under a pointer.
type SeasonHover struct {
	Week    int        `json:"week"`
	Metric  Metric     `json:"metric"`
	Current HoverEntry `json:"current"`
	Past    HoverEntry `json:"past"`
}

// Hover resolves the chart and week under the pointer at (x, y) in view
// coordinates. ok is false outside every plot area or when nothing loaded.
func (v SeasonView) Hover(x, y float64) (SeasonHover, bool) {
	if v.State == filter.NotLoaded {
		return SeasonHover{}, false
	}

	left := v.Layout.PlotLeft()
	if x < left || x > left+v.Layout.ChartWidth {
		return SeasonHover{}, false
	}

	chart := -1

	for i := range v.Charts {
		top := v.Layout.PlotTop(i)
		if y >= top && y < top+v.Layout.ChartInnerHeight {
			chart = i

			break
		}
	}

	if chart < 0 {
		return SeasonHover{}, false
	}

	week, ok := v.weeks.WeekAt(x - left)
	if !ok {
		return SeasonHover{}, false
	}

	m := v.Charts[chart].Metric

	return SeasonHover{
		Week:    week,
		Metric:  m,
		Current: v.entry(v.current, week, m.Key, season.Current),
		Past:    v.entry(v.past, week, m.Key, season.Past),
	}, true
}

func (v SeasonView) entry(rows []dataset.MetricRow, week int, metric string, s season.Season) HoverEntry {
	e := HoverEntry{Label: format.WeekLabel(week, v.cal.StartYear(s)), Formatted: format.Placeholder}

	row, ok := findWeek(rows, week)
	if !ok {
		return e
	}

	e.Label = format.WeekLabel(week, weekYear(row.WeekStart))
	e.WeekStart = row.WeekStart
	e.Starts = format.Starts(row.WeekStart)
	e.Value = row.Value(metric)
	e.Formatted = format.ForMetric(metric, e.Value)

	return e
}

func findWeek(rows []dataset.MetricRow, week int) (dataset.MetricRow, bool) {
	for _, r := range rows {
		if r.WeekNumber == week {
			return r, true
		}
	}

	return dataset.MetricRow{}, false
}

// weekYear is the ISO year the week belongs to, so the week starting
// Dec 30 2024 reads as week 1 of 2025.
func weekYear(d season.CalendarDate) int {
	year, _ := d.Time().ISOWeek()

	return year
}

// BuildUserSeason is the raw-metric season view over the user dataset.
func BuildUserSeason(b *loader.Bundle, sel filter.Selection, cal *season.Calendar, opts Options) SeasonView {
	b = bundleOrEmpty(b)

	return BuildSeason(b.User, b.Inclusion, sel, SeasonMetrics, cal, opts)
}

// BuildAdvertiser is the season view over every advertiser KPI.
func BuildAdvertiser(b *loader.Bundle, sel filter.Selection, cal *season.Calendar, opts Options) SeasonView {
	b = bundleOrEmpty(b)

	return BuildSeason(b.Advertiser, b.Inclusion, sel, AdvertiserMetrics, cal, opts)
}
