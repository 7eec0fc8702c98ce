package plot

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"
	lineWidth   = 2
)

// missing is how go-echarts marks a gap in a line.
const missing = "-"

// WeekLabels names each week of an axis.
func WeekLabels(weeks []int) []string {
	labels := make([]string, len(weeks))
	for i, w := range weeks {
		labels[i] = fmt.Sprintf("W%d", w)
	}

	return labels
}

// lineData lines up a curve's values with the axis, gaps included.
func lineData(weeks []int, c curve.Curve) []opts.LineData {
	byWeek := make(map[int]float64, len(c.Points))

	for _, p := range c.Points {
		if !p.Defined {
			continue
		}

		if _, dup := byWeek[p.WeekNumber]; !dup {
			byWeek[p.WeekNumber] = p.Value.Float
		}
	}

	data := make([]opts.LineData, len(weeks))

	for i, w := range weeks {
		v, ok := byWeek[w]
		if !ok {
			data[i] = opts.LineData{Value: missing}

			continue
		}

		data[i] = opts.LineData{Value: v}
	}

	return data
}

func newLine(c *ChartOpts, title, subtitle string, weeks []int, lo, hi float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(c.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(c.Title(title, subtitle)),
		charts.WithTooltipOpts(c.Tooltip()),
		charts.WithLegendOpts(c.Legend()),
		charts.WithGridOpts(c.Grid()),
		charts.WithDataZoomOpts(c.DataZoom()...),
		charts.WithXAxisOpts(c.XAxis("")),
		charts.WithYAxisOpts(c.YAxis("", lo, hi)),
	)
	line.SetXAxis(WeekLabels(weeks))

	return line
}

func seriesOpts(color string) []charts.SeriesOpts {
	return []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: lineWidth}),
	}
}

// SeasonChart draws chart i of a season view: past and current lines on
// the full week axis.
func SeasonChart(v report.SeasonView, i int, theme Theme) *charts.Line {
	chart := v.Charts[i]
	c := NewChartOpts(theme)

	line := newLine(c, chart.Metric.Title, chart.Metric.Description, v.Weeks, chart.Lo, chart.Hi)
	line.AddSeries(seasonName(season.Past), lineData(v.Weeks, chart.Past), seriesOpts(SeasonPalette[0])...)
	line.AddSeries(seasonName(season.Current), lineData(v.Weeks, chart.Current), seriesOpts(SeasonPalette[1])...)

	return line
}

// ComparisonChart draws the indexed user and advertiser lines with the
// index baseline marked.
func ComparisonChart(v report.ComparisonView, theme Theme) *charts.Line {
	c := NewChartOpts(theme)

	line := newLine(c, v.UserMetric.Title+" vs "+v.AdvertiserMetric.Title, "", v.Weeks, v.Lo, v.Hi)
	line.AddSeries(v.UserMetric.Title, lineData(v.Weeks, v.User),
		append(seriesOpts(UserColor),
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "Index", YAxis: report.ReferenceValue}),
		)...,
	)
	line.AddSeries(v.AdvertiserMetric.Title, lineData(v.Weeks, v.Advertiser), seriesOpts(AdvertiserColor)...)

	return line
}

func seasonName(s season.Season) string {
	if s == season.Past {
		return "Past season"
	}

	return "Current season"
}

func notice(state filter.State, rec *filter.Recovery) string {
	switch {
	case rec != nil:
		return rec.Message
	case state == filter.NotLoaded:
		return "Data is not loaded."
	default:
		return ""
	}
}

// SeasonSections returns one section per chart of a season view.
func SeasonSections(v report.SeasonView, theme Theme) []Section {
	sections := make([]Section, 0, len(v.Charts))

	msg := notice(v.State, v.Recovery)

	for i, chart := range v.Charts {
		s := Section{Title: chart.Metric.Title, Subtitle: chart.Metric.Description}

		switch {
		case msg != "":
			s.Notice = msg
		case !chart.HasData:
			s.Notice = "No data for this metric."
		default:
			s.Chart = SeasonChart(v, i, theme)
		}

		sections = append(sections, s)
	}

	return sections
}

// ComparisonSection returns the comparison chart block.
func ComparisonSection(v report.ComparisonView, theme Theme) Section {
	s := Section{
		Title:    "User engagement vs advertiser KPIs",
		Subtitle: fmt.Sprintf("%s, %s, %s season, period %s", v.State.Selection.Country, v.State.Selection.System, v.State.Season, v.State.Period),
	}

	msg := notice(v.UserState, v.Recovery)

	switch {
	case v.NoData || msg != "":
		s.Notice = msg
	case !v.HasDomain:
		s.Notice = "No data for this period."
	default:
		s.Chart = ComparisonChart(v, theme)
	}

	return s
}

// ReportPage assembles the full report: comparison first, then the user
// season and advertiser season charts.
func ReportPage(cmp report.ComparisonView, user, adv report.SeasonView, theme Theme) *Page {
	page := NewPage("Seasonality", "Seasonal user engagement and advertiser KPIs").WithTheme(theme)

	page.Add(ComparisonSection(cmp, theme))
	page.Add(SeasonSections(user, theme)...)
	page.Add(SeasonSections(adv, theme)...)

	return page
}
