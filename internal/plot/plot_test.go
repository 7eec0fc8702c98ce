package plot_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seasonality/internal/fixture"
	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/plot"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/scale"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

type views struct {
	cmp  report.ComparisonView
	user report.SeasonView
	adv  report.SeasonView
}

func buildViews(t *testing.T, sel filter.Selection) views {
	t.Helper()

	b, err := loader.Load(t.Context(), fixture.Source(), loader.Options{})
	require.NoError(t, err)

	cal := season.DefaultCalendar()
	opts := report.DefaultOptions(report.DefaultWidth)

	st := store.DefaultState()
	st.Selection = sel
	st.AdvertiserMetric = dataset.MetricCPM

	cmp, err := report.BuildComparison(b, st, cal, opts)
	require.NoError(t, err)

	return views{
		cmp:  cmp,
		user: report.BuildUserSeason(b, sel, cal, opts),
		adv:  report.BuildAdvertiser(b, sel, cal, opts),
	}
}

func TestWeekLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"W52", "W1"}, plot.WeekLabels([]int{52, 1}))
	assert.Empty(t, plot.WeekLabels(nil))
}

func TestReportPage(t *testing.T) {
	t.Parallel()

	v := buildViews(t, filter.DefaultSelection())

	var buf bytes.Buffer

	require.NoError(t, plot.ReportPage(v.cmp, v.user, v.adv, plot.ThemeDark).Render(&buf))

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `class="dark"`)
	assert.Contains(t, html, "echarts.min.js")
	assert.Contains(t, html, "User engagement vs advertiser KPIs")
	assert.Contains(t, html, "CPM, indexed")
	assert.Contains(t, html, `class="echart-box"`)
	assert.Equal(t, 1, strings.Count(html, "<!DOCTYPE"), "chart pages are unwrapped")
}

func TestReportPage_NoDataNotice(t *testing.T) {
	t.Parallel()

	sel := filter.Selection{
		System:   dataset.SystemAndroid,
		Country:  "JPN",
		Category: dataset.CategoryGaming,
		Vertical: "casual",
	}
	v := buildViews(t, sel)

	section := plot.ComparisonSection(v.cmp, plot.ThemeLight)
	assert.Nil(t, section.Chart)
	assert.Contains(t, section.Notice, "No sufficient data")

	for _, s := range plot.SeasonSections(v.user, plot.ThemeLight) {
		assert.Nil(t, s.Chart)
		assert.NotEmpty(t, s.Notice)
	}
}

func TestComparisonSVG(t *testing.T) {
	t.Parallel()

	v := buildViews(t, filter.DefaultSelection())

	var buf bytes.Buffer

	require.NoError(t, plot.ComparisonSVG(&buf, v.cmp))

	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
	assert.Contains(t, svg, plot.AboveFill)
	assert.Contains(t, svg, plot.BelowFill)
	assert.Contains(t, svg, plot.UserColor)
	assert.Contains(t, svg, `stroke-dasharray="4 4"`)
	assert.Contains(t, svg, ">October<")
}

func TestComparisonSVG_NotLoaded(t *testing.T) {
	t.Parallel()

	v, err := report.BuildComparison(nil, store.DefaultState(), season.DefaultCalendar(), report.DefaultOptions(report.DefaultWidth))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, plot.ComparisonSVG(&buf, v))
	assert.Contains(t, buf.String(), "Data is not loaded.")
	assert.NotContains(t, buf.String(), "<path")
}

func TestSeasonSVG(t *testing.T) {
	t.Parallel()

	v := buildViews(t, filter.DefaultSelection())

	var buf bytes.Buffer

	require.NoError(t, plot.SeasonSVG(&buf, v.user))

	svg := buf.String()
	assert.Equal(t, len(v.user.Charts)*2, strings.Count(svg, "<path"))
	assert.Contains(t, svg, plot.SeasonPalette[0])
	assert.Contains(t, svg, "Time Spent")
}

// markerAt returns the index of the holiday circle centred on x and checks
// it sits in root coordinates, outside every translated group.
func markerAt(t *testing.T, svg string, x float64) int {
	t.Helper()

	idx := strings.Index(svg, `<circle cx="`+curve.FormatFloat(x)+`"`)
	require.GreaterOrEqual(t, idx, 0, "no marker at x=%v", x)

	before := svg[:idx]
	assert.Equal(t, strings.Count(before, "<g "), strings.Count(before, "</g>"), "marker drawn inside a translated group")

	return idx
}

func TestComparisonSVG_HolidayMarkersAtDates(t *testing.T) {
	t.Parallel()

	v := buildViews(t, filter.DefaultSelection())
	require.NotEmpty(t, v.cmp.Holidays)

	first := v.cmp.Holidays[0]
	require.Zero(t, first.OffsetX)

	cal := season.DefaultCalendar()
	window, err := cal.Window(season.Past, season.PeriodAll)
	require.NoError(t, err)

	date, ok := first.Holiday.Date(season.Past)
	require.True(t, ok)

	l := v.cmp.Layout
	want := scale.NewTime(window.Start, window.End, 0, l.InnerWidth).MapDate(date) + l.Margin.Left

	var buf bytes.Buffer

	require.NoError(t, plot.ComparisonSVG(&buf, v.cmp))
	markerAt(t, buf.String(), want)
}

func TestSeasonSVG_HolidayMarkersAtDates(t *testing.T) {
	t.Parallel()

	v := buildViews(t, filter.DefaultSelection())
	require.NotEmpty(t, v.user.Holidays)

	first := v.user.Holidays[0]
	require.Zero(t, first.OffsetX)

	axis := season.DefaultCalendar().Axis(season.Current)

	date, ok := first.Holiday.Date(season.Current)
	require.True(t, ok)

	l := v.user.Layout
	want := scale.NewTime(axis.Start, axis.End, 0, l.ChartWidth).MapDate(date) + l.PlotLeft()

	var buf bytes.Buffer

	require.NoError(t, plot.SeasonSVG(&buf, v.user))
	markerAt(t, buf.String(), want)
}
