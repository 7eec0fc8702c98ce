package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Sumatoshi-tech/seasonality/internal/plot"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
)

const (
	pngHeight     = 480
	strokeWidth   = 2
	tickEvery     = 4
	minAxisWeeks  = 2
	dashLen       = 4
	paddingTop    = 24
	paddingSide   = 16
)

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// runs splits a curve into contiguous defined stretches positioned by axis
// index, so gaps stay gaps in the picture.
func runs(name string, weeks []int, c curve.Curve, color drawing.Color) []chart.Series {
	points := byWeek(c)

	var (
		out []chart.Series
		cur chart.ContinuousSeries
	)

	style := chart.Style{StrokeColor: color, StrokeWidth: strokeWidth}

	flush := func() {
		if len(cur.XValues) > 0 {
			out = append(out, cur)
		}

		cur = chart.ContinuousSeries{Name: name, Style: style}
	}

	flush()

	for i, week := range weeks {
		p, ok := points[week]
		if !ok || !p.Defined {
			flush()

			continue
		}

		cur.XValues = append(cur.XValues, float64(i))
		cur.YValues = append(cur.YValues, p.Value.Float)
	}

	flush()

	return out
}

func weekTicks(weeks []int) []chart.Tick {
	labels := plot.WeekLabels(weeks)
	ticks := make([]chart.Tick, 0, len(weeks)/tickEvery+1)

	for i := 0; i < len(weeks); i += tickEvery {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: labels[i]})
	}

	return ticks
}

func baseChart(title string, width float64, weeks []int, lo, hi float64) chart.Chart {
	return chart.Chart{
		Title:  title,
		Width:  int(width),
		Height: pngHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: paddingTop, Left: paddingSide, Right: paddingSide, Bottom: paddingSide},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(weeks) - 1)},
			Ticks: weekTicks(weeks),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
	}
}

func render(w io.Writer, c chart.Chart) error {
	err := c.Render(chart.PNG, w)
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}

	return nil
}

// ComparisonPNG renders the comparison lines and the index baseline.
func ComparisonPNG(w io.Writer, v report.ComparisonView) error {
	if !v.HasDomain || len(v.Weeks) < minAxisWeeks {
		return ErrNoData
	}

	c := baseChart(v.UserMetric.Title+" vs "+v.AdvertiserMetric.Title, v.Layout.Width, v.Weeks, v.Lo, v.Hi)

	last := float64(len(v.Weeks) - 1)
	c.Series = append(c.Series, chart.ContinuousSeries{
		Name:    "Index",
		Style:   chart.Style{StrokeColor: chart.ColorAlternateGray, StrokeWidth: 1, StrokeDashArray: []float64{dashLen, dashLen}},
		XValues: []float64{0, last},
		YValues: []float64{report.ReferenceValue, report.ReferenceValue},
	})
	c.Series = append(c.Series, runs(v.UserMetric.Title, v.Weeks, v.User, hexColor(plot.UserColor))...)
	c.Series = append(c.Series, runs(v.AdvertiserMetric.Title, v.Weeks, v.Advertiser, hexColor(plot.AdvertiserColor))...)

	return render(w, c)
}

// SeasonPNG renders chart i of a season view.
func SeasonPNG(w io.Writer, v report.SeasonView, i int) error {
	if i < 0 || i >= len(v.Charts) {
		return fmt.Errorf("%w: chart %d", ErrNoData, i)
	}

	chartView := v.Charts[i]
	if !chartView.HasData {
		return fmt.Errorf("%w: %s", ErrNoData, chartView.Metric.Key)
	}

	c := baseChart(chartView.Metric.Title, v.Layout.Width, v.Weeks, chartView.Lo, chartView.Hi)
	c.Series = append(c.Series, runs("Past season", v.Weeks, chartView.Past, hexColor(plot.SeasonPalette[0]))...)
	c.Series = append(c.Series, runs("Current season", v.Weeks, chartView.Current, hexColor(plot.SeasonPalette[1]))...)

	return render(w, c)
}
