package plot

import (
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	dataZoomEndPercent = 100
	axisLabelFontSize  = 10
)

// ChartOpts hands out go-echarts options colored for one theme.
type ChartOpts struct {
	theme ThemeConfig
}

// NewChartOpts returns options for theme.
func NewChartOpts(theme Theme) *ChartOpts {
	return &ChartOpts{theme: GetThemeConfig(theme)}
}

// Init sizes the chart and sets its background.
func (c *ChartOpts) Init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: c.theme.ChartBackground,
		Theme:           c.theme.EChartsTheme,
	}
}

// Title returns a centered title.
func (c *ChartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.theme.ChartText},
		SubtitleStyle: &opts.TextStyle{Color: c.theme.ChartTextMuted},
	}
}

// Legend returns a bottom legend.
func (c *ChartOpts) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Bottom:    "0",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: c.theme.ChartTextMuted},
	}
}

// XAxis returns a category axis of week labels.
func (c *ChartOpts) XAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name: name,
		AxisLabel: &opts.AxisLabel{
			Color:    c.theme.ChartTextMuted,
			FontSize: axisLabelFontSize,
		},
		AxisLine: &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

// YAxis returns a value axis bounded to [lo, hi].
func (c *ChartOpts) YAxis(name string, lo, hi float64) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		Min:       lo,
		Max:       hi,
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.ChartGrid},
		},
	}
}

// Grid returns the plot margins.
func (c *ChartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          "60",
		Bottom:       "60",
		Left:         "30",
		Right:        "10",
		ContainLabel: opts.Bool(true),
	}
}

// DataZoom returns the slider and wheel zoom controls.
func (c *ChartOpts) DataZoom() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEndPercent},
		{Type: "inside"},
	}
}

// Tooltip returns an axis tooltip.
func (c *ChartOpts) Tooltip() opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}
}
