package report

import (
	"github.com/Sumatoshi-tech/seasonality/internal/config"
	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
)

// Geometry defaults, in pixels.
const (
	DefaultWidth = 600.0

	seasonChartInnerHeight       = 250.0
	seasonChartInnerHeightMobile = 200.0
	seasonChartLeft              = 50.0
	seasonChartLeftMobile        = 40.0

	comparisonHeight       = 600.0
	comparisonHeightMobile = 400.0
)

// Margin is the space around a plot area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Options controls view geometry.
type Options struct {
	Width    float64
	Height   float64
	Viewport annotate.Viewport
	Annotate annotate.Options
}

// DefaultOptions returns desktop options for width.
func DefaultOptions(width float64) Options {
	if width <= 0 {
		width = DefaultWidth
	}

	vp := annotate.ViewportFor(width)

	return Options{Width: width, Viewport: vp, Annotate: annotate.DefaultOptions(vp)}
}

// OptionsFromConfig builds options from layout settings.
func OptionsFromConfig(cfg config.LayoutConfig) Options {
	opts := Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Viewport: cfg.ViewportClass(),
		Annotate: cfg.AnnotateOptions(),
	}

	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	return opts
}

// WithWidth returns o resized to width. The viewport class follows the new
// width; thresholds, offsets and exceptions are kept. Non-positive widths
// leave o unchanged.
func (o Options) WithWidth(width float64) Options {
	if width <= 0 {
		return o
	}

	o.Width = width
	o.Viewport = annotate.ViewportFor(width)
	o.Annotate.Viewport = o.Viewport

	return o
}

func (o Options) mobile() bool {
	return o.Viewport == annotate.Mobile
}

// SeasonLayout is the geometry of a stack of season charts.
type SeasonLayout struct {
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Margin           Margin  `json:"margin"`
	ChartMargin      Margin  `json:"chartMargin"`
	InnerWidth       float64 `json:"innerWidth"`
	InnerHeight      float64 `json:"innerHeight"`
	ChartWidth       float64 `json:"chartWidth"`
	ChartHeight      float64 `json:"chartHeight"`
	ChartInnerHeight float64 `json:"chartInnerHeight"`
}

// NewSeasonLayout stacks charts vertically across width.
func NewSeasonLayout(opts Options, charts int) SeasonLayout {
	l := SeasonLayout{
		Width:            opts.Width,
		Margin:           Margin{Top: 50, Right: 1, Bottom: 50, Left: 1},
		ChartMargin:      Margin{Top: 40, Right: 1, Bottom: 35, Left: seasonChartLeft},
		ChartInnerHeight: seasonChartInnerHeight,
	}

	if opts.mobile() {
		l.ChartMargin.Left = seasonChartLeftMobile
		l.ChartInnerHeight = seasonChartInnerHeightMobile
	}

	l.InnerWidth = l.Width - l.Margin.Left - l.Margin.Right
	l.ChartWidth = l.InnerWidth - l.ChartMargin.Left - l.ChartMargin.Right
	l.ChartHeight = l.ChartInnerHeight + l.ChartMargin.Top + l.ChartMargin.Bottom
	l.InnerHeight = float64(charts) * l.ChartHeight
	l.Height = l.InnerHeight + l.Margin.Top + l.Margin.Bottom

	return l
}

// PlotLeft is the absolute x of every chart's plot area.
func (l SeasonLayout) PlotLeft() float64 {
	return l.Margin.Left + l.ChartMargin.Left
}

// PlotTop is the absolute y of chart i's plot area.
func (l SeasonLayout) PlotTop(i int) float64 {
	return l.Margin.Top + l.ChartHeight*float64(i) + l.ChartMargin.Top
}

// ComparisonLayout is the geometry of the comparison chart.
type ComparisonLayout struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Margin      Margin  `json:"margin"`
	InnerWidth  float64 `json:"innerWidth"`
	InnerHeight float64 `json:"innerHeight"`
}

// NewComparisonLayout sizes the comparison chart. A positive opts.Height
// overrides the viewport default.
func NewComparisonLayout(opts Options) ComparisonLayout {
	height := comparisonHeight
	if opts.mobile() {
		height = comparisonHeightMobile
	}

	if opts.Height > 0 {
		height = opts.Height
	}

	l := ComparisonLayout{
		Width:  opts.Width,
		Height: height,
		Margin: Margin{Top: 60, Right: 1, Bottom: 60, Left: 30},
	}

	l.InnerWidth = l.Width - l.Margin.Left - l.Margin.Right
	l.InnerHeight = l.Height - l.Margin.Top - l.Margin.Bottom

	return l
}
