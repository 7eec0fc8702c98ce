package plot

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/format"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const (
	svgFont       = "system-ui, sans-serif"
	labelFontSize = 11
	monthLabelY   = -12
	markerRadius  = 4
	referenceDash = "4 4"
	gridColor     = "#d9d6df"
	textColor     = "#5f5a6b"
)

func num(v float64) string { return curve.FormatFloat(v) }

func openSVG(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" font-family="%s" font-size="%d">`+"\n",
		num(width), num(height), num(width), num(height), svgFont, labelFontSize)
}

func text(sb *strings.Builder, x, y float64, anchor, s string) {
	fmt.Fprintf(sb, `<text x="%s" y="%s" text-anchor="%s" fill="%s">%s</text>`+"\n",
		num(x), num(y), anchor, textColor, html.EscapeString(s))
}

func path(sb *strings.Builder, d, stroke, fill string) {
	if d == "" {
		return
	}

	fmt.Fprintf(sb, `<path d="%s" stroke="%s" fill="%s" stroke-width="%d"/>`+"\n", d, stroke, fill, lineWidth)
}

// holidays paints markers in root coordinates: placement x already carries
// the left bound, so callers must not be inside a translated group.
func holidays(sb *strings.Builder, placements []annotate.Placement, s season.Season, baseline float64) {
	for _, p := range placements {
		x := p.EffectiveX()
		y := baseline + p.OffsetY

		fmt.Fprintf(sb, `<circle cx="%s" cy="%s" r="%d" fill="%s"/>`+"\n", num(x), num(y), markerRadius, textColor)
		text(sb, x, y-2*markerRadius, "middle", p.Holiday.DisplayLabel(s))
	}
}

// ComparisonSVG writes the comparison view as a standalone SVG document:
// month bands, fills between the lines, both lines, the index baseline and
// holiday markers. A view without a value domain yields only its notice.
func ComparisonSVG(w io.Writer, v report.ComparisonView) error {
	l := v.Layout

	var sb strings.Builder

	openSVG(&sb, l.Width, l.Height)
	fmt.Fprintf(&sb, `<g transform="translate(%s,%s)">`+"\n", num(l.Margin.Left), num(l.Margin.Top))

	if !v.HasDomain {
		msg := notice(v.UserState, v.Recovery)
		if msg == "" {
			msg = "No data for this period."
		}

		text(&sb, l.InnerWidth/2, l.InnerHeight/2, "middle", msg)
	} else {
		for i, m := range v.Months {
			if i > 0 {
				fmt.Fprintf(&sb, `<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s"/>`+"\n",
					num(m.X0), num(m.X0), num(l.InnerHeight), gridColor)
			}

			if m.ShowLabel {
				text(&sb, (m.X0+m.X1)/2, monthLabelY, "middle", m.Name)
			}
		}

		for _, d := range v.AbovePaths {
			path(&sb, d, "none", AboveFill)
		}

		for _, d := range v.BelowPaths {
			path(&sb, d, "none", BelowFill)
		}

		path(&sb, v.User.Path, UserColor, "none")
		path(&sb, v.Advertiser.Path, AdvertiserColor, "none")

		if y, ok := v.ReferenceY(); ok {
			fmt.Fprintf(&sb, `<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-dasharray="%s"/>`+"\n",
				num(y), num(l.InnerWidth), num(y), textColor, referenceDash)
		}

		for _, label := range v.YLabels {
			text(&sb, -4, label.Y, "end", format.Indexed(dataset.Of(label.Value)))
		}
	}

	sb.WriteString("</g>\n")

	if v.HasDomain {
		holidays(&sb, v.Holidays, v.State.Season, l.Margin.Top+l.InnerHeight)
	}

	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}

	return nil
}

// SeasonSVG writes every chart of a season view stacked vertically.
func SeasonSVG(w io.Writer, v report.SeasonView) error {
	l := v.Layout

	var sb strings.Builder

	openSVG(&sb, l.Width, l.Height)

	msg := notice(v.State, v.Recovery)

	for i, chart := range v.Charts {
		top := l.PlotTop(i)

		fmt.Fprintf(&sb, `<g transform="translate(%s,%s)">`+"\n", num(l.PlotLeft()), num(top))
		text(&sb, 0, -l.ChartMargin.Top/2, "start", chart.Metric.Title)

		switch {
		case msg != "":
			text(&sb, l.ChartWidth/2, l.ChartInnerHeight/2, "middle", msg)
		case !chart.HasData:
			text(&sb, l.ChartWidth/2, l.ChartInnerHeight/2, "middle", "No data for this metric.")
		default:
			path(&sb, chart.Past.Path, SeasonPalette[0], "none")
			path(&sb, chart.Current.Path, SeasonPalette[1], "none")
		}

		sb.WriteString("</g>\n")

		if msg == "" && chart.HasData {
			holidays(&sb, v.Holidays, season.Current, top+l.ChartInnerHeight)
		}
	}

	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}

	return nil
}
