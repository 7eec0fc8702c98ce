package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/format"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
)

// maxListedWarnings caps the warnings printed by inspect.
const maxListedWarnings = 20

// NewInspectCommand loads the data and prints table sizes, warnings and the
// weekly comparison for the selection flags.
func NewInspectCommand(root *RootOptions) *cobra.Command {
	var (
		sel   selectionFlags
		weeks bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the data and summarize tables, warnings and the comparison",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := sel.state()
			if err != nil {
				return err
			}

			a, err := newApp(root, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			b, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writeSummary(out, b)

			if !weeks {
				return nil
			}

			v, err := report.BuildComparison(b, st, a.calendar, a.layout(0))
			if err != nil {
				return err
			}

			writeComparison(out, v)

			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&weeks, "weeks", false, "print the weekly comparison table")

	return cmd
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	return tbl
}

func writeSummary(w io.Writer, b *loader.Bundle) {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Table", "Rows", "Metrics", "Countries"})

	for _, ds := range []*dataset.Dataset{b.User, b.Advertiser} {
		if ds == nil {
			continue
		}

		tbl.AppendRow(table.Row{ds.Name, humanize.Comma(int64(ds.Len())), len(ds.Metrics), len(ds.Countries())})
	}

	if b.Inclusion != nil {
		tbl.AppendRow(table.Row{"vertical inclusion", humanize.Comma(int64(b.Inclusion.Len())), "", ""})
	}

	fmt.Fprintln(w, tbl.Render())

	latest := format.Placeholder
	if b.Latest != nil {
		latest = format.Date(*b.Latest)
	}

	fmt.Fprintf(w, "Latest update: %s\n", latest)
	fmt.Fprintf(w, "Countries in both tables: %d\n", len(dataset.CommonCountries(b.User, b.Advertiser)))

	if len(b.Warnings) == 0 {
		color.New(color.FgGreen).Fprintln(w, "No dropped rows")

		return
	}

	warn := color.New(color.FgYellow)
	warn.Fprintf(w, "%d dropped rows\n", len(b.Warnings))

	for i, tw := range b.Warnings {
		if i == maxListedWarnings {
			warn.Fprintf(w, "  ... %d more\n", len(b.Warnings)-maxListedWarnings)

			break
		}

		warn.Fprintf(w, "  %s: %s\n", tw.Tab, tw.Warning)
	}
}

func writeComparison(w io.Writer, v report.ComparisonView) {
	if v.NoData {
		msg := "No data for this selection"
		if v.Recovery != nil {
			msg = v.Recovery.Message
		}

		color.New(color.FgRed).Fprintln(w, msg)

		return
	}

	tbl := newTable()
	tbl.SetTitle(fmt.Sprintf("%s vs %s", v.UserMetric.Title, v.AdvertiserMetric.Title))
	tbl.AppendHeader(table.Row{"Week", "Week of", v.UserMetric.Label, v.AdvertiserMetric.Label})

	for _, r := range v.Rows() {
		weekOf := format.Placeholder
		if r.Found {
			weekOf = format.WeekOf(r.WeekStart)
		}

		tbl.AppendRow(table.Row{r.Week, weekOf, format.Indexed(r.User), format.Indexed(r.Advertiser)})
	}

	tbl.AppendFooter(table.Row{"", "Crossings", len(v.Crossings()), ""})

	fmt.Fprintln(w, tbl.Render())
}
