package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/plot"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const outputDirPerm = 0o750

var (
	// ErrNoRenderOutput is returned when render has neither --html nor --svg.
	ErrNoRenderOutput = errors.New("nothing to render (use --html or --svg)")
	// ErrInvalidTheme is returned for a theme other than light or dark.
	ErrInvalidTheme = errors.New("theme must be light or dark")
)

// views are the three report views of one selection.
type views struct {
	comparison report.ComparisonView
	user       report.SeasonView
	advertiser report.SeasonView
}

func buildViews(b *loader.Bundle, st store.State, cal *season.Calendar, opts report.Options) (views, error) {
	cmp, err := report.BuildComparison(b, st, cal, opts)
	if err != nil {
		return views{}, err
	}

	return views{
		comparison: cmp,
		user:       report.BuildUserSeason(b, st.Selection, cal, opts),
		advertiser: report.BuildAdvertiser(b, st.Selection, cal, opts),
	}, nil
}

// NewRenderCommand writes the report as an interactive HTML page and/or a
// static SVG of the comparison chart.
func NewRenderCommand(root *RootOptions) *cobra.Command {
	var (
		sel      selectionFlags
		htmlPath string
		svgPath  string
		theme    string
		width    float64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the report as HTML and/or the comparison chart as SVG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if htmlPath == "" && svgPath == "" {
				return ErrNoRenderOutput
			}

			th, err := parseTheme(theme)
			if err != nil {
				return err
			}

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

			v, err := buildViews(b, st, a.calendar, a.layout(width))
			if err != nil {
				return err
			}

			if htmlPath != "" {
				err = writeFile(htmlPath, func(w io.Writer) error {
					return plot.ReportPage(v.comparison, v.user, v.advertiser, th).Render(w)
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", htmlPath)
			}

			if svgPath != "" {
				err = writeFile(svgPath, func(w io.Writer) error {
					return plot.ComparisonSVG(w, v.comparison)
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", svgPath)
			}

			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&htmlPath, "html", "", "write the HTML report to this path")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the comparison SVG to this path")
	cmd.Flags().StringVar(&theme, "theme", string(plot.ThemeLight), "page theme: light or dark")
	cmd.Flags().Float64Var(&width, "width", 0, "chart width in pixels (default from config)")

	return cmd
}

func parseTheme(s string) (plot.Theme, error) {
	switch th := plot.Theme(s); th {
	case plot.ThemeLight, plot.ThemeDark:
		return th, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
}

// writeFile creates path and its parent directory and streams write into it.
func writeFile(path string, write func(io.Writer) error) error {
	mkErr := os.MkdirAll(filepath.Dir(path), outputDirPerm)
	if mkErr != nil {
		return fmt.Errorf("create output dir: %w", mkErr)
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the command line.
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writeErr := write(f)
	closeErr := f.Close()

	if writeErr != nil {
		return fmt.Errorf("write %s: %w", path, writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}

	return nil
}
