package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seasonality/internal/export"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
)

// ErrNoExportOutput is returned when export has neither --xlsx nor --png.
var ErrNoExportOutput = errors.New("nothing to export (use --xlsx or --png)")

// NewExportCommand writes the report data as an Excel workbook and/or the
// comparison chart as PNG.
func NewExportCommand(root *RootOptions) *cobra.Command {
	var (
		sel      selectionFlags
		xlsxPath string
		pngPath  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the report data to XLSX and/or the comparison chart to PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if xlsxPath == "" && pngPath == "" {
				return ErrNoExportOutput
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

			v, err := buildViews(b, st, a.calendar, a.layout(0))
			if err != nil {
				return err
			}

			return exportViews(cmd.OutOrStdout(), v, xlsxPath, pngPath)
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the workbook to this path")
	cmd.Flags().StringVar(&pngPath, "png", "", "write the comparison PNG to this path")

	return cmd
}

func exportViews(out io.Writer, v views, xlsxPath, pngPath string) error {
	if xlsxPath != "" {
		err := writeFile(xlsxPath, func(w io.Writer) error {
			return export.WriteWorkbook(w, export.Workbook{
				Comparison: v.comparison,
				Season:     v.user,
				Advertiser: v.advertiser,
			})
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "wrote %s\n", xlsxPath)
	}

	if pngPath != "" {
		err := writeFile(pngPath, func(w io.Writer) error {
			return export.ComparisonPNG(w, v.comparison)
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "wrote %s\n", pngPath)
	}

	return nil
}
