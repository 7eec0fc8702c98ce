package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seasonality/internal/source"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
)

// ErrNoOutputDir is returned when fetch runs without --out.
var ErrNoOutputDir = errors.New("output directory is required (use --out)")

// NewFetchCommand snapshots every sheet tab into a local directory that
// source.mode=file can read back.
func NewFetchCommand(root *RootOptions) *cobra.Command {
	var (
		outDir   string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download every data tab into a local snapshot directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outDir == "" {
				return ErrNoOutputDir
			}

			a, err := newApp(root, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			src, err := a.source()
			if err != nil {
				return err
			}

			tabs := source.TabsFromConfig(a.cfg.Source.Tabs)
			out := cmd.OutOrStdout()

			bar := progressbar.NewOptions(len(tabs),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("fetching tabs"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var total int64

			files, err := source.Snapshot(cmd.Context(), src, tabs, outDir, source.SnapshotOptions{
				Compress: compress,
				OnWrite: func(f source.SnapshotFile) {
					total += f.Bytes
					_ = bar.Add(1)
				},
			})

			_ = bar.Finish()

			printSnapshot(out, files, total)

			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "snapshot directory")
	cmd.Flags().BoolVar(&compress, "compress", false, "write lz4-compressed .csv.lz4 files")

	return cmd
}

func printSnapshot(w io.Writer, files []source.SnapshotFile, total int64) {
	for _, f := range files {
		fmt.Fprintf(w, "%-20s %10s  %s\n", f.Tab, humanize.Bytes(uint64(f.Bytes)), f.Path) //nolint:gosec // sizes are non-negative.
	}

	fmt.Fprintf(w, "%d tabs, %s\n", len(files), humanize.Bytes(uint64(total))) //nolint:gosec // sizes are non-negative.
}
