package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seasonality/pkg/version"
)

// NewRootCommand builds the seasonality command tree.
func NewRootCommand() *cobra.Command {
	root := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "seasonality",
		Short: "Holiday-season report of user engagement and advertiser KPIs",
		Long: `Seasonality loads weekly user-engagement and advertiser KPI tables and
compares the past and current holiday seasons.

Commands:
  fetch     Snapshot the source tabs to disk
  inspect   Summarize the loaded tables
  render    Write the HTML report or comparison SVG
  export    Write an XLSX workbook or comparison PNG
  serve     Serve the report over HTTP
  mcp       Serve the report as MCP tools`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&root.ConfigPath, "config", "c", "", "config file (default seasonality.yaml)")
	cmd.PersistentFlags().BoolVarP(&root.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		NewFetchCommand(root),
		NewInspectCommand(root),
		NewRenderCommand(root),
		NewExportCommand(root),
		NewServeCommand(root),
		NewMCPCommand(root),
		newVersionCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("seasonality"))
		},
	}
}
