package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/mcp"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
	"github.com/Sumatoshi-tech/seasonality/pkg/version"
)

// NewMCPCommand serves the seasonality tools over MCP stdio.
func NewMCPCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server on stdio for AI agent integration",
		Long: `Start a Model Context Protocol server on stdio.

Tools:
  - seasonality_compare: indexed user metric vs advertiser KPI over a season period
  - seasonality_season: past vs current season, week by week
  - seasonality_holidays: holiday markers of a season period

Logs go to stderr as JSON; stdout carries the protocol.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer a.close()

			holder := &loader.Holder{}

			srv := mcp.NewServer(mcp.ServerDeps{
				Holder:   holder,
				Calendar: a.calendar,
				Layout:   a.layout(0),
				Version:  version.Version,
				Logger:   a.logger,
				Metrics:  a.red,
				Tracer:   a.providers.Tracer,
			})

			go a.refreshLoop(cmd.Context(), holder, 0)

			return srv.Run(cmd.Context())
		},
	}
}
