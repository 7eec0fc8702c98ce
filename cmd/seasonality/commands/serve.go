package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/server"
	"github.com/Sumatoshi-tech/seasonality/pkg/observability"
)

const defaultRefresh = time.Hour

// NewServeCommand serves the report over HTTP. Data loads in the
// background; /readyz reports 503 until the first load succeeds.
func NewServeCommand(root *RootOptions) *cobra.Command {
	var (
		refresh time.Duration
		theme   string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report views, health checks and metrics over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			th, err := parseTheme(theme)
			if err != nil {
				return err
			}

			a, err := newApp(root, observability.ModeServe)
			if err != nil {
				return err
			}
			defer a.close()

			if port > 0 {
				a.cfg.Server.Port = port
			}

			holder := &loader.Holder{}

			srv := server.New(server.Options{
				Config:         a.cfg.Server,
				Holder:         holder,
				Calendar:       a.calendar,
				Layout:         a.layout(0),
				Theme:          th,
				Logger:         a.logger,
				Tracer:         a.providers.Tracer,
				Metrics:        a.red,
				MetricsHandler: a.providers.MetricsHandler,
			})

			g, ctx := errgroup.WithContext(cmd.Context())

			g.Go(func() error { return srv.Run(ctx) })
			g.Go(func() error {
				a.refreshLoop(ctx, holder, refresh)

				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().DurationVar(&refresh, "refresh", defaultRefresh, "reload interval; 0 loads once")
	cmd.Flags().StringVar(&theme, "theme", "light", "report page theme: light or dark")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")

	return cmd
}

// refreshLoop loads the data into holder now and then every interval until
// ctx ends. A failed reload keeps the previous data.
func (a *app) refreshLoop(ctx context.Context, holder *loader.Holder, interval time.Duration) {
	reload := func() {
		b, err := a.load(ctx)
		if err != nil {
			a.logger.ErrorContext(ctx, "data load failed", "error", err)

			return
		}

		holder.Store(b)
		a.logger.InfoContext(ctx, "data loaded",
			"user_rows", b.User.Len(), "advertiser_rows", b.Advertiser.Len(), "warnings", len(b.Warnings))
	}

	reload()

	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reload()
		}
	}
}
