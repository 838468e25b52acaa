package cmd

import (
	"context"

	"github.com/spf13/cobra"

	cachefx "fashion-etl/cache/fx"
	dbfx "fashion-etl/db/fx"
	healthfx "fashion-etl/internal/app/health/fx"
	runsfx "fashion-etl/internal/app/runs/fx"
	pipelinefx "fashion-etl/internal/pipeline/fx"
	routerfx "fashion-etl/internal/router/fx"
	serverfx "fashion-etl/internal/server/fx"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve /health, /metrics and POST /v1/runs",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkLogLevel(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(
				bindFlags(cmd.Flags(), nil),
				dbfx.Module,
				cachefx.Module,
				pipelinefx.Module,
				routerfx.CoreRouterOptions,
				serverfx.Module,
				healthfx.Module,
				runsfx.Module,
			)

			return withStartedApp(cmd.Context(), app, func(ctx context.Context) error {
				select {
				case <-ctx.Done():
				case <-app.Wait():
				}
				return nil
			})
		},
	}
}
