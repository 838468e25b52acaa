package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	cachefx "fashion-etl/cache/fx"
	dbfx "fashion-etl/db/fx"
	"fashion-etl/internal/pipeline"
	pipelinefx "fashion-etl/internal/pipeline/fx"
)

func newRunCmd() *cobra.Command {
	var (
		noSheets bool
		noSQL    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one crawl, normalize and load pass",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkLogLevel(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if noSheets {
				overrides["GSHEET_ENABLED"] = false
			}
			if noSQL {
				overrides["SQL_ENABLED"] = false
			}

			var p *pipeline.Pipeline
			app := newApp(
				bindFlags(cmd.Flags(), overrides),
				dbfx.Module,
				cachefx.Module,
				pipelinefx.Module,
				fx.Populate(&p),
			)

			return withStartedApp(cmd.Context(), app, func(ctx context.Context) error {
				sum, err := p.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d raw records, %d clean rows\n", sum.RunID, sum.RawCount, sum.CleanRows)
				if sum.Partial {
					fmt.Fprintf(cmd.OutOrStdout(), "normalization stopped at %s; wrote the partial table\n", sum.FailedStage)
				}
				for _, r := range sum.Failed() {
					fmt.Fprintf(cmd.ErrOrStderr(), "WARN: sink %s failed: %s\n", r.Sink, r.Error)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noSheets, "no-gsheet", false, "Skip the Google Sheets sink")
	cmd.Flags().BoolVar(&noSQL, "no-sql", false, "Skip the SQL sink")
	cmd.Flags().Int("preview", 0, "Print the first N clean rows")
	cmd.Flags().String("dump-sql", "", "After loading, pg_dump the postgres database to this path")
	return cmd
}

// withStartedApp starts app, runs fn and always stops app again.
func withStartedApp(ctx context.Context, app *fx.App, fn func(ctx context.Context) error) (err error) {
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, startCancel := context.WithTimeout(ctx, 60*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer stopCancel()
		if stopErr := app.Stop(stopCtx); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	return fn(ctx)
}
