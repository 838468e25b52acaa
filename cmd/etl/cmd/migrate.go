package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fashion-etl/db"
	dbfx "fashion-etl/db/fx"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|version]",
		Short: "Apply the embedded goose migrations to DATABASE_URL",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkLogLevel(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			var (
				database *db.Database
				log      *zap.SugaredLogger
			)
			app := newApp(
				bindFlags(cmd.Flags(), map[string]any{"SQL_ENABLED": true}),
				dbfx.Module,
				fx.Populate(&database, &log),
			)

			return withStartedApp(cmd.Context(), app, func(ctx context.Context) error {
				if database.DB == nil {
					return database.Err
				}
				log.Infow("goose_run_start", "cmd", command, "dialect", database.Dialect.Name)
				if err := db.Migrate(ctx, database.DB, database.Dialect, command); err != nil {
					return err
				}
				log.Infow("goose_run_done", "cmd", command)
				fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", command)
				return nil
			})
		},
	}
}
