package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	appfx "fashion-etl/internal/app/fx"
)

var logLevels = []string{"debug", "info", "warning", "error", "critical"}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fashion-etl",
		Short:         "Scrape the fashion listing, clean it and load it into CSV, Sheets and SQL",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errUsage
		},
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level: "+strings.Join(logLevels, "|")+" (default LOG_LEVEL or info)")

	rootCmd.AddCommand(
		newRunCmd(),
		newMigrateCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// checkLogLevel turns a bad --log-level into a usage error.
func checkLogLevel(flags *pflag.FlagSet) error {
	lvl, _ := flags.GetString("log-level")
	if lvl == "" || slices.Contains(logLevels, strings.ToLower(lvl)) || strings.EqualFold(lvl, "warn") {
		return nil
	}
	return fmt.Errorf("%w: --log-level %q is not one of %s", errUsage, lvl, strings.Join(logLevels, ", "))
}

// bindFlags overlays explicitly set flags onto the env-backed viper.
func bindFlags(flags *pflag.FlagSet, overrides map[string]any) fx.Option {
	return fx.Decorate(func(v *viper.Viper) (*viper.Viper, error) {
		binds := map[string]string{
			"LOG_LEVEL":     "log-level",
			"PREVIEW_ROWS":  "preview",
			"SQL_DUMP_PATH": "dump-sql",
		}
		for key, name := range binds {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind --%s: %w", name, err)
			}
		}
		for key, val := range overrides {
			v.Set(key, val)
		}
		return v, nil
	})
}

func newApp(opts ...fx.Option) *fx.App {
	return fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		fx.Options(opts...),
	)
}
