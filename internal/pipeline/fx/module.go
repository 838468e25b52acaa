package fx

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"fashion-etl/config"
	"fashion-etl/db"
	"fashion-etl/internal/collector"
	"fashion-etl/internal/normalizer"
	"fashion-etl/internal/pipeline"
	"fashion-etl/internal/sink"
)

var Module = fx.Module(
	"pipeline",
	fx.Provide(
		collector.NewFromConfig,
		normalizer.NewFromConfig,
		newSinks,
		pipeline.New,
	),
)

func newSinks(cfg *config.Config, database *db.Database, logger *zap.SugaredLogger) []sink.Sink {
	return pipeline.NewSinks(cfg, database, os.Stdout, logger)
}
