package fx

import (
	"go.uber.org/fx"

	"fashion-etl/config"
	"fashion-etl/internal/logs"
	"fashion-etl/internal/metrics"
)

var CoreAppOptions = fx.Options(
	fx.Provide(
		config.NewViper,
		config.NewConfig,
		logs.NewLogger,
		logs.NewSugaredLogger,
		metrics.NewRegistry,
		metrics.New,
	),
	fx.Invoke(logs.RegisterLifecycle),
)
