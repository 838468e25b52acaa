package fx

import (
	"go.uber.org/fx"

	"fashion-etl/internal/app/health"
	"fashion-etl/internal/router"
)

var Module = fx.Options(
	fx.Provide(
		router.AsRoute(health.NewHandler),
		router.AsRoute(health.NewMetricsHandler),
	),
)
