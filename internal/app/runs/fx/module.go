package fx

import (
	"go.uber.org/fx"

	"fashion-etl/internal/app/runs"
	"fashion-etl/internal/router"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(runs.NewHandler)),
)
