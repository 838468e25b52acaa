package fx

import (
	"fashion-etl/cache"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"redis",
	fx.Provide(cache.NewRedis),
)
