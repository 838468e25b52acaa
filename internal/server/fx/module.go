package fx

import (
	"go.uber.org/fx"

	"fashion-etl/internal/server"
)

var Module = fx.Options(
	fx.Provide(server.NewHTTPServer),
	fx.Invoke(RegisterHTTPServerLifecycle),
)
