package fx

import (
	"fashion-etl/db"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"sqlx-db",
	fx.Provide(db.NewDatabase),
)
