package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"fashion-etl/db/migrations"
)

// Migrate runs a goose command ("up", "down", "status", ...) against db using
// the embedded migrations.
func Migrate(ctx context.Context, db *sqlx.DB, dialect Dialect, command string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect.GooseName); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db.DB, "."); err != nil {
		return fmt.Errorf("goose run %q: %w", command, err)
	}
	return nil
}
