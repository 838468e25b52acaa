// Package migrations embeds the goose migrations for the product table.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
