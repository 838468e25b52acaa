package pipeline

import (
	"io"

	"go.uber.org/zap"

	"fashion-etl/config"
	"fashion-etl/db"
	"fashion-etl/internal/sink"
)

// NewSinks returns the enabled sinks in write order: preview, CSV, Sheets,
// SQL and, after SQL, the optional pg_dump.
func NewSinks(cfg *config.Config, database *db.Database, out io.Writer, logger *zap.SugaredLogger) []sink.Sink {
	var sinks []sink.Sink
	if cfg.PreviewRows > 0 {
		sinks = append(sinks, sink.NewPreview(out, cfg.PreviewRows))
	}
	sinks = append(sinks, sink.NewCSV(cfg.CSV.Path))
	if cfg.Sheets.Enabled {
		sinks = append(sinks, sink.NewSheets(cfg.Sheets))
	}
	if cfg.SQL.Enabled {
		sinks = append(sinks, sink.NewSQL(database, cfg.SQL.Table))
		if cfg.SQL.DumpPath != "" {
			sinks = append(sinks, sink.NewPGDump(cfg.SQL.URL, cfg.SQL.DumpPath, logger))
		}
	}
	return sinks
}
