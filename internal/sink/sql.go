package sink

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"

	"fashion-etl/db"
	"fashion-etl/internal/record"
)

// SQL appends the table to a database table, creating it when missing.
// Existing rows are never touched.
type SQL struct {
	database *db.Database
	table    string
}

func NewSQL(database *db.Database, table string) *SQL {
	return &SQL{database: database, table: table}
}

func (s *SQL) Name() string { return "sql" }

func (s *SQL) Write(ctx context.Context, t record.Table) error {
	if s.database == nil || s.database.DB == nil {
		if s.database != nil && s.database.Err != nil {
			return s.database.Err
		}
		return db.ErrDatabaseDisabled
	}
	dialect := s.database.Dialect

	create := createTableSQL(dialect, s.table, t)
	insert := s.database.DB.Rebind(insertSQL(s.table, t.Columns))

	_, err := db.Tx(ctx, s.database.DB, func(tx *sqlx.Tx) (int, error) {
		if _, err := tx.ExecContext(ctx, create); err != nil {
			return 0, fmt.Errorf("create table %s: %w", s.table, err)
		}
		stmt, err := tx.PreparexContext(ctx, insert)
		if err != nil {
			return 0, fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, r := range t.Rows {
			if _, err := stmt.ExecContext(ctx, sqlArgs(r.Values(t.Columns))...); err != nil {
				return i, fmt.Errorf("insert row %d: %w", i, err)
			}
		}
		return len(t.Rows), nil
	})
	return err
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createTableSQL(d db.Dialect, table string, t record.Table) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quoteIdent(string(c)) + " " + columnType(d, c, t)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
}

// columnType infers the SQL type from the first non-null cell of the column,
// falling back to the column's normalized type when every cell is null.
func columnType(d db.Dialect, c record.Column, t record.Table) string {
	for _, r := range t.Rows {
		switch r.Value(c).(type) {
		case nil:
			continue
		case float64:
			return d.RealType
		case int:
			return d.IntegerType
		default:
			return d.TextType
		}
	}

	switch c {
	case record.ColumnRating, record.ColumnPriceLocal:
		return d.RealType
	case record.ColumnColors:
		return d.IntegerType
	default:
		return d.TextType
	}
}

func insertSQL(table string, cols []record.Column) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(string(c))
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(names, ", "), strings.Join(marks, ", "))
}

func sqlArgs(vals []any) []any {
	for i, v := range vals {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			vals[i] = nil
		}
	}
	return vals
}
