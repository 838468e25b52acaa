package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"fashion-etl/internal/record"
)

// CSV overwrites a file with the table, header first.
type CSV struct {
	path string
}

func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (c *CSV) Name() string { return "csv" }

func (c *CSV) Write(_ context.Context, t record.Table) (err error) {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", c.path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		for j, v := range r.Values(t.Columns) {
			line[j] = formatCell(v)
		}
		if err := w.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", c.path, err)
	}
	return nil
}
