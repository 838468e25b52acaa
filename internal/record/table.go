package record

import (
	"fmt"
	"slices"
	"time"
)

type Column string

const (
	ColumnTitle      Column = "Title"
	ColumnPrice      Column = "Price"
	ColumnRating     Column = "Rating"
	ColumnColors     Column = "Colors"
	ColumnSize       Column = "Size"
	ColumnGender     Column = "Gender"
	ColumnPriceLocal Column = "PriceLocal"
)

// RawColumns is the column layout of a freshly built table.
var RawColumns = []Column{ColumnTitle, ColumnPrice, ColumnRating, ColumnColors, ColumnSize, ColumnGender}

// CleanColumns is the column layout of a fully normalized table.
var CleanColumns = []Column{ColumnTitle, ColumnRating, ColumnColors, ColumnSize, ColumnGender, ColumnPriceLocal}

// Row is one table row. Every cell is nullable. Rating holds the parsed value
// once available; until then RatingText carries the scraped form.
type Row struct {
	Title      *string
	Price      *string
	PriceLocal *float64
	RatingText *string
	Rating     *float64
	Colors     *int
	Size       *string
	Gender     *string

	CapturedAt time.Time
}

func RowFromRaw(r RawRecord) Row {
	title := r.Title
	return Row{
		Title:      &title,
		Price:      r.Price,
		RatingText: r.Rating,
		Colors:     r.Colors,
		Size:       r.Size,
		Gender:     r.Gender,
		CapturedAt: r.CapturedAt,
	}
}

// Value returns the cell for c, or nil when the cell is null.
func (r Row) Value(c Column) any {
	switch c {
	case ColumnTitle:
		return deref(r.Title)
	case ColumnPrice:
		return deref(r.Price)
	case ColumnPriceLocal:
		return deref(r.PriceLocal)
	case ColumnRating:
		if r.Rating != nil {
			return *r.Rating
		}
		return deref(r.RatingText)
	case ColumnColors:
		return deref(r.Colors)
	case ColumnSize:
		return deref(r.Size)
	case ColumnGender:
		return deref(r.Gender)
	default:
		return nil
	}
}

func (r Row) Values(cols []Column) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = r.Value(c)
	}
	return out
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

type Table struct {
	Columns []Column
	Rows    []Row
}

func NewTable(rows []Row) Table {
	return Table{
		Columns: slices.Clone(RawColumns),
		Rows:    rows,
	}
}

func (t Table) Len() int { return len(t.Rows) }

func (t Table) Has(c Column) bool { return slices.Contains(t.Columns, c) }

func (t Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = string(c)
	}
	return out
}

// Filter returns a new table with the same columns and only the rows keep
// accepts. The receiver is left untouched.
func (t Table) Filter(keep func(Row) bool) Table {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

// Map returns a new table with every row passed through fn.
func (t Table) Map(fn func(Row) Row) Table {
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = fn(r)
	}
	return Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

func (t Table) WithColumn(c Column) Table {
	if t.Has(c) {
		return t
	}
	return Table{Columns: append(slices.Clone(t.Columns), c), Rows: t.Rows}
}

func (t Table) WithoutColumn(c Column) Table {
	cols := slices.DeleteFunc(slices.Clone(t.Columns), func(x Column) bool { return x == c })
	return Table{Columns: cols, Rows: t.Rows}
}

// Records converts a fully normalized table into CleanRecords.
func (t Table) Records() ([]CleanRecord, error) {
	for _, c := range CleanColumns {
		if !t.Has(c) {
			return nil, fmt.Errorf("table is missing column %s", c)
		}
	}
	if t.Has(ColumnPrice) {
		return nil, fmt.Errorf("table still carries column %s", ColumnPrice)
	}

	out := make([]CleanRecord, 0, len(t.Rows))
	for i, r := range t.Rows {
		if r.Title == nil || r.Rating == nil || r.Colors == nil || r.Size == nil || r.Gender == nil || r.PriceLocal == nil {
			return nil, fmt.Errorf("row %d has null cells", i)
		}
		out = append(out, CleanRecord{
			Title:      *r.Title,
			Rating:     *r.Rating,
			Colors:     *r.Colors,
			Size:       *r.Size,
			Gender:     *r.Gender,
			PriceLocal: *r.PriceLocal,
		})
	}
	return out, nil
}
