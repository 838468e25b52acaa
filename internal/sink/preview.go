package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"fashion-etl/internal/record"
)

// Preview prints the first rows of the table as a console table.
type Preview struct {
	out   io.Writer
	limit int
}

func NewPreview(out io.Writer, limit int) *Preview {
	return &Preview{out: out, limit: limit}
}

func (p *Preview) Name() string { return "preview" }

func (p *Preview) Write(_ context.Context, t record.Table) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)

	header := table.Row{}
	for _, h := range t.Header() {
		header = append(header, h)
	}
	tw.AppendHeader(header)

	n := max(0, min(p.limit, t.Len()))
	for _, r := range t.Rows[:n] {
		row := table.Row{}
		for _, v := range r.Values(t.Columns) {
			row = append(row, formatCell(v))
		}
		tw.AppendRow(row)
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d of %d rows", n, t.Len())})

	tw.SetStyle(table.StyleRounded)
	tw.Render()
	return nil
}
