// Package sink writes the normalized product table to its destinations.
//
// Every sink writes the columns the table carries, in table order, so a
// partially normalized table is written as it stands.
package sink

import (
	"context"
	"math"
	"strconv"
	"strings"

	"fashion-etl/internal/record"
)

type Sink interface {
	Name() string
	Write(ctx context.Context, t record.Table) error
}

// formatCell renders a cell for text outputs. Floats always carry a decimal
// part (320000 is written as 320000.0); null and NaN become empty.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eI") {
			s += ".0"
		}
		return s
	default:
		return ""
	}
}
