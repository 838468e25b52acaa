package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"fashion-etl/internal/record"
)

// Stage is one named, pure table-to-table step of the cleaning pipeline.
type Stage struct {
	Name  string
	Apply func(record.Table) (record.Table, error)
}

// Stages returns the cleaning pipeline in the order it must run. Later stages
// rely on the rows and columns earlier ones have already removed.
func Stages(exchangeRate float64, currencySymbol string) []Stage {
	return []Stage{
		{Name: "parse_price", Apply: ParsePrice(currencySymbol)},
		{Name: "convert_currency", Apply: ConvertCurrency(exchangeRate)},
		{Name: "drop_unconvertible_prices", Apply: DropUnconvertiblePrices},
		{Name: "drop_price_column", Apply: DropPriceColumn},
		{Name: "drop_unknown_products", Apply: DropUnknownProducts},
		{Name: "filter_valid_ratings", Apply: FilterValidRatings},
		{Name: "filter_rating_range", Apply: FilterRatingRange},
		{Name: "drop_duplicates", Apply: DropDuplicates},
		{Name: "drop_nulls", Apply: DropNulls},
		{Name: "normalize_types", Apply: NormalizeTypes},
	}
}

// ParsePrice strips the currency symbol and parses the remainder. The parsed
// value is parked in PriceLocal until ConvertCurrency scales it; anything
// absent or unparsable becomes NaN.
func ParsePrice(currencySymbol string) func(record.Table) (record.Table, error) {
	return func(t record.Table) (record.Table, error) {
		out := t.Map(func(r record.Row) record.Row {
			v := math.NaN()
			if d, ok := parsePriceText(r.Price, currencySymbol); ok {
				v = d.InexactFloat64()
			}
			r.PriceLocal = &v
			return r
		})
		return out.WithColumn(record.ColumnPriceLocal), nil
	}
}

func parsePriceText(raw *string, currencySymbol string) (decimal.Decimal, bool) {
	if raw == nil {
		return decimal.Decimal{}, false
	}
	s := strings.TrimSpace(*raw)
	if currencySymbol != "" {
		s = strings.TrimSpace(strings.TrimPrefix(s, currencySymbol))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ConvertCurrency multiplies the parsed price by the exchange rate in decimal
// arithmetic, so "$20.00" at 16000 is exactly 320000.
func ConvertCurrency(exchangeRate float64) func(record.Table) (record.Table, error) {
	rate := decimal.NewFromFloat(exchangeRate)
	return func(t record.Table) (record.Table, error) {
		if !t.Has(record.ColumnPriceLocal) {
			return t, fmt.Errorf("column %s not present", record.ColumnPriceLocal)
		}
		return t.Map(func(r record.Row) record.Row {
			v := math.NaN()
			if r.PriceLocal != nil && !math.IsNaN(*r.PriceLocal) && !math.IsInf(*r.PriceLocal, 0) {
				v = decimal.NewFromFloat(*r.PriceLocal).Mul(rate).InexactFloat64()
			}
			r.PriceLocal = &v
			return r
		}), nil
	}
}

func DropUnconvertiblePrices(t record.Table) (record.Table, error) {
	return t.Filter(func(r record.Row) bool {
		return r.PriceLocal != nil && !math.IsNaN(*r.PriceLocal) && !math.IsInf(*r.PriceLocal, 0)
	}), nil
}

func DropPriceColumn(t record.Table) (record.Table, error) {
	out := t.Map(func(r record.Row) record.Row {
		r.Price = nil
		return r
	})
	return out.WithoutColumn(record.ColumnPrice), nil
}

// DropUnknownProducts removes placeholder cards and cards with a blank title.
// Null titles are left for DropNulls.
func DropUnknownProducts(t record.Table) (record.Table, error) {
	return t.Filter(func(r record.Row) bool {
		if r.Title == nil {
			return true
		}
		title := strings.TrimSpace(*r.Title)
		return title != "" && *r.Title != record.UnknownProductTitle
	}), nil
}

// FilterValidRatings keeps rows whose rating text is a plain non-negative
// decimal (digits once the dots are removed) and that then parses as a float.
// "4.5.6" passes the first check and is dropped by the second.
func FilterValidRatings(t record.Table) (record.Table, error) {
	rows := make([]record.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Rating != nil {
			rows = append(rows, r)
			continue
		}
		if r.RatingText == nil || !digitsOnly(strings.ReplaceAll(*r.RatingText, ".", "")) {
			continue
		}
		v, err := strconv.ParseFloat(*r.RatingText, 64)
		if err != nil {
			continue
		}
		r.Rating = &v
		r.RatingText = nil
		rows = append(rows, r)
	}
	return record.Table{Columns: t.Columns, Rows: rows}, nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func FilterRatingRange(t record.Table) (record.Table, error) {
	return t.Filter(func(r record.Row) bool {
		return r.Rating != nil && *r.Rating >= 0 && *r.Rating <= 5
	}), nil
}

// DropDuplicates keeps the first of any rows that agree on every current
// column, nulls included.
func DropDuplicates(t record.Table) (record.Table, error) {
	seen := make(map[string]struct{}, len(t.Rows))
	return t.Filter(func(r record.Row) bool {
		key := rowKey(r, t.Columns)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	}), nil
}

// rowKey encodes every cell as type, length and text so no cell content can
// spill into its neighbour's slot.
func rowKey(r record.Row, cols []record.Column) string {
	var b strings.Builder
	for _, v := range r.Values(cols) {
		if v == nil {
			b.WriteString("nil;")
			continue
		}
		text := fmt.Sprint(v)
		fmt.Fprintf(&b, "%T/%d/%s;", v, len(text), text)
	}
	return b.String()
}

func DropNulls(t record.Table) (record.Table, error) {
	return t.Filter(func(r record.Row) bool {
		for _, v := range r.Values(t.Columns) {
			if v == nil {
				return false
			}
		}
		return true
	}), nil
}

var cleanValidator = validator.New()

// NormalizeTypes pins Rating to a parsed float (clearing any leftover text)
// and checks every row against the CleanRecord contract.
func NormalizeTypes(t record.Table) (record.Table, error) {
	out := t.Map(func(r record.Row) record.Row {
		r.RatingText = nil
		return r
	})

	recs, err := out.Records()
	if err != nil {
		return t, err
	}
	for i, rec := range recs {
		if err := cleanValidator.Struct(rec); err != nil {
			return t, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return out, nil
}
