package collector

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"fashion-etl/internal/record"
)

var capturedAt = time.Date(2025, 5, 18, 9, 0, 0, 987, time.UTC)

func parseSnippet(t *testing.T, html string) (record.RawRecord, error) {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return ParseCard(doc.Selection, capturedAt)
}

func TestParseCard_AllFields(t *testing.T) {
	rec, err := parseSnippet(t, `
<div class="product-details">
  <h3 class="product-title">Jacket 1</h3>
  <span class="price">$123.45</span>
  <p>Rating: 4.3 / 5</p>
  <p>Colors: 3</p>
  <p>Size: M</p>
  <p>Gender: Men</p>
</div>`)
	require.NoError(t, err)

	require.Equal(t, "Jacket 1", rec.Title)
	require.Equal(t, record.String("$123.45"), rec.Price)
	require.Equal(t, record.String("4.3"), rec.Rating)
	require.Equal(t, record.Int(3), rec.Colors)
	require.Equal(t, record.String("M"), rec.Size)
	require.Equal(t, record.String("Men"), rec.Gender)
	require.Equal(t, capturedAt.Truncate(time.Second), rec.CapturedAt)
}

func TestParseCard_MissingPriceIsNil(t *testing.T) {
	rec, err := parseSnippet(t, `
<div class="product-details">
  <h3 class="product-title">Jacket 2</h3>
  <p>Rating: 4.0 / 5</p>
  <p>Colors: 2</p>
  <p>Size: L</p>
  <p>Gender: Women</p>
</div>`)
	require.NoError(t, err)

	require.Equal(t, "Jacket 2", rec.Title)
	require.Nil(t, rec.Price)
	require.Equal(t, record.String("4"), rec.Rating)
	require.Equal(t, record.Int(2), rec.Colors)
	require.Equal(t, record.String("L"), rec.Size)
	require.Equal(t, record.String("Women"), rec.Gender)
}

func TestParseCard_InvalidRatingIsNil(t *testing.T) {
	rec, err := parseSnippet(t, `
<div class="product-details">
  <h3 class="product-title">Jacket 3</h3>
  <span class="price">$50.00</span>
  <p>Rating: not_a_number / 5</p>
  <p>Colors: 1</p>
  <p>Size: S</p>
  <p>Gender: Unisex</p>
</div>`)
	require.NoError(t, err)
	require.Nil(t, rec.Rating)
	require.Equal(t, record.String("Unisex"), rec.Gender)
}

func TestParseCard_MalformedRatingNumberIsNil(t *testing.T) {
	rec, err := parseSnippet(t, `
<div class="product-details">
  <h3 class="product-title">Jacket 4</h3>
  <p>Rating: ⭐ 4.5.6 / 5</p>
</div>`)
	require.NoError(t, err)
	require.Nil(t, rec.Rating)
}

func TestParseCard_PriceUnavailableParagraphIsNotAPrice(t *testing.T) {
	rec, err := parseSnippet(t, `
<div class="collection-card">
  <div class="product-details">
    <h3 class="product-title">Unknown Product</h3>
    <p class="price">Price Unavailable</p>
    <p>Rating: ⭐ Invalid Rating / 5</p>
    <p>Colors: 5 Colors</p>
    <p>Size: M</p>
    <p>Gender: Men</p>
  </div>
</div>`)
	require.NoError(t, err)
	require.Equal(t, record.UnknownProductTitle, rec.Title)
	require.Nil(t, rec.Price)
	require.Nil(t, rec.Rating)
	require.Equal(t, record.Int(5), rec.Colors)
}

func TestParseCard_FirstLabelledLineWins(t *testing.T) {
	rec, err := parseSnippet(t, `
<div class="product-details">
  <h3 class="product-title">Shirt</h3>
  <p>Rating: 3.9 / 5</p>
  <p>Rating: 1.0 / 5</p>
  <p>Size: XL</p>
  <p>Size: S</p>
</div>`)
	require.NoError(t, err)
	require.Equal(t, record.String("3.9"), rec.Rating)
	require.Equal(t, record.String("XL"), rec.Size)
	require.Nil(t, rec.Colors)
	require.Nil(t, rec.Gender)
}

func TestParseCard_MissingTitleIsMarkupError(t *testing.T) {
	_, err := parseSnippet(t, `
<div class="product-details">
  <span class="price">$10.00</span>
</div>`)
	require.ErrorIs(t, err, ErrMissingTitle)
	require.ErrorIs(t, err, ErrMarkupShape)
}

func TestParseCard_MissingDetailsIsMarkupError(t *testing.T) {
	_, err := parseSnippet(t, `<div class="collection-card"><h3 class="product-title">x</h3></div>`)
	require.ErrorIs(t, err, ErrMissingDetails)
}

func TestApplyMatchers_LineGoesToFirstMatchingLabelOnly(t *testing.T) {
	var rec record.RawRecord
	// The line carries both labels; Rating is declared first and claims it.
	applyMatchers(cardMatchers, []string{"Rating: 4.1 / 5 in 2 Colors", "Colors: 7"}, &rec)

	require.Equal(t, record.String("4.1"), rec.Rating)
	require.Equal(t, record.Int(7), rec.Colors)
}
