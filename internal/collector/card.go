package collector

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fashion-etl/internal/record"
)

const (
	cardSelector    = "div.collection-card"
	detailsSelector = "div.product-details"
	titleSelector   = "h3.product-title"
	priceSelector   = "span.price"
	lineSelector    = "p"
	nextSelector    = "li.page-item.next"
)

// ErrMarkupShape means the page no longer has the structure the parser expects.
var ErrMarkupShape = errors.New("unexpected card markup")

var (
	ErrMissingDetails = fmt.Errorf("%w: missing %s", ErrMarkupShape, detailsSelector)
	ErrMissingTitle   = fmt.Errorf("%w: missing %s", ErrMarkupShape, titleSelector)
)

// ParseCard extracts a RawRecord from one product card. card may be the
// collection card or the product-details element itself.
func ParseCard(card *goquery.Selection, capturedAt time.Time) (record.RawRecord, error) {
	details := card
	if !card.Is(detailsSelector) {
		details = card.Find(detailsSelector).First()
	}
	if details.Length() == 0 {
		return record.RawRecord{}, ErrMissingDetails
	}

	title := details.Find(titleSelector).First()
	if title.Length() == 0 {
		return record.RawRecord{}, ErrMissingTitle
	}

	rec := record.RawRecord{
		Title:      strings.TrimSpace(title.Text()),
		CapturedAt: capturedAt.Truncate(time.Second),
	}

	if price := details.Find(priceSelector).First(); price.Length() > 0 {
		rec.Price = record.String(strings.TrimSpace(price.Text()))
	}

	var lines []string
	details.Find(lineSelector).Each(func(_ int, s *goquery.Selection) {
		lines = append(lines, strings.TrimSpace(s.Text()))
	})
	applyMatchers(cardMatchers, lines, &rec)

	return rec, nil
}
