// Package record holds the product records that flow through the pipeline and
// the working table the normalizer reshapes.
package record

import "time"

// UnknownProductTitle is the placeholder title the listing uses for cards
// without a real product behind them.
const UnknownProductTitle = "Unknown Product"

// RawRecord is one product card as scraped. Nil pointers mean the field was not
// found on the card.
type RawRecord struct {
	Title      string
	Price      *string
	Rating     *string
	Colors     *int
	Size       *string
	Gender     *string
	CapturedAt time.Time `validate:"required"`
}

// CleanRecord is a validated product row ready for the sinks.
type CleanRecord struct {
	Title      string  `validate:"required,ne=Unknown Product"`
	Rating     float64 `validate:"gte=0,lte=5"`
	Colors     int
	Size       string `validate:"required"`
	Gender     string `validate:"required"`
	PriceLocal float64
}

func String(s string) *string { return &s }

func Int(i int) *int { return &i }
