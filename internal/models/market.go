package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is the latest known price for one ticker. Quotes are ephemeral:
// every computation re-fetches, nothing is cached.
//
// A failed lookup is represented by Err being non-empty; callers embed the
// failure in their own result instead of aborting multi-ticker work.
type PriceQuote struct {
	Ticker   string          `json:"ticker"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
	Name     string          `json:"company_name,omitempty"`
	AsOf     time.Time       `json:"timestamp"`
	Err      string          `json:"error,omitempty"`
}

// OK reports whether the quote resolved.
func (q PriceQuote) OK() bool { return q.Err == "" }

// Candle is one daily close in a price history, oldest first.
type Candle struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}
