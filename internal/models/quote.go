// Package models defines data structures for stockdeck
package models

import (
	"encoding/json"
	"math"
	"time"
)

// Quote holds one ticker's latest snapshot. A Quote is always fully
// populated; fetch failures are represented by a QuoteResult carrying an
// error message instead, never by a partially filled Quote.
type Quote struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	Change      float64 `json:"change"`
	ChangePct   float64 `json:"change_pct"`
	Currency    string  `json:"currency"`
	DisplayName string  `json:"display_name"`
}

// QuoteResult is the tagged success/error variant returned per symbol.
// Exactly one of Quote and Error is set.
type QuoteResult struct {
	Symbol string `json:"symbol"`
	Quote  *Quote `json:"quote,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the result carries a usable Quote.
func (r QuoteResult) OK() bool {
	return r.Quote != nil && r.Error == ""
}

// GoodQuote wraps a successful quote.
func GoodQuote(q *Quote) QuoteResult {
	return QuoteResult{Symbol: q.Symbol, Quote: q}
}

// BadQuote wraps a per-symbol failure.
func BadQuote(symbol, message string) QuoteResult {
	return QuoteResult{Symbol: symbol, Error: message}
}

// ChartBar is a single point of a price series from the quote source.
// Open and Close are NaN when the source reported no value for that slot.
type ChartBar struct {
	Timestamp time.Time
	Open      float64
	Close     float64
}

// ChartSeries is the normalized per-symbol time series returned by the
// quote source client, with descriptive info when the endpoint provides it.
type ChartSeries struct {
	Symbol   string
	Currency string
	Name     string
	Bars     []ChartBar
}

// Empty reports whether the series has no usable bars.
func (s *ChartSeries) Empty() bool {
	if s == nil {
		return true
	}
	for _, b := range s.Bars {
		if !math.IsNaN(b.Close) {
			return false
		}
	}
	return true
}

// SeriesPrice is a price slot in the wire format for /api/stock-price.
// Missing prices serialize as an empty string, not null, not omitted.
type SeriesPrice struct {
	Valid bool
	Value float64
}

// MarshalJSON writes the price as a number, or "" when absent.
func (p SeriesPrice) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte(`""`), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON accepts a number or an empty string.
func (p *SeriesPrice) UnmarshalJSON(data []byte) error {
	if string(data) == `""` {
		p.Valid = false
		p.Value = 0
		return nil
	}
	p.Valid = true
	return json.Unmarshal(data, &p.Value)
}

// PriceSeries is the wire format for GET /api/stock-price/{ticker}.
type PriceSeries struct {
	Times  []string      `json:"times"`
	Prices []SeriesPrice `json:"prices"`
}
