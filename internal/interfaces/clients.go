// Package interfaces defines service contracts for stockdeck
package interfaces

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/models"
)

// ChartRange is a supported price-history window.
type ChartRange string

const (
	Range1D  ChartRange = "1d"
	Range6Mo ChartRange = "6mo"
	Range1Y  ChartRange = "1y"
	Range2Y  ChartRange = "2y"
)

// Interval returns the sampling interval the quote source should use for
// the range: minute bars for the one-day window, daily bars otherwise.
func (r ChartRange) Interval() string {
	if r == Range1D {
		return "5m"
	}
	return "1d"
}

// Valid reports whether the range is one of the supported windows.
func (r ChartRange) Valid() bool {
	switch r {
	case Range1D, Range6Mo, Range1Y, Range2Y:
		return true
	}
	return false
}

// QuoteClient provides access to the external market-data provider.
// Both call shapes may return an error for malformed/unknown symbols; the
// adapter layer converts those to per-symbol error results.
type QuoteClient interface {
	// GetChart retrieves a single symbol's historical series plus
	// descriptive info (currency, display name).
	GetChart(ctx context.Context, symbol string, rng ChartRange) (*models.ChartSeries, error)

	// GetSpark retrieves several symbols' series in one grouped request.
	// The result map contains an entry per symbol the source answered for;
	// symbols missing from the map had no data.
	GetSpark(ctx context.Context, symbols []string, rng ChartRange) (map[string]*models.ChartSeries, error)

	// GetFundamentals retrieves the valuation inputs for one symbol.
	GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error)

	// GetNews retrieves recent news items for a symbol or topic.
	GetNews(ctx context.Context, query string, limit int) ([]models.NewsItem, error)
}
