// Package interfaces defines service contracts for stockdeck
package interfaces

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/models"
)

// MarketService aggregates quote, news, and ticker-set data into views.
type MarketService interface {
	// BuildIndexView produces the main page payload. The authenticated
	// user (if any) is resolved from ctx; anonymous requests get an empty
	// user set and the full default set.
	BuildIndexView(ctx context.Context) (*models.IndexView, error)

	// BuildSearchView validates rawQuery and produces the search payload.
	// A malformed query returns a *models.ValidationError before any
	// external call is attempted.
	BuildSearchView(ctx context.Context, rawQuery string) (*models.SearchView, error)

	// GetPriceSeries returns the wire-format history for one ticker.
	GetPriceSeries(ctx context.Context, ticker string, rng ChartRange) (*models.PriceSeries, error)

	// CheckTicker reports whether the source has data for the symbol.
	// Used by the watchlist before persisting a new entry.
	CheckTicker(ctx context.Context, ticker string) bool
}

// ValuationService computes fair-value estimates from a fundamentals
// snapshot. Pure computation, no I/O.
type ValuationService interface {
	Estimate(snapshot *models.FundamentalsSnapshot) *models.Valuation
}

// WatchlistService manages the flat shared watchlist.
type WatchlistService interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, ticker string) error
	Remove(ctx context.Context, ticker string) error
}

// NewsProvider returns an ordered, deduplicated-by-link, newest-first
// sequence of up to limit items. Implementations that yield nothing are
// backed by a single placeholder item at the façade.
type NewsProvider interface {
	FetchNews(ctx context.Context, limit int) ([]models.NewsItem, error)
}
