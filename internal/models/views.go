package models

// IndexView is the aggregated payload for the main page: market indices,
// the user's saved tickers, and the remaining default tickers, plus news.
// Any subset of symbols may be error results; the view is always
// structurally complete.
type IndexView struct {
	MarketIndices []QuoteResult `json:"market_indices"`
	UserQuotes    []QuoteResult `json:"user_quotes"`
	DefaultQuotes []QuoteResult `json:"default_quotes"`
	News          []NewsItem    `json:"news"`
}

// SearchView is the payload for a single-ticker search.
type SearchView struct {
	Quotes        []QuoteResult `json:"quotes"`
	MarketIndices []QuoteResult `json:"market_indices"`
	News          []NewsItem    `json:"news"`
}

// TickerSets is the disjoint partition of symbols for one request: once a
// symbol is claimed by the user's portfolio it is excluded from the
// remaining default set.
type TickerSets struct {
	UserSet          []string
	RemainingDefault []string
}
