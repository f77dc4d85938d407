package market

import (
	"context"
	"sort"
	"time"

	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// StaticNewsProvider yields nothing; the façade substitutes the single
// placeholder item. Selected by config when live news is disabled.
type StaticNewsProvider struct{}

// FetchNews returns no items.
func (StaticNewsProvider) FetchNews(_ context.Context, _ int) ([]models.NewsItem, error) {
	return nil, nil
}

// ClientNewsProvider fetches market news from the quote source's search
// endpoint.
type ClientNewsProvider struct {
	Client interfaces.QuoteClient
	Query  string
}

// FetchNews retrieves up to limit items for the configured query.
func (p *ClientNewsProvider) FetchNews(ctx context.Context, limit int) ([]models.NewsItem, error) {
	query := p.Query
	if query == "" {
		query = "stock market"
	}
	return p.Client.GetNews(ctx, query, limit)
}

// normalizeNews dedupes by link (first occurrence wins), orders newest
// first, and caps the list at max.
func normalizeNews(items []models.NewsItem, max int) []models.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		if item.Link != "" {
			if _, dup := seen[item.Link]; dup {
				continue
			}
			seen[item.Link] = struct{}{}
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// placeholderNews is the single-item fallback when the provider yields
// nothing.
func placeholderNews() []models.NewsItem {
	return []models.NewsItem{{
		Title:       "Market news is currently unavailable",
		Publisher:   "stockdeck",
		PublishedAt: time.Now().UTC(),
	}}
}

var (
	_ interfaces.NewsProvider = StaticNewsProvider{}
	_ interfaces.NewsProvider = (*ClientNewsProvider)(nil)
)
