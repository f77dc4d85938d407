package market

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/cache"
	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

func testConfig() common.MarketConfig {
	return common.MarketConfig{
		IndexSymbols:   []string{"^GSPC", "^DJI"},
		DefaultTickers: []string{"AAPL", "MSFT", "TSLA"},
		MaxNews:        5,
	}
}

func sparkAll(client *mockQuoteClient) {
	client.getSparkFunc = func(_ context.Context, syms []string, _ interfaces.ChartRange) (map[string]*models.ChartSeries, error) {
		out := make(map[string]*models.ChartSeries)
		for _, s := range syms {
			out[s] = series(s, 100, 101)
		}
		return out, nil
	}
	client.getChartFunc = func(_ context.Context, symbol string, _ interfaces.ChartRange) (*models.ChartSeries, error) {
		return series(symbol, 100, 101), nil
	}
}

func newTestService(client *mockQuoteClient, users interfaces.UserStore, news interfaces.NewsProvider) *Service {
	if news == nil {
		news = StaticNewsProvider{}
	}
	adapter := newTestAdapter(client)
	return NewService(adapter, client, users, news, cache.New(), testConfig(), common.NewSilentLogger())
}

func TestBuildIndexViewAnonymous(t *testing.T) {
	client := &mockQuoteClient{}
	sparkAll(client)
	svc := newTestService(client, nil, nil)

	view, err := svc.BuildIndexView(context.Background())
	require.NoError(t, err)

	assert.Len(t, view.MarketIndices, 2)
	assert.Empty(t, view.UserQuotes)
	assert.Len(t, view.DefaultQuotes, 3)
	require.Len(t, view.News, 1)
	assert.Equal(t, "Market news is currently unavailable", view.News[0].Title)
}

func TestBuildIndexViewWithUser(t *testing.T) {
	client := &mockQuoteClient{}
	sparkAll(client)
	users := &mockUserStore{
		listFunc: func(_ context.Context, userID string) ([]string, error) {
			assert.Equal(t, "u1", userID)
			return []string{"MSFT", "NVDA"}, nil
		},
	}
	svc := newTestService(client, users, nil)

	ctx := common.WithUserContext(context.Background(), &common.UserContext{UserID: "u1"})
	view, err := svc.BuildIndexView(ctx)
	require.NoError(t, err)

	require.Len(t, view.UserQuotes, 2)
	assert.Equal(t, "MSFT", view.UserQuotes[0].Symbol)
	assert.Equal(t, "NVDA", view.UserQuotes[1].Symbol)

	// MSFT is claimed by the user, so defaults shrink to the remainder.
	require.Len(t, view.DefaultQuotes, 2)
	assert.Equal(t, "AAPL", view.DefaultQuotes[0].Symbol)
	assert.Equal(t, "TSLA", view.DefaultQuotes[1].Symbol)
}

func TestBuildIndexViewStoreFailureDegrades(t *testing.T) {
	client := &mockQuoteClient{}
	sparkAll(client)
	users := &mockUserStore{
		listFunc: func(context.Context, string) ([]string, error) {
			return nil, fmt.Errorf("db closed")
		},
	}
	svc := newTestService(client, users, nil)

	ctx := common.WithUserContext(context.Background(), &common.UserContext{UserID: "u1"})
	view, err := svc.BuildIndexView(ctx)
	require.NoError(t, err)

	assert.Empty(t, view.UserQuotes)
	assert.Len(t, view.DefaultQuotes, 3)
}

func TestCoreBatchSharedAcrossRequests(t *testing.T) {
	client := &mockQuoteClient{}
	sparkAll(client)
	svc := newTestService(client, nil, nil)

	for i := 0; i < 5; i++ {
		_, err := svc.BuildIndexView(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, client.sparkCalls, "core batch must be fetched once and reused")
}

func TestBuildSearchViewValid(t *testing.T) {
	client := &mockQuoteClient{}
	sparkAll(client)
	svc := newTestService(client, nil, nil)

	view, err := svc.BuildSearchView(context.Background(), " nvda ")
	require.NoError(t, err)

	require.Len(t, view.Quotes, 1)
	assert.Equal(t, "NVDA", view.Quotes[0].Symbol)
	assert.True(t, view.Quotes[0].OK())
	assert.Len(t, view.MarketIndices, 2)
}

func TestBuildSearchViewReusesCoreBatch(t *testing.T) {
	client := &mockQuoteClient{}
	sparkAll(client)
	svc := newTestService(client, nil, nil)

	_, err := svc.BuildIndexView(context.Background())
	require.NoError(t, err)

	chartCallsBefore := client.chartCalls
	view, err := svc.BuildSearchView(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.True(t, view.Quotes[0].OK())
	assert.Equal(t, chartCallsBefore, client.chartCalls, "a core symbol must resolve from the shared batch")
}

func TestBuildSearchViewRejectsMalformedQueries(t *testing.T) {
	client := &mockQuoteClient{}
	svc := newTestService(client, nil, nil)

	for _, q := range []string{"", "   ", "abc!", "BRK.B", "TOOLONGTICKER", "a b"} {
		_, err := svc.BuildSearchView(context.Background(), q)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr, "query %q", q)
		assert.Equal(t, "Ticker must be 1 to 10 letters or digits", verr.Message)
	}

	assert.Equal(t, 0, client.sparkCalls, "no external call before validation passes")
	assert.Equal(t, 0, client.chartCalls)
}

func TestBuildSearchViewAcceptsLowercase(t *testing.T) {
	client := &mockQuoteClient{}
	sparkAll(client)
	svc := newTestService(client, nil, nil)

	view, err := svc.BuildSearchView(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", view.Quotes[0].Symbol)
}

func TestCheckTicker(t *testing.T) {
	client := &mockQuoteClient{}
	client.getSparkFunc = func(_ context.Context, syms []string, _ interfaces.ChartRange) (map[string]*models.ChartSeries, error) {
		out := make(map[string]*models.ChartSeries)
		for _, s := range syms {
			out[s] = series(s, 1, 1)
		}
		return out, nil
	}
	client.getChartFunc = func(_ context.Context, symbol string, _ interfaces.ChartRange) (*models.ChartSeries, error) {
		if symbol == "NOPE" {
			return nil, fmt.Errorf("not found")
		}
		return series(symbol, 1, 1), nil
	}
	svc := newTestService(client, nil, nil)

	assert.True(t, svc.CheckTicker(context.Background(), "NVDA"))
	assert.False(t, svc.CheckTicker(context.Background(), "NOPE"))
	assert.False(t, svc.CheckTicker(context.Background(), "  "))
}

func TestGetNewsCachedAndNormalized(t *testing.T) {
	now := time.Now()
	client := &mockQuoteClient{}
	sparkAll(client)
	client.getNewsFunc = func(context.Context, string, int) ([]models.NewsItem, error) {
		return []models.NewsItem{
			{Title: "old", Link: "https://a", PublishedAt: now.Add(-time.Hour)},
			{Title: "dup", Link: "https://a", PublishedAt: now},
			{Title: "new", Link: "https://b", PublishedAt: now},
		}, nil
	}
	svc := newTestService(client, nil, &ClientNewsProvider{Client: client})

	view, err := svc.BuildIndexView(context.Background())
	require.NoError(t, err)

	require.Len(t, view.News, 2, "duplicate links collapse to the first occurrence")
	assert.Equal(t, "new", view.News[0].Title)
	assert.Equal(t, "old", view.News[1].Title)

	_, err = svc.BuildIndexView(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, client.newsCalls, "news must come from the long-TTL cache entry")
}

func TestGetNewsProviderFailureFallsBack(t *testing.T) {
	client := &mockQuoteClient{}
	sparkAll(client)
	client.getNewsFunc = func(context.Context, string, int) ([]models.NewsItem, error) {
		return nil, fmt.Errorf("search endpoint down")
	}
	svc := newTestService(client, nil, &ClientNewsProvider{Client: client})

	view, err := svc.BuildIndexView(context.Background())
	require.NoError(t, err)

	require.Len(t, view.News, 1)
	assert.Equal(t, "Market news is currently unavailable", view.News[0].Title)
}

func TestNormalizeNewsCap(t *testing.T) {
	items := make([]models.NewsItem, 10)
	for i := range items {
		items[i] = models.NewsItem{
			Title:       fmt.Sprintf("item-%d", i),
			Link:        fmt.Sprintf("https://n/%d", i),
			PublishedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
	}

	out := normalizeNews(items, 5)

	require.Len(t, out, 5)
	assert.Equal(t, "item-9", out[0].Title, "newest first")
}
