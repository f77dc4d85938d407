package market

import (
	"context"
	"fmt"

	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// mockQuoteClient implements interfaces.QuoteClient with function fields.
type mockQuoteClient struct {
	getChartFunc        func(ctx context.Context, symbol string, rng interfaces.ChartRange) (*models.ChartSeries, error)
	getSparkFunc        func(ctx context.Context, symbols []string, rng interfaces.ChartRange) (map[string]*models.ChartSeries, error)
	getFundamentalsFunc func(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error)
	getNewsFunc         func(ctx context.Context, query string, limit int) ([]models.NewsItem, error)

	chartCalls int
	sparkCalls int
	newsCalls  int
}

var _ interfaces.QuoteClient = (*mockQuoteClient)(nil)

func (m *mockQuoteClient) GetChart(ctx context.Context, symbol string, rng interfaces.ChartRange) (*models.ChartSeries, error) {
	m.chartCalls++
	if m.getChartFunc != nil {
		return m.getChartFunc(ctx, symbol, rng)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuoteClient) GetSpark(ctx context.Context, symbols []string, rng interfaces.ChartRange) (map[string]*models.ChartSeries, error) {
	m.sparkCalls++
	if m.getSparkFunc != nil {
		return m.getSparkFunc(ctx, symbols, rng)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuoteClient) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error) {
	if m.getFundamentalsFunc != nil {
		return m.getFundamentalsFunc(ctx, symbol)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuoteClient) GetNews(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	m.newsCalls++
	if m.getNewsFunc != nil {
		return m.getNewsFunc(ctx, query, limit)
	}
	return nil, fmt.Errorf("not implemented")
}

// mockUserStore implements interfaces.UserStore for the portfolio lookups
// the market service performs.
type mockUserStore struct {
	listFunc func(ctx context.Context, userID string) ([]string, error)
}

var _ interfaces.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) CreateUser(context.Context, *models.User) error { return nil }
func (m *mockUserStore) GetUser(context.Context, string) (*models.User, error) {
	return nil, fmt.Errorf("not implemented")
}
func (m *mockUserStore) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, fmt.Errorf("not implemented")
}
func (m *mockUserStore) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, fmt.Errorf("not implemented")
}
func (m *mockUserStore) AddPortfolioTicker(context.Context, string, string) error { return nil }
func (m *mockUserStore) ListPortfolioTickers(ctx context.Context, userID string) ([]string, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, nil
}
func (m *mockUserStore) RemovePortfolioTicker(context.Context, string, string) error { return nil }
func (m *mockUserStore) Close() error                                               { return nil }
