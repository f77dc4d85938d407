package server

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// memUserStore is an in-memory UserStore for handler tests.
type memUserStore struct {
	mu        sync.Mutex
	users     map[string]*models.User
	portfolio map[string][]string
}

var _ interfaces.UserStore = (*memUserStore)(nil)

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:     make(map[string]*models.User),
		portfolio: make(map[string][]string),
	}
}

func (m *memUserStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("username '%s' already exists", user.Username)
		}
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email '%s' already exists", user.Email)
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *memUserStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("user '%s' not found", userID)
	}
	return u, nil
}

func (m *memUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user with username '%s' not found", username)
}

func (m *memUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user with email '%s' not found", email)
}

func (m *memUserStore) AddPortfolioTicker(_ context.Context, userID, ticker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for _, t := range m.portfolio[userID] {
		if t == ticker {
			return nil
		}
	}
	m.portfolio[userID] = append(m.portfolio[userID], ticker)
	return nil
}

func (m *memUserStore) ListPortfolioTickers(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.portfolio[userID]...), nil
}

func (m *memUserStore) RemovePortfolioTicker(_ context.Context, userID, ticker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	out := m.portfolio[userID][:0]
	for _, t := range m.portfolio[userID] {
		if t != ticker {
			out = append(out, t)
		}
	}
	m.portfolio[userID] = out
	return nil
}

func (m *memUserStore) Close() error { return nil }

// mockMarket returns canned views and series.
type mockMarket struct {
	indexView  *models.IndexView
	searchErr  error
	series     *models.PriceSeries
	seriesErr  error
	knownAll   bool
	checkCalls int
}

var _ interfaces.MarketService = (*mockMarket)(nil)

func (m *mockMarket) BuildIndexView(context.Context) (*models.IndexView, error) {
	if m.indexView != nil {
		return m.indexView, nil
	}
	return &models.IndexView{
		MarketIndices: []models.QuoteResult{},
		UserQuotes:    []models.QuoteResult{},
		DefaultQuotes: []models.QuoteResult{},
		News:          []models.NewsItem{},
	}, nil
}

func (m *mockMarket) BuildSearchView(_ context.Context, rawQuery string) (*models.SearchView, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	sym := strings.ToUpper(strings.TrimSpace(rawQuery))
	return &models.SearchView{
		Quotes: []models.QuoteResult{
			models.GoodQuote(&models.Quote{Symbol: sym, Price: 100, Currency: "USD", DisplayName: sym}),
		},
		MarketIndices: []models.QuoteResult{},
		News:          []models.NewsItem{},
	}, nil
}

func (m *mockMarket) GetPriceSeries(context.Context, string, interfaces.ChartRange) (*models.PriceSeries, error) {
	if m.seriesErr != nil {
		return nil, m.seriesErr
	}
	if m.series != nil {
		return m.series, nil
	}
	return &models.PriceSeries{Times: []string{}, Prices: []models.SeriesPrice{}}, nil
}

func (m *mockMarket) CheckTicker(context.Context, string) bool {
	m.checkCalls++
	return m.knownAll
}

// mockWatchlist records calls against a slice.
type mockWatchlist struct {
	tickers []string
	addErr  error
}

var _ interfaces.WatchlistService = (*mockWatchlist)(nil)

func (m *mockWatchlist) List(context.Context) ([]string, error) {
	return append([]string{}, m.tickers...), nil
}

func (m *mockWatchlist) Add(_ context.Context, ticker string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.tickers = append(m.tickers, strings.ToUpper(strings.TrimSpace(ticker)))
	return nil
}

func (m *mockWatchlist) Remove(_ context.Context, ticker string) error {
	sym := strings.ToUpper(strings.TrimSpace(ticker))
	for i, t := range m.tickers {
		if t == sym {
			m.tickers = append(m.tickers[:i], m.tickers[i+1:]...)
			return nil
		}
	}
	return &models.ValidationError{Message: fmt.Sprintf("%s not found in the list", sym)}
}

// mockQuotes serves fundamentals for the valuation endpoint.
type mockQuotes struct {
	snapshot *models.FundamentalsSnapshot
	err      error
}

var _ interfaces.QuoteClient = (*mockQuotes)(nil)

func (m *mockQuotes) GetChart(context.Context, string, interfaces.ChartRange) (*models.ChartSeries, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuotes) GetSpark(context.Context, []string, interfaces.ChartRange) (map[string]*models.ChartSeries, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuotes) GetFundamentals(context.Context, string) (*models.FundamentalsSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockQuotes) GetNews(context.Context, string, int) ([]models.NewsItem, error) {
	return nil, nil
}
