package market

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stockdeck/stockdeck/internal/cache"
	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// Compile-time interface check
var _ interfaces.MarketService = (*Service)(nil)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// validate carries the ticker rule used for search queries: 1 to 10
// uppercase letters and digits.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		return tickerPattern.MatchString(fl.Field().String())
	})
	return v
}

type searchQuery struct {
	Ticker string `validate:"required,ticker"`
}

// Service implements MarketService. All external fetches go through the
// injected memo cache; the fixed core batch (indices + flagship tickers)
// shares one medium-TTL entry across all requests.
type Service struct {
	adapter *Adapter
	client  interfaces.QuoteClient
	users   interfaces.UserStore
	news    interfaces.NewsProvider
	memo    *cache.Memo
	cfg     common.MarketConfig
	logger  *common.Logger
}

// NewService creates a new market service. users may be nil — all requests
// are then treated as anonymous.
func NewService(adapter *Adapter, client interfaces.QuoteClient, users interfaces.UserStore, news interfaces.NewsProvider, memo *cache.Memo, cfg common.MarketConfig, logger *common.Logger) *Service {
	return &Service{
		adapter: adapter,
		client:  client,
		users:   users,
		news:    news,
		memo:    memo,
		cfg:     cfg,
		logger:  logger,
	}
}

// BuildIndexView produces the main page payload: market indices, the
// user's quotes, the remaining default quotes, and news. Any subset of
// symbols may fail; failures appear inline as error results.
func (s *Service) BuildIndexView(ctx context.Context) (*models.IndexView, error) {
	core := s.coreQuotes(ctx)

	userTickers := s.userTickers(ctx)
	sets := ResolveTickerSets(userTickers, s.cfg.DefaultTickers)

	view := &models.IndexView{
		MarketIndices: s.pick(ctx, core, canonicalize(s.cfg.IndexSymbols)),
		UserQuotes:    s.pick(ctx, core, sets.UserSet),
		DefaultQuotes: s.pick(ctx, core, sets.RemainingDefault),
		News:          s.getNews(ctx),
	}

	return view, nil
}

// BuildSearchView validates rawQuery and produces the search payload.
func (s *Service) BuildSearchView(ctx context.Context, rawQuery string) (*models.SearchView, error) {
	symbol := strings.ToUpper(strings.TrimSpace(rawQuery))
	if err := validate.Struct(searchQuery{Ticker: symbol}); err != nil {
		return nil, &models.ValidationError{
			Message: "Ticker must be 1 to 10 letters or digits",
		}
	}

	core := s.coreQuotes(ctx)

	view := &models.SearchView{
		Quotes:        []models.QuoteResult{s.quoteFor(ctx, core, symbol)},
		MarketIndices: s.pick(ctx, core, canonicalize(s.cfg.IndexSymbols)),
		News:          s.getNews(ctx),
	}

	return view, nil
}

// CheckTicker reports whether the source currently has data for the symbol.
func (s *Service) CheckTicker(ctx context.Context, ticker string) bool {
	symbol := canonical(ticker)
	if symbol == "" {
		return false
	}
	core := s.coreQuotes(ctx)
	return s.quoteFor(ctx, core, symbol).OK()
}

// coreQuotes returns the shared core batch (indices + flagship tickers)
// from the medium-TTL cache entry. Never fetched per-request.
func (s *Service) coreQuotes(ctx context.Context) map[string]models.QuoteResult {
	symbols := canonicalize(s.cfg.CoreSymbols())
	key := cache.Key("spark", strings.Join(symbols, ","), string(interfaces.Range1D), interfaces.Range1D.Interval())

	v, err := s.memo.Do(key, common.FreshnessCoreBatch, func() (interface{}, error) {
		s.logger.Debug().Int("symbols", len(symbols)).Msg("Fetching core quote batch")
		return s.adapter.FetchQuotes(ctx, symbols, interfaces.Range1D), nil
	})
	if err != nil || v == nil {
		return map[string]models.QuoteResult{}
	}
	return v.(map[string]models.QuoteResult)
}

// quoteFor returns one symbol's quote, reusing the core batch when the
// symbol is already covered there, otherwise via the short-TTL per-ticker
// cache entry.
func (s *Service) quoteFor(ctx context.Context, core map[string]models.QuoteResult, symbol string) models.QuoteResult {
	if r, ok := core[symbol]; ok {
		return r
	}

	key := cache.Key("quote", symbol, string(interfaces.Range1D), interfaces.Range1D.Interval())
	v, err := s.memo.Do(key, common.FreshnessQuote, func() (interface{}, error) {
		return s.adapter.FetchQuotes(ctx, []string{symbol}, interfaces.Range1D)[symbol], nil
	})
	if err != nil || v == nil {
		return models.BadQuote(symbol, "No data available")
	}
	return v.(models.QuoteResult)
}

// pick assembles results for the requested symbols in order, resolving
// through the core batch first.
func (s *Service) pick(ctx context.Context, core map[string]models.QuoteResult, symbols []string) []models.QuoteResult {
	out := make([]models.QuoteResult, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, s.quoteFor(ctx, core, sym))
	}
	return out
}

// userTickers reads the authenticated user's saved tickers, or nil for
// anonymous requests. Store failures degrade to an empty set.
func (s *Service) userTickers(ctx context.Context) []string {
	userID := common.ResolveUserID(ctx)
	if userID == "" || s.users == nil {
		return nil
	}
	tickers, err := s.users.ListPortfolioTickers(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Failed to load portfolio tickers")
		return nil
	}
	return tickers
}

// getNews returns the shared news list from the long-TTL cache entry,
// deduplicated by link and newest first, falling back to the single
// placeholder item when the provider yields nothing.
func (s *Service) getNews(ctx context.Context) []models.NewsItem {
	maxNews := s.cfg.MaxNews
	if maxNews <= 0 {
		maxNews = 5
	}

	key := cache.Key("news", fmt.Sprintf("%d", maxNews))
	v, err := s.memo.Do(key, common.FreshnessNews, func() (interface{}, error) {
		items, err := s.news.FetchNews(ctx, maxNews)
		if err != nil {
			s.logger.Warn().Err(err).Msg("News provider failed")
			items = nil
		}
		items = normalizeNews(items, maxNews)
		if len(items) == 0 {
			items = placeholderNews()
		}
		return items, nil
	})
	if err != nil || v == nil {
		return placeholderNews()
	}
	return v.([]models.NewsItem)
}
