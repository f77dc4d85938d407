// Package watchlist manages the shared flat watchlist of symbols.
package watchlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// Compile-time interface check
var _ interfaces.WatchlistService = (*Service)(nil)

// Service implements WatchlistService over the file store. The market
// service is consulted before adding a symbol so unknown tickers are
// rejected instead of persisted.
type Service struct {
	store  interfaces.WatchlistStore
	market interfaces.MarketService
	logger *common.Logger
}

// NewService creates a new watchlist service. market may be nil — the
// data check is then skipped.
func NewService(store interfaces.WatchlistStore, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		market: market,
		logger: logger,
	}
}

// List returns the watchlist symbols in stored order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	tickers, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return tickers, nil
}

// Add appends a ticker to the watchlist after checking the source has
// data for it. Duplicates and unknown symbols are rejected with a
// user-facing validation error.
func (s *Service) Add(ctx context.Context, ticker string) error {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return &models.ValidationError{Message: "Please enter a ticker symbol"}
	}

	tickers, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	for _, t := range tickers {
		if strings.EqualFold(t, symbol) {
			return &models.ValidationError{Message: fmt.Sprintf("%s already in list", symbol)}
		}
	}

	if s.market != nil && !s.market.CheckTicker(ctx, symbol) {
		return &models.ValidationError{Message: fmt.Sprintf("Problem fetching data for %s", symbol)}
	}

	tickers = append(tickers, symbol)
	if err := s.store.Save(ctx, tickers); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("ticker", symbol).Msg("Watchlist ticker added")
	return nil
}

// Remove deletes a ticker from the watchlist.
func (s *Service) Remove(ctx context.Context, ticker string) error {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))

	tickers, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	idx := -1
	for i, t := range tickers {
		if strings.EqualFold(t, symbol) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &models.ValidationError{Message: fmt.Sprintf("%s not found in the list", symbol)}
	}

	tickers = append(tickers[:idx], tickers[idx+1:]...)
	if err := s.store.Save(ctx, tickers); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("ticker", symbol).Msg("Watchlist ticker removed")
	return nil
}
