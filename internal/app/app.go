// Package app wires configuration, clients, storage, and services into a
// single application container.
package app

import (
	"fmt"

	"github.com/stockdeck/stockdeck/internal/cache"
	"github.com/stockdeck/stockdeck/internal/clients/yahoo"
	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/services/market"
	"github.com/stockdeck/stockdeck/internal/services/valuation"
	"github.com/stockdeck/stockdeck/internal/services/watchlist"
	"github.com/stockdeck/stockdeck/internal/storage/userdb"
	"github.com/stockdeck/stockdeck/internal/storage/watchlistfs"
)

// App holds all application components.
type App struct {
	Config *common.Config
	Logger *common.Logger
	Memo   *cache.Memo

	Quotes interfaces.QuoteClient

	UserStore      interfaces.UserStore
	WatchlistStore interfaces.WatchlistStore

	Market    interfaces.MarketService
	Valuation interfaces.ValuationService
	Watchlist interfaces.WatchlistService
}

// New creates the application container from configuration.
func New(configPaths ...string) (*App, error) {
	config, err := common.LoadConfig(configPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	logger.Info().
		Str("version", common.GetFullVersion()).
		Str("environment", config.Environment).
		Msg("Starting stockdeck")

	if config.IsProduction() && config.Auth.JWTSecret == common.NewDefaultConfig().Auth.JWTSecret {
		return nil, fmt.Errorf("default JWT secret in production, set STOCKDECK_AUTH_JWT_SECRET")
	}

	quotes := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	userStore, err := userdb.NewStore(logger, config.Storage.User.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}

	watchlistStore, err := watchlistfs.NewStore(logger, config.Storage.Watchlist.Path)
	if err != nil {
		userStore.Close()
		return nil, fmt.Errorf("failed to open watchlist store: %w", err)
	}

	memo := cache.New()

	delayMin, delayMax := config.Clients.Yahoo.GetBatchDelay()
	adapter := market.NewAdapter(quotes, delayMin, delayMax, logger)

	var news interfaces.NewsProvider
	if config.Market.NewsProvider == "yahoo" {
		news = &market.ClientNewsProvider{Client: quotes}
	} else {
		news = market.StaticNewsProvider{}
	}

	marketService := market.NewService(adapter, quotes, userStore, news, memo, config.Market, logger)
	valuationService := valuation.NewService()
	watchlistService := watchlist.NewService(watchlistStore, marketService, logger)

	return &App{
		Config:         config,
		Logger:         logger,
		Memo:           memo,
		Quotes:         quotes,
		UserStore:      userStore,
		WatchlistStore: watchlistStore,
		Market:         marketService,
		Valuation:      valuationService,
		Watchlist:      watchlistService,
	}, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.UserStore != nil {
		if err := a.UserStore.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close user store")
			return err
		}
	}
	return nil
}
