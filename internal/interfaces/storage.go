// Package interfaces defines service contracts for stockdeck
package interfaces

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/models"
)

// UserStore persists accounts and per-user portfolio tickers.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// AddPortfolioTicker saves a ticker for a user (idempotent).
	AddPortfolioTicker(ctx context.Context, userID, ticker string) error

	// ListPortfolioTickers returns the user's saved tickers in insertion order.
	ListPortfolioTickers(ctx context.Context, userID string) ([]string, error)

	RemovePortfolioTicker(ctx context.Context, userID, ticker string) error

	Close() error
}

// WatchlistStore reads and writes the flat symbol list side file.
type WatchlistStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, tickers []string) error
}
