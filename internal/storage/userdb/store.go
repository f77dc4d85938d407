// Package userdb implements UserStore using BadgerHold. It holds accounts
// and per-user portfolio tickers.
package userdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// Compile-time interface check
var _ interfaces.UserStore = (*Store)(nil)

// Store implements interfaces.UserStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new user store at the given path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create userdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open userdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("UserDB opened")
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// keySep separates composite key parts. A null byte cannot appear in a
// user ID or ticker.
const keySep = "\x00"

// CreateUser inserts a new account. Username and email must be unique.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if existing, _ := s.GetUserByUsername(ctx, user.Username); existing != nil {
		return fmt.Errorf("username '%s' already exists", user.Username)
	}
	if existing, _ := s.GetUserByEmail(ctx, user.Email); existing != nil {
		return fmt.Errorf("email '%s' already exists", user.Email)
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if err := s.db.Insert(user.UserID, user); err != nil {
		return fmt.Errorf("failed to create user '%s': %w", user.Username, err)
	}
	return nil
}

// GetUser retrieves an account by ID.
func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Get(userID, &user); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("user '%s' not found", userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return &user, nil
}

// GetUserByUsername retrieves an account by username (case-insensitive).
func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool {
		return strings.EqualFold(u.Username, username)
	}, fmt.Sprintf("username '%s'", username))
}

// GetUserByEmail retrieves an account by email (case-insensitive).
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool {
		return strings.EqualFold(u.Email, email)
	}, fmt.Sprintf("email '%s'", email))
}

func (s *Store) findUser(match func(*models.User) bool, desc string) (*models.User, error) {
	var all []models.User
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	for i := range all {
		if match(&all[i]) {
			user := all[i]
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with %s not found", desc)
}

// AddPortfolioTicker saves a ticker for a user. Upsert keeps the call
// idempotent; the original AddedAt survives re-adds.
func (s *Store) AddPortfolioTicker(_ context.Context, userID, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	key := userID + keySep + ticker

	entry := models.PortfolioEntry{
		UserID:  userID,
		Ticker:  ticker,
		AddedAt: time.Now(),
	}
	var existing models.PortfolioEntry
	if err := s.db.Get(key, &existing); err == nil {
		entry.AddedAt = existing.AddedAt
	}

	if err := s.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to save portfolio ticker '%s': %w", ticker, err)
	}
	return nil
}

// ListPortfolioTickers returns the user's saved tickers oldest first.
func (s *Store) ListPortfolioTickers(_ context.Context, userID string) ([]string, error) {
	var all []models.PortfolioEntry
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list portfolio tickers: %w", err)
	}

	var entries []models.PortfolioEntry
	for _, e := range all {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AddedAt.Before(entries[j].AddedAt)
	})

	tickers := make([]string, 0, len(entries))
	for _, e := range entries {
		tickers = append(tickers, e.Ticker)
	}
	return tickers, nil
}

// RemovePortfolioTicker deletes a saved ticker.
func (s *Store) RemovePortfolioTicker(_ context.Context, userID, ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	key := userID + keySep + ticker
	if err := s.db.Delete(key, models.PortfolioEntry{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to remove portfolio ticker '%s': %w", ticker, err)
	}
	return nil
}
