// Package watchlistfs implements file-based storage for the shared
// watchlist: a flat JSON list of symbols in a side file.
package watchlistfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.WatchlistStore = (*Store)(nil)

// Store reads and writes the watchlist file. Writes are atomic (temp file
// + rename) and serialized.
type Store struct {
	path   string
	logger *common.Logger
	mu     sync.Mutex
}

// NewStore creates a watchlist store at the given file path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create watchlist dir %s: %w", dir, err)
	}
	return &Store{path: path, logger: logger}, nil
}

// Load returns the stored symbols. A missing file is an empty list.
func (s *Store) Load(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read watchlist %s: %w", s.path, err)
	}

	var tickers []string
	if err := json.Unmarshal(data, &tickers); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist %s: %w", s.path, err)
	}
	return tickers, nil
}

// Save replaces the stored symbols.
func (s *Store) Save(_ context.Context, tickers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(tickers)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-watchlist-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
