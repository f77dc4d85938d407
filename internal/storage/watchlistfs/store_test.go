package watchlistfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/common"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.json")
	store, err := NewStore(common.NewSilentLogger(), path)
	require.NoError(t, err)
	return store
}

func TestLoadMissingFileIsEmptyList(t *testing.T) {
	store := newTestStore(t)

	tickers, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tickers)
	assert.Empty(t, tickers)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := []string{"AAPL", "MSFT", "TSLA"}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveReplacesContents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []string{"AAPL", "MSFT"}))
	require.NoError(t, store.Save(ctx, []string{"NVDA"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"NVDA"}, got)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), []string{"AAPL"}))

	entries, err := os.ReadDir(filepath.Dir(store.path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "watchlist.json", entries[0].Name())
}

func TestLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0644))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestNewStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "watchlist.json")
	store, err := NewStore(common.NewSilentLogger(), path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), []string{"AAPL"}))
}
