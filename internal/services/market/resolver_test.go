package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTickerSetsPartition(t *testing.T) {
	defaults := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}

	sets := ResolveTickerSets([]string{"MSFT", "NVDA"}, defaults)

	assert.Equal(t, []string{"MSFT", "NVDA"}, sets.UserSet)
	assert.Equal(t, []string{"AAPL", "GOOGL", "AMZN", "TSLA"}, sets.RemainingDefault)
}

func TestResolveTickerSetsAnonymous(t *testing.T) {
	defaults := []string{"AAPL", "MSFT"}

	sets := ResolveTickerSets(nil, defaults)

	assert.Empty(t, sets.UserSet)
	assert.Equal(t, defaults, sets.RemainingDefault)
}

func TestResolveTickerSetsCaseInsensitive(t *testing.T) {
	sets := ResolveTickerSets([]string{"aapl", " msft "}, []string{"AAPL", "MSFT", "TSLA"})

	assert.Equal(t, []string{"AAPL", "MSFT"}, sets.UserSet)
	assert.Equal(t, []string{"TSLA"}, sets.RemainingDefault)
}

func TestResolveTickerSetsDedupes(t *testing.T) {
	sets := ResolveTickerSets([]string{"AAPL", "aapl", "", "  "}, []string{"TSLA", "TSLA", "AAPL"})

	assert.Equal(t, []string{"AAPL"}, sets.UserSet)
	assert.Equal(t, []string{"TSLA"}, sets.RemainingDefault)
}

func TestResolveTickerSetsDisjoint(t *testing.T) {
	// No symbol may appear in both sets.
	sets := ResolveTickerSets([]string{"AAPL", "GOOGL"}, []string{"AAPL", "MSFT", "GOOGL"})

	seen := make(map[string]bool)
	for _, s := range sets.UserSet {
		seen[s] = true
	}
	for _, s := range sets.RemainingDefault {
		assert.False(t, seen[s], "symbol %s appears in both sets", s)
	}
}
