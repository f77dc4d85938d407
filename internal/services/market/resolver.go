package market

import (
	"strings"

	"github.com/stockdeck/stockdeck/internal/models"
)

// ResolveTickerSets partitions the symbols for one request: the user's
// saved tickers and the default tickers minus anything the user already
// claims. Comparison is case-insensitive; returned symbols are canonical
// uppercase with input order preserved.
func ResolveTickerSets(userTickers, defaultTickers []string) models.TickerSets {
	userSet := canonicalize(userTickers)

	claimed := make(map[string]struct{}, len(userSet))
	for _, t := range userSet {
		claimed[t] = struct{}{}
	}

	remaining := make([]string, 0, len(defaultTickers))
	seen := make(map[string]struct{}, len(defaultTickers))
	for _, t := range defaultTickers {
		sym := canonical(t)
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		if _, ok := claimed[sym]; ok {
			continue
		}
		remaining = append(remaining, sym)
	}

	return models.TickerSets{
		UserSet:          userSet,
		RemainingDefault: remaining,
	}
}

// canonicalize uppercases, trims, and dedupes preserving order.
func canonicalize(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	seen := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		sym := canonical(t)
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

func canonical(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
