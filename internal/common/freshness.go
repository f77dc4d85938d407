// Package common provides shared utilities for stockdeck
package common

import "time"

// Freshness TTLs for cached market data. Each class is keyed and expired
// independently in the fetch cache.
const (
	FreshnessQuote     = 30 * time.Second // per-ticker quote lookups
	FreshnessCoreBatch = 5 * time.Minute  // shared core-index/flagship batch
	FreshnessNews      = 30 * time.Minute // news content
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
