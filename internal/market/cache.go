package market

import (
	"fmt"
	"sync"
	"time"

	"crypto-insight/internal/types"
)

// seriesCache stores fetched price series for the duration of a session,
// keyed on the exact (coin, currency, days) triple so results are never
// mixed across different requests.
type seriesCache struct {
	mu   sync.RWMutex
	data map[string]*seriesEntry
	ttl  time.Duration
}

type seriesEntry struct {
	series    types.Series
	timestamp time.Time
}

func newSeriesCache(ttl time.Duration) *seriesCache {
	return &seriesCache{
		data: make(map[string]*seriesEntry),
		ttl:  ttl,
	}
}

func cacheKey(coinID, currency string, days int) string {
	return fmt.Sprintf("%s|%s|%d", coinID, currency, days)
}

func (c *seriesCache) get(coinID, currency string, days int) (types.Series, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[cacheKey(coinID, currency, days)]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.series, true
}

func (c *seriesCache) set(coinID, currency string, days int, series types.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[cacheKey(coinID, currency, days)] = &seriesEntry{
		series:    series,
		timestamp: time.Now(),
	}
}
