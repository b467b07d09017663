package market

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// QuoteCache wraps a SnapshotProvider and memoizes PriceHistory calls.
// An explicit, injectable object: bounded by entry count, invalidated by
// age, and bypassed entirely when not wired in.
type QuoteCache struct {
	provider   SnapshotProvider
	maxAge     time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[cacheKey]*list.Element
	order   *list.List // front = most recently used
}

type cacheKey struct {
	symbol   string
	lookback int
}

type cacheEntry struct {
	key      cacheKey
	series   *PriceSeries
	fetched  time.Time
}

func NewQuoteCache(provider SnapshotProvider, maxAge time.Duration, maxEntries int) *QuoteCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &QuoteCache{
		provider:   provider,
		maxAge:     maxAge,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[cacheKey]*list.Element),
		order:      list.New(),
	}
}

func (c *QuoteCache) PriceHistory(ctx context.Context, symbol string, lookback int) (*PriceSeries, error) {
	key := cacheKey{symbol: symbol, lookback: lookback}

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*cacheEntry)
		if c.now().Sub(ent.fetched) <= c.maxAge {
			c.order.MoveToFront(el)
			c.mu.Unlock()
			return ent.series, nil
		}
		// Stale: drop before refetching.
		c.order.Remove(el)
		delete(c.entries, key)
	}
	c.mu.Unlock()

	series, err := c.provider.PriceHistory(ctx, symbol, lookback)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, series: series, fetched: c.now()})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return series, nil
}

// Positions is never cached; a stale position snapshot is worse than a
// stale quote.
func (c *QuoteCache) Positions(ctx context.Context) (*Portfolio, error) {
	return c.provider.Positions(ctx)
}

// Len reports the current number of cached histories.
func (c *QuoteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
