package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dvries/simvenue/internal/domain"
)

// quoteKey builds the cache key for one (exchange, symbol) pair.
func quoteKey(exchangeID, symbol string) string {
	return "quote:" + exchangeID + ":" + symbol
}

// RedisQuoteCache stores quotes as TTL'd JSON values in Redis. A cache
// miss (including an expired key) is returned as (nil, nil).
type RedisQuoteCache struct {
	client redis.Cmdable
}

// NewRedisQuoteCache creates a cache backed by the given client.
func NewRedisQuoteCache(client redis.Cmdable) *RedisQuoteCache {
	return &RedisQuoteCache{client: client}
}

// Get retrieves the cached quote for the pair, or nil on a miss.
func (c *RedisQuoteCache) Get(ctx context.Context, exchangeID, symbol string) (*domain.Quote, error) {
	b, err := c.client.Get(ctx, quoteKey(exchangeID, symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var q domain.Quote
	if err := json.Unmarshal(b, &q); err != nil {
		return nil, fmt.Errorf("decode cached quote: %w", err)
	}
	return &q, nil
}

// Set stores the quote under its pair key with the given TTL.
func (c *RedisQuoteCache) Set(ctx context.Context, q *domain.Quote, ttl time.Duration) error {
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}
	if err := c.client.Set(ctx, quoteKey(q.ExchangeID, q.Symbol), b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// memoryEntry is one cached quote with its expiry deadline.
type memoryEntry struct {
	quote     *domain.Quote
	expiresAt time.Time
}

// MemoryQuoteCache is a thread-safe in-process TTL cache. It backs
// deployments without Redis and all tests.
type MemoryQuoteCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryQuoteCache creates an empty MemoryQuoteCache.
func NewMemoryQuoteCache() *MemoryQuoteCache {
	return &MemoryQuoteCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves the cached quote for the pair, or nil when absent or
// expired. Expired entries are removed on read.
func (c *MemoryQuoteCache) Get(_ context.Context, exchangeID, symbol string) (*domain.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := quoteKey(exchangeID, symbol)
	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, nil
	}
	return e.quote, nil
}

// Set stores the quote under its pair key with the given TTL.
func (c *MemoryQuoteCache) Set(_ context.Context, q *domain.Quote, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[quoteKey(q.ExchangeID, q.Symbol)] = memoryEntry{
		quote:     q,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}
