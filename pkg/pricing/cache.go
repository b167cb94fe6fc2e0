package pricing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cardpulse/card-bot/pkg/types"
)

// cacheEntry is one cached oracle result.
type cacheEntry struct {
	Stats     *types.PriceStats `json:"stats"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Cache wraps an oracle with a TTL'd JSON-file cache.
type Cache struct {
	mu sync.Mutex

	inner    Oracle
	ttl      time.Duration
	dataPath string
	entries  map[string]*cacheEntry
}

// NewCache creates a cache around inner, persisted under dataPath.
func NewCache(inner Oracle, dataPath string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Cache{
		inner:    inner,
		ttl:      ttl,
		dataPath: dataPath,
		entries:  make(map[string]*cacheEntry),
	}
}

// GetStats returns a cached result when fresh, otherwise queries the inner
// oracle and caches what comes back (including "no data" results).
func (c *Cache) GetStats(ctx context.Context, name, set, number string) (*types.PriceStats, error) {
	key := name + "|" + set + "|" + number

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Since(e.FetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.Stats, nil
	}
	c.mu.Unlock()

	stats, err := c.inner.GetStats(ctx, name, set, number)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{Stats: stats, FetchedAt: time.Now()}
	c.mu.Unlock()

	return stats, nil
}

// Load reads the cache file from disk. Missing files are not an error.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(c.dataPath, "market_cache.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &c.entries)
}

// Save persists the cache to disk.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dataPath, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dataPath, "market_cache.json"), data, 0644)
}
