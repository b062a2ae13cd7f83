package cache

import (
	"sync"

	"github.com/dgraph-io/ristretto"
)

// ReportCache stores computed report payloads in a ristretto cache,
// keeping a per-user registry of keys so a single ledger write can
// evict exactly that user's reports.
type ReportCache struct {
	cache *ristretto.Cache

	mu   sync.Mutex
	keys map[string]map[string]struct{}
}

func NewReportCache() (*ReportCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, err
	}
	return &ReportCache{
		cache: cache,
		keys:  make(map[string]map[string]struct{}),
	}, nil
}

func (c *ReportCache) fullKey(userID, key string) string {
	return userID + "|" + key
}

func (c *ReportCache) Get(userID, key string) (interface{}, bool) {
	return c.cache.Get(c.fullKey(userID, key))
}

func (c *ReportCache) Set(userID, key string, value interface{}) {
	c.mu.Lock()
	if c.keys[userID] == nil {
		c.keys[userID] = make(map[string]struct{})
	}
	c.keys[userID][key] = struct{}{}
	c.mu.Unlock()

	c.cache.Set(c.fullKey(userID, key), value, 1)
}

// InvalidateUser drops every cached report for one user. Called on
// each expense, income, or budget mutation.
func (c *ReportCache) InvalidateUser(userID string) {
	c.mu.Lock()
	keys := c.keys[userID]
	delete(c.keys, userID)
	c.mu.Unlock()

	for key := range keys {
		c.cache.Del(c.fullKey(userID, key))
	}
}
