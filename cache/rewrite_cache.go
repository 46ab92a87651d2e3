package cache

import "sync"

// Rewrite is one memoized placeholder rewrite: the SQL with dialect
// placeholders and the parameter names in placeholder order.
type Rewrite struct {
	Bound string
	Names []string
}

// RewriteCache memoizes placeholder rewrites keyed by statement fingerprint.
// It grows with the number of distinct statement shapes.
type RewriteCache struct {
	mu   sync.RWMutex
	data map[uint64]Rewrite
}

func NewRewriteCache() *RewriteCache {
	return &RewriteCache{
		data: make(map[uint64]Rewrite, 256),
	}
}

func (c *RewriteCache) Get(key uint64) (Rewrite, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.data[key]
	return r, ok
}

func (c *RewriteCache) Set(key uint64, r Rewrite) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = r
}

func (c *RewriteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
