// Package cache provides the bounded prepared statement cache used by
// connections. Entries are keyed by statement fingerprint and closed when
// evicted.
package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// PrepareFunc prepares a statement on a cache miss.
type PrepareFunc func(ctx context.Context) (*sql.Stmt, error)

type StatementCache struct {
	cache *lru.Cache[uint64, *sql.Stmt]
	mu    sync.RWMutex
}

// NewStatementCache returns a cache bounded to size entries. Evicted
// statements are closed.
func NewStatementCache(size int) *StatementCache {
	c, _ := lru.NewWithEvict(size, func(_ uint64, stmt *sql.Stmt) {
		_ = stmt.Close()
	})
	return &StatementCache{cache: c}
}

// Get returns the cached statement for key.
func (s *StatementCache) Get(key uint64) (*sql.Stmt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Get(key)
}

// Set stores stmt under key, evicting the oldest entry when full.
func (s *StatementCache) Set(key uint64, stmt *sql.Stmt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(key, stmt)
}

// GetOrPrepare returns the cached statement for key, preparing and caching
// it on a miss. Concurrent misses on the same key prepare once.
func (s *StatementCache) GetOrPrepare(ctx context.Context, key uint64, prepare PrepareFunc) (*sql.Stmt, error) {
	// Fast path: read lock only
	s.mu.RLock()
	if stmt, ok := s.cache.Get(key); ok {
		s.mu.RUnlock()
		return stmt, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock
	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}

	stmt, err := prepare(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, stmt)
	return stmt, nil
}

// Len reports the number of cached statements.
func (s *StatementCache) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Len()
}

// Close purges the cache, closing every cached statement.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	return nil
}
