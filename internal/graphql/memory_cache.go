package graphql

import (
	"errors"
	"fmt"

	"github.com/coocood/freecache"
)

const megabyte = 1024 * 1024

// MemoryCache is an in-process response cache backed by freecache.
type MemoryCache struct {
	cache         *freecache.Cache
	expireSeconds int
}

// NewMemoryCache allocates a cache of sizeMB megabytes. Entries expire after
// expireSeconds; zero keeps them until evicted.
func NewMemoryCache(sizeMB, expireSeconds int) *MemoryCache {
	if sizeMB <= 0 {
		sizeMB = 64
	}
	return &MemoryCache{
		cache:         freecache.NewCache(sizeMB * megabyte),
		expireSeconds: expireSeconds,
	}
}

func (m *MemoryCache) Get(key []byte) ([]byte, error) {
	v, err := m.cache.Get(key)
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("memory cache get: %w", err)
	}
	return v, nil
}

func (m *MemoryCache) Set(key, value []byte) error {
	if err := m.cache.Set(key, value, m.expireSeconds); err != nil {
		return fmt.Errorf("memory cache set: %w", err)
	}
	return nil
}

func (m *MemoryCache) Clear() error {
	m.cache.Clear()
	return nil
}

// Len returns the number of live entries.
func (m *MemoryCache) Len() int64 {
	return m.cache.EntryCount()
}
