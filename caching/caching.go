// Package caching keeps computed values that are costly to rebuild on every
// request, such as the trending sidebar, in an in-memory cache.
package caching

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/techinsight/blog/logger"

	"github.com/patrickmn/go-cache"
)

const (
	TTLTrending     = time.Minute
	cleanupInterval = 5 * time.Minute
)

const KeyTrendingPrefix = "trending:"

// TrendingKey is the cache key of the trending list of the given length.
func TrendingKey(limit int) string {
	return KeyTrendingPrefix + strconv.Itoa(limit)
}

type Cache struct {
	memoryCache *cache.Cache

	ctx    context.Context
	cancel context.CancelFunc
}

func NewCache() *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		memoryCache: cache.New(TTLTrending, cleanupInterval),
		ctx:         ctx,
		cancel:      cancel,
	}
}

var defaultCache = NewCache()

// Default returns the process wide cache.
func Default() *Cache {
	return defaultCache
}

// Flush drops every entry and cancels the cache context.
func (s *Cache) Flush() {
	s.memoryCache.Flush()
	s.cancel()
}

func (s *Cache) GetCtx() context.Context {
	return s.ctx
}

func (s *Cache) Memory() *cache.Cache {
	return s.memoryCache
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (s *Cache) InvalidatePrefix(prefix string) {
	for key := range s.memoryCache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.memoryCache.Delete(key)
		}
	}
}

// GetOrSet returns the cached value of key, or computes it with fn and keeps
// it for ttl. Errors from fn are not cached.
func GetOrSet[T any](s *Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if v, ok := s.memoryCache.Get(key); ok {
		if typed, ok := v.(T); ok {
			logger.Debugf("cache hit for key: %s", key)
			return typed, nil
		}
	}
	logger.Debugf("cache miss for key: %s", key)
	value, err := fn()
	if err != nil {
		return value, err
	}
	s.memoryCache.Set(key, value, ttl)
	return value, nil
}
