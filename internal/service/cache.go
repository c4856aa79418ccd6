// internal/service/cache.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jerent/carfleet/internal/domain"
)

// CacheService provides in-memory caching with TTL expiry and type-safe
// retrieval. Used for the per-user organization lookup so repeated inserts
// don't hit the database for the same tenant id.
type CacheService struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// CacheConfig holds configuration for the cache service
type CacheConfig struct {
	TTL         time.Duration
	CleanupFreq time.Duration
}

// NewCacheService creates a new cache service and starts its cleanup routine
func NewCacheService(config CacheConfig) *CacheService {
	s := &CacheService{
		entries: make(map[string]cacheEntry),
		ttl:     config.TTL,
		done:    make(chan struct{}),
	}

	go s.cleanupLoop(config.CleanupFreq)
	return s
}

func (s *CacheService) cleanupLoop(freq time.Duration) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Set stores a value in the cache
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	s.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Get retrieves a value from the cache with type conversion
func (s *CacheService) Get(ctx context.Context, key string, result interface{}) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	s.mu.RLock()
	entry, found := s.entries[key]
	s.mu.RUnlock()

	if !found || time.Now().After(entry.expiresAt) {
		return domain.ErrNotFound
	}

	if err := assignValue(entry.value, result); err != nil {
		return fmt.Errorf("assigning cached value: %w", err)
	}
	return nil
}

// GetOrSet retrieves a value from cache or sets it if not found
func (s *CacheService) GetOrSet(ctx context.Context, key string, result interface{}, fetchFunc func() (interface{}, error)) error {
	err := s.Get(ctx, key, result)
	if err == nil {
		return nil
	}
	if err != domain.ErrNotFound {
		return fmt.Errorf("getting from cache: %w", err)
	}

	value, err := fetchFunc()
	if err != nil {
		return fmt.Errorf("fetching value: %w", err)
	}

	if err := s.Set(ctx, key, value); err != nil {
		return fmt.Errorf("storing in cache: %w", err)
	}

	if err := assignValue(value, result); err != nil {
		return fmt.Errorf("assigning fetched value: %w", err)
	}
	return nil
}

// Delete removes a value from the cache
func (s *CacheService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup routine
func (s *CacheService) Close() {
	s.once.Do(func() { close(s.done) })
}

// assignValue handles type conversion for different types
func assignValue(src interface{}, dst interface{}) error {
	if v, ok := dst.(*interface{}); ok {
		*v = src
		return nil
	}

	// Convert to JSON and back for complex types
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshaling value: %w", err)
	}

	return nil
}
