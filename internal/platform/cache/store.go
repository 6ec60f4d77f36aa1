// Package cache provides the upstream payload cache. Entries are raw
// response bodies keyed by request URL, each with its own lifetime, and
// concurrent misses on one key collapse into a single load.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/courtvision/courtvision/internal/platform/resilience"
)

// PayloadCache is what the upstream clients need from a cache. The bool
// result reports whether the payload came from the cache rather than the
// loader. Implementations store only successful loads.
type PayloadCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, bool, error)
}

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Store is the in-memory PayloadCache. Expiry is lazy: stale entries are
// dropped on the read that finds them.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	flight  resilience.SingleFlight
}

func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

func (s *Store) get(key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.payload, true
}

func (s *Store) set(key string, payload []byte, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached payload for key, or runs loader and caches
// its result for ttl. Concurrent callers on the same key share one loader
// call. Loader errors are returned as-is and nothing is cached for them.
func (s *Store) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if loader == nil {
		return nil, false, fmt.Errorf("loader is required")
	}
	if key == "" || ttl <= 0 {
		payload, err := loader(ctx)
		return payload, false, err
	}

	if payload, ok := s.get(key); ok {
		return payload, true, nil
	}

	fromCache := false
	value, err, shared := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.get(key); ok {
			fromCache = true
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.set(key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, false, err
	}

	payload, _ := value.([]byte)
	return payload, fromCache || shared, nil
}
