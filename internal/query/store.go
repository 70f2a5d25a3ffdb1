// Package query binds the orchestrator API client to a keyed cache with
// per-resource staleness, in-flight deduplication, and lifecycle polling.
//
// The cache is the dashboard's only shared mutable state. All writes go
// through the single fetch-resolution path: exactly one goroutine owns an
// in-flight fetch per key, and only it writes the result back.
package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Store is a keyed result cache with single-writer-per-key discipline.
type Store struct {
	cache    *gocache.Cache
	mu       sync.Mutex
	inflight map[string]*flight
	logger   *zap.Logger
}

// flight tracks one in-progress fetch so concurrent callers for the same key
// share its result instead of issuing duplicate backend requests.
type flight struct {
	done  chan struct{}
	value any
	err   error
}

// NewStore creates a store whose entries default to the given staleness
// window before eviction.
func NewStore(defaultTTL time.Duration, logger *zap.Logger) *Store {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Second
	}
	return &Store{
		cache:    gocache.New(defaultTTL, 2*defaultTTL),
		inflight: make(map[string]*flight),
		logger:   logger,
	}
}

// Invalidate evicts a key so the next fetch goes to the backend.
func (s *Store) Invalidate(key string) {
	s.cache.Delete(key)
}

// InvalidatePrefix evicts every key starting with prefix. Used by the event
// bridge, which knows a resource family changed but not every filter
// variant cached for it.
func (s *Store) InvalidatePrefix(prefix string) {
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
}

// Fetch returns the cached value for key while it is fresh, otherwise runs fn
// (with the retry policy applied) and caches the result for ttl. Concurrent
// calls for the same key are deduplicated to at most one upstream request;
// latecomers block on the winner's result.
func Fetch[T any](ctx context.Context, s *Store, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if cached, ok := s.cache.Get(key); ok {
		if v, ok := cached.(T); ok {
			return v, nil
		}
		// Type mismatch means two resources share a key; fail loudly.
		return zero, fmt.Errorf("cache key %q holds %T", key, cached)
	}

	s.mu.Lock()
	if f, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-f.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		if f.err != nil {
			return zero, f.err
		}
		v, ok := f.value.(T)
		if !ok {
			return zero, fmt.Errorf("cache key %q holds %T", key, f.value)
		}
		return v, nil
	}
	f := &flight{done: make(chan struct{})}
	s.inflight[key] = f
	s.mu.Unlock()

	v, err := fetchWithRetry(ctx, s.logger, key, fn)

	// Single write to the key, performed by the flight owner only.
	if err == nil {
		s.cache.Set(key, v, ttl)
	}
	f.value, f.err = v, err
	close(f.done)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	return v, err
}

// fetchWithRetry applies the hook retry policy: no retry on client-side
// mistakes, capped backoff retries on transient failures.
func fetchWithRetry[T any](ctx context.Context, logger *zap.Logger, key string, fn func(context.Context) (T, error)) (T, error) {
	var (
		v   T
		err error
	)
	for attempt := 1; ; attempt++ {
		v, err = fn(ctx)
		if err == nil || !ShouldRetry(attempt, err) {
			return v, err
		}
		logger.Debug("retrying fetch",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return v, ctx.Err()
		case <-time.After(Backoff(attempt)):
		}
	}
}
