// Package cache holds short lived query results shared by all requests.
package cache

import (
	"sync"
	"time"
)

// Result cache identifiers. Each names the unfiltered list of one entity.
const (
	KeyUsers        = "users"
	KeyEmployees    = "employees"
	KeyRoles        = "roles"
	KeyUserProfiles = "userProfiles"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Store is a TTL map. Values are returned as stored; callers must not mutate them.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Tests use it to expire entries.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Get(key string) (interface{}, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(key string, value interface{}) {
	if s == nil || s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

// Invalidate removes the given keys.
func (s *Store) Invalidate(keys ...string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (s *Store) InvalidateAll() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Len counts live and expired entries alike.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Load returns the cached value for key as T, or calls fetch and caches its result.
func Load[T any](s *Store, key string, fetch func() (T, error)) (T, error) {
	if v, ok := s.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	value, err := fetch()
	if err != nil {
		return value, err
	}
	s.Set(key, value)
	return value, nil
}
