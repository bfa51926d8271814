// Package cache provides an in-process byte store with per-entry expiry. It
// backs recap caching in deployments that run without Postgres.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
}

func NewStore(defaultTTL time.Duration) *Store {
	return &Store{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
	}
}

// Get returns a copy of the stored payload. Expired entries are evicted on
// read.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}

	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return out, true, nil
}

// Set stores a copy of the payload. A non-positive ttl falls back to the
// store's default; a zero default means no expiry.
func (s *Store) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	stored := make([]byte, len(payload))
	copy(stored, payload)

	s.mu.Lock()
	s.entries[key] = entry{
		payload:   stored,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// PurgeExpired drops every expired entry, for callers that want to bound
// memory between reads.
func (s *Store) PurgeExpired(_ context.Context) (int64, error) {
	now := time.Now()
	var purged int64

	s.mu.Lock()
	for key, e := range s.entries {
		if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
			delete(s.entries, key)
			purged++
		}
	}
	s.mu.Unlock()
	return purged, nil
}
