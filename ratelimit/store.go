package ratelimit

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store tracks request counts per identifier and window. Implementations
// must be safe for concurrent use.
type Store interface {
	// Increment records one request and returns the count within the
	// current window along with the window's reset time.
	Increment(ctx context.Context, identifier string, window time.Duration) (count int, resetAt time.Time, err error)
}

const (
	defaultMaxKeys       = 10000
	passiveSweepInterval = time.Minute
	evictFraction        = 10 // evict 1/10th of entries under capacity pressure
)

type record struct {
	count   int
	resetAt time.Time
}

// MemoryStore is the default single-process store: a mutex-guarded map with
// a hard cap on tracked keys.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[string]*record
	maxKeys   int
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryStore(maxKeys int) *MemoryStore {
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	return &MemoryStore{
		records: make(map[string]*record),
		maxKeys: maxKeys,
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, identifier string, window time.Duration) (int, time.Time, error) {
	key := fmt.Sprintf("%s:%d", identifier, window.Milliseconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if now.Sub(s.lastSweep) >= passiveSweepInterval {
		s.purgeExpiredLocked(now)
		s.lastSweep = now
	}

	rec, ok := s.records[key]
	if !ok || !now.Before(rec.resetAt) {
		if !ok {
			s.ensureCapacityLocked(now)
		}
		// Expired windows are replaced, not merged.
		s.records[key] = &record{count: 1, resetAt: now.Add(window)}
		return 1, now.Add(window), nil
	}

	rec.count++
	return rec.count, rec.resetAt, nil
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *MemoryStore) ensureCapacityLocked(now time.Time) {
	if len(s.records) < s.maxKeys {
		return
	}

	s.purgeExpiredLocked(now)
	if len(s.records) < s.maxKeys {
		return
	}

	// Still full: evict the oldest-resetting slice of entries so the map
	// never grows past maxKeys.
	type keyedReset struct {
		key     string
		resetAt time.Time
	}
	entries := make([]keyedReset, 0, len(s.records))
	for key, rec := range s.records {
		entries = append(entries, keyedReset{key: key, resetAt: rec.resetAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].resetAt.Before(entries[j].resetAt)
	})

	evictCount := len(entries) / evictFraction
	if evictCount == 0 {
		evictCount = 1
	}
	for _, entry := range entries[:evictCount] {
		delete(s.records, entry.key)
	}
}

func (s *MemoryStore) purgeExpiredLocked(now time.Time) {
	for key, rec := range s.records {
		if !now.Before(rec.resetAt) {
			delete(s.records, key)
		}
	}
}
