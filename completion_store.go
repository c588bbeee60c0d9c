package main

import (
	"errors"
	"sync"
	"time"
)

var ErrCompletionExists = errors.New("completion already stored")

type storedCompletion struct {
	entry    CompletionEntry
	storedAt time.Time
}

// CompletionStore hands finished stream results to the request that
// follows the stream. Entries are single-use: Take removes them.
//
// With a zero ttl, entries that are never taken stay for the lifetime of
// the process. A positive ttl drops them lazily on the next Put.
type CompletionStore struct {
	mu      sync.Mutex
	entries map[string]storedCompletion
	ttl     time.Duration
	now     func() time.Time
}

func NewCompletionStore(ttl time.Duration) *CompletionStore {
	return &CompletionStore{
		entries: make(map[string]storedCompletion),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *CompletionStore) Put(id string, entry CompletionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if _, exists := s.entries[id]; exists {
		return ErrCompletionExists
	}
	s.entries[id] = storedCompletion{entry: entry, storedAt: now}
	completionsPending.Set(float64(len(s.entries)))
	return nil
}

// Take returns the entry for id and removes it.
func (s *CompletionStore) Take(id string) (CompletionEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[id]
	if !ok {
		return CompletionEntry{}, false
	}
	delete(s.entries, id)
	completionsPending.Set(float64(len(s.entries)))

	if s.ttl > 0 && s.now().Sub(stored.storedAt) > s.ttl {
		return CompletionEntry{}, false
	}
	return stored.entry, true
}

func (s *CompletionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *CompletionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, stored := range s.entries {
		if now.Sub(stored.storedAt) > s.ttl {
			delete(s.entries, id)
			completionsExpired.Inc()
		}
	}
}
