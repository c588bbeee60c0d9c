package main

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionStore_TakeOnce(t *testing.T) {
	store := NewCompletionStore(0)
	entry := CompletionEntry{Reasoning: "why", Plan: "DAY_1:"}

	require.NoError(t, store.Put("abc", entry))
	assert.Equal(t, 1, store.Len())

	got, ok := store.Take("abc")
	require.True(t, ok)
	assert.Equal(t, entry, got)

	_, ok = store.Take("abc")
	assert.False(t, ok, "second take must miss")
	assert.Equal(t, 0, store.Len())
}

func TestCompletionStore_UnknownID(t *testing.T) {
	store := NewCompletionStore(0)

	_, ok := store.Take("never-written")
	assert.False(t, ok)
}

func TestCompletionStore_NeverOverwrites(t *testing.T) {
	store := NewCompletionStore(0)

	require.NoError(t, store.Put("abc", CompletionEntry{Reasoning: "first"}))
	err := store.Put("abc", CompletionEntry{Reasoning: "second"})
	assert.ErrorIs(t, err, ErrCompletionExists)

	got, ok := store.Take("abc")
	require.True(t, ok)
	assert.Equal(t, "first", got.Reasoning)
}

func TestCompletionStore_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewCompletionStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put("old", CompletionEntry{Plan: "old"}))
	require.NoError(t, store.Put("stale", CompletionEntry{Plan: "stale"}))

	now = now.Add(2 * time.Minute)

	_, ok := store.Take("stale")
	assert.False(t, ok, "expired entries are not returned")

	require.NoError(t, store.Put("new", CompletionEntry{Plan: "new"}))
	assert.Equal(t, 1, store.Len(), "put sweeps expired entries")

	got, ok := store.Take("new")
	require.True(t, ok)
	assert.Equal(t, "new", got.Plan)
}

func TestCompletionStore_Concurrent(t *testing.T) {
	store := NewCompletionStore(0)
	const sessions = 64

	var wg sync.WaitGroup
	results := make([]CompletionEntry, sessions)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("stream-%d", i)
			entry := CompletionEntry{Reasoning: id, Plan: fmt.Sprintf("DAY_%d:", i)}
			if err := store.Put(id, entry); err != nil {
				t.Errorf("put %s: %v", id, err)
				return
			}
			got, ok := store.Take(id)
			if !ok {
				t.Errorf("take %s missed", id)
				return
			}
			results[i] = got
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, fmt.Sprintf("stream-%d", i), got.Reasoning)
	}
	assert.Equal(t, 0, store.Len())
}
