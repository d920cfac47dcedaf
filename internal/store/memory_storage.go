package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	counter   int64
	expiresAt time.Time // zero means no expiry
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStorage keeps entries in process memory. Used by tests and by
// redis-less development setups.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStorage) get(key string) *memoryEntry {
	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	if entry.expired(time.Now()) {
		delete(s.entries, key)
		return nil
	}
	return entry
}

func (s *MemoryStorage) Get(ctx context.Context, key string, val any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.get(key)
	if entry == nil || entry.data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(entry.data, val)
}

func (s *MemoryStorage) Set(ctx context.Context, key string, val any, expiresIn time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &memoryEntry{data: data}
	if expiresIn > 0 {
		entry.expiresAt = time.Now().Add(expiresIn)
	}
	s.entries[key] = entry
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.get(key) == nil {
		return ErrNotFound
	}
	delete(s.entries, key)
	return nil
}

func (s *MemoryStorage) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.get(key)
	if entry == nil {
		entry = &memoryEntry{expiresAt: time.Now().Add(window)}
		s.entries[key] = entry
	}
	entry.counter++
	return entry.counter, nil
}

func (s *MemoryStorage) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.get(key)
	if entry == nil || entry.expiresAt.IsZero() {
		return 0, ErrNotFound
	}
	return time.Until(entry.expiresAt), nil
}
