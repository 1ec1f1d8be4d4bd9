package querycache

import (
	"context"

	"github.com/huddle-io/huddle/internal/util/cache"
)

// Store persists cache entries by their encoded key.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	// MarkStale flags every entry whose key matches prefix and returns how many were flagged.
	MarkStale(ctx context.Context, prefix string) (int, error)
	Clear(ctx context.Context) error
}

var _ Store = &MemoryStore{}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	data *cache.RWMutexCache[string, Entry]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: cache.NewRWMutexCache[string, Entry](),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	e, found := s.data.Get(key)
	if !found {
		return Entry{}, false, nil
	}
	return e.clone(), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, entry Entry) error {
	s.data.Put(key, entry.clone())
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.data.Delete(key)
	return nil
}

func (s *MemoryStore) MarkStale(_ context.Context, prefix string) (int, error) {
	return s.data.Update(func(key string, e Entry) (Entry, bool) {
		if !matches(key, prefix) || e.Stale {
			return e, false
		}
		e.Stale = true
		return e, true
	}), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.data.Clear()
	return nil
}
