package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory with expiry
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore, a non positive ttl falls back to DefaultTTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*State, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return v.(*State).Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, state *State) error {
	s.cache.Set(state.SessionID, state.Clone(), s.ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
