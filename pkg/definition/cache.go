package definition

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore fronts another Store with an LRU read cache. Writes go through
// to the backing store and evict the cached entry. A read that overlaps a
// write to the same id is served but not cached.
type CachedStore struct {
	backing Store
	cache   *lru.Cache[string, Form]

	mu         sync.Mutex
	generation map[string]uint64
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore wraps backing with a cache holding up to size forms.
func NewCachedStore(backing Store, size int) (*CachedStore, error) {
	if backing == nil {
		return nil, fmt.Errorf("definition: cached store requires a backing store")
	}
	cache, err := lru.New[string, Form](size)
	if err != nil {
		return nil, fmt.Errorf("definition: create cache: %w", err)
	}
	return &CachedStore{backing: backing, cache: cache, generation: map[string]uint64{}}, nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (Form, error) {
	if form, ok := s.cache.Get(id); ok {
		return Normalize(form), nil
	}

	s.mu.Lock()
	gen := s.generation[id]
	s.mu.Unlock()

	form, err := s.backing.Get(ctx, id)
	if err != nil {
		return Form{}, err
	}

	s.mu.Lock()
	if s.generation[id] == gen {
		s.cache.Add(id, form)
	}
	s.mu.Unlock()
	return Normalize(form), nil
}

func (s *CachedStore) Put(ctx context.Context, form Form) error {
	err := s.backing.Put(ctx, form)
	s.invalidate(Normalize(form).ID)
	return err
}

func (s *CachedStore) Delete(ctx context.Context, id string) error {
	err := s.backing.Delete(ctx, id)
	s.invalidate(id)
	return err
}

// invalidate evicts id and bumps its generation so in-flight reads that
// started before the write do not repopulate the cache.
func (s *CachedStore) invalidate(id string) {
	s.mu.Lock()
	s.generation[id]++
	s.cache.Remove(id)
	s.mu.Unlock()
}

func (s *CachedStore) List(ctx context.Context) ([]string, error) {
	return s.backing.List(ctx)
}

// Cached reports whether id is currently held in the cache.
func (s *CachedStore) Cached(id string) bool {
	return s.cache.Contains(id)
}
