package definition

import (
	"context"
	"sort"
	"sync"
)

// Store persists form definitions. Implementations must be safe for
// concurrent use and return ErrNotFound for unknown ids.
type Store interface {
	Get(ctx context.Context, id string) (Form, error)
	Put(ctx context.Context, form Form) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// MemoryStore keeps definitions in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	forms map[string]Form
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{forms: make(map[string]Form)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	form, ok := s.forms[id]
	if !ok {
		return Form{}, ErrNotFound
	}
	return Normalize(form), nil
}

func (s *MemoryStore) Put(ctx context.Context, form Form) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	form = Normalize(form)
	if err := Validate(form); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[form.ID] = form
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[id]; !ok {
		return ErrNotFound
	}
	delete(s.forms, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Seed copies every form of the catalog into store.
func Seed(ctx context.Context, store Store, catalog *Catalog) error {
	for _, id := range catalog.IDs() {
		form, _ := catalog.Form(id)
		if err := store.Put(ctx, form); err != nil {
			return err
		}
	}
	return nil
}
