package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/errors"
	"github.com/floorstack/floorstack/pkg/floorplan"
)

// MemStore is an in-memory catalog for tests and single-process usage.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

type memEntry struct {
	design    *design.Design
	updatedAt time.Time
}

// NewMemStore creates an empty in-memory catalog.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]memEntry)}
}

// Put stores a deep copy of the design, so later mutations by the
// caller do not leak into the catalog.
func (s *MemStore) Put(ctx context.Context, d *design.Design) error {
	if err := validate(d); err != nil {
		return err
	}

	stored := *d
	stored.Top = d.Top.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[d.Name] = memEntry{design: &stored, updatedAt: time.Now().UTC()}
	return nil
}

// Get returns a deep copy of the stored design.
func (s *MemStore) Get(ctx context.Context, name string) (*design.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
	}
	out := *e.design
	out.Top = e.design.Top.Clone()
	return &out, nil
}

// List returns catalog entries sorted by name.
func (s *MemStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for name, e := range s.entries {
		out = append(out, Entry{
			Name:      name,
			Tech:      e.design.Tech,
			Modules:   floorplan.Count(e.design.Top),
			UpdatedAt: e.updatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes the entry under name.
func (s *MemStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; !ok {
		return errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
	}
	delete(s.entries, name)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemStore) Close(ctx context.Context) error { return nil }

// Ensure MemStore implements Store.
var _ Store = (*MemStore)(nil)
