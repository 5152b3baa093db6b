package inventory

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"estoque/internal/core"
)

const (
	// StableIDs gives every item a UUID that never changes.
	StableIDs IDScheme = "stable"
	// PositionalIDs keeps identifiers as a dense 0..n-1 range, compacted on removal.
	// It exists for files exported by the first version of the app.
	PositionalIDs IDScheme = "positional"
)

type IDScheme string

// IsValid returns true if the scheme is known
func (s IDScheme) IsValid() bool {
	return s == StableIDs || s == PositionalIDs
}

// ItemStore is the in-memory item list of a session, kept in insertion order.
type ItemStore struct {
	mu     sync.RWMutex
	scheme IDScheme
	items  []core.Item
}

func NewItemStore(scheme IDScheme) *ItemStore {
	if !scheme.IsValid() {
		scheme = StableIDs
	}
	return &ItemStore{scheme: scheme}
}

func (s *ItemStore) Scheme() IDScheme {
	return s.scheme
}

// NextID returns an identifier that is free in the store.
func (s *ItemStore) NextID() string {
	if s.scheme == StableIDs {
		return uuid.NewString()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.items)
	for s.indexOf(strconv.Itoa(n)) >= 0 {
		n++
	}
	return strconv.Itoa(n)
}

func (s *ItemStore) Add(it core.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(it.ID) >= 0 {
		return fmt.Errorf("add item %s: %w", it.ID, core.ErrDuplicateID)
	}
	s.items = append(s.items, it.Clone())
	return nil
}

// Edit replaces the item carrying the same identifier and returns the previous value.
func (s *ItemStore) Edit(it core.Item) (core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(it.ID)
	if i < 0 {
		return core.Item{}, fmt.Errorf("edit item %s: %w", it.ID, core.ErrNotFound)
	}
	prev := s.items[i]
	s.items[i] = it.Clone()
	return prev, nil
}

// Remove deletes the item. With positional identifiers every greater id is shifted down by one.
func (s *ItemStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := without(s.items, id, s.scheme)
	if err != nil {
		return err
	}
	s.items = next
	return nil
}

// Preview returns the collection Remove(id) would leave behind without applying it.
func (s *ItemStore) Preview(id string) ([]core.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return without(s.items, id, s.scheme)
}

func (s *ItemStore) Get(id string) (core.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Item{}, fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	return s.items[i].Clone(), nil
}

func (s *ItemStore) List() []core.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

func (s *ItemStore) Replace(items []core.Item) {
	cp := make([]core.Item, len(items))
	for i, it := range items {
		cp[i] = it.Clone()
	}
	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()
}

func (s *ItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *ItemStore) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func without(items []core.Item, id string, scheme IDScheme) ([]core.Item, error) {
	removed := -1
	out := make([]core.Item, 0, len(items))
	for i, it := range items {
		if it.ID == id {
			removed = i
			continue
		}
		out = append(out, it.Clone())
	}
	if removed < 0 {
		return nil, fmt.Errorf("remove item %s: %w", id, core.ErrNotFound)
	}
	if scheme != PositionalIDs {
		return out, nil
	}
	k, err := strconv.Atoi(id)
	if err != nil {
		return out, nil
	}
	for i := range out {
		if n, err := strconv.Atoi(out[i].ID); err == nil && n > k {
			out[i].ID = strconv.Itoa(n - 1)
		}
	}
	return out, nil
}
