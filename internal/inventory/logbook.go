package inventory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"estoque/internal/core"
)

// LogStore keeps the change log of a session. Entries are appended in chronological order
// and never reordered or mutated.
type LogStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	entries []core.LogEntry
}

func NewLogStore(now func() time.Time) *LogStore {
	if now == nil {
		now = time.Now
	}
	return &LogStore{now: now}
}

// NewEntry builds an entry with a fresh identifier and timestamp without storing it.
func (s *LogStore) NewEntry(itemName string, ch core.Change) core.LogEntry {
	dir := ch.Direction
	if dir == "" {
		dir = core.DirectionOf(ch.Descriptor)
	}
	return core.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		ItemName:  itemName,
		Change:    ch.Descriptor,
		Direction: dir,
	}
}

func (s *LogStore) Append(e core.LogEntry) {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
}

// AddEntry creates and stores an entry in one step.
func (s *LogStore) AddEntry(itemName string, ch core.Change) core.LogEntry {
	e := s.NewEntry(itemName, ch)
	s.Append(e)
	return e
}

func (s *LogStore) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

func (s *LogStore) RemoveEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove log %s: %w", id, core.ErrNotFound)
	}
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	return nil
}

func (s *LogStore) List() []core.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.LogEntry(nil), s.entries...)
}

func (s *LogStore) Replace(entries []core.LogEntry) {
	cp := append([]core.LogEntry(nil), entries...)
	s.mu.Lock()
	s.entries = cp
	s.mu.Unlock()
}

func (s *LogStore) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
