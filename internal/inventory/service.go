package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"estoque/internal/core"
	"estoque/internal/ports"
)

// Mutation is the outcome of an item operation: the stored item and the log entry it produced, if any.
type Mutation struct {
	Item  core.Item
	Entry *core.LogEntry
}

// Service orchestrates item and log operations over a backend and the in-memory session state.
// Every change is written to the backend first and only then applied in memory.
type Service struct {
	mu        sync.Mutex
	backend   ports.Backend
	publisher ports.LogPublisher
	items     *ItemStore
	logs      *LogStore
	options   *OptionLibrary
}

type Option func(*Service)

// WithPublisher makes the service announce every new log entry.
func WithPublisher(p ports.LogPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the timestamp source of log entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.logs.now = now }
}

// WithOptionLibrary shares an option library between services.
func WithOptionLibrary(l *OptionLibrary) Option {
	return func(s *Service) { s.options = l }
}

func NewService(backend ports.Backend, scheme IDScheme, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		items:   NewItemStore(scheme),
		logs:    NewLogStore(nil),
		options: NewOptionLibrary(DefaultScale),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Items() []core.Item                { return s.items.List() }
func (s *Service) Logs() []core.LogEntry             { return s.logs.List() }
func (s *Service) Options() *OptionLibrary           { return s.options }
func (s *Service) Scheme() IDScheme                  { return s.items.Scheme() }
func (s *Service) Item(id string) (core.Item, error) { return s.items.Get(id) }

// Load replaces the session state with what was fetched from the backend.
func (s *Service) Load(items []core.Item, logs []core.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.Replace(items)
	s.logs.Replace(logs)
	for _, it := range items {
		s.rememberOptions(it)
	}
}

// LoadLogs replaces the log list only, used when the month selection changes.
func (s *Service) LoadLogs(logs []core.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs.Replace(logs)
}

// Add stores a new item and records the "Added" log entry.
// An empty identifier is filled in according to the id scheme.
func (s *Service) Add(ctx context.Context, it core.Item) (Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if it.ID == "" {
		it.ID = s.items.NextID()
	}
	if err := it.Validate(); err != nil {
		return Mutation{}, err
	}
	if _, err := s.items.Get(it.ID); err == nil {
		return Mutation{}, fmt.Errorf("add item %s: %w", it.ID, core.ErrDuplicateID)
	}
	if err := s.backend.CreateItem(ctx, it); err != nil {
		return Mutation{}, fmt.Errorf("save item: %w", err)
	}
	if err := s.items.Add(it); err != nil {
		return Mutation{}, err
	}
	s.rememberOptions(it)

	return Mutation{Item: it, Entry: s.record(ctx, it.Name, core.Added())}, nil
}

// Edit replaces an item by identifier. A log entry is recorded only when the quantity changed.
func (s *Service) Edit(ctx context.Context, it core.Item) (Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.items.Get(it.ID)
	if err != nil {
		return Mutation{}, err
	}
	if err := it.Validate(); err != nil {
		return Mutation{}, err
	}
	change, changed, err := core.Diff(prev, it)
	if err != nil {
		return Mutation{}, fmt.Errorf("edit item %s: %w", it.ID, err)
	}
	if err := s.backend.UpdateItem(ctx, it); err != nil {
		return Mutation{}, fmt.Errorf("save item: %w", err)
	}
	if _, err := s.items.Edit(it); err != nil {
		return Mutation{}, err
	}
	s.rememberOptions(it)

	m := Mutation{Item: it}
	if changed {
		m.Entry = s.record(ctx, it.Name, change)
	}
	return m, nil
}

// Remove deletes an item. Removal does not produce a log entry.
// With positional identifiers the renumbered list is written back to the backend.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.items.Preview(id)
	if err != nil {
		return err
	}
	if s.items.Scheme() == PositionalIDs {
		if err := s.backend.ReplaceItems(ctx, next); err != nil {
			return fmt.Errorf("replace items: %w", err)
		}
	} else if err := s.backend.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.items.Replace(next)
	return nil
}

// RemoveLog deletes a single log entry.
func (s *Service) RemoveLog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.logs.Contains(id) {
		return fmt.Errorf("remove log %s: %w", id, core.ErrNotFound)
	}
	if err := s.backend.DeleteLog(ctx, id); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return s.logs.RemoveEntry(id)
}

// Import appends already validated items, assigning fresh identifiers. No log entries are recorded.
// It stops at the first backend failure and returns the number of items stored before it.
func (s *Service) Import(ctx context.Context, items []core.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, it := range items {
		it.ID = s.items.NextID()
		if err := s.backend.CreateItem(ctx, it); err != nil {
			return n, fmt.Errorf("import item %q: %w", it.Name, err)
		}
		if err := s.items.Add(it); err != nil {
			return n, err
		}
		s.rememberOptions(it)
		n++
	}
	return n, nil
}

func (s *Service) record(ctx context.Context, itemName string, ch core.Change) *core.LogEntry {
	e := s.logs.NewEntry(itemName, ch)
	if err := s.backend.AppendLog(ctx, e); err != nil {
		// The item change is already stored; the log entry is lost rather than failing the operation.
		slog.ErrorContext(ctx, "Failed to append log entry", "item", itemName, "change", ch.Descriptor, "error", err)
		return nil
	}
	s.logs.Append(e)

	if s.publisher != nil {
		if err := s.publisher.PublishLogEntry(ctx, e); err != nil {
			slog.WarnContext(ctx, "Failed to publish log entry", "id", e.ID, "error", err)
		}
	}
	return &e
}

func (s *Service) rememberOptions(it core.Item) {
	if it.Kind == core.QuantityOptions {
		s.options.Save(it.OptionLabels)
	}
}

// IsClientError reports whether err was caused by the caller's input rather than the backend.
func IsClientError(err error) bool {
	var ve *core.ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, core.ErrNotFound) ||
		errors.Is(err, core.ErrDuplicateID) ||
		errors.Is(err, core.ErrInvalidIndex)
}
