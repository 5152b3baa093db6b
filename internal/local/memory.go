// Package local holds the guest session store: everything in memory, optionally mirrored to a JSON file.
package local

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"estoque/internal/core"
	"estoque/internal/view"
)

const snapshotFile = "estoque.json"

type snapshot struct {
	Items []core.Item     `json:"items"`
	Logs  []core.LogEntry `json:"logs"`
}

// Store implements ports.Backend for guests. When path is set every mutation rewrites the snapshot.
type Store struct {
	mu    sync.Mutex
	path  string
	loc   *time.Location
	items []core.Item
	logs  []core.LogEntry
}

// New returns a store that lives only as long as the process.
func New(loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{loc: loc}
}

// Open loads the snapshot kept in dir, creating the directory if needed.
func Open(dir string, loc *time.Location) (*Store, error) {
	s := New(loc)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s.path = filepath.Join(dir, snapshotFile)

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", s.path, err)
	}
	s.items, s.logs = snap.Items, snap.Logs
	return s, nil
}

func (s *Store) ListItems(_ context.Context) ([]core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out, nil
}

func (s *Store) CreateItem(_ context.Context, it core.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.itemIndex(it.ID) >= 0 {
		return fmt.Errorf("create item %s: %w", it.ID, core.ErrDuplicateID)
	}
	s.items = append(s.items, it.Clone())
	return s.persist()
}

func (s *Store) UpdateItem(_ context.Context, it core.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(it.ID)
	if i < 0 {
		return fmt.Errorf("update item %s: %w", it.ID, core.ErrNotFound)
	}
	s.items[i] = it.Clone()
	return s.persist()
}

func (s *Store) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(id)
	if i < 0 {
		return fmt.Errorf("delete item %s: %w", id, core.ErrNotFound)
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return s.persist()
}

func (s *Store) ReplaceItems(_ context.Context, items []core.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]core.Item, len(items))
	for i, it := range items {
		s.items[i] = it.Clone()
	}
	return s.persist()
}

func (s *Store) ListLogs(_ context.Context, month time.Month) ([]core.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.Filter(s.logs, "", month, s.loc), nil
}

func (s *Store) AppendLog(_ context.Context, e core.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, e)
	return s.persist()
}

func (s *Store) DeleteLog(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.logs {
		if e.ID == id {
			s.logs = append(s.logs[:i:i], s.logs[i+1:]...)
			return s.persist()
		}
	}
	return fmt.Errorf("delete log %s: %w", id, core.ErrNotFound)
}

func (s *Store) Close() error { return nil }

func (s *Store) itemIndex(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the snapshot through a temp file so a crash never leaves half a document.
// Callers hold s.mu.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	b, err := json.MarshalIndent(snapshot{Items: s.items, Logs: s.logs}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// ReadOptionSeeds reads extra option sets from seed_options.txt in dir, one comma separated set per line.
// Blank lines and lines starting with # are skipped. A missing file yields no sets.
func ReadOptionSeeds(dir string) [][]string {
	f, err := os.Open(filepath.Join(dir, "seed_options.txt"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var out [][]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if labels := dedupe(strings.Split(line, ",")); len(labels) > 0 {
			out = append(out, labels)
		}
	}
	return out
}

// dedupe trims labels and drops blanks and repeats, preserving order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
