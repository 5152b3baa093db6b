package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"estoque/internal/amqp"
	"estoque/internal/core"
	"estoque/internal/ports"
)

// idLister is implemented by mirrors that can tell which entries they already hold.
type idLister interface {
	LoggedIDs(ctx context.Context, year int) (map[string]struct{}, error)
}

// MirrorWorker copies log entries into the spreadsheet mirror, skipping entries it already holds.
type MirrorWorker struct {
	mirror    ports.LogMirror
	ids       idLister
	source    ports.LogRepository
	batchSize int
	loc       *time.Location

	mu   sync.Mutex
	seen map[int]map[string]struct{}
}

// NewMirrorWorker builds the worker. source may be nil, in which case StartupSyncCheck does nothing.
func NewMirrorWorker(mirror ports.LogMirror, source ports.LogRepository, batchSize int, loc *time.Location) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	if loc == nil {
		loc = time.Local
	}
	w := &MirrorWorker{
		mirror:    mirror,
		source:    source,
		batchSize: batchSize,
		loc:       loc,
		seen:      map[int]map[string]struct{}{},
	}
	if l, ok := mirror.(idLister); ok {
		w.ids = l
	}
	return w
}

// HandleLogEvent processes a single log event from AMQP.
func (w *MirrorWorker) HandleLogEvent(ctx context.Context, msg *amqp.LogEventMessage) error {
	slog.InfoContext(ctx, "Processing log event", "id", msg.EntryID, "item", msg.ItemName)

	n, err := w.mirrorEntries(ctx, []core.LogEntry{msg.Entry()})
	if err != nil {
		return fmt.Errorf("mirror log entry: %w", err)
	}
	if n == 0 {
		slog.InfoContext(ctx, "Log entry already mirrored, skipping", "id", msg.EntryID)
	}
	return nil
}

// StartupSyncCheck mirrors every entry of the local store missing from the sheet.
// It recovers from lost messages and worker downtime.
func (w *MirrorWorker) StartupSyncCheck(ctx context.Context) error {
	if w.source == nil {
		return nil
	}
	entries, err := w.source.ListLogs(ctx, 0)
	if err != nil {
		return fmt.Errorf("list local logs: %w", err)
	}
	if len(entries) == 0 {
		slog.InfoContext(ctx, "No local log entries found on startup")
		return nil
	}

	synced := 0
	for start := 0; start < len(entries); start += w.batchSize {
		end := min(start+w.batchSize, len(entries))
		n, err := w.mirrorEntries(ctx, entries[start:end])
		if err != nil {
			return fmt.Errorf("startup sync: %w", err)
		}
		synced += n
	}

	slog.InfoContext(ctx, "Startup sync completed", "total", len(entries), "synced", synced)
	return nil
}

// mirrorEntries appends the entries not yet seen and returns how many were written.
func (w *MirrorWorker) mirrorEntries(ctx context.Context, entries []core.LogEntry) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var pending []core.LogEntry
	for _, e := range entries {
		seen, err := w.seenFor(ctx, e.Timestamp.In(w.loc).Year())
		if err != nil {
			return 0, err
		}
		if _, ok := seen[e.ID]; ok {
			continue
		}
		pending = append(pending, e)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	ref, err := w.mirror.AppendLogEntries(ctx, pending)
	if err != nil {
		return 0, fmt.Errorf("append to sheets: %w", err)
	}
	for _, e := range pending {
		w.seen[e.Timestamp.In(w.loc).Year()][e.ID] = struct{}{}
	}

	slog.InfoContext(ctx, "Mirrored log entries", "count", len(pending), "sheets_ref", ref)
	return len(pending), nil
}

// seenFor returns the known ids of year, loading them from the mirror the first time. Callers hold w.mu.
func (w *MirrorWorker) seenFor(ctx context.Context, year int) (map[string]struct{}, error) {
	if s, ok := w.seen[year]; ok {
		return s, nil
	}
	s := map[string]struct{}{}
	if w.ids != nil {
		loaded, err := w.ids.LoggedIDs(ctx, year)
		if err != nil {
			// The sheet of a new year does not exist until the first append.
			slog.WarnContext(ctx, "Could not read mirrored ids, assuming none", "year", year, "error", err)
		} else {
			s = loaded
		}
	}
	w.seen[year] = s
	return s, nil
}
