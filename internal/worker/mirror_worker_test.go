package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"estoque/internal/amqp"
	"estoque/internal/core"
)

type fakeMirror struct {
	batches [][]core.LogEntry
	known   map[int]map[string]struct{}
	err     error
	idErr   error
}

func (f *fakeMirror) AppendLogEntries(_ context.Context, entries []core.LogEntry) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.batches = append(f.batches, entries)
	return "ref", nil
}

func (f *fakeMirror) LoggedIDs(_ context.Context, year int) (map[string]struct{}, error) {
	if f.idErr != nil {
		return nil, f.idErr
	}
	out := map[string]struct{}{}
	for id := range f.known[year] {
		out[id] = struct{}{}
	}
	return out, nil
}

type fakeSource struct {
	logs []core.LogEntry
}

func (f *fakeSource) ListLogs(context.Context, time.Month) ([]core.LogEntry, error) {
	return f.logs, nil
}
func (f *fakeSource) AppendLog(context.Context, core.LogEntry) error { return nil }
func (f *fakeSource) DeleteLog(context.Context, string) error        { return nil }

func at(year int) time.Time { return time.Date(year, 5, 1, 12, 0, 0, 0, time.UTC) }

func TestHandleLogEvent_SkipsKnownEntries(t *testing.T) {
	m := &fakeMirror{known: map[int]map[string]struct{}{2024: {"old": {}}}}
	w := NewMirrorWorker(m, nil, 10, time.UTC)
	ctx := context.Background()

	if err := w.HandleLogEvent(ctx, amqp.NewLogEventMessage(core.LogEntry{ID: "old", Timestamp: at(2024)})); err != nil {
		t.Fatal(err)
	}
	if len(m.batches) != 0 {
		t.Fatalf("expected no append for known entry, got %d", len(m.batches))
	}

	msg := amqp.NewLogEventMessage(core.LogEntry{ID: "new", Timestamp: at(2024), ItemName: "Arroz"})
	if err := w.HandleLogEvent(ctx, msg); err != nil {
		t.Fatal(err)
	}
	// redelivery of the same message
	if err := w.HandleLogEvent(ctx, msg); err != nil {
		t.Fatal(err)
	}
	if len(m.batches) != 1 || m.batches[0][0].ID != "new" {
		t.Fatalf("unexpected batches: %+v", m.batches)
	}
}

func TestHandleLogEvent_MirrorFailureIsReturned(t *testing.T) {
	m := &fakeMirror{err: errors.New("quota exceeded")}
	w := NewMirrorWorker(m, nil, 10, time.UTC)
	err := w.HandleLogEvent(context.Background(), amqp.NewLogEventMessage(core.LogEntry{ID: "x", Timestamp: at(2024)}))
	if err == nil {
		t.Fatal("expected error so the message is requeued")
	}

	// the entry was not recorded as seen, so a retry writes it
	m.err = nil
	if err := w.HandleLogEvent(context.Background(), amqp.NewLogEventMessage(core.LogEntry{ID: "x", Timestamp: at(2024)})); err != nil {
		t.Fatal(err)
	}
	if len(m.batches) != 1 {
		t.Fatalf("expected retry to append, got %d batches", len(m.batches))
	}
}

func TestHandleLogEvent_UnreadableSheetAssumesEmpty(t *testing.T) {
	m := &fakeMirror{idErr: errors.New("sheet not found")}
	w := NewMirrorWorker(m, nil, 10, time.UTC)
	if err := w.HandleLogEvent(context.Background(), amqp.NewLogEventMessage(core.LogEntry{ID: "x", Timestamp: at(2025)})); err != nil {
		t.Fatal(err)
	}
	if len(m.batches) != 1 {
		t.Fatalf("expected append, got %d", len(m.batches))
	}
}

func TestStartupSyncCheck_BatchesMissingEntries(t *testing.T) {
	m := &fakeMirror{known: map[int]map[string]struct{}{2023: {"a": {}}}}
	src := &fakeSource{logs: []core.LogEntry{
		{ID: "a", Timestamp: at(2023)},
		{ID: "b", Timestamp: at(2023)},
		{ID: "c", Timestamp: at(2024)},
		{ID: "d", Timestamp: at(2024)},
		{ID: "e", Timestamp: at(2024)},
	}}
	w := NewMirrorWorker(m, src, 2, time.UTC)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, b := range m.batches {
		if len(b) > 2 {
			t.Errorf("batch larger than batch size: %d", len(b))
		}
		total += len(b)
	}
	if total != 4 {
		t.Fatalf("expected 4 entries mirrored, got %d", total)
	}

	// a second run finds nothing new
	before := len(m.batches)
	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(m.batches) != before {
		t.Fatal("expected no new batches on second run")
	}
}

func TestStartupSyncCheck_NoSource(t *testing.T) {
	w := NewMirrorWorker(&fakeMirror{}, nil, 0, nil)
	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatal(err)
	}
}
