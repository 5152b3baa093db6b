package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"estoque/internal/core"
)

type fakeSheets struct {
	mu      sync.Mutex
	appends map[string][][]interface{}
	stored  [][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	i := strings.Index(path, "/values/")
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	rng := path[i+len("/values/"):]

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(rng, ":append"):
		rng = strings.TrimSuffix(rng, ":append")
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.appends[rng] = append(f.appends[rng], vr.Values...)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"updates": map[string]any{"updatedRange": rng, "updatedRows": len(vr.Values)},
		})
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"range": rng, "values": f.stored})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = io.WriteString(w, "{}")
	}
}

func newTestClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(),
		Config{SpreadsheetID: "sheet-id", LogSheetName: "Registros", Location: time.UTC},
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "x"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppendLogEntries_GroupsByYear(t *testing.T) {
	f := &fakeSheets{appends: map[string][][]interface{}{}}
	c := newTestClient(t, f)

	entries := []core.LogEntry{
		{ID: "1", Timestamp: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), ItemName: "Arroz", Change: "+1", Direction: core.DirectionIncrease},
		{ID: "2", Timestamp: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), ItemName: "Sal", Change: core.AddedChange, Direction: core.DirectionNeutral},
		{ID: "3", Timestamp: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), ItemName: "Sal", Change: "-1", Direction: core.DirectionDecrease},
	}
	ref, err := c.AppendLogEntries(context.Background(), entries)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "'2024 Registros'!A:F" {
		t.Errorf("unexpected ref %q", ref)
	}
	if got := len(f.appends["'2023 Registros'!A:F"]); got != 1 {
		t.Errorf("expected 1 row in 2023, got %d", got)
	}
	rows2024 := f.appends["'2024 Registros'!A:F"]
	if len(rows2024) != 2 || rows2024[1][5] != "3" {
		t.Errorf("unexpected 2024 rows: %v", rows2024)
	}
}

func TestAppendLogEntries_Empty(t *testing.T) {
	c := &Client{svc: &gsheet.Service{}}
	ref, err := c.AppendLogEntries(context.Background(), nil)
	if err != nil || ref != "" {
		t.Fatalf("expected no-op, got %q %v", ref, err)
	}
	if _, err := (&Client{}).AppendLogEntries(context.Background(), []core.LogEntry{{ID: "x"}}); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestLoggedIDs(t *testing.T) {
	f := &fakeSheets{
		appends: map[string][][]interface{}{},
		stored: [][]interface{}{
			{"Date", "Time", "Item", "Change", "Direction", "ID"},
			{"01/01/2024", "10:00:00", "Arroz", "+1", "increase", "a"},
			{"02/01/2024", "10:00:00", "Sal", "-1", "decrease", "b"},
		},
	}
	c := newTestClient(t, f)

	ids, err := c.LoggedIDs(context.Background(), 2024)
	if err != nil {
		t.Fatalf("logged ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
	if _, ok := ids["b"]; !ok {
		t.Error("missing id b")
	}
}
