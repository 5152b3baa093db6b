package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estoque/internal/core"
	"estoque/internal/inventory"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Component: ComponentHTTP,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithItem(core.Item{ID: "1", Name: "Arroz", Kind: core.QuantityNumber}).
		WithLogEntry(nil).
		WithError(nil)

	if _, ok := f[FieldLogID]; ok {
		t.Error("nil entry should add no log fields")
	}
	if _, ok := f[FieldError]; ok {
		t.Error("nil error should add no error field")
	}
	if f[FieldQuantityKind] != "number" {
		t.Errorf("qtd_type = %v, want number", f[FieldQuantityKind])
	}
	if got := len(f.ToSlice()); got != 6 {
		t.Errorf("ToSlice() len = %d, want 6", got)
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf))

	entry := &core.LogEntry{ID: "e1", Change: "+2", Direction: core.DirectionIncrease}
	sl.LogItemMutation(context.Background(), OpUpdate, inventory.Mutation{Item: core.Item{ID: "1", Name: "Arroz"}, Entry: entry})
	sl.LogError(context.Background(), "Import failed", errors.New("boom"), ComponentTransfer, OpImport, nil)

	out := buf.String()
	for _, want := range []string{"Item updated", "change=+2", "direction=increase", "error=boom", "component=transfer"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	base := bufferLogger(&buf)

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "handled")
		}),
	))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items", nil))

	if !strings.Contains(buf.String(), "request_id=req_1") {
		t.Errorf("expected request id in output: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "component=http") {
		t.Errorf("expected component in output: %s", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	if got := FromContext(context.Background()).Component(); got != "unknown" {
		t.Errorf("Component() = %q, want unknown", got)
	}
}
