package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"estoque/internal/core"
)

func TestMemoryStoreItems(t *testing.T) {
	ctx := context.Background()
	s := New(time.UTC)

	it := core.Item{ID: "a", Name: "Arroz", Kind: core.QuantityNumber, Quantity: 1}
	if err := s.CreateItem(ctx, it); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateItem(ctx, it); !errors.Is(err, core.ErrDuplicateID) {
		t.Fatalf("expected duplicate id, got %v", err)
	}

	it.Quantity = 4
	if err := s.UpdateItem(ctx, it); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.UpdateItem(ctx, core.Item{ID: "zz"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	items, _ := s.ListItems(ctx)
	if len(items) != 1 || items[0].Quantity != 4 {
		t.Fatalf("unexpected items: %+v", items)
	}

	if err := s.ReplaceItems(ctx, []core.Item{{ID: "0"}, {ID: "1"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.DeleteItem(ctx, "0"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ = s.ListItems(ctx)
	if len(items) != 1 || items[0].ID != "1" {
		t.Fatalf("unexpected items after delete: %+v", items)
	}
}

func TestMemoryStoreLogsByMonth(t *testing.T) {
	ctx := context.Background()
	s := New(time.UTC)
	for i, m := range []time.Month{time.January, time.March, time.March} {
		e := core.LogEntry{ID: string(rune('a' + i)), Timestamp: time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC)}
		if err := s.AppendLog(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	march, _ := s.ListLogs(ctx, time.March)
	if len(march) != 2 || march[0].ID != "b" || march[1].ID != "c" {
		t.Fatalf("unexpected march logs: %+v", march)
	}
	all, _ := s.ListLogs(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(all))
	}

	if err := s.DeleteLog(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteLog(ctx, "b"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	s, err := Open(dir, time.UTC)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = s.CreateItem(ctx, core.Item{ID: "x", Name: "Sal", Kind: core.QuantityOptions, OptionLabels: []string{"a", "b"}})
	_ = s.AppendLog(ctx, core.LogEntry{ID: "l1", ItemName: "Sal", Change: core.AddedChange, Timestamp: time.Now()})

	reopened, err := Open(dir, time.UTC)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	items, _ := reopened.ListItems(ctx)
	logs, _ := reopened.ListLogs(ctx, 0)
	if len(items) != 1 || items[0].OptionLabels[1] != "b" {
		t.Fatalf("items not restored: %+v", items)
	}
	if len(logs) != 1 || logs[0].ID != "l1" {
		t.Fatalf("logs not restored: %+v", logs)
	}
}

func TestOpenRejectsCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, snapshotFile), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir, nil); err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
}

func TestReadOptionSeeds(t *testing.T) {
	dir := t.TempDir()
	content := "# scales\nVazio, Meio , Cheio\n\nBaixo,Baixo,Alto\n , \n"
	if err := os.WriteFile(filepath.Join(dir, "seed_options.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	sets := ReadOptionSeeds(dir)
	if len(sets) != 2 {
		t.Fatalf("expected 2 sets, got %v", sets)
	}
	if sets[0][1] != "Meio" || len(sets[1]) != 2 {
		t.Fatalf("unexpected sets: %v", sets)
	}
	if ReadOptionSeeds(filepath.Join(dir, "missing")) != nil {
		t.Fatal("expected nil for missing file")
	}
}
