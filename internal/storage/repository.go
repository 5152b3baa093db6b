package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"estoque/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable guest store. It implements ports.Backend.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	loc     *time.Location
}

// NewSQLiteRepository opens dbPath, runs the migrations, and buckets log months in loc.
func NewSQLiteRepository(dbPath string, loc *time.Location) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if loc == nil {
		loc = time.Local
	}
	return &SQLiteRepository{db: db, queries: New(db), loc: loc}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable, used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListItems(ctx context.Context) ([]core.Item, error) {
	rows, err := r.queries.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	items := make([]core.Item, 0, len(rows))
	for _, row := range rows {
		it, err := row.toCore()
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", row.ID, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *SQLiteRepository) CreateItem(ctx context.Context, it core.Item) error {
	row, err := itemRow(it)
	if err != nil {
		return err
	}
	if err := r.queries.InsertItem(ctx, row); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create item %s: %w", it.ID, core.ErrDuplicateID)
		}
		return fmt.Errorf("create item: %w", err)
	}
	slog.InfoContext(ctx, "Item saved to SQLite", "id", it.ID, "name", it.Name, "qtd_type", it.Kind)
	return nil
}

func (r *SQLiteRepository) UpdateItem(ctx context.Context, it core.Item) error {
	row, err := itemRow(it)
	if err != nil {
		return err
	}
	n, err := r.queries.UpdateItem(ctx, row)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update item %s: %w", it.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id string) error {
	n, err := r.queries.DeleteItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete item %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// ReplaceItems rewrites the items table in one transaction, keeping the given order.
func (r *SQLiteRepository) ReplaceItems(ctx context.Context, items []core.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllItems(ctx); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	for _, it := range items {
		row, err := itemRow(it)
		if err != nil {
			return err
		}
		if err := q.InsertItem(ctx, row); err != nil {
			return fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	slog.InfoContext(ctx, "Items replaced in SQLite", "count", len(items))
	return nil
}

func (r *SQLiteRepository) ListLogs(ctx context.Context, month time.Month) ([]core.LogEntry, error) {
	var (
		rows []LogRow
		err  error
	)
	if month == 0 {
		rows, err = r.queries.ListLogs(ctx)
	} else {
		rows, err = r.queries.ListLogsByMonth(ctx, int64(month))
	}
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	logs := make([]core.LogEntry, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("log %s: parse timestamp: %w", row.ID, err)
		}
		logs = append(logs, core.LogEntry{
			ID:        row.ID,
			Timestamp: ts.In(r.loc),
			ItemName:  row.ItemName,
			Change:    row.Change,
			Direction: core.Direction(row.Direction),
		})
	}
	return logs, nil
}

func (r *SQLiteRepository) AppendLog(ctx context.Context, e core.LogEntry) error {
	dir := e.Direction
	if !dir.IsValid() {
		dir = core.DirectionOf(e.Change)
	}
	err := r.queries.InsertLog(ctx, LogRow{
		ID:        e.ID,
		CreatedAt: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Month:     int64(e.Timestamp.In(r.loc).Month()),
		ItemName:  e.ItemName,
		Change:    e.Change,
		Direction: string(dir),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("append log %s: %w", e.ID, core.ErrDuplicateID)
		}
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteLog(ctx context.Context, id string) error {
	n, err := r.queries.DeleteLog(ctx, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete log %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func itemRow(it core.Item) (ItemRow, error) {
	labels := it.OptionLabels
	if labels == nil {
		labels = []string{}
	}
	opts, err := json.Marshal(labels)
	if err != nil {
		return ItemRow{}, fmt.Errorf("encode options: %w", err)
	}
	return ItemRow{
		ID:            it.ID,
		Name:          it.Name,
		QtdType:       string(it.Kind),
		NumberOf:      it.Unit,
		Options:       string(opts),
		Quantity:      int64(it.Quantity),
		AlertQuantity: int64(it.AlertQuantity),
		Description:   it.Description,
	}, nil
}

func (row ItemRow) toCore() (core.Item, error) {
	var labels []string
	if err := json.Unmarshal([]byte(row.Options), &labels); err != nil {
		return core.Item{}, fmt.Errorf("decode options: %w", err)
	}
	return core.Item{
		ID:            row.ID,
		Name:          row.Name,
		Kind:          core.QuantityKind(row.QtdType),
		Unit:          row.NumberOf,
		OptionLabels:  labels,
		Quantity:      int(row.Quantity),
		AlertQuantity: int(row.AlertQuantity),
		Description:   row.Description,
	}, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
