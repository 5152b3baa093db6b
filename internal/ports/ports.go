package ports

import (
	"context"
	"time"

	"estoque/internal/core"
)

// Ports for outbound adapters.
type (
	ItemRepository interface {
		ListItems(ctx context.Context) ([]core.Item, error)
		CreateItem(ctx context.Context, it core.Item) error
		// UpdateItem replaces the item carrying the same ID.
		UpdateItem(ctx context.Context, it core.Item) error
		DeleteItem(ctx context.Context, id string) error
		// ReplaceItems overwrites the whole collection, used after positional renumbering.
		ReplaceItems(ctx context.Context, items []core.Item) error
	}

	LogRepository interface {
		// ListLogs returns entries of the given calendar month in insertion order; 0 returns all.
		ListLogs(ctx context.Context, month time.Month) ([]core.LogEntry, error)
		AppendLog(ctx context.Context, e core.LogEntry) error
		DeleteLog(ctx context.Context, id string) error
	}

	// Backend is the single storage target of a session: local for guests, remote when authenticated.
	Backend interface {
		ItemRepository
		LogRepository
	}

	// LogPublisher announces freshly recorded log entries to other processes.
	LogPublisher interface {
		PublishLogEntry(ctx context.Context, e core.LogEntry) error
	}

	// LogMirror appends log entries to an external spreadsheet.
	LogMirror interface {
		AppendLogEntries(ctx context.Context, entries []core.LogEntry) (ref string, err error)
	}
)
