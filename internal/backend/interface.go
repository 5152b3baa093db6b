package backend

import (
	"context"
	"time"

	"estoque/internal/cache"
	"estoque/internal/ports"
	"estoque/internal/session"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// BackendResult is the single storage target chosen for a session plus its companions.
type BackendResult struct {
	Type    BackendType
	Backend ports.Backend
	// Publisher is nil when no broker is configured.
	Publisher ports.LogPublisher
	// Caches lists the caches the backend keeps, for periodic cleanup.
	Caches []cache.Cleaner
	// Ready reports whether the backend can serve requests.
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Mode session.Mode

	// Guest storage
	LocalType     BackendType
	DataDirectory string
	SQLiteDBPath  string
	Location      *time.Location

	// Authenticated sessions
	APIBaseURL   string
	APITimeout   time.Duration
	LogCacheSize int
	LogCacheTTL  time.Duration

	// Log events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	RemoteBackend BackendType = "remote"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsLocal reports whether bt is one of the guest stores.
func (bt BackendType) IsLocal() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
