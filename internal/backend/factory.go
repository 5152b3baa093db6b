package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"estoque/internal/amqp"
	"estoque/internal/cache"
	"estoque/internal/local"
	"estoque/internal/remote"
	"estoque/internal/session"
	"estoque/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend picks exactly one storage target: the local store for guests, the remote API otherwise.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type() {
	case MemoryBackend:
		res, err = f.createMemoryBackend(config)
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(config)
	case RemoteBackend:
		res, err = f.createRemoteBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type())
	}
	if err != nil {
		return nil, err
	}
	res.Type = config.Type()
	f.attachPublisher(res, config)
	return res, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	if config.DataDirectory == "" {
		f.logger.Info("Initialized memory backend", "persistent", false)
		return &BackendResult{Backend: local.New(config.Location), Ready: alwaysReady}, nil
	}

	store, err := local.Open(config.DataDirectory, config.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "data_directory", config.DataDirectory)

	return &BackendResult{
		Backend: store,
		Ready:   alwaysReady,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Ready:   repo.Ping,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createRemoteBackend(config Config) (*BackendResult, error) {
	client, err := remote.New(remote.Config{
		BaseURL:   config.APIBaseURL,
		Token:     session.Token(config.Mode),
		Timeout:   config.APITimeout,
		CacheSize: config.LogCacheSize,
		CacheTTL:  config.LogCacheTTL,
		Location:  config.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote API client: %w", err)
	}
	f.logger.Info("Initialized remote backend", "base_url", config.APIBaseURL)

	return &BackendResult{
		Backend: client,
		Caches:  []cache.Cleaner{client.Cache()},
		Ready:   alwaysReady,
	}, nil
}

// attachPublisher connects the log event publisher when a broker is configured.
// A broker that cannot be reached only disables publishing.
func (f *DefaultFactory) attachPublisher(res *BackendResult, config Config) {
	if config.AMQPURL == "" {
		return
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without log events", "error", err)
		return
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	res.Publisher = client
	prev := res.Cleanup
	res.Cleanup = func() error {
		var errs []error
		if prev != nil {
			errs = append(errs, prev())
		}
		errs = append(errs, client.Close())
		return errors.Join(errs...)
	}
}

func alwaysReady(context.Context) error { return nil }
