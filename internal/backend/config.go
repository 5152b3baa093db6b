package backend

import (
	"fmt"

	"estoque/internal/config"
	"estoque/internal/session"
)

// FromAppConfig converts the application config to backend config for the given session mode.
func FromAppConfig(appConfig *config.Config, mode session.Mode) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	if mode == nil {
		mode = session.Guest{}
	}

	localType := BackendType(appConfig.DataBackend)
	if !localType.IsLocal() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Mode: mode,

		LocalType:     localType,
		DataDirectory: appConfig.DataDirectory,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		Location:      appConfig.Location(),

		APIBaseURL:   appConfig.APIBaseURL,
		APITimeout:   appConfig.APITimeout,
		LogCacheSize: appConfig.LogCacheSize,
		LogCacheTTL:  appConfig.LogCacheTTL,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

// Type returns the backend the config selects: remote when authenticated, the local store otherwise.
func (c Config) Type() BackendType {
	if session.IsGuest(c.Mode) {
		return c.LocalType
	}
	return RemoteBackend
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	switch c.Type() {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		// empty DataDirectory keeps the store in memory only
	case RemoteBackend:
		if c.APIBaseURL == "" {
			return fmt.Errorf("API base URL is required for authenticated sessions")
		}
	default:
		return fmt.Errorf("invalid backend type: %s", c.Type())
	}
	return nil
}
