package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"estoque/internal/app"
	"estoque/internal/backend"
	"estoque/internal/cache"
	"estoque/internal/cli"
	apphttp "estoque/internal/http"
	"estoque/internal/inventory"
	"estoque/internal/local"
	applog "estoque/internal/log"
	"estoque/internal/session"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.SlogLevel())

	mode, err := session.FromToken(cfg.APIToken)
	if err != nil {
		logger.Error("Invalid API token", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg, mode)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), cfg.APITimeout)
	defer startCancel()

	result, err := backend.NewFactory(logger).CreateBackend(startCtx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", backendCfg.Type())
		os.Exit(1)
	}

	cacheManager := cache.NewManager()
	for _, c := range result.Caches {
		cacheManager.Register(c)
	}
	if len(result.Caches) > 0 {
		cacheManager.StartCleanup(cfg.LogCacheTTL)
	}

	stockApp := app.New(result.Backend, mode,
		app.WithScheme(inventory.IDScheme(cfg.ItemIDScheme)),
		app.WithPublisher(result.Publisher),
		app.WithLocation(cfg.Location()),
		app.WithOptionSeeds(local.ReadOptionSeeds(cfg.DataDirectory)),
	)
	if err := stockApp.Start(startCtx); err != nil {
		logger.Error("Failed to load inventory", "error", err, "mode", mode)
		os.Exit(1)
	}
	startCancel()

	srv := apphttp.NewServer(apphttp.Config{
		Addr:  ":" + cfg.Port,
		Ready: result.Ready,
		Logger: applog.New(applog.Config{
			Level:     cfg.SlogLevel(),
			Component: applog.ComponentHTTP,
			Handler:   logger.Handler(),
		}),
	}, stockApp)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting estoque server", "port", cfg.Port, "backend", result.Type, "mode", mode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
