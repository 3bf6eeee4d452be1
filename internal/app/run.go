package app

import (
	"context"
	"fmt"
	"os"

	"github.com/truckline/dispatchdesk/internal/adapters"
	"github.com/truckline/dispatchdesk/internal/cache"
	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/logger"
	"github.com/truckline/dispatchdesk/internal/status"
	"github.com/truckline/dispatchdesk/internal/ui"
	"github.com/truckline/dispatchdesk/internal/views"
	"github.com/truckline/dispatchdesk/pkg/api"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// Options configures Setup and Run.
type Options struct {
	NoCache bool
	// Stderr logs to stderr instead of the log file. The list command uses
	// it since no UI owns the terminal.
	Stderr bool
}

// Setup initializes logging and the cache and constructs the API client.
func Setup(cfg *config.Config, opts Options) (*api.Client, error) {
	level := logger.LevelFromDebug(cfg.Debug)

	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o750); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	var clientLogger interfaces.Logger
	if opts.Stderr {
		clientLogger = adapters.NewSimpleLoggerAdapter(cfg.Debug)
	} else {
		if err := logger.InitGlobalLogger(level, cfg.CacheDir); err != nil {
			logger.GetGlobalLogger().Error("failed to init global logger: %v", err)
		}

		clientLogger = adapters.NewLoggerAdapter(cfg)
	}

	var clientCache interfaces.Cache = &interfaces.NoOpCache{}
	if !opts.NoCache {
		if err := cache.InitGlobalCache(cfg.CacheDir); err != nil {
			clientLogger.Warn("Persistent cache unavailable: %v", err)
		}

		clientCache = adapters.NewCacheAdapter()
	}

	return api.NewClient(
		adapters.NewConfigAdapter(cfg),
		api.WithLogger(clientLogger),
		api.WithCache(clientCache),
	)
}

// LoadStatuses builds the status registry and loads every view's entry
// table. Entities the backend does not serve stay on the built-in labels.
func LoadStatuses(ctx context.Context, client *api.Client, log interfaces.Logger) *status.Registry {
	reg := status.NewRegistry(client, log)
	reg.Load(ctx, views.Names()...)

	return reg
}

// Run constructs the API client and starts the console.
func Run(cfg *config.Config, opts Options) error {
	client, err := Setup(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = cache.CloseGlobalCache()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := LoadStatuses(ctx, client, logger.GetPackageLogger("status"))

	return ui.RunApp(ctx, client, cfg, reg)
}
