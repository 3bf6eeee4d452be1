// Package adapters connects the console's config, logger and cache to the
// interfaces the API client expects.
//
// Example usage:
//
//	client, err := api.NewClient(adapters.NewConfigAdapter(cfg),
//		api.WithLogger(adapters.NewLoggerAdapter(cfg)),
//		api.WithCache(adapters.NewCacheAdapter()))
package adapters

import (
	"os"
	"path/filepath"
	"time"

	"github.com/truckline/dispatchdesk/internal/cache"
	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/logger"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// ConfigAdapter exposes config.Config as interfaces.Config.
type ConfigAdapter struct {
	*config.Config
}

// NewConfigAdapter wraps cfg.
func NewConfigAdapter(cfg *config.Config) interfaces.Config {
	return &ConfigAdapter{Config: cfg}
}

// LoggerAdapter exposes logger.Logger as interfaces.Logger.
type LoggerAdapter struct {
	logger *logger.Logger
}

// NewLoggerAdapter logs to the file in cfg.CacheDir when that directory is
// writable, and to stderr otherwise.
func NewLoggerAdapter(cfg *config.Config) *LoggerAdapter {
	level := logger.LevelFromDebug(cfg.Debug)

	if writable(cfg.CacheDir) {
		if l, err := logger.NewInternalLogger(level, cfg.CacheDir); err == nil {
			return &LoggerAdapter{logger: l}
		}
	}

	return &LoggerAdapter{logger: logger.NewSimpleLogger(level)}
}

// NewSimpleLoggerAdapter logs to stderr.
func NewSimpleLoggerAdapter(debugEnabled bool) *LoggerAdapter {
	return &LoggerAdapter{logger: logger.NewSimpleLogger(logger.LevelFromDebug(debugEnabled))}
}

func writable(dir string) bool {
	if dir == "" {
		return false
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false
	}

	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return false
	}

	_ = probe.Close()
	_ = os.Remove(filepath.Clean(probe.Name()))

	return true
}

func (l *LoggerAdapter) Debug(format string, args ...interface{}) { l.logger.Debug(format, args...) }

func (l *LoggerAdapter) Info(format string, args ...interface{}) { l.logger.Info(format, args...) }

func (l *LoggerAdapter) Warn(format string, args ...interface{}) { l.logger.Warn(format, args...) }

func (l *LoggerAdapter) Error(format string, args ...interface{}) { l.logger.Error(format, args...) }

// Close closes the log file, if any.
func (l *LoggerAdapter) Close() error { return l.logger.Close() }

// CacheAdapter exposes the global cache as interfaces.Cache.
type CacheAdapter struct {
	cache cache.Cache
}

// NewCacheAdapter wraps cache.GetGlobalCache.
func NewCacheAdapter() interfaces.Cache {
	return &CacheAdapter{cache: cache.GetGlobalCache()}
}

func (c *CacheAdapter) Get(key string, dest interface{}) (bool, error) {
	return c.cache.Get(key, dest)
}

func (c *CacheAdapter) Set(key string, value interface{}, ttl time.Duration) error {
	return c.cache.Set(key, value, ttl)
}

func (c *CacheAdapter) Delete(key string) error {
	return c.cache.Delete(key)
}

func (c *CacheAdapter) Clear() error {
	return c.cache.Clear()
}
