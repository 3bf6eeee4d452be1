package adapters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truckline/dispatchdesk/internal/cache"
	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/logger"
)

func TestConfigAdapter(t *testing.T) {
	cfg := &config.Config{
		Addr:     "https://ops.example.com",
		APIPath:  "/api",
		Token:    "secret",
		Insecure: true,
		FetchCap: 500,
	}

	adapter := NewConfigAdapter(cfg)

	assert.Equal(t, cfg.Addr, adapter.GetAddr())
	assert.Equal(t, cfg.APIPath, adapter.GetAPIPath())
	assert.Equal(t, cfg.Token, adapter.GetToken())
	assert.True(t, adapter.GetInsecure())
	assert.Equal(t, 500, adapter.GetFetchCap())
}

func TestNewLoggerAdapter(t *testing.T) {
	tempDir := t.TempDir()
	notDir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notDir, nil, 0o600))

	tests := []struct {
		name     string
		cfg      *config.Config
		wantFile bool
	}{
		{"debug to file", &config.Config{Debug: true, CacheDir: tempDir}, true},
		{"no cache dir", &config.Config{}, false},
		{"cache dir is a file", &config.Config{CacheDir: notDir}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewLoggerAdapter(tt.cfg)
			t.Cleanup(func() { _ = adapter.Close() })

			adapter.Debug("debug %s", "message")
			adapter.Warn("warn %s", "message")

			if !tt.wantFile {
				return
			}

			data, err := os.ReadFile(filepath.Join(tt.cfg.CacheDir, logger.LogFileName))
			require.NoError(t, err)
			assert.Contains(t, string(data), "[DEBUG] debug message")
			assert.Contains(t, string(data), "[WARN] warn message")
		})
	}
}

func TestSimpleLoggerAdapter(t *testing.T) {
	adapter := NewSimpleLoggerAdapter(false)

	assert.NotPanics(t, func() {
		adapter.Debug("Debug: %d", 1)
		adapter.Info("Info: %d", 2)
		adapter.Warn("Warn: %d", 3)
		adapter.Error("Error: %d", 4)
	})
}

func TestCacheAdapter(t *testing.T) {
	require.NoError(t, cache.CloseGlobalCache())
	t.Cleanup(func() { _ = cache.CloseGlobalCache() })

	adapter := NewCacheAdapter()

	type status struct {
		Key   string `json:"key"`
		Color string `json:"color"`
	}

	want := []status{{Key: "pending", Color: "yellow"}}
	require.NoError(t, adapter.Set("/statuses/orders", want, time.Hour))

	var got []status
	found, err := adapter.Get("/statuses/orders", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, adapter.Delete("/statuses/orders"))
	found, err = adapter.Get("/statuses/orders", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, adapter.Set("a", 1, 0))
	require.NoError(t, adapter.Clear())

	var n int
	found, err = adapter.Get("a", &n)
	require.NoError(t, err)
	assert.False(t, found)
}
