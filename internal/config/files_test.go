package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultConfigFileAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	got, err := CreateDefaultConfigFileAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fetch_cap: 1000")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, os.WriteFile(path, []byte("addr: kept\n"), 0o600))
	got, err = CreateDefaultConfigFileAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "addr: kept\n", string(data))
}

func TestCreateDefaultConfigFileAt_EmptyPath(t *testing.T) {
	_, err := CreateDefaultConfigFileAt("")
	assert.Error(t, err)
}

func TestTemplateLoadsAndValidates(t *testing.T) {
	clearEnv(t)
	useTempDirs(t)

	path, err := CreateDefaultConfigFile()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfigPath(), path)

	found, ok := FindDefaultConfigPath()
	require.True(t, ok)
	assert.Equal(t, path, found)

	cfg := NewConfig()
	require.NoError(t, cfg.MergeWithFile(path))
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8080", cfg.Addr)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	useTempDirs(t)

	cfg := NewConfig()
	cfg.Addr = "http://ops"
	cfg.Token = "secret"
	cfg.FetchCap = 400
	cfg.LiveUpdates = false
	cfg.SetDefaults()
	cfg.KeyBindings.Sort = "o"
	require.NoError(t, cfg.EncryptSensitiveFields())

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "api_path")
	assert.NotContains(t, string(data), "cache_dir")

	loaded := NewConfig()
	require.NoError(t, loaded.MergeWithFile(path))
	loaded.SetDefaults()

	assert.Equal(t, "http://ops", loaded.Addr)
	assert.Equal(t, "secret", loaded.Token)
	assert.Equal(t, 400, loaded.FetchCap)
	assert.False(t, loaded.LiveUpdates)
	assert.Equal(t, "o", loaded.KeyBindings.Sort)
	assert.False(t, loaded.HasCleartextSensitiveData())
}

func TestIsSOPSEncrypted(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"plain", "addr: http://a\n", false},
		{"mentions sops in a value", "addr: http://sops.example.com\n", false},
		{"sops metadata", "addr: ENC[AES256_GCM,data:xx]\nsops:\n  version: 3.9.0\n", true},
		{"sops key only", "sops:\n  version: 3.9.0\n", true},
		{"invalid yaml", "addr: [\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSOPSEncrypted("config.yml", []byte(tt.data)))
		})
	}
}

func TestFindSOPSRule(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.False(t, FindSOPSRule(nested))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".sops.yaml"), []byte("creation_rules: []\n"), 0o600))
	assert.True(t, FindSOPSRule(nested))
}
