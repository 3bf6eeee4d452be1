package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "dispatchdesk"
	configFileName = "config.yml"
)

//go:embed config.tpl.yml
var templateFS embed.FS

var (
	dirMu             sync.RWMutex
	configDirOverride string
	cacheDirOverride  string
)

// SetDirOverrides points the config and cache directories somewhere else.
// Empty values restore the XDG defaults.
func SetDirOverrides(configDir, cacheDir string) {
	dirMu.Lock()
	defer dirMu.Unlock()

	configDirOverride = configDir
	cacheDirOverride = cacheDir
}

func getConfigDir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()

	if configDirOverride != "" {
		return configDirOverride
	}

	return filepath.Join(xdg.ConfigHome, appDirName)
}

func getCacheDir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()

	if cacheDirOverride != "" {
		return cacheDirOverride
	}

	return filepath.Join(xdg.CacheHome, appDirName)
}

// GetDefaultConfigPath returns the config file path inside the XDG config
// directory.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), configFileName)
}

// FindDefaultConfigPath returns the first existing config file, checking the
// XDG location and then the working directory.
func FindDefaultConfigPath() (string, bool) {
	for _, path := range []string{GetDefaultConfigPath(), configFileName} {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// CreateDefaultConfigFile writes the template to the default path.
func CreateDefaultConfigFile() (string, error) {
	return CreateDefaultConfigFileAt(GetDefaultConfigPath())
}

// CreateDefaultConfigFileAt writes the commented template to path unless a
// file already exists there.
func CreateDefaultConfigFileAt(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("config path is empty")
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	data, err := templateFS.ReadFile("config.tpl.yml")
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}

	return path, nil
}

// Save writes the configuration to path. The token is written as held in
// memory, so callers encrypt it first with EncryptSensitiveFields.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	// atomic.WriteFile keeps the temp file's mode.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	return nil
}

// IsSOPSEncrypted reports whether data looks like a SOPS document: it holds
// a top-level sops key or ENC[...] values.
func IsSOPSEncrypted(path string, data []byte) bool {
	if strings.Contains(string(data), "ENC[") {
		return true
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}

	_, ok := doc["sops"]

	return ok
}

// FindSOPSRule reports whether a .sops.yaml exists in startDir or one of
// its parents.
func FindSOPSRule(startDir string) bool {
	current := startDir
	for {
		if _, err := os.Stat(filepath.Join(current, ".sops.yaml")); err == nil {
			return true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return false
		}

		current = parent
	}
}
