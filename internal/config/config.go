// Package config provides configuration management for dispatchdesk.
//
// Configuration is loaded from several sources with this precedence:
//  1. Command-line flags (highest priority)
//  2. Environment variables
//  3. Configuration file (YAML, optionally SOPS-encrypted)
//  4. Default values (lowest priority)
//
// Environment Variables:
//   - DISPATCHDESK_ADDR: backend base URL
//   - DISPATCHDESK_API_PATH: REST path prefix (default: "/api")
//   - DISPATCHDESK_TOKEN: bearer token
//   - DISPATCHDESK_INSECURE: skip TLS verification ("true"/"false")
//   - DISPATCHDESK_DEBUG: enable debug logging ("true"/"false")
//   - DISPATCHDESK_CACHE_DIR: custom cache directory
//   - DISPATCHDESK_FETCH_CAP: maximum rows loaded per collection
//   - DISPATCHDESK_PAGE_SIZE: initial rows per page
//   - DISPATCHDESK_LIVE_UPDATES: follow the backend change feed ("true"/"false")
//
// Configuration File Format (YAML):
//
//	addr: "https://ops.example.com"
//	api_path: "/api"
//	token: "age1:..."          # cleartext or age-encrypted
//	insecure: false
//	debug: false
//	fetch_cap: 1000
//	page_size: 10
//	page_sizes: [5, 10, 25, 50]
//	live_updates: true
//
// Example usage:
//
//	cfg := config.NewConfig()
//	if err := cfg.MergeWithFile(path); err != nil {
//		return err
//	}
//	cfg.SetDefaults()
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/getsops/sops/v3/decrypt"
	"gopkg.in/yaml.v3"

	"github.com/truckline/dispatchdesk/internal/keys"
)

const (
	envPrefix = "DISPATCHDESK_"

	DefaultAPIPath  = "/api"
	DefaultFetchCap = 1000
	DefaultPageSize = 10
	MaxFetchCap     = 5000
	trueString      = "true"
	falseString     = "false"
)

// DefaultPageSizes are the rows-per-page choices offered by the pager.
var DefaultPageSizes = []int{5, 10, 25, 50}

// DebugEnabled is a global flag to enable debug logging throughout the
// application. It is set from the loaded configuration.
var DebugEnabled bool

// Config is the complete application configuration.
type Config struct {
	Addr        string      `yaml:"addr"`
	APIPath     string      `yaml:"api_path"`
	Token       string      `yaml:"token"`
	Insecure    bool        `yaml:"insecure"`
	Debug       bool        `yaml:"debug"`
	CacheDir    string      `yaml:"cache_dir"`
	FetchCap    int         `yaml:"fetch_cap"`
	PageSize    int         `yaml:"page_size"`
	PageSizes   []int       `yaml:"page_sizes"`
	LiveUpdates bool        `yaml:"live_updates"`
	KeyBindings KeyBindings `yaml:"key_bindings"`
	Theme       ThemeConfig `yaml:"theme"`

	// hasCleartextToken tracks whether the last-loaded file stored the token
	// unencrypted.
	hasCleartextToken bool `yaml:"-"`
}

// HasCleartextSensitiveData reports whether the loaded file held a
// cleartext token.
func (c *Config) HasCleartextSensitiveData() bool {
	return c.hasCleartextToken
}

// MarkSensitiveDataEncrypted clears the cleartext marker after the token
// was encrypted and saved.
func (c *Config) MarkSensitiveDataEncrypted() {
	c.hasCleartextToken = false
}

// KeyBindings defines customizable key mappings. Each value is a key spec
// understood by the keys package, e.g. "r", "Ctrl+R" or "F5".
type KeyBindings struct {
	NextView   string `yaml:"next_view"`
	PrevView   string `yaml:"prev_view"`
	Dashboard  string `yaml:"dashboard"`
	Search     string `yaml:"search"`
	NextBucket string `yaml:"next_bucket"`
	PrevBucket string `yaml:"prev_bucket"`
	Sort       string `yaml:"sort"`
	NextPage   string `yaml:"next_page"`
	PrevPage   string `yaml:"prev_page"`
	PageSize   string `yaml:"page_size"`
	Refresh    string `yaml:"refresh"`
	Delete     string `yaml:"delete"`
	Help       string `yaml:"help"`
	Quit       string `yaml:"quit"`
}

// ThemeConfig selects a built-in theme by name and overrides single colors
// keyed by theme element name. Values are any tcell color (ANSI name, W3C
// name or hex code).
type ThemeConfig struct {
	Name   string            `yaml:"name,omitempty"`
	Colors map[string]string `yaml:"colors,omitempty"`
}

// DefaultKeyBindings returns the default key mappings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		NextView:   "]",
		PrevView:   "[",
		Dashboard:  "d",
		Search:     "/",
		NextBucket: "b",
		PrevBucket: "v",
		Sort:       "s",
		NextPage:   "n",
		PrevPage:   "p",
		PageSize:   "z",
		Refresh:    "Ctrl+R",
		Delete:     "x",
		Help:       "?",
		Quit:       "q",
	}
}

// Map returns the bindings keyed by their YAML names.
func (kb KeyBindings) Map() map[string]string {
	return map[string]string{
		"next_view":   kb.NextView,
		"prev_view":   kb.PrevView,
		"dashboard":   kb.Dashboard,
		"search":      kb.Search,
		"next_bucket": kb.NextBucket,
		"prev_bucket": kb.PrevBucket,
		"sort":        kb.Sort,
		"next_page":   kb.NextPage,
		"prev_page":   kb.PrevPage,
		"page_size":   kb.PageSize,
		"refresh":     kb.Refresh,
		"delete":      kb.Delete,
		"help":        kb.Help,
		"quit":        kb.Quit,
	}
}

// merge copies every non-empty binding of other into kb.
func (kb *KeyBindings) merge(other KeyBindings) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&kb.NextView, other.NextView)
	set(&kb.PrevView, other.PrevView)
	set(&kb.Dashboard, other.Dashboard)
	set(&kb.Search, other.Search)
	set(&kb.NextBucket, other.NextBucket)
	set(&kb.PrevBucket, other.PrevBucket)
	set(&kb.Sort, other.Sort)
	set(&kb.NextPage, other.NextPage)
	set(&kb.PrevPage, other.PrevPage)
	set(&kb.PageSize, other.PageSize)
	set(&kb.Refresh, other.Refresh)
	set(&kb.Delete, other.Delete)
	set(&kb.Help, other.Help)
	set(&kb.Quit, other.Quit)
}

// ValidateKeyBindings checks that every key spec parses, that no reserved
// key is rebound and that no two actions share a key.
func ValidateKeyBindings(kb KeyBindings) error {
	bindings := kb.Map()
	defaults := DefaultKeyBindings().Map()

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	slices.Sort(names)

	seen := make(map[string]string)

	for _, name := range names {
		spec := bindings[name]
		if spec == "" {
			continue
		}

		key, r, mod, err := keys.Parse(spec)
		if err != nil {
			return fmt.Errorf("invalid key binding %s: %w", name, err)
		}

		if keys.IsReserved(key, r, mod) && spec != defaults[name] {
			return fmt.Errorf("key binding %s uses reserved key %s", name, spec)
		}

		id := keys.CanonicalID(key, r, mod)
		if other, ok := seen[id]; ok {
			return fmt.Errorf("key binding %s duplicates %s", name, other)
		}

		seen[id] = name
	}

	return nil
}

// NewConfig creates a Config populated from DISPATCHDESK_* environment
// variables. Unset variables leave zero values; call SetDefaults after
// merging the file and flags.
func NewConfig() *Config {
	cfg := &Config{
		Addr:        os.Getenv(envPrefix + "ADDR"),
		APIPath:     os.Getenv(envPrefix + "API_PATH"),
		Token:       os.Getenv(envPrefix + "TOKEN"),
		Insecure:    strings.ToLower(os.Getenv(envPrefix+"INSECURE")) == trueString,
		Debug:       strings.ToLower(os.Getenv(envPrefix+"DEBUG")) == trueString,
		CacheDir:    ExpandHomePath(os.Getenv(envPrefix + "CACHE_DIR")),
		LiveUpdates: strings.ToLower(os.Getenv(envPrefix+"LIVE_UPDATES")) != falseString,
		KeyBindings: DefaultKeyBindings(),
	}

	if n, err := strconv.Atoi(os.Getenv(envPrefix + "FETCH_CAP")); err == nil {
		cfg.FetchCap = n
	}

	if n, err := strconv.Atoi(os.Getenv(envPrefix + "PAGE_SIZE")); err == nil {
		cfg.PageSize = n
	}

	return cfg
}

// fileConfig distinguishes unset values from explicit zero values.
type fileConfig struct {
	Addr        string      `yaml:"addr"`
	APIPath     string      `yaml:"api_path"`
	Token       string      `yaml:"token"`
	Insecure    *bool       `yaml:"insecure"`
	Debug       *bool       `yaml:"debug"`
	CacheDir    string      `yaml:"cache_dir"`
	FetchCap    int         `yaml:"fetch_cap"`
	PageSize    int         `yaml:"page_size"`
	PageSizes   []int       `yaml:"page_sizes"`
	LiveUpdates *bool       `yaml:"live_updates"`
	KeyBindings KeyBindings `yaml:"key_bindings"`
	Theme       ThemeConfig `yaml:"theme"`
}

// MergeWithFile overlays the YAML file at path. SOPS-encrypted files are
// decrypted first; an age-encrypted token is decrypted afterwards.
func (c *Config) MergeWithFile(path string) error {
	if path == "" {
		return nil
	}

	c.hasCleartextToken = false

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sopsEncrypted := IsSOPSEncrypted(path, data)
	if sopsEncrypted {
		decrypted, derr := decrypt.File(path, "yaml")
		if derr != nil {
			return fmt.Errorf("decrypt %s: %w", path, derr)
		}

		data = decrypted
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if !sopsEncrypted && fc.Token != "" && !isEncrypted(fc.Token) {
		c.hasCleartextToken = true
	}

	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if fc.APIPath != "" {
		c.APIPath = fc.APIPath
	}
	if fc.Token != "" {
		c.Token = fc.Token
	}
	if fc.Insecure != nil {
		c.Insecure = *fc.Insecure
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if fc.CacheDir != "" {
		c.CacheDir = ExpandHomePath(fc.CacheDir)
	}
	if fc.FetchCap != 0 {
		c.FetchCap = fc.FetchCap
	}
	if fc.PageSize != 0 {
		c.PageSize = fc.PageSize
	}
	if fc.PageSizes != nil {
		c.PageSizes = append([]int{}, fc.PageSizes...)
	}
	if fc.LiveUpdates != nil {
		c.LiveUpdates = *fc.LiveUpdates
	}

	c.KeyBindings.merge(fc.KeyBindings)

	if fc.Theme.Name != "" {
		c.Theme.Name = fc.Theme.Name
	}

	if len(fc.Theme.Colors) > 0 {
		if c.Theme.Colors == nil {
			c.Theme.Colors = make(map[string]string, len(fc.Theme.Colors))
		}
		for k, v := range fc.Theme.Colors {
			c.Theme.Colors[k] = v
		}
	}

	if !sopsEncrypted && isEncrypted(c.Token) {
		token, err := DecryptField(c.Token)
		if err != nil {
			return fmt.Errorf("decrypt token: %w", err)
		}

		c.Token = token
	}

	return nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("backend address required: set via --addr flag, DISPATCHDESK_ADDR env var, or config file")
	}

	if c.FetchCap < 1 || c.FetchCap > MaxFetchCap {
		return fmt.Errorf("fetch_cap must be between 1 and %d, got %d", MaxFetchCap, c.FetchCap)
	}

	if len(c.PageSizes) == 0 {
		return errors.New("page_sizes must not be empty")
	}

	for _, size := range c.PageSizes {
		if size < 1 {
			return fmt.Errorf("page_sizes entries must be positive, got %d", size)
		}
	}

	if !slices.Contains(c.PageSizes, c.PageSize) {
		return fmt.Errorf("page_size %d is not one of page_sizes %v", c.PageSize, c.PageSizes)
	}

	return ValidateKeyBindings(c.KeyBindings)
}

// SetDefaults fills unspecified options.
func (c *Config) SetDefaults() {
	if c.APIPath == "" {
		c.APIPath = DefaultAPIPath
	}

	if c.CacheDir != "" {
		c.CacheDir = ExpandHomePath(c.CacheDir)
	} else {
		c.CacheDir = getCacheDir()
	}

	if c.FetchCap == 0 {
		c.FetchCap = DefaultFetchCap
	}

	if len(c.PageSizes) == 0 {
		c.PageSizes = append([]int{}, DefaultPageSizes...)
	}

	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}

	defaults := DefaultKeyBindings()
	defaults.merge(c.KeyBindings)
	c.KeyBindings = defaults

	if c.Theme.Colors == nil {
		c.Theme.Colors = make(map[string]string)
	}

	DebugEnabled = c.Debug
}

// GetAddr implements interfaces.Config.
func (c *Config) GetAddr() string { return c.Addr }

// GetAPIPath implements interfaces.Config.
func (c *Config) GetAPIPath() string { return c.APIPath }

// GetToken implements interfaces.Config.
func (c *Config) GetToken() string { return c.Token }

// GetInsecure implements interfaces.Config.
func (c *Config) GetInsecure() bool { return c.Insecure }

// GetFetchCap implements interfaces.Config.
func (c *Config) GetFetchCap() int { return c.FetchCap }

// ExpandHomePath expands a leading ~ using the current user's home
// directory.
func ExpandHomePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}

	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") && !strings.HasPrefix(trimmed, "~\\") {
		return trimmed
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return trimmed
	}

	rest := strings.TrimLeft(strings.TrimPrefix(trimmed, "~"), "/\\")
	if rest == "" {
		return home
	}

	return filepath.Join(home, rest)
}
