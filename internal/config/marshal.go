package config

import "slices"

// marshaledConfig is the structure written to disk. Values equal to the
// built-in defaults are left out so the file only records overrides.
type marshaledConfig struct {
	Addr        string            `yaml:"addr"`
	APIPath     string            `yaml:"api_path,omitempty"`
	Token       string            `yaml:"token,omitempty"`
	Insecure    bool              `yaml:"insecure,omitempty"`
	Debug       bool              `yaml:"debug,omitempty"`
	CacheDir    string            `yaml:"cache_dir,omitempty"`
	FetchCap    int               `yaml:"fetch_cap,omitempty"`
	PageSize    int               `yaml:"page_size,omitempty"`
	PageSizes   []int             `yaml:"page_sizes,omitempty,flow"`
	LiveUpdates *bool             `yaml:"live_updates,omitempty"`
	KeyBindings map[string]string `yaml:"key_bindings,omitempty"`
	Theme       *ThemeConfig      `yaml:"theme,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (c *Config) MarshalYAML() (any, error) {
	if c == nil {
		return nil, nil
	}

	out := marshaledConfig{
		Addr:     c.Addr,
		Token:    c.Token,
		Insecure: c.Insecure,
		Debug:    c.Debug,
	}

	if c.APIPath != DefaultAPIPath {
		out.APIPath = c.APIPath
	}

	if c.CacheDir != getCacheDir() {
		out.CacheDir = c.CacheDir
	}

	if c.FetchCap != DefaultFetchCap {
		out.FetchCap = c.FetchCap
	}

	if c.PageSize != DefaultPageSize {
		out.PageSize = c.PageSize
	}

	if !slices.Equal(c.PageSizes, DefaultPageSizes) {
		out.PageSizes = c.PageSizes
	}

	if !c.LiveUpdates {
		off := false
		out.LiveUpdates = &off
	}

	defaults := DefaultKeyBindings().Map()
	for name, spec := range c.KeyBindings.Map() {
		if spec == "" || spec == defaults[name] {
			continue
		}

		if out.KeyBindings == nil {
			out.KeyBindings = make(map[string]string)
		}

		out.KeyBindings[name] = spec
	}

	if c.Theme.Name != "" || len(c.Theme.Colors) > 0 {
		theme := c.Theme
		out.Theme = &theme
	}

	return out, nil
}
