// Package bootstrap turns command-line options into a validated
// configuration and starts the console.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/truckline/dispatchdesk/internal/app"
	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/logger"
	"github.com/truckline/dispatchdesk/internal/ui/theme"
	"github.com/truckline/dispatchdesk/pkg/api"
)

// out receives the startup messages.
var out io.Writer = os.Stdout

// Options contains everything needed to bootstrap the console. The
// override fields hold flag or environment values; zero values leave the
// file setting alone.
type Options struct {
	ConfigPath string
	NoCache    bool

	Addr     string
	APIPath  string
	Token    string
	Insecure bool
	Debug    bool
	CacheDir string
	FetchCap int
	PageSize int
	NoLive   bool
}

// Result is a loaded and validated configuration.
type Result struct {
	Config     *config.Config
	ConfigPath string
	NoCache    bool
}

// Bootstrap loads the config file, applies overrides, fills defaults and
// validates the result.
func Bootstrap(opts Options) (*Result, error) {
	cfg := config.NewConfig()

	configPath := ResolveConfigPath(opts.ConfigPath)
	if configPath != "" {
		if err := cfg.MergeWithFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyOverrides(cfg, opts)

	cfg.SetDefaults()
	config.DebugEnabled = cfg.Debug

	if err := cfg.Validate(); err != nil {
		return nil, validationError(err, configPath)
	}

	return &Result{
		Config:     cfg,
		ConfigPath: configPath,
		NoCache:    opts.NoCache,
	}, nil
}

// applyOverrides copies the set option values onto cfg.
func applyOverrides(cfg *config.Config, opts Options) {
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	if opts.APIPath != "" {
		cfg.APIPath = opts.APIPath
	}
	if opts.Token != "" {
		cfg.Token = opts.Token
	}
	if opts.Insecure {
		cfg.Insecure = true
	}
	if opts.Debug {
		cfg.Debug = true
	}
	if opts.CacheDir != "" {
		cfg.CacheDir = config.ExpandHomePath(opts.CacheDir)
	}
	if opts.FetchCap > 0 {
		cfg.FetchCap = opts.FetchCap
	}
	if opts.PageSize > 0 {
		cfg.PageSize = opts.PageSize
	}
	if opts.NoLive {
		cfg.LiveUpdates = false
	}
}

func validationError(err error, configPath string) error {
	if configPath == "" {
		return fmt.Errorf("invalid configuration: %w (run `dispatchdesk config init` to create %s)",
			err, config.GetDefaultConfigPath())
	}

	return fmt.Errorf("invalid configuration in %s: %w", configPath, err)
}

// StartApplication starts the console with the given configuration.
func StartApplication(result *Result) error {
	if result == nil {
		return errors.New("bootstrap result is nil")
	}

	fmt.Fprintln(out, "🚚 Starting dispatchdesk...")

	if result.ConfigPath != "" {
		fmt.Fprintf(out, "✅ Configuration loaded from %s\n", result.ConfigPath)
	} else {
		fmt.Fprintln(out, "✅ Configuration loaded from environment variables")
	}

	if result.Config.HasCleartextSensitiveData() {
		fmt.Fprintln(out, "⚠️  The API token is stored in cleartext; run `dispatchdesk config encrypt` to protect it")
	}

	theme.ApplyCustomTheme(&result.Config.Theme)
	theme.ApplyToTview()

	if err := app.Run(result.Config, app.Options{NoCache: result.NoCache}); err != nil {
		return handleStartupError(err, result.Config)
	}

	logger.GetGlobalLogger().Info("Console exited normally")
	fmt.Fprintln(out, "🚪 Exiting.")

	return nil
}

// ResolveConfigPath returns flagPath if set, otherwise the default config
// file if one exists, otherwise "".
func ResolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return config.ExpandHomePath(flagPath)
	}

	if path, found := config.FindDefaultConfigPath(); found {
		return path
	}

	return ""
}

// handleStartupError prints a hint for common startup failures.
func handleStartupError(err error, cfg *config.Config) error {
	fmt.Fprintf(out, "❌ %v\n\n", err)

	switch {
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintln(out, "💡 The backend rejected the API token. Check `token` in:")
		fmt.Fprintf(out, "   %s\n", config.GetDefaultConfigPath())
	case strings.Contains(err.Error(), "connection") || strings.Contains(err.Error(), "timeout"):
		fmt.Fprintln(out, "💡 Check the backend address and network connectivity:")
		fmt.Fprintf(out, "   Current address: %s\n", cfg.Addr)
	}

	return err
}
