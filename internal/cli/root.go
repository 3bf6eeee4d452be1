package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/truckline/dispatchdesk/internal/bootstrap"
	"github.com/truckline/dispatchdesk/internal/version"
)

// envPrefix is combined by viper with the upper-cased key, e.g.
// DISPATCHDESK_ADDR.
const envPrefix = "DISPATCHDESK"

// boundFlags maps viper keys to persistent flag names.
var boundFlags = map[string]string{
	"addr":      "addr",
	"api_path":  "api-path",
	"token":     "token",
	"insecure":  "insecure",
	"debug":     "debug",
	"cache_dir": "cache-dir",
	"fetch_cap": "fetch-cap",
	"page_size": "page-size",
	"no_live":   "no-live",
	"config":    "config",
	"no_cache":  "no-cache",
}

// RootCmd represents the base command when called without any subcommands.
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dispatchdesk",
		Short: "A terminal back-office console for logistics dispatch",
		Long: `dispatchdesk is a terminal console for the dispatch back office.

It lists orders, trips, incidents, customers, trailers and contracts from the
logistics backend, with status tabs, free-text search, sortable columns and
paging, and follows the backend change feed to stay current.`,
		Version:       version.GetVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMainApplication(v)
		},
	}

	// Disable cobra's completion command for now
	cmd.CompletionOptions.DisableDefaultCmd = true

	addPersistentFlags(cmd, v)

	cmd.AddCommand(
		newListCmd(v),
		newConfigCmd(v),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs RootCmd and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runMainApplication runs the interactive console.
func runMainApplication(v *viper.Viper) error {
	result, err := bootstrap.Bootstrap(getBootstrapOptions(v))
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	// Runtime errors were already reported by StartApplication; exit
	// without cobra's error line.
	if err := bootstrap.StartApplication(result); err != nil {
		os.Exit(1)
	}

	return nil
}

// getBootstrapOptions reads the flag or environment value of every bound
// key.
func getBootstrapOptions(v *viper.Viper) bootstrap.Options {
	return bootstrap.Options{
		ConfigPath: v.GetString("config"),
		NoCache:    v.GetBool("no_cache"),
		Addr:       v.GetString("addr"),
		APIPath:    v.GetString("api_path"),
		Token:      v.GetString("token"),
		Insecure:   v.GetBool("insecure"),
		Debug:      v.GetBool("debug"),
		CacheDir:   v.GetString("cache_dir"),
		FetchCap:   v.GetInt("fetch_cap"),
		PageSize:   v.GetInt("page_size"),
		NoLive:     v.GetBool("no_live"),
	}
}

// addPersistentFlags adds the global flags and binds them, together with
// their DISPATCHDESK_* environment variables, to v.
func addPersistentFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Path to YAML config file")
	flags.BoolP("no-cache", "n", false, "Disable the persistent response cache")

	flags.String("addr", "", "Backend base URL")
	flags.String("api-path", "", "API path prefix on the backend")
	flags.String("token", "", "Bearer token for the backend")
	flags.Bool("insecure", false, "Skip TLS verification")
	flags.BoolP("debug", "d", false, "Enable debug logging")
	flags.String("cache-dir", "", "Cache and log directory")
	flags.Int("fetch-cap", 0, "Maximum entities fetched per collection")
	flags.Int("page-size", 0, "Initial rows per page")
	flags.Bool("no-live", false, "Do not follow the backend change feed")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	bindFlags(v, flags)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for key, name := range boundFlags {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
		}
	}
}
