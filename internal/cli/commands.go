package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/truckline/dispatchdesk/internal/adapters"
	"github.com/truckline/dispatchdesk/internal/app"
	"github.com/truckline/dispatchdesk/internal/bootstrap"
	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/internal/version"
	"github.com/truckline/dispatchdesk/internal/views"
)

// listTimeout bounds the whole list command.
const listTimeout = 2 * time.Minute

type listFlags struct {
	bucket string
	query  string
	sort   string
	dir    string
	page   int
	rows   int
	output string
}

// newListCmd creates the non-interactive list command.
func newListCmd(v *viper.Viper) *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:   "list <view>",
		Short: "Print one page of a list view",
		Long: `Fetch a collection from the backend and print one page of it, filtered
and sorted the same way the console does.

Views: ` + strings.Join(views.Names(), ", ") + `.`,
		Example: `  dispatchdesk list orders --bucket pending --query "Cát Lái" --sort createdAt --dir desc
  dispatchdesk list trips --page 2 --rows 25 -o json`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return views.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, v, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.bucket, "bucket", "b", "", "Status bucket key (default all)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Free-text search")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "Sort key")
	cmd.Flags().StringVar(&f.dir, "dir", "asc", "Sort direction: asc or desc")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page number, starting at 1")
	cmd.Flags().IntVarP(&f.rows, "rows", "r", 0, "Rows per page (default page_size)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, v *viper.Viper, name string, f listFlags) error {
	view, err := views.Lookup(name)
	if err != nil {
		return err
	}

	if f.page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", f.page)
	}

	dir := listview.ParseDirection(f.dir)
	if dir == listview.DirNone {
		return fmt.Errorf("--dir must be asc or desc, got %q", f.dir)
	}

	if f.output != "table" && f.output != "json" {
		return fmt.Errorf("--output must be table or json, got %q", f.output)
	}

	result, err := bootstrap.Bootstrap(getBootstrapOptions(v))
	if err != nil {
		return err
	}

	cfg := result.Config

	client, err := app.Setup(cfg, app.Options{NoCache: result.NoCache, Stderr: true})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), listTimeout)
	defer cancel()

	log := adapters.NewSimpleLoggerAdapter(cfg.Debug)
	reg := app.LoadStatuses(ctx, client, log)

	rows := f.rows
	if rows <= 0 {
		rows = cfg.PageSize
	}

	win, err := view.Window(ctx, client, views.WindowRequest{
		Bucket:      f.bucket,
		Query:       f.query,
		SortKey:     f.sort,
		Direction:   dir,
		Page:        f.page - 1,
		RowsPerPage: rows,
		Logger:      log,
	}, reg)
	if err != nil {
		return err
	}

	if f.output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(win)
	}

	return renderWindow(cmd.OutOrStdout(), view.Title(), win)
}

// newConfigCmd groups the config file helpers.
func newConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write a commented config template",
			Long: `Write a commented configuration template to the --config path, or to
the default location when no path is given. An existing file is left alone.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runConfigInit(cmd, v.GetString("config"))
			},
		},
		&cobra.Command{
			Use:   "encrypt",
			Short: "Encrypt the API token in the config file",
			Long: `Encrypt the token field of the config file with the local age identity.
If the file has no token, it is read from the terminal without echo.
Files managed by SOPS are left alone.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runConfigEncrypt(cmd, v.GetString("config"))
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path in use",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path := bootstrap.ResolveConfigPath(v.GetString("config"))
				if path == "" {
					path = config.GetDefaultConfigPath() + " (not created yet)"
				}

				fmt.Fprintln(cmd.OutOrStdout(), path)

				return nil
			},
		},
	)

	return cmd
}

func runConfigInit(cmd *cobra.Command, flagPath string) error {
	path := config.GetDefaultConfigPath()
	if flagPath != "" {
		path = config.ExpandHomePath(flagPath)
	}

	existed := fileExists(path)

	path, err := config.CreateDefaultConfigFileAt(path)
	if err != nil {
		return err
	}

	if existed {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists: %s\n", path)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Config template written to %s\n", path)

	return nil
}

// readSecret reads a line without echo. It is replaced in tests.
var readSecret = func(prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", errors.New("no token in config file and stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

func runConfigEncrypt(cmd *cobra.Command, flagPath string) error {
	path := bootstrap.ResolveConfigPath(flagPath)
	if path == "" {
		return fmt.Errorf("no config file found; run `dispatchdesk config init` first")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if config.IsSOPSEncrypted(path, data) {
		return fmt.Errorf("%s is managed by SOPS; edit it with sops instead", path)
	}

	cfg := &config.Config{LiveUpdates: true, KeyBindings: config.DefaultKeyBindings()}
	if err := cfg.MergeWithFile(path); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if cfg.Token != "" && !cfg.HasCleartextSensitiveData() {
		fmt.Fprintf(cmd.OutOrStdout(), "Token in %s is already encrypted\n", path)
		return nil
	}

	if cfg.Token == "" {
		token, err := readSecret("API token: ")
		if err != nil {
			return err
		}

		if token == "" {
			return errors.New("empty token")
		}

		cfg.Token = token
	}

	cfg.SetDefaults()

	if err := cfg.EncryptSensitiveFields(); err != nil {
		return err
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	cfg.MarkSensitiveDataEncrypted()
	fmt.Fprintf(cmd.OutOrStdout(), "🔒 Token encrypted in %s\n", path)

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.GetBuildInfo().String())
		},
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
