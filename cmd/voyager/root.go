package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pevans/voyager/config"
	"github.com/pevans/voyager/discovery"
	"github.com/pevans/voyager/store"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for voyager.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voyager",
		Short: "Crawl a Janeway journal and reconcile it against DOI records",
		Long: `voyager walks the paginated article and issue listings of a Janeway
journal site, extracts metadata from each article page and compares the
article titles with DOI registry records.

Configuration is read from --config, ./.voyager.yaml or
$XDG_CONFIG_HOME/voyager/config.yaml, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewArticlesCmd())
	cmd.AddCommand(NewMetadataCmd())
	cmd.AddCommand(NewReconcileCmd())
	cmd.AddCommand(NewDOIsCmd())
	cmd.AddCommand(NewRegistryCmd())
	cmd.AddCommand(NewRunsCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runEnv is what every subcommand needs: the loaded configuration and a
// logger built from it.
type runEnv struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadRunEnv loads the configuration named by --config and sets up logging.
func loadRunEnv(cmd *cobra.Command) (*runEnv, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}

	logger := setupLogger(cmd.ErrOrStderr(), level)
	slog.SetDefault(logger)

	return &runEnv{cfg: cfg, logger: logger}, nil
}

// setupLogger creates a text logger at the given level.
func setupLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (e *runEnv) fetcher() *discovery.HTTPFetcher {
	return discovery.NewHTTPFetcher(e.cfg.Site.Timeout, e.cfg.Site.UserAgent)
}

func (e *runEnv) walker() *discovery.Walker {
	return discovery.NewWalker(e.fetcher(), e.cfg.Normalizer(),
		discovery.WithLogger(e.logger),
		discovery.WithListConfigs(e.cfg.ArticleList(), e.cfg.IssueList()),
	)
}

// openStore opens the run store named by --db, falling back to
// storage.dsn. It returns nil when neither is set.
func (e *runEnv) openStore(cmd *cobra.Command) (*store.RunStore, error) {
	dsn := e.cfg.Storage.DSN
	if cmd.Flags().Lookup("db") != nil {
		if flag, _ := cmd.Flags().GetString("db"); flag != "" {
			dsn = flag
		}
	}
	if dsn == "" {
		return nil, nil
	}

	s, err := store.NewRunStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return s, nil
}

// output returns the writer for -o, or the command's stdout when it is
// unset. The returned close function must be called.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}
