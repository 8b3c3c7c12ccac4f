// Package cli provides the filmsync command tree.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pnm-media/filmsync/internal/config"
	"github.com/pnm-media/filmsync/internal/engine"
	"github.com/pnm-media/filmsync/internal/events"
	"github.com/pnm-media/filmsync/internal/ledger"
	"github.com/pnm-media/filmsync/internal/logging"
	"github.com/pnm-media/filmsync/internal/mapping"
	"github.com/pnm-media/filmsync/internal/store"
	"github.com/pnm-media/filmsync/internal/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	debug   bool

	// Per-run overrides for the sync settings, applied only when the flag
	// was set on the command line.
	includeMP4 bool
	method     string
	targetPath string

	// Global logger
	logger *logging.Logger
)

// Version information - set by the main package at startup.
var (
	Version   = "v1.0.0-dev"
	BuildTime = "unknown"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "filmsync",
		Short: "Mirror S3 media groups into a local filesystem tree",
		Long: `filmsync ` + Version + ` - Built: ` + BuildTime + `
Mirrors groups of objects from an S3-compatible bucket into a local tree,
renaming files from CSV sidecar metadata or passing names through as-is.

Completed groups are recorded in a local ledger and skipped on later runs;
interrupted syncs resume without re-downloading files already on disk.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefault()
			if verbose || debug {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
			logger.Debug().Str("version", version.String()).Msg("filmsync starting")
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = Version + " (" + BuildTime + ")"

	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLedgerCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// addSyncFlags registers the per-run sync overrides shared by the groups and
// sync commands.
func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&includeMP4, "include-mp4", true, "Include .mp4 objects (overrides config)")
	cmd.Flags().StringVar(&method, "method", "", "Mapping method: structured or passthrough (overrides config)")
	cmd.Flags().StringVar(&targetPath, "target", "", "Local target directory (overrides config)")
}

// loadConfig reads the config file, honoring --config.
func loadConfig() (*config.Config, string, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyOverrides folds set command-line flags into the loaded config.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("include-mp4") {
		cfg.Sync.IncludeMP4 = includeMP4
	}
	if cmd.Flags().Changed("method") {
		cfg.Sync.Method = method
	}
	if cmd.Flags().Changed("target") {
		cfg.Sync.TargetPath = targetPath
	}
}

// openLedger opens the completion ledger next to the config file.
func openLedger() (*ledger.Ledger, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	return ledger.Open(filepath.Join(dir, ledger.DefaultFileName))
}

// newResolver picks the mapping strategy from the config.
func newResolver(cfg *config.Config, st store.ObjectStore) (mapping.Resolver, error) {
	switch cfg.Sync.Method {
	case config.MethodStructured:
		return &mapping.Structured{Store: st, IncludeMP4: cfg.Sync.IncludeMP4}, nil
	case config.MethodPassthrough:
		return &mapping.Passthrough{IncludeMP4: cfg.Sync.IncludeMP4}, nil
	default:
		return nil, fmt.Errorf("unknown mapping method %q", cfg.Sync.Method)
	}
}

// buildSession wires the store, resolver, and ledger into a sync session.
func buildSession(cmd *cobra.Command, cfg *config.Config, bus *events.Bus) (*engine.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w (run \"filmsync config set\")", err)
	}

	st, err := store.NewS3Store(cmd.Context(), &cfg.S3)
	if err != nil {
		return nil, err
	}

	resolver, err := newResolver(cfg, st)
	if err != nil {
		return nil, err
	}

	led, err := openLedger()
	if err != nil {
		return nil, err
	}

	return engine.NewSession(cfg, st, resolver, led, bus, logger), nil
}
