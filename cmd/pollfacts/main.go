// Package main provides the CLI entry point for pollfacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	dbPath     string
	dbType     string

	logger = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pollfacts",
		Short: "Extract survey facts from poll report workbooks",
		Long: `pollfacts reads the P1 results sheet of poll report workbooks and stores
questions, answer options and demographic response counts in SQLite or PostgreSQL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(newIngestCmd(), newInspectCmd(), newExportCmd())
	return rootCmd
}

func initLogger(debug bool) error {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// addDBFlags registers the database flags shared by ingest and export.
func addDBFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dbPath, "db", "", "Database file or URL (env "+pollfacts.EnvDatabase+")")
	cmd.Flags().StringVar(&dbType, "db-type", "", "Database type: sqlite or postgres (env "+pollfacts.EnvDatabaseType+")")
}

// loadConfig reads the config file and applies command-line overrides.
// A config with verbose set raises the logger to debug level.
func loadConfig(cmd *cobra.Command) (pollfacts.Config, error) {
	cfg, err := pollfacts.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if verbose {
		cfg.Verbose = true
	} else if cfg.Verbose {
		if err := initLogger(true); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("db") {
		cfg.Database.DSN = dbPath
	}
	if cmd.Flags().Changed("db-type") {
		cfg.Database.Type = dbType
	}
	if cmd.Flags().Changed("sheet") {
		cfg.SheetName, _ = cmd.Flags().GetString("sheet")
	}
	return cfg, nil
}
