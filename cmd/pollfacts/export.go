package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/store"
	"go.uber.org/zap"
)

var exportDir string

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every table to timestamped CSV files",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	addDBFlags(cmd)
	cmd.Flags().StringVar(&exportDir, "out", "", "Output directory (default: database_export_<timestamp>)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ts := store.ExportTimestamp(time.Now())
	dir := exportDir
	if dir == "" {
		dir = "database_export_" + ts
	}

	results, err := db.ExportCSV(ctx, dir, ts)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAILED  %-22s %v\n", r.Table, r.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK      %-22s %6d records -> %s\n", r.Table, r.Records, r.Filename)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	logger.Info("export finished", zap.String("dir", dir), zap.Int("tables", len(results)))
	return nil
}
