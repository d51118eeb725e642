package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/store"
	"go.uber.org/zap"
)

var dryRun bool

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [dir|file.xlsx]",
		Short: "Ingest report workbooks into the database",
		Long: `Ingest every unprocessed AA_<Mon><YY>.xlsx workbook in a directory (default:
the configured input_dir), or a single workbook.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}
	addDBFlags(cmd)
	cmd.Flags().String("sheet", "", "Worksheet to extract (default P1)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Extract into memory without touching the database")
	return cmd
}

type countingStore interface {
	pollfacts.Store
	Counts(ctx context.Context) (map[string]int64, error)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	target := cfg.InputDir
	if len(args) == 1 {
		target = args[0]
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("%w: %s", pollfacts.ErrFileNotFound, target)
	}

	opts := cfg.Options(logger)
	opts.DryRun = dryRun

	var st countingStore
	if dryRun {
		st = store.NewMemory()
	} else {
		db, err := store.Open(cfg.Database.Type, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.CreateSchema(ctx); err != nil {
			return err
		}
		st = db
	}

	var reports []pollfacts.Report
	if info.IsDir() {
		reports, err = pollfacts.IngestDir(ctx, target, st, opts)
		if err != nil {
			return err
		}
	} else {
		reports = []pollfacts.Report{pollfacts.IngestFile(ctx, target, st, opts)}
	}

	var ingested, skipped, failed int
	for _, r := range reports {
		switch {
		case r.Failed():
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAILED  %s: %v\n", r.File, r.Err)
		case r.Skipped:
			skipped++
			fmt.Fprintf(cmd.OutOrStdout(), "SKIPPED %s (already processed)\n", r.File)
		default:
			ingested++
			fmt.Fprintf(cmd.OutOrStdout(), "OK      %s survey=%s questions=%d skips=%d\n",
				r.File, r.Survey.ID, len(r.Result.QuestionIDs), len(r.Result.Skips))
		}
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		return err
	}
	logger.Info("ingestion finished",
		zap.Int("ingested", ingested),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Any("table_counts", counts))
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d ingested, %d skipped, %d failed\n", ingested, skipped, failed)

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}
