package pollfacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/parser"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/sheet"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/store"
	"go.uber.org/zap"
)

// SurveySink receives the survey record and everything extracted from its sheet.
type SurveySink interface {
	parser.Sink
	InsertSurvey(ctx context.Context, s models.Survey) error
}

// Store is a SurveySink that also remembers which files were ingested.
type Store interface {
	SurveySink
	IsFileProcessed(ctx context.Context, filename string) (bool, error)
	MarkFileProcessed(ctx context.Context, filename string, runID uuid.UUID) error
}

var (
	_ Store = (*store.SQLStore)(nil)
	_ Store = (*store.Memory)(nil)
)

// Report describes the ingestion of one workbook.
type Report struct {
	File     string         `json:"file"`
	RunID    uuid.UUID      `json:"run_id"`
	Survey   models.Survey  `json:"survey"`
	Result   *parser.Result `json:"result,omitempty"`
	Skipped  bool           `json:"skipped,omitempty"`
	Duration time.Duration  `json:"duration"`
	Err      error          `json:"-"`
}

// Failed reports whether the workbook could not be ingested.
func (r Report) Failed() bool {
	return r.Err != nil
}

// ExtractFile ingests one workbook: it records the survey named by the file,
// loads the configured sheet and writes every extracted record to sink.
func ExtractFile(ctx context.Context, path string, sink SurveySink, opts Options) (*Report, error) {
	start := time.Now()
	name := filepath.Base(path)
	sheetName := opts.sheetName()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	survey, err := ParseSurveyFilename(name)
	if err != nil {
		return nil, err
	}

	s, err := sheet.Load(path, sheetName)
	if err != nil {
		if !errors.Is(err, sheet.ErrSheetNotFound) {
			err = fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return nil, NewExtractionError(name, sheetName, ComponentLoad, err)
	}

	cfg := opts.parserConfig()
	if s.Len() > 0 && !s.HasColumn(cfg.MainColumn) {
		err := fmt.Errorf("%w: %q (columns: %v)", parser.ErrMissingMainColumn, cfg.MainColumn, s.Columns())
		return nil, NewExtractionError(name, sheetName, ComponentParse, err)
	}

	if err := sink.InsertSurvey(ctx, survey); err != nil {
		return nil, NewExtractionError(name, sheetName, ComponentStore, err)
	}

	log := opts.logger().With(zap.String("file", name))
	cfg.Logger = log

	result, err := parser.ProcessSheet(ctx, s, survey.ID, sink, cfg)
	if err != nil {
		component := ComponentStore
		if errors.Is(err, parser.ErrMissingMainColumn) {
			component = ComponentParse
		}
		return nil, NewExtractionError(name, sheetName, component, err)
	}

	log.Info("extracted survey sheet",
		zap.String("survey", survey.ID),
		zap.Int("questions", len(result.QuestionIDs)),
		zap.Int("skips", len(result.Skips)))

	return &Report{
		File:     name,
		Survey:   survey,
		Result:   result,
		Duration: time.Since(start),
	}, nil
}

// IngestFile ingests path unless st already has it, then marks it processed
// under a fresh run id. Failures are carried in the report.
func IngestFile(ctx context.Context, path string, st Store, opts Options) Report {
	name := filepath.Base(path)
	log := opts.logger().With(zap.String("file", name))

	done, err := st.IsFileProcessed(ctx, name)
	if err != nil {
		return Report{File: name, Err: NewExtractionError(name, opts.sheetName(), ComponentStore, err)}
	}
	if done {
		log.Info("skipping already-processed file")
		return Report{File: name, Skipped: true}
	}

	log.Info("processing file", zap.String("path", path))
	rep, err := ExtractFile(ctx, path, st, opts)
	if err != nil {
		log.Error("failed to ingest file", zap.Error(err))
		return Report{File: name, Err: err}
	}

	rep.RunID = uuid.New()
	if opts.DryRun {
		return *rep
	}
	if err := st.MarkFileProcessed(ctx, name, rep.RunID); err != nil {
		rep.Err = NewExtractionError(name, opts.sheetName(), ComponentStore, err)
		log.Error("failed to mark file processed", zap.Error(err))
		return *rep
	}
	log.Info("finished file", zap.String("run_id", rep.RunID.String()), zap.Duration("duration", rep.Duration))
	return *rep
}

// IngestDir ingests every candidate workbook in dir in name order. A failing
// file is reported and does not stop the others.
func IngestDir(ctx context.Context, dir string, st Store, opts Options) ([]Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var reports []Report
	for _, e := range entries {
		if e.IsDir() || !IsCandidateFile(e.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		reports = append(reports, IngestFile(ctx, filepath.Join(dir, e.Name()), st, opts))
	}
	return reports, nil
}
