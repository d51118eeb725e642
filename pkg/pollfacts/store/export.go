package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// exportQueries holds the per-table export query and description.
var exportQueries = []struct {
	table       string
	query       string
	description string
}{
	{"surveys",
		`SELECT survey_id, year, month, filename FROM surveys ORDER BY year DESC, month DESC, survey_id`,
		"Survey metadata"},
	{"survey_questions",
		`SELECT question_id, survey_id, question_number, question_part, question_text, is_demographic, base_description
		 FROM survey_questions ORDER BY survey_id, question_number, question_part`,
		"Survey questions with metadata"},
	{"demographics",
		`SELECT demo_id, demo_code, demo_description FROM demographics ORDER BY demo_id`,
		"Demographic categories"},
	{"demographic_responses",
		`SELECT id, question_id, survey_id, demo_id, item_label, count, percent
		 FROM demographic_responses ORDER BY survey_id, question_id, demo_id, id`,
		"Demographic response data"},
	{"answer_options",
		`SELECT option_id, question_id, option_text, option_order
		 FROM answer_options ORDER BY question_id, option_order, option_id`,
		"Answer options for survey questions"},
	{"p1_responses",
		`SELECT id, question_id, survey_id, option_id, demo_id, item_label, cnt, pct
		 FROM p1_responses ORDER BY survey_id, question_id, option_id, demo_id, id`,
		"Primary response data (main fact table)"},
}

// ExportResult describes the export of one table.
type ExportResult struct {
	Table       string `json:"table"`
	Description string `json:"description"`
	Filename    string `json:"filename,omitempty"`
	Records     int    `json:"records"`
	Err         error  `json:"-"`
}

// ExportTimestamp formats t the way export file names expect.
func ExportTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// ExportCSV writes every data table to <table>_<timestamp>.csv under dir, plus
// an export_summary_<timestamp>.txt report. A failing table does not stop the
// others; the joined errors are returned with the results.
func (s *SQLStore) ExportCSV(ctx context.Context, dir, timestamp string) ([]ExportResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	var (
		results []ExportResult
		errs    []error
	)
	for _, q := range exportQueries {
		res := ExportResult{Table: q.table, Description: q.description}
		filename := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", q.table, timestamp))
		n, err := s.exportTable(ctx, q.query, filename)
		if err != nil {
			res.Err = fmt.Errorf("export %s: %w", q.table, err)
			errs = append(errs, res.Err)
		} else {
			res.Filename = filename
			res.Records = n
		}
		results = append(results, res)
	}

	summary := filepath.Join(dir, fmt.Sprintf("export_summary_%s.txt", timestamp))
	if err := os.WriteFile(summary, []byte(exportSummary(results)), 0o644); err != nil {
		errs = append(errs, fmt.Errorf("write export summary: %w", err))
	}
	return results, errors.Join(errs...)
}

func (s *SQLStore) exportTable(ctx context.Context, query, filename string) (int, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(cols); err != nil {
		return 0, err
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	record := make([]string, len(cols))

	n := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return n, err
		}
		for i, v := range values {
			record[i] = v.String
		}
		if err := w.Write(record); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	w.Flush()
	return n, w.Error()
}

func exportSummary(results []ExportResult) string {
	var b strings.Builder
	total := 0
	for _, r := range results {
		total += r.Records
	}

	b.WriteString("DATABASE EXPORT SUMMARY\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total Records Exported: %d\n\n", total)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "%s: FAILED\n  Error: %v\n", r.Table, r.Err)
			continue
		}
		fmt.Fprintf(&b, "%s: OK\n  Records: %d\n  File: %s\n  %s\n", r.Table, r.Records, filepath.Base(r.Filename), r.Description)
	}
	return b.String()
}
