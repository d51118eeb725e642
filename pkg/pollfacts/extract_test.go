package pollfacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/parser"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/store"
	"github.com/xuri/excelize/v2"
)

// reportRows is a small P1 sheet: one question with a demographic breakdown
// followed by a standalone gender question. Columns are A, C, D, E.
var reportRows = [][]any{
	{"Return to Index"},
	{"", "Total", "Male", "Female"},
	{"Table 1"},
	{"Q2. Do you approve?"},
	{"Base: All respondents (500)"},
	{"Yes", 300, 150, 150},
	{"No", 200, 100, 100},
	{"QD2. Gender"},
	{"Male", 240},
	{"Female", 260},
}

func writeWorkbook(t *testing.T, dir, name, sheetName string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheetName != "Sheet1" {
		_, err := f.NewSheet(sheetName)
		require.NoError(t, err)
	}
	cols := []int{1, 3, 4, 5}
	for r, row := range rows {
		for i, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(cols[i], r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, v))
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func TestExtractFile(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "AA_Jan24.xlsx", "P1", reportRows)
	mem := store.NewMemory()
	ctx := context.Background()

	rep, err := ExtractFile(ctx, path, mem, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "AA_Jan24.xlsx", rep.File)
	assert.Equal(t, "AA-012024", rep.Survey.ID)
	assert.False(t, rep.Result.DefaultMapping)
	assert.Len(t, rep.Result.QuestionIDs, 2)

	qs, err := mem.Questions(ctx, "AA-012024")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "Q2", qs[0].Number)
	assert.Equal(t, "Do you approve?", qs[0].Text)
	assert.Equal(t, "QD2", qs[1].Number)
	assert.True(t, qs[1].IsDemographic)

	opts := mem.Options(qs[0].ID)
	require.Len(t, opts, 2)
	assert.Equal(t, "Yes", opts[0].Text)
	assert.Equal(t, "No", opts[1].Text)

	assert.Len(t, mem.Facts(), 6)
	assert.Len(t, mem.DemographicResponses(), 2)

	demos := mem.Demographics()
	require.Len(t, demos, 1)
	assert.Equal(t, "QD2", demos[0].Code)
	assert.Equal(t, "Gender", demos[0].Description)

	counts, err := mem.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["surveys"])
}

func TestExtractFileErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := ExtractFile(ctx, filepath.Join(dir, "AA_Jan24.xlsx"), store.NewMemory(), DefaultOptions())
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("invalid filename", func(t *testing.T) {
		path := writeWorkbook(t, dir, "report.xlsx", "P1", reportRows)
		_, err := ExtractFile(ctx, path, store.NewMemory(), DefaultOptions())
		assert.ErrorIs(t, err, ErrInvalidFilename)
	})

	t.Run("not a workbook", func(t *testing.T) {
		path := filepath.Join(dir, "AA_Feb24.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

		mem := store.NewMemory()
		_, err := ExtractFile(ctx, path, mem, DefaultOptions())
		assert.ErrorIs(t, err, ErrInvalidFormat)

		var ee *ExtractionError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, ComponentLoad, ee.Component)

		counts, _ := mem.Counts(ctx)
		assert.Zero(t, counts["surveys"])
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := writeWorkbook(t, dir, "AA_Mar24.xlsx", "Sheet1", reportRows)
		_, err := ExtractFile(ctx, path, store.NewMemory(), DefaultOptions())
		assert.ErrorIs(t, err, ErrSheetNotFound)

		var ee *ExtractionError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, "AA_Mar24.xlsx", ee.File)
		assert.Equal(t, "P1", ee.SheetName)
		assert.Equal(t, ComponentLoad, ee.Component)
	})

	t.Run("missing main column", func(t *testing.T) {
		rows := append([][]any{{"Contents"}}, reportRows[1:]...)
		path := writeWorkbook(t, dir, "AA_Apr24.xlsx", "P1", rows)
		mem := store.NewMemory()
		_, err := ExtractFile(ctx, path, mem, DefaultOptions())
		assert.ErrorIs(t, err, parser.ErrMissingMainColumn)

		var ee *ExtractionError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, ComponentParse, ee.Component)

		counts, _ := mem.Counts(ctx)
		assert.Zero(t, counts["surveys"])
	})
}

func TestExtractFileCustomSheet(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "AA_May24.xlsx", "Results", reportRows)
	opts := DefaultOptions()
	opts.SheetName = "Results"

	rep, err := ExtractFile(context.Background(), path, store.NewMemory(), opts)
	require.NoError(t, err)
	assert.Len(t, rep.Result.QuestionIDs, 2)
}

func TestIngestDir(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "AA_Jan24.xlsx", "P1", reportRows)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AA_Feb24.xlsx"), []byte("broken"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))
	writeWorkbook(t, dir, "AA_Jan24-v1_normalized.xlsx", "P1", reportRows)

	ctx := context.Background()
	st, err := store.Open("sqlite", filepath.Join(t.TempDir(), "pollfacts.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.CreateSchema(ctx))

	reports, err := IngestDir(ctx, dir, st, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "AA_Feb24.xlsx", reports[0].File)
	assert.True(t, reports[0].Failed())
	assert.ErrorIs(t, reports[0].Err, ErrInvalidFormat)

	assert.Equal(t, "AA_Jan24.xlsx", reports[1].File)
	require.False(t, reports[1].Failed())
	assert.NotEqual(t, uuid.Nil, reports[1].RunID)

	counts, err := st.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["survey_questions"])
	assert.Equal(t, int64(2), counts["answer_options"])
	assert.Equal(t, int64(6), counts["p1_responses"])
	assert.Equal(t, int64(2), counts["demographic_responses"])
	assert.Equal(t, int64(1), counts["processed_files"])

	reports, err = IngestDir(ctx, dir, st, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.True(t, reports[0].Failed())
	assert.True(t, reports[1].Skipped)

	counts, err = st.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["survey_questions"])
}

func TestIngestFileDryRun(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "AA_Jun24.xlsx", "P1", reportRows)
	ctx := context.Background()
	mem := store.NewMemory()
	opts := DefaultOptions()
	opts.DryRun = true

	rep := IngestFile(ctx, path, mem, opts)
	require.NoError(t, rep.Err)
	assert.False(t, rep.Skipped)

	done, err := mem.IsFileProcessed(ctx, "AA_Jun24.xlsx")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestIngestDirCanceled(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "AA_Jan24.xlsx", "P1", reportRows)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := IngestDir(ctx, dir, store.NewMemory(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)
}

func TestIngestDirMissing(t *testing.T) {
	_, err := IngestDir(context.Background(), filepath.Join(t.TempDir(), "nope"), store.NewMemory(), DefaultOptions())
	assert.Error(t, err)
}
