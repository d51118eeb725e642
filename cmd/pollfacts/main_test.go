package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zapcore"
)

var sampleRows = [][]any{
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

func writeSample(t *testing.T, dir, name string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("P1")
	require.NoError(t, err)

	cols := []int{1, 3, 4, 5}
	for r, row := range sampleRows {
		for i, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(cols[i], r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("P1", cell, v))
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInspect(t *testing.T) {
	path := writeSample(t, t.TempDir(), "AA_Jan24.xlsx")

	in, err := inspect(context.Background(), path, pollfacts.DefaultOptions(), false)
	require.NoError(t, err)

	assert.Equal(t, "AA-012024", in.Survey.ID)
	assert.Equal(t, "P1", in.Sheet)
	require.Len(t, in.Rows, 4)
	assert.Equal(t, parser.RoleTableHeader, in.Rows[0].Role)
	assert.Equal(t, 3, in.Rows[0].R)
	assert.Equal(t, parser.RoleQuestionHeader, in.Rows[1].Role)
	assert.Equal(t, parser.RoleBaseLine, in.Rows[2].Role)

	require.Len(t, in.Questions, 2)
	assert.Len(t, in.Questions[0].Options, 2)
	assert.Equal(t, 6, in.Questions[0].Facts)
	assert.Equal(t, 2, in.Questions[1].Responses)

	withData, err := inspect(context.Background(), path, pollfacts.DefaultOptions(), true)
	require.NoError(t, err)
	assert.Len(t, withData.Rows, 8)
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, "AA_Jan24.xlsx")
	outFile := filepath.Join(dir, "out.json")

	_, err := execute(t, "inspect", path, "--pretty", "-o", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "AA_Jan24.xlsx", doc["file"])
	rows := doc["rows"].([]any)
	assert.Equal(t, "table", rows[0].(map[string]any)["role"])

	_, err = execute(t, "inspect", filepath.Join(dir, "missing.xlsx"))
	assert.Error(t, err)
}

func TestIngestAndExportCommands(t *testing.T) {
	in := t.TempDir()
	writeSample(t, in, "AA_Jan24.xlsx")
	db := filepath.Join(t.TempDir(), "pollfacts.db")

	out, err := execute(t, "ingest", in, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "OK      AA_Jan24.xlsx survey=AA-012024 questions=2")
	assert.Contains(t, out, "1 ingested, 0 skipped, 0 failed")

	out, err = execute(t, "ingest", in, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "0 ingested, 1 skipped, 0 failed")

	exportTo := filepath.Join(t.TempDir(), "export")
	out, err = execute(t, "export", "--db", db, "--out", exportTo)
	require.NoError(t, err)
	assert.Contains(t, out, "p1_responses")

	matches, err := filepath.Glob(filepath.Join(exportTo, "*.csv"))
	require.NoError(t, err)
	assert.Len(t, matches, 6)
}

func TestIngestDryRun(t *testing.T) {
	in := t.TempDir()
	writeSample(t, in, "AA_Jan24.xlsx")
	require.NoError(t, os.WriteFile(filepath.Join(in, "AA_Feb24.xlsx"), []byte("broken"), 0o644))
	db := filepath.Join(t.TempDir(), "pollfacts.db")

	out, err := execute(t, "ingest", in, "--db", db, "--dry-run")
	assert.Error(t, err)
	assert.Contains(t, out, "FAILED  AA_Feb24.xlsx")
	assert.Contains(t, out, "1 ingested, 0 skipped, 1 failed")
	assert.NoFileExists(t, db)
}

func TestConfigOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pollfacts.yaml")
	db := filepath.Join(dir, "from-config.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  dsn: "+db+"\ninput_dir: "+dir+"\n"), 0o644))
	writeSample(t, dir, "AA_Mar24.xlsx")

	out, err := execute(t, "--config", cfgPath, "ingest")
	require.NoError(t, err)
	assert.Contains(t, out, "1 ingested")
	assert.FileExists(t, db)
}

func TestConfigVerbose(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, "AA_Apr24.xlsx")

	_, err := execute(t, "inspect", path, "-o", filepath.Join(dir, "quiet.json"))
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	cfgPath := filepath.Join(dir, "pollfacts.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("verbose: true\n"), 0o644))
	_, err = execute(t, "--config", cfgPath, "inspect", path, "-o", filepath.Join(dir, "loud.json"))
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
