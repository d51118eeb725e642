package store

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "db", "pollfacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.CreateSchema(context.Background()))
	return s
}

func seedSurvey(t *testing.T, s *SQLStore) models.Survey {
	t.Helper()
	sv := models.Survey{ID: "AA-012024", Month: 1, Year: 2024, Filename: "AA_Jan24.xlsx"}
	require.NoError(t, s.InsertSurvey(context.Background(), sv))
	return sv
}

func f64(v float64) *float64 {
	return &v
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		name string
		want Dialect
		ok   bool
	}{
		{"", DialectSQLite, true},
		{"sqlite3", DialectSQLite, true},
		{"Postgres", DialectPostgres, true},
		{"pg", DialectPostgres, true},
		{"mysql", "", false},
	}

	for _, tt := range tests {
		got, err := ParseDialect(tt.name)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseDialect(%q) = %q, %v, expected %q (ok=%v)", tt.name, got, err, tt.want, tt.ok)
		}
	}

	_, err := Open("mysql", "x")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestRebind(t *testing.T) {
	pg := New(nil, DialectPostgres)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := New(nil, DialectSQLite)
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestCreateSchemaIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.CreateSchema(context.Background()))

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Len(t, counts, len(Tables))
	for _, table := range Tables {
		assert.Zero(t, counts[table], table)
	}
}

func TestInsertSurveyIgnoresDuplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSurvey(t, s)
	require.NoError(t, s.InsertSurvey(ctx, models.Survey{ID: "AA-012024", Month: 2, Year: 2030, Filename: "other.xlsx"}))

	var month int
	require.NoError(t, s.DB().QueryRow(`SELECT month FROM surveys WHERE survey_id = 'AA-012024'`).Scan(&month))
	assert.Equal(t, 1, month)
}

func TestQuestionsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sv := seedSurvey(t, s)

	base := "Base: All adults"
	variantID, err := s.InsertQuestion(ctx, models.Question{SurveyID: sv.ID, Number: "Q2", Part: 2, Text: "By region", BaseDescription: &base})
	require.NoError(t, err)
	stemID, err := s.InsertQuestion(ctx, models.Question{SurveyID: sv.ID, Number: "Q2", Part: 1, Text: "Do you approve?"})
	require.NoError(t, err)
	qdID, err := s.InsertQuestion(ctx, models.Question{SurveyID: sv.ID, Number: "QD1", Part: 1, Text: "Age", IsDemographic: true})
	require.NoError(t, err)
	assert.NotEqual(t, stemID, variantID)

	qs, err := s.Questions(ctx, sv.ID)
	require.NoError(t, err)
	require.Len(t, qs, 3)

	assert.Equal(t, stemID, qs[0].ID)
	assert.Nil(t, qs[0].BaseDescription)
	assert.Equal(t, variantID, qs[1].ID)
	require.NotNil(t, qs[1].BaseDescription)
	assert.Equal(t, base, *qs[1].BaseDescription)
	assert.Equal(t, qdID, qs[2].ID)
	assert.True(t, qs[2].IsDemographic)

	none, err := s.Questions(ctx, "AA-999999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsertAnswerOptionReusesText(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sv := seedSurvey(t, s)
	qid, err := s.InsertQuestion(ctx, models.Question{SurveyID: sv.ID, Number: "Q1", Part: 1, Text: "Q"})
	require.NoError(t, err)

	yes, err := s.InsertAnswerOption(ctx, qid, "Yes", 1)
	require.NoError(t, err)
	again, err := s.InsertAnswerOption(ctx, qid, "Yes", 5)
	require.NoError(t, err)
	no, err := s.InsertAnswerOption(ctx, qid, "No", 2)
	require.NoError(t, err)

	assert.Equal(t, yes, again)
	assert.NotEqual(t, yes, no)

	var order int
	require.NoError(t, s.DB().QueryRow(`SELECT option_order FROM answer_options WHERE option_id = ?`, yes).Scan(&order))
	assert.Equal(t, 1, order)
}

func TestInsertDemographicUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.InsertDemographic(ctx, "QD2", "QD2")
	require.NoError(t, err)
	again, err := s.InsertDemographic(ctx, "QD2", "Gender")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	var desc string
	require.NoError(t, s.DB().QueryRow(`SELECT demo_description FROM demographics WHERE demo_id = ?`, id).Scan(&desc))
	assert.Equal(t, "Gender", desc)
}

func TestInsertFactsNormalizeNonFinite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sv := seedSurvey(t, s)
	qid, err := s.InsertQuestion(ctx, models.Question{SurveyID: sv.ID, Number: "Q1", Part: 1, Text: "Q"})
	require.NoError(t, err)
	oid, err := s.InsertAnswerOption(ctx, qid, "Yes", 1)
	require.NoError(t, err)
	did, err := s.InsertDemographic(ctx, "QD2", "Gender")
	require.NoError(t, err)

	require.NoError(t, s.InsertFact(ctx, models.Fact{QuestionID: qid, SurveyID: sv.ID, OptionID: oid, ItemLabel: "Total", Count: f64(120)}))
	require.NoError(t, s.InsertFact(ctx, models.Fact{QuestionID: qid, SurveyID: sv.ID, OptionID: oid, DemoID: &did, ItemLabel: "Male", Count: f64(math.NaN()), Percent: f64(math.Inf(1))}))
	require.NoError(t, s.InsertDemographicResponse(ctx, models.DemographicResponse{QuestionID: qid, SurveyID: sv.ID, DemoID: did, ItemLabel: "Male", Count: f64(math.Inf(-1))}))

	var (
		demo  *int64
		count *float64
	)
	require.NoError(t, s.DB().QueryRow(`SELECT demo_id, cnt FROM p1_responses WHERE item_label = 'Total'`).Scan(&demo, &count))
	assert.Nil(t, demo)
	require.NotNil(t, count)
	assert.Equal(t, 120.0, *count)

	var pct *float64
	require.NoError(t, s.DB().QueryRow(`SELECT demo_id, cnt, pct FROM p1_responses WHERE item_label = 'Male'`).Scan(&demo, &count, &pct))
	require.NotNil(t, demo)
	assert.Equal(t, did, *demo)
	assert.Nil(t, count)
	assert.Nil(t, pct)

	require.NoError(t, s.DB().QueryRow(`SELECT count FROM demographic_responses`).Scan(&count))
	assert.Nil(t, count)
}

func TestProcessedFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	done, err := s.IsFileProcessed(ctx, "AA_Jan24.xlsx")
	require.NoError(t, err)
	assert.False(t, done)

	run := uuid.New()
	require.NoError(t, s.MarkFileProcessed(ctx, "AA_Jan24.xlsx", run))
	require.NoError(t, s.MarkFileProcessed(ctx, "AA_Jan24.xlsx", uuid.New()))

	done, err = s.IsFileProcessed(ctx, "AA_Jan24.xlsx")
	require.NoError(t, err)
	assert.True(t, done)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["processed_files"])
}

func TestExportCSV(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sv := seedSurvey(t, s)
	qid, err := s.InsertQuestion(ctx, models.Question{SurveyID: sv.ID, Number: "Q1", Part: 1, Text: "Do you drive?"})
	require.NoError(t, err)
	oid, err := s.InsertAnswerOption(ctx, qid, "Yes", 1)
	require.NoError(t, err)
	require.NoError(t, s.InsertFact(ctx, models.Fact{QuestionID: qid, SurveyID: sv.ID, OptionID: oid, ItemLabel: "Total", Count: f64(300)}))

	dir := filepath.Join(t.TempDir(), "export")
	results, err := s.ExportCSV(ctx, dir, "20240101_120000")
	require.NoError(t, err)
	require.Len(t, results, 6)

	byTable := map[string]ExportResult{}
	for _, r := range results {
		byTable[r.Table] = r
	}
	assert.Equal(t, 1, byTable["surveys"].Records)
	assert.Equal(t, 1, byTable["p1_responses"].Records)
	assert.Equal(t, 0, byTable["demographics"].Records)

	f, err := os.Open(filepath.Join(dir, "p1_responses_20240101_120000.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"id", "question_id", "survey_id", "option_id", "demo_id", "item_label", "cnt", "pct"}, records[0])
	assert.Equal(t, "AA-012024", records[1][2])
	assert.Equal(t, "", records[1][4])
	assert.Equal(t, "Total", records[1][5])
	assert.Equal(t, "300", records[1][6])

	assert.FileExists(t, filepath.Join(dir, "export_summary_20240101_120000.txt"))
}
