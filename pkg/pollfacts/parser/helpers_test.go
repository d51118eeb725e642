package parser

import (
	"context"
	"errors"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/sheet"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/store"
)

var errSinkDown = errors.New("sink down")

// recordingSink is a store.Memory whose fact writes can be made to fail.
type recordingSink struct {
	*store.Memory

	failFacts bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{Memory: store.NewMemory()}
}

func (s *recordingSink) InsertFact(ctx context.Context, f models.Fact) error {
	if s.failFacts {
		return errSinkDown
	}
	return s.Memory.InsertFact(ctx, f)
}

// questions returns the test survey's questions ordered by number and part.
func (s *recordingSink) questions() []models.Question {
	qs, _ := s.Questions(context.Background(), "AA-012024")
	return qs
}

func (s *recordingSink) question(number string, part int) (models.Question, bool) {
	for _, q := range s.questions() {
		if q.Number == number && q.Part == part {
			return q, true
		}
	}
	return models.Question{}, false
}

func (s *recordingSink) allOptions() []models.AnswerOption {
	var out []models.AnswerOption
	for _, q := range s.questions() {
		out = append(out, s.Options(q.ID)...)
	}
	return out
}

func (s *recordingSink) factsOf(questionID int64) []models.Fact {
	var out []models.Fact
	for _, f := range s.Facts() {
		if f.QuestionID == questionID {
			out = append(out, f)
		}
	}
	return out
}

func (s *recordingSink) demographic(code string) (models.Demographic, bool) {
	for _, d := range s.Demographics() {
		if d.Code == code {
			return d, true
		}
	}
	return models.Demographic{}, false
}

var testColumns = []string{DefaultMainColumn, "Unnamed: 2", "Unnamed: 3", "Unnamed: 4"}

// buildSheet prepends a demographic header row (Total, Male, Female) to rows,
// so the first given row has index 1.
func buildSheet(rows ...[]string) *sheet.Sheet {
	records := append([][]string{{"", "Total", "Male", "Female"}}, rows...)
	return sheet.FromRecords("P1", testColumns, records)
}

func row(main string, counts ...string) []string {
	return append([]string{main}, counts...)
}

func ptr(v float64) *float64 {
	return &v
}
