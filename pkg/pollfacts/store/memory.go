package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
)

// Memory is an in-process store with the same write semantics as SQLStore.
// It backs dry runs and the inspect command.
type Memory struct {
	mu sync.Mutex

	surveys      map[string]models.Survey
	questions    []models.Question
	options      []models.AnswerOption
	demographics []models.Demographic
	facts        []models.Fact
	responses    []models.DemographicResponse
	processed    map[string]uuid.UUID
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		surveys:   make(map[string]models.Survey),
		processed: make(map[string]uuid.UUID),
	}
}

// InsertSurvey records a survey. An existing id is left unchanged.
func (m *Memory) InsertSurvey(_ context.Context, sv models.Survey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.surveys[sv.ID]; !ok {
		m.surveys[sv.ID] = sv
	}
	return nil
}

// InsertQuestion stores a question and returns its new id.
func (m *Memory) InsertQuestion(_ context.Context, q models.Question) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = int64(len(m.questions) + 1)
	m.questions = append(m.questions, q)
	return q.ID, nil
}

// InsertAnswerOption returns the id of the option with text under questionID,
// creating it with order when absent.
func (m *Memory) InsertAnswerOption(_ context.Context, questionID int64, text string, order int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.options {
		if o.QuestionID == questionID && o.Text == text {
			return o.ID, nil
		}
	}
	o := models.AnswerOption{
		ID:         int64(len(m.options) + 1),
		QuestionID: questionID,
		Text:       text,
		Order:      order,
	}
	m.options = append(m.options, o)
	return o.ID, nil
}

// InsertDemographic upserts a category by code and returns its id.
func (m *Memory) InsertDemographic(_ context.Context, code, description string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.demographics {
		if d.Code == code {
			m.demographics[i].Description = description
			return d.ID, nil
		}
	}
	d := models.Demographic{ID: int64(len(m.demographics) + 1), Code: code, Description: description}
	m.demographics = append(m.demographics, d)
	return d.ID, nil
}

// InsertFact stores a fact row. Non-finite values become nil.
func (m *Memory) InsertFact(_ context.Context, f models.Fact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.Count = models.Clean(f.Count)
	f.Percent = models.Clean(f.Percent)
	m.facts = append(m.facts, f)
	return nil
}

// InsertDemographicResponse stores a demographic response row. Non-finite values become nil.
func (m *Memory) InsertDemographicResponse(_ context.Context, r models.DemographicResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Count = models.Clean(r.Count)
	r.Percent = models.Clean(r.Percent)
	m.responses = append(m.responses, r)
	return nil
}

// IsFileProcessed reports whether filename was marked processed.
func (m *Memory) IsFileProcessed(_ context.Context, filename string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.processed[filename]
	return ok, nil
}

// MarkFileProcessed records filename under runID.
func (m *Memory) MarkFileProcessed(_ context.Context, filename string, runID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[filename] = runID
	return nil
}

// Questions returns the questions of a survey ordered by number and part.
func (m *Memory) Questions(_ context.Context, surveyID string) ([]models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Question
	for _, q := range m.questions {
		if q.SurveyID == surveyID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].Part < out[j].Part
	})
	return out, nil
}

// Options returns the answer options of a question in order.
func (m *Memory) Options(questionID int64) []models.AnswerOption {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AnswerOption
	for _, o := range m.options {
		if o.QuestionID == questionID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Demographics returns the stored categories.
func (m *Memory) Demographics() []models.Demographic {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Demographic(nil), m.demographics...)
}

// Facts returns the stored fact rows in insertion order.
func (m *Memory) Facts() []models.Fact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Fact(nil), m.facts...)
}

// DemographicResponses returns the stored demographic response rows in insertion order.
func (m *Memory) DemographicResponses() []models.DemographicResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.DemographicResponse(nil), m.responses...)
}

// Counts returns the number of records per table.
func (m *Memory) Counts(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int64{
		"surveys":               int64(len(m.surveys)),
		"survey_questions":      int64(len(m.questions)),
		"answer_options":        int64(len(m.options)),
		"demographics":          int64(len(m.demographics)),
		"demographic_responses": int64(len(m.responses)),
		"p1_responses":          int64(len(m.facts)),
		"processed_files":       int64(len(m.processed)),
	}, nil
}
