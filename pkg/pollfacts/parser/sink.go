package parser

import (
	"context"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
)

// Sink receives the records produced by an extraction.
//
// The engine calls InsertQuestion once per stem or variant it decides to create.
// InsertAnswerOption must return the existing identifier when the option text
// already exists for the question, and InsertDemographic must upsert on code.
type Sink interface {
	InsertQuestion(ctx context.Context, q models.Question) (int64, error)
	InsertAnswerOption(ctx context.Context, questionID int64, text string, order int) (int64, error)
	InsertDemographic(ctx context.Context, code, description string) (int64, error)
	InsertFact(ctx context.Context, f models.Fact) error
	InsertDemographicResponse(ctx context.Context, r models.DemographicResponse) error
}
