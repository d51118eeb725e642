package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/sheet"
	"go.uber.org/zap"
)

// Result summarises one sheet extraction.
type Result struct {
	// QuestionIDs lists every stem and variant created, in creation order.
	QuestionIDs []int64 `json:"question_ids"`
	// Skips lists the tables and rows that were dropped.
	Skips []Skip `json:"skips,omitempty"`
	// Mapping is the demographic column mapping used.
	Mapping ColumnMapping `json:"mapping"`
	// DefaultMapping is true when header detection failed.
	DefaultMapping bool `json:"default_mapping"`
}

// extraction is the state of one ProcessSheet call.
type extraction struct {
	sheet     *sheet.Sheet
	main      string
	surveyID  string
	sink      Sink
	log       *zap.Logger
	tracker   *VariantTracker
	questions *QuestionAssembler
	responses *ResponseProcessor
	result    *Result
}

// ProcessSheet walks the rows of s once, front to back, and writes the
// questions, options, demographics and facts it recognises to sink.
//
// Malformed content is skipped and reported in Result.Skips. An error is
// returned only when s lacks the main column or sink fails.
func ProcessSheet(ctx context.Context, s *sheet.Sheet, surveyID string, sink Sink, cfg Config) (*Result, error) {
	cfg.Windows = cfg.Windows.withDefaults()
	log := cfg.logger().With(zap.String("survey", surveyID), zap.String("sheet", s.Name()))
	cfg.Logger = log

	result := &Result{}
	if s.Len() == 0 {
		return result, nil
	}
	main := cfg.mainColumn()
	if !s.HasColumn(main) {
		return nil, fmt.Errorf("%w: %q (columns: %v)", ErrMissingMainColumn, main, s.Columns())
	}
	log.Debug("sheet columns", zap.Strings("columns", s.Columns()))

	mapping, ok := DetectColumnMapping(s, cfg.Windows.HeaderScanRows)
	if ok {
		log.Info("detected demographic column mapping", zap.Int("columns", len(mapping)))
	} else {
		log.Warn("could not detect demographic header row, falling back to defaults")
		mapping = DefaultColumnMapping()
		result.DefaultMapping = true
	}
	result.Mapping = mapping

	tracker := NewVariantTracker()
	x := &extraction{
		sheet:     s,
		main:      main,
		surveyID:  surveyID,
		sink:      sink,
		log:       log,
		tracker:   tracker,
		questions: NewQuestionAssembler(s, surveyID, tracker, sink, cfg),
		responses: NewResponseProcessor(s, surveyID, mapping, tracker, sink, cfg),
		result:    result,
	}
	if err := x.run(ctx); err != nil {
		return nil, err
	}
	result.Skips = append(result.Skips, x.responses.Skips()...)
	return result, nil
}

func (x *extraction) run(ctx context.Context) error {
	cursor := 0
	for cursor < x.sheet.Len() {
		text, present := x.sheet.Text(cursor, x.main)
		role := Classify(text, present)
		x.logRole(cursor, role, text)

		var (
			next int
			err  error
		)
		switch {
		case role == RoleTableHeader:
			next, err = x.table(ctx, cursor, text)
		case strings.HasPrefix(text, "QD"):
			next, err = x.standaloneQD(ctx, cursor, text)
		default:
			next = cursor + 1
		}
		if err != nil {
			return err
		}
		cursor = next
	}
	return nil
}

func (x *extraction) logRole(row int, role Role, text string) {
	switch role {
	case RoleTableHeader, RoleQuestionHeader, RoleBaseLine:
		x.log.Debug("found "+role.String()+" row", zap.Int("row", row), zap.String("text", text))
	}
}

// table processes the block whose table marker is at row and returns the row
// to resume from.
func (x *extraction) table(ctx context.Context, row int, header string) (int, error) {
	block, out, err := x.questions.Assemble(ctx, row, header)
	if err != nil {
		return row, err
	}
	if !out.Accepted {
		if out.Reason == SkipNoQuestionNumber {
			x.log.Warn("could not identify question number",
				zap.String("table", header), zap.String("text", out.Detail))
		}
		x.result.Skips = append(x.result.Skips, Skip{Row: row, Reason: out.Reason, Detail: out.Detail})
		return row + 1, nil
	}
	if block.Created {
		x.result.QuestionIDs = append(x.result.QuestionIDs, block.QuestionID)
	}

	if block.Demographic {
		demoID, err := x.responses.RegisterDemographic(ctx, block.Number, block.Display)
		if err != nil {
			return row, err
		}
		return x.responses.ProcessDemographic(ctx, row+1, block.QuestionID, demoID)
	}

	before := len(x.responses.Created())
	next, err := x.responses.ProcessOptions(ctx, row+2, block)
	x.result.QuestionIDs = append(x.result.QuestionIDs, x.responses.Created()[before:]...)
	return next, err
}

// standaloneQD processes a QD question found outside a table block.
func (x *extraction) standaloneQD(ctx context.Context, row int, text string) (int, error) {
	clean := strings.TrimSpace(text)
	m := qdLeadRe.FindStringSubmatch(clean)
	if m == nil {
		x.result.Skips = append(x.result.Skips, Skip{Row: row, Reason: SkipInvalidQD, Detail: truncate(clean, 100)})
		return row + 1, nil
	}
	number := "QD" + m[1]
	display := displayText(clean)

	questionID, ok := x.tracker.StemID(number)
	if !ok {
		id, err := x.sink.InsertQuestion(ctx, models.Question{
			SurveyID:      x.surveyID,
			Number:        number,
			Part:          1,
			Text:          display,
			IsDemographic: true,
		})
		if err != nil {
			return row, fmt.Errorf("insert standalone %s: %w", number, err)
		}
		x.tracker.RegisterStem(number, id)
		x.result.QuestionIDs = append(x.result.QuestionIDs, id)
		x.log.Info("created standalone demographic question", zap.String("question", number))
		questionID = id
	}

	demoID, err := x.responses.RegisterDemographic(ctx, number, display)
	if err != nil {
		return row, err
	}
	return x.responses.ProcessDemographic(ctx, row+1, questionID, demoID)
}
