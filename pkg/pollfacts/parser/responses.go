package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/sheet"
	"go.uber.org/zap"
)

const (
	overallOption = "(overall)"
	blankLabel    = "(blank)"
)

// ResponseProcessor consumes the data rows of a block and emits answer
// options, facts and demographic responses.
type ResponseProcessor struct {
	sheet    *sheet.Sheet
	main     string
	mapping  ColumnMapping
	probe    []string
	tracker  *VariantTracker
	sink     Sink
	surveyID string
	log      *zap.Logger

	// demoIDs caches category ids resolved for fact rows.
	demoIDs map[string]int64
	created []int64
	skips   []Skip
}

// NewResponseProcessor creates a processor for one sheet extraction.
func NewResponseProcessor(s *sheet.Sheet, surveyID string, mapping ColumnMapping, tracker *VariantTracker, sink Sink, cfg Config) *ResponseProcessor {
	return &ResponseProcessor{
		sheet:    s,
		main:     cfg.mainColumn(),
		mapping:  mapping,
		probe:    mapping.Sources(),
		tracker:  tracker,
		sink:     sink,
		surveyID: surveyID,
		log:      cfg.logger(),
		demoIDs:  make(map[string]int64),
	}
}

// Created returns the variant questions created from bullet rows.
func (p *ResponseProcessor) Created() []int64 {
	return p.created
}

// Skips returns the rows dropped so far.
func (p *ResponseProcessor) Skips() []Skip {
	return p.skips
}

func (p *ResponseProcessor) skip(row int, reason SkipReason, detail string) {
	p.skips = append(p.skips, Skip{Row: row, Reason: reason, Detail: detail})
}

// HasNumeric reports whether any mapped demographic column of row i is numeric.
func (p *ResponseProcessor) HasNumeric(i int) bool {
	for _, col := range p.probe {
		if _, ok := p.sheet.Number(i, col); ok {
			return true
		}
	}
	return false
}

// ProcessOptions scans from start for the answer options of block and
// returns the row at which the block ended.
//
// The scan stops at the first table or question row once the active question
// has at least one option. Bullet rows ("- label") switch the active question
// to a variant, creating it on first sighting and reusing it afterwards.
func (p *ResponseProcessor) ProcessOptions(ctx context.Context, start int, block Block) (int, error) {
	active := block.QuestionID
	emitted := 0

	n := p.sheet.Len()
	for i := start; i < n; i++ {
		raw, _ := p.sheet.Text(i, p.main)
		if IsBlockBoundary(raw) && emitted > 0 {
			return i, nil
		}

		text := strings.TrimSpace(raw)
		if IsSummaryMarker(text) {
			p.skip(i, SkipSummaryRow, "")
			continue
		}

		isBullet := strings.HasPrefix(text, "-")
		if isBullet {
			label := bulletLabel(text)
			if IsSummaryBullet(label) {
				p.skip(i, SkipSummaryBullet, label)
				continue
			}

			id, isNew, err := p.bulletVariant(ctx, block, label)
			if err != nil {
				return i, err
			}
			active = id
			if isNew {
				emitted = 0
			}
		}

		if !p.HasNumeric(i) {
			continue
		}

		optionText := text
		if isBullet {
			// The bullet line's own counts are the variant's aggregate.
			optionText = overallOption
		} else if isBlankLabel(text) {
			p.skip(i, SkipBlankOption, "")
			continue
		}

		if err := p.emitOption(ctx, i, active, optionText); err != nil {
			return i, err
		}
		emitted++
	}
	return n, nil
}

// bulletVariant resolves the variant question for a bullet label.
func (p *ResponseProcessor) bulletVariant(ctx context.Context, block Block, label string) (int64, bool, error) {
	if id, ok := p.tracker.VariantID(block.Number, label); ok {
		return id, false, nil
	}

	part := p.tracker.NextPartNumber(block.Number)
	id, err := p.sink.InsertQuestion(ctx, models.Question{
		SurveyID:        p.surveyID,
		Number:          block.Number,
		Part:            part,
		Text:            label,
		BaseDescription: block.Base,
	})
	if err != nil {
		return 0, false, fmt.Errorf("insert bullet variant %s part %d: %w", block.Number, part, err)
	}
	p.tracker.RegisterVariant(block.Number, label, id)
	p.created = append(p.created, id)
	p.log.Info("created bullet variant",
		zap.String("question", block.Number), zap.Int("part", part), zap.String("label", label))
	return id, true, nil
}

// emitOption stores one option row and a fact per populated demographic column.
func (p *ResponseProcessor) emitOption(ctx context.Context, row int, questionID int64, text string) error {
	optionID, ok := p.tracker.OptionID(questionID, text)
	if !ok {
		order := p.tracker.NextOptionOrder(questionID)
		id, err := p.sink.InsertAnswerOption(ctx, questionID, text, order)
		if err != nil {
			return fmt.Errorf("insert answer option %q: %w", text, err)
		}
		p.tracker.RegisterOption(questionID, text, id)
		optionID = id
	}

	for _, col := range p.mapping {
		v, ok := p.sheet.Number(row, col.Source)
		if !ok {
			continue
		}

		var demoID *int64
		if code := DemographicCode(col.Label); code != "" {
			id, err := p.categoryID(ctx, code)
			if err != nil {
				return err
			}
			demoID = &id
		}

		err := p.sink.InsertFact(ctx, models.Fact{
			QuestionID: questionID,
			SurveyID:   p.surveyID,
			OptionID:   optionID,
			DemoID:     demoID,
			ItemLabel:  col.Label,
			Count:      models.Finite(v),
		})
		if err != nil {
			return fmt.Errorf("insert fact for %q/%s: %w", text, col.Label, err)
		}
	}
	return nil
}

// categoryID resolves a fact-row category code, creating it on first use.
func (p *ResponseProcessor) categoryID(ctx context.Context, code string) (int64, error) {
	if id, ok := p.demoIDs[code]; ok {
		return id, nil
	}
	return p.RegisterDemographic(ctx, code, code)
}

// RegisterDemographic upserts a demographic category and caches its id.
func (p *ResponseProcessor) RegisterDemographic(ctx context.Context, code, description string) (int64, error) {
	id, err := p.sink.InsertDemographic(ctx, code, description)
	if err != nil {
		return 0, fmt.Errorf("insert demographic %s: %w", code, err)
	}
	p.demoIDs[code] = id
	return id, nil
}

// ProcessDemographic scans from start for the rows of a QD question and emits
// one demographic response per row and populated column. The row at start is
// never treated as a boundary. It returns the row at which the block ended.
func (p *ResponseProcessor) ProcessDemographic(ctx context.Context, start int, questionID, demoID int64) (int, error) {
	n := p.sheet.Len()
	for i := start; i < n; i++ {
		raw, _ := p.sheet.Text(i, p.main)
		if i != start && IsBlockBoundary(raw) {
			return i, nil
		}
		if !p.HasNumeric(i) {
			continue
		}

		label := strings.TrimSpace(raw)
		if label == "" {
			label = blankLabel
		}

		for _, col := range p.mapping {
			v, ok := p.sheet.Number(i, col.Source)
			if !ok {
				continue
			}
			err := p.sink.InsertDemographicResponse(ctx, models.DemographicResponse{
				QuestionID: questionID,
				SurveyID:   p.surveyID,
				DemoID:     demoID,
				ItemLabel:  label,
				Count:      models.Finite(v),
			})
			if err != nil {
				return i, fmt.Errorf("insert demographic response %q/%s: %w", label, col.Label, err)
			}
		}
	}
	return n, nil
}
