package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/sheet"
	"go.uber.org/zap"
)

// Header is a question header read from the row after a table marker.
type Header struct {
	QuestionNumber
	// Text is the full question text, including a recovered prefix.
	Text string
	// Display is Text without its identifying prefix.
	Display string
	// Recovered is true when the prefix came from an earlier row.
	Recovered bool
}

// Block is the question a table block populates.
type Block struct {
	Header
	// QuestionID is the stem or variant the block's rows belong to.
	QuestionID int64
	// Part is the part number of QuestionID.
	Part int
	// Base is the block's "Base:" description.
	Base *string
	// Created is true when QuestionID was inserted for this block.
	Created bool
}

// QuestionAssembler turns table headers into stem or variant questions.
type QuestionAssembler struct {
	sheet    *sheet.Sheet
	main     string
	windows  Windows
	tracker  *VariantTracker
	sink     Sink
	surveyID string
	log      *zap.Logger
}

// NewQuestionAssembler creates an assembler for one sheet extraction.
func NewQuestionAssembler(s *sheet.Sheet, surveyID string, tracker *VariantTracker, sink Sink, cfg Config) *QuestionAssembler {
	return &QuestionAssembler{
		sheet:    s,
		main:     cfg.mainColumn(),
		windows:  cfg.Windows.withDefaults(),
		tracker:  tracker,
		sink:     sink,
		surveyID: surveyID,
		log:      cfg.logger(),
	}
}

func (a *QuestionAssembler) text(i int) (string, bool) {
	return a.sheet.Text(i, a.main)
}

// ReadHeader reads the question header following the table marker at tableRow.
// When the question row has no identifying prefix, the nearest short row
// within the lookback window that has one is prepended.
func (a *QuestionAssembler) ReadHeader(tableRow int) (Header, Outcome) {
	questionRow := tableRow + 1
	raw, ok := a.text(questionRow)
	if !ok {
		return Header{}, Skipped(SkipMissingQuestionRow, "")
	}

	h := Header{Text: strings.TrimSpace(raw)}
	if !hasQuestionPrefix(h.Text) {
		if prefix, ok := a.recoverPrefix(questionRow); ok {
			h.Text = prefix + " " + h.Text
			h.Recovered = true
		}
	}

	n, ok := ParseQuestionNumber(h.Text)
	if !ok {
		return Header{}, Skipped(SkipNoQuestionNumber, truncate(h.Text, 100))
	}
	h.QuestionNumber = n
	h.Display = displayText(h.Text)
	return h, Accept()
}

func (a *QuestionAssembler) recoverPrefix(questionRow int) (string, bool) {
	stop := questionRow - a.windows.PrefixLookback
	for i := questionRow - 1; i >= 0 && i >= stop; i-- {
		v, ok := a.text(i)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if len(v) < a.windows.PrefixMaxLen && hasQuestionPrefix(v) {
			return v, true
		}
	}
	return "", false
}

// BaseDescription returns the first "Base:" row within the base window after
// the question row, or nil.
func (a *QuestionAssembler) BaseDescription(tableRow int) *string {
	first := tableRow + 2
	last := tableRow + 1 + a.windows.BaseLookahead
	for i := first; i <= last && i < a.sheet.Len(); i++ {
		if v, ok := a.text(i); ok && strings.HasPrefix(v, "Base:") {
			return &v
		}
	}
	return nil
}

// HasSummaryAfter reports whether a summary marker follows the question row
// within the summary window.
func (a *QuestionAssembler) HasSummaryAfter(tableRow int) bool {
	first := tableRow + 2
	last := tableRow + 1 + a.windows.SummaryLookahead
	for i := first; i <= last && i < a.sheet.Len(); i++ {
		if v, ok := a.text(i); ok && isSummaryRow(v) {
			return true
		}
	}
	return false
}

// VariantText finds descriptive text for a table-level variant: the first
// meaningful row after the question row that is not a base, table or summary
// line. It falls back to "Variant <table number>".
func (a *QuestionAssembler) VariantText(tableRow int, tableHeader string) string {
	first := tableRow + 2
	last := tableRow + 1 + a.windows.VariantTextLookahead
	for i := first; i <= last && i < a.sheet.Len(); i++ {
		v, ok := a.text(i)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" || strings.HasPrefix(v, "Base:") || strings.HasPrefix(v, "Table") || IsSummaryMarker(v) {
			continue
		}
		if len(v) >= a.windows.VariantTextMinLen {
			return v
		}
	}

	suffix := "Unknown"
	if fields := strings.Fields(tableHeader); len(fields) > 0 {
		suffix = fields[len(fields)-1]
	}
	return "Variant " + suffix
}

// Assemble resolves the question for the table block at tableRow: a new stem,
// a new table-level variant, or the existing stem.
func (a *QuestionAssembler) Assemble(ctx context.Context, tableRow int, tableHeader string) (Block, Outcome, error) {
	h, out := a.ReadHeader(tableRow)
	if !out.Accepted {
		return Block{}, out, nil
	}
	if h.Recovered {
		a.log.Debug("recovered question prefix", zap.Int("row", tableRow+1), zap.String("text", h.Text))
	}

	block := Block{Header: h, Base: a.BaseDescription(tableRow)}

	if h.Demographic {
		return a.assembleStem(ctx, block)
	}

	hasSummary := isSummaryText(h.Text)
	if hasSummary {
		a.log.Info("found summary table, marking for variant mode", zap.String("question", h.Number))
	} else if a.HasSummaryAfter(tableRow) {
		hasSummary = true
		a.log.Info("found summary row, marking for variant mode", zap.String("question", h.Number))
	}
	if hasSummary {
		a.tracker.MarkSummary(h.Number)
	}

	// A later summary table for a number already in variant mode repeats the
	// stem's breakdown and is dropped, whether marked in its text or below it.
	if a.tracker.ShouldSkipSummaryTable(h.Number, hasSummary) {
		a.log.Info("skipping repeated summary table", zap.String("question", h.Number))
		return Block{}, Skipped(SkipRepeatedSummaryTable, h.Number), nil
	}

	if a.tracker.ShouldProcessAsStem(h.Number) || !a.tracker.IsVariantMode(h.Number) {
		return a.assembleStem(ctx, block)
	}

	part := a.tracker.NextPartNumber(h.Number)
	text := a.VariantText(tableRow, tableHeader)
	id, err := a.sink.InsertQuestion(ctx, models.Question{
		SurveyID:        a.surveyID,
		Number:          h.Number,
		Part:            part,
		Text:            text,
		IsDemographic:   h.Demographic,
		BaseDescription: block.Base,
	})
	if err != nil {
		return Block{}, Outcome{}, fmt.Errorf("insert variant %s part %d: %w", h.Number, part, err)
	}
	a.log.Info("created variant question",
		zap.String("question", h.Number), zap.Int("part", part), zap.String("text", text))

	block.QuestionID = id
	block.Part = part
	block.Created = true
	return block, Accept(), nil
}

// assembleStem creates the stem for a new number or reuses the existing one.
func (a *QuestionAssembler) assembleStem(ctx context.Context, block Block) (Block, Outcome, error) {
	if id, ok := a.tracker.StemID(block.Number); ok {
		block.QuestionID = id
		block.Part = 1
		return block, Accept(), nil
	}

	id, err := a.sink.InsertQuestion(ctx, models.Question{
		SurveyID:        a.surveyID,
		Number:          block.Number,
		Part:            1,
		Text:            block.Display,
		IsDemographic:   block.Demographic,
		BaseDescription: block.Base,
	})
	if err != nil {
		return Block{}, Outcome{}, fmt.Errorf("insert stem %s: %w", block.Number, err)
	}
	a.tracker.RegisterStem(block.Number, id)
	a.log.Info("created stem question", zap.String("question", block.Number))

	block.QuestionID = id
	block.Part = 1
	block.Created = true
	return block, Accept(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
