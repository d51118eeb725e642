package parser

// SkipReason names why a table or row was dropped.
type SkipReason string

const (
	SkipMissingQuestionRow   SkipReason = "missing_question_row"
	SkipNoQuestionNumber     SkipReason = "no_question_number"
	SkipRepeatedSummaryTable SkipReason = "repeated_summary_table"
	SkipSummaryRow           SkipReason = "summary_row"
	SkipSummaryBullet        SkipReason = "summary_bullet"
	SkipBlankOption          SkipReason = "blank_option"
	SkipInvalidQD            SkipReason = "invalid_qd"
)

// Outcome is the result of a classification or assembly step.
type Outcome struct {
	Accepted bool
	Reason   SkipReason
	Detail   string
}

// Accept returns an accepted Outcome.
func Accept() Outcome {
	return Outcome{Accepted: true}
}

// Skipped returns a skipped Outcome.
func Skipped(reason SkipReason, detail string) Outcome {
	return Outcome{Reason: reason, Detail: detail}
}

// Skip records a dropped table or row.
type Skip struct {
	// Row is the 0-based row index in the sheet.
	Row    int        `json:"row"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}
