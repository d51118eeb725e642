package parser

import (
	"regexp"
	"strings"
)

// Role is the structural role of a row, derived from its main-column text.
type Role int

const (
	RoleDataCandidate Role = iota
	RoleTableHeader
	RoleQuestionHeader
	RoleBaseLine
	RoleBulletVariant
	RoleSummaryMarker
	RoleBlockBoundary
)

var roleNames = map[Role]string{
	RoleDataCandidate:  "data",
	RoleTableHeader:    "table",
	RoleQuestionHeader: "question",
	RoleBaseLine:       "base",
	RoleBulletVariant:  "bullet",
	RoleSummaryMarker:  "summary",
	RoleBlockBoundary:  "boundary",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "unknown"
}

// MarshalText lets roles appear by name in JSON output.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

var (
	// questionHeaderRe matches "Q2. ", "Q3a. ", "QD1? " at the start of a row.
	questionHeaderRe = regexp.MustCompile(`^QD?\d+[A-Za-z]?[.?]\s`)
	// questionPrefixRe matches a bare question identifier at the start of a text.
	questionPrefixRe = regexp.MustCompile(`^Q\.?D?\d+[A-Za-z]?\b`)
	// displayPrefixRe is the identifier plus trailing punctuation stripped for display.
	displayPrefixRe = regexp.MustCompile(`^Q\.?D?\d+[A-Za-z]?[.:)?]?\s*`)

	qNumberRe  = regexp.MustCompile(`\bQ\.?(\d+)([A-Za-z])?\.?\s`)
	qdNumberRe = regexp.MustCompile(`\bQ\.?D(\d+)\.?\s`)
	qdLeadRe   = regexp.MustCompile(`^QD(\d+)`)
)

// Classify maps a main-column value to its structural role.
// Ties resolve in the order TableHeader, QuestionHeader, BaseLine,
// BulletVariant, SummaryMarker, BlockBoundary.
func Classify(text string, present bool) Role {
	if !present {
		return RoleDataCandidate
	}
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.Contains(text, "Table"):
		return RoleTableHeader
	case questionHeaderRe.MatchString(text + " "):
		return RoleQuestionHeader
	case strings.HasPrefix(text, "Base:"):
		return RoleBaseLine
	case strings.HasPrefix(trimmed, "-"):
		return RoleBulletVariant
	case IsSummaryMarker(trimmed):
		return RoleSummaryMarker
	case IsBlockBoundary(text):
		return RoleBlockBoundary
	}
	return RoleDataCandidate
}

// IsBlockBoundary reports whether text starts a new table or question block.
func IsBlockBoundary(text string) bool {
	return strings.HasPrefix(text, "Table") || strings.HasPrefix(text, "Q")
}

// IsSummaryMarker reports whether text is a bare "Summary" row.
func IsSummaryMarker(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "summary")
}

// IsSummaryBullet reports whether a dash-stripped bullet label is a summary sub-heading.
func IsSummaryBullet(label string) bool {
	return strings.HasPrefix(strings.ToLower(label), "summary")
}

// isSummaryText reports whether a question text marks a summary table.
func isSummaryText(text string) bool {
	return strings.Contains(strings.ToLower(text), "summary")
}

// isSummaryRow reports whether a row following a question marks a summary table.
func isSummaryRow(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return lower == "summary" || strings.Contains(lower, "summary table")
}

// hasQuestionPrefix reports whether text begins with a question identifier.
func hasQuestionPrefix(text string) bool {
	return questionPrefixRe.MatchString(strings.TrimSpace(text))
}

// bulletLabel strips the leading dashes from a bullet row.
func bulletLabel(text string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(text), "-"))
}

// isBlankLabel reports whether an option label carries no text.
func isBlankLabel(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "nan", "none":
		return true
	}
	return false
}

// QuestionNumber is a question identifier parsed from header text.
type QuestionNumber struct {
	// Number is the business code ("Q2", "QD1").
	Number string
	// Suffix is the optional letter after a Q number ("a" in "Q3a").
	Suffix string
	// Demographic is true for QD numbers.
	Demographic bool
}

// ParseQuestionNumber extracts the first Q or QD identifier in text.
func ParseQuestionNumber(text string) (QuestionNumber, bool) {
	padded := text + " "
	q := qNumberRe.FindStringSubmatchIndex(padded)
	qd := qdNumberRe.FindStringSubmatchIndex(padded)

	switch {
	case q != nil && (qd == nil || q[0] <= qd[0]):
		n := QuestionNumber{Number: "Q" + padded[q[2]:q[3]]}
		if q[4] >= 0 {
			n.Suffix = padded[q[4]:q[5]]
		}
		return n, true
	case qd != nil:
		return QuestionNumber{Number: "QD" + padded[qd[2]:qd[3]], Demographic: true}, true
	}
	return QuestionNumber{}, false
}

// displayText removes a leading question identifier from text.
// The full text is kept when nothing would remain.
func displayText(text string) string {
	text = strings.TrimSpace(text)
	loc := displayPrefixRe.FindStringIndex(text)
	if loc == nil {
		return text
	}
	if rest := strings.TrimSpace(text[loc[1]:]); rest != "" {
		return rest
	}
	return text
}
