package pollfacts

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
)

// surveyFileRe matches report names such as "AA_Jan24.xlsx" or "AA_Mar25-final.xlsx".
var surveyFileRe = regexp.MustCompile(`^AA_([A-Za-z]+)(\d{2})(?:-[A-Za-z0-9_]+)?\.xlsx$`)

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseSurveyFilename derives the survey identity from a report file name.
// The month token may be abbreviated ("Jan") or spelled out ("January").
func ParseSurveyFilename(name string) (models.Survey, error) {
	base := filepath.Base(name)
	m := surveyFileRe.FindStringSubmatch(base)
	if m == nil {
		return models.Survey{}, fmt.Errorf("%w: %s", ErrInvalidFilename, base)
	}

	token := strings.ToLower(m[1])
	if len(token) < 3 {
		return models.Survey{}, fmt.Errorf("%w: unknown month %q in %s", ErrInvalidFilename, m[1], base)
	}
	month, ok := months[token[:3]]
	if !ok || (len(token) > 3 && !isMonthName(token)) {
		return models.Survey{}, fmt.Errorf("%w: unknown month %q in %s", ErrInvalidFilename, m[1], base)
	}

	yy, _ := strconv.Atoi(m[2])
	year := 2000 + yy
	return models.Survey{
		ID:       fmt.Sprintf("AA-%02d%d", month, year),
		Month:    month,
		Year:     year,
		Filename: base,
	}, nil
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

func isMonthName(token string) bool {
	for _, n := range monthNames {
		if token == n {
			return true
		}
	}
	return token == "sept"
}

// IsCandidateFile reports whether name looks like a survey report to ingest.
// Normalised copies written by earlier tooling are ignored.
func IsCandidateFile(name string) bool {
	base := filepath.Base(name)
	if strings.Contains(base, "_normalized") || strings.HasPrefix(base, "~$") {
		return false
	}
	return surveyFileRe.MatchString(base)
}
