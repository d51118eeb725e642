package pollfacts

import (
	"errors"
	"testing"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
)

func TestParseSurveyFilename(t *testing.T) {
	tests := []struct {
		name string
		want models.Survey
		ok   bool
	}{
		{"AA_Jan24.xlsx", models.Survey{ID: "AA-012024", Month: 1, Year: 2024, Filename: "AA_Jan24.xlsx"}, true},
		{"AA_March25-final.xlsx", models.Survey{ID: "AA-032025", Month: 3, Year: 2025, Filename: "AA_March25-final.xlsx"}, true},
		{"AA_Sept23.xlsx", models.Survey{ID: "AA-092023", Month: 9, Year: 2023, Filename: "AA_Sept23.xlsx"}, true},
		{"/data/in/AA_dec19.xlsx", models.Survey{ID: "AA-122019", Month: 12, Year: 2019, Filename: "AA_dec19.xlsx"}, true},
		{"AA_Foo24.xlsx", models.Survey{}, false},
		{"AA_Janx24.xlsx", models.Survey{}, false},
		{"AA_Ja24.xlsx", models.Survey{}, false},
		{"AA_Jan2024.xlsx", models.Survey{}, false},
		{"BB_Jan24.xlsx", models.Survey{}, false},
		{"AA_Jan24.xls", models.Survey{}, false},
	}

	for _, tt := range tests {
		got, err := ParseSurveyFilename(tt.name)
		if tt.ok {
			if err != nil {
				t.Errorf("ParseSurveyFilename(%q) failed: %v", tt.name, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseSurveyFilename(%q) = %+v, expected %+v", tt.name, got, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("ParseSurveyFilename(%q) error = %v, expected ErrInvalidFilename", tt.name, err)
		}
	}
}

func TestIsCandidateFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"AA_Jan24.xlsx", true},
		{"AA_Jan24-v2.xlsx", true},
		{"AA_Jan24-v2_normalized.xlsx", false},
		{"~$AA_Jan24.xlsx", false},
		{"notes.txt", false},
		{"AA_Jan24.csv", false},
	}

	for _, tt := range tests {
		if got := IsCandidateFile(tt.name); got != tt.want {
			t.Errorf("IsCandidateFile(%q) = %v, expected %v", tt.name, got, tt.want)
		}
	}
}
