package models

import "math"

// Fact is a response count for one answer option, broken down by one demographic column.
type Fact struct {
	QuestionID int64  `json:"question_id"`
	SurveyID   string `json:"survey_id"`
	OptionID   int64  `json:"option_id"`
	// DemoID is nil for columns with no demographic category (e.g. Total).
	DemoID *int64 `json:"demo_id,omitempty"`
	// ItemLabel is the demographic column label.
	ItemLabel string   `json:"item_label"`
	Count     *float64 `json:"cnt"`
	Percent   *float64 `json:"pct"`
}

// DemographicResponse is a response count for a demographic (QD) question.
type DemographicResponse struct {
	QuestionID int64  `json:"question_id"`
	SurveyID   string `json:"survey_id"`
	DemoID     int64  `json:"demo_id"`
	// ItemLabel is the row label ("(blank)" when the row had none).
	ItemLabel string   `json:"item_label"`
	Count     *float64 `json:"count"`
	Percent   *float64 `json:"percent"`
}

// Finite returns a pointer to v, or nil when v is NaN or infinite.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Clean re-applies Finite to an optional value.
func Clean(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Finite(*v)
}
