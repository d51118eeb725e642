package models

// Question represents a survey question stem (Part 1) or one of its variants (Part >= 2).
type Question struct {
	// ID is the identifier assigned by the sink (zero until stored).
	ID int64 `json:"question_id,omitempty"`
	// SurveyID is the owning survey.
	SurveyID string `json:"survey_id"`
	// Number is the business code (e.g. "Q2", "QD1").
	Number string `json:"question_number"`
	// Part is 1 for the stem and increases for each variant.
	Part int `json:"question_part"`
	// Text is the display text.
	Text string `json:"question_text"`
	// IsDemographic marks QD questions.
	IsDemographic bool `json:"is_demographic"`
	// BaseDescription is the "Base:" population line, if any.
	BaseDescription *string `json:"base_description,omitempty"`
}

// IsStem reports whether q is the part-1 record of its question number.
func (q Question) IsStem() bool {
	return q.Part == 1
}

// AnswerOption represents one answer option of a non-demographic question.
type AnswerOption struct {
	// ID is the identifier assigned by the sink.
	ID int64 `json:"option_id,omitempty"`
	// QuestionID is the owning question.
	QuestionID int64 `json:"question_id"`
	// Text is the option label, unique within the question.
	Text string `json:"option_text"`
	// Order is the 1-based position within the question.
	Order int `json:"option_order"`
}
