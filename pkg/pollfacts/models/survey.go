// Package models defines the normalized survey fact model.
package models

// Survey represents one survey wave, derived from its source file name.
type Survey struct {
	// ID is the survey identifier (e.g. "AA-012024").
	ID string `json:"survey_id"`
	// Month is the survey month (1-12).
	Month int `json:"month"`
	// Year is the four-digit survey year.
	Year int `json:"year"`
	// Filename is the source workbook file name (no path).
	Filename string `json:"filename"`
}
