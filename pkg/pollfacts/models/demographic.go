package models

// Demographic represents a breakdown category keyed by a short code (e.g. "QD2").
type Demographic struct {
	// ID is the identifier assigned by the sink.
	ID int64 `json:"demo_id,omitempty"`
	// Code is the unique category code.
	Code string `json:"demo_code"`
	// Description is a human-readable description.
	Description string `json:"demo_description"`
}
