package pollfacts

import (
	"errors"
	"fmt"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/sheet"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrInvalidFilename indicates the file name carries no survey month and year.
var ErrInvalidFilename = errors.New("invalid survey filename")

// ErrSheetNotFound indicates the workbook has no sheet with the configured name.
var ErrSheetNotFound = sheet.ErrSheetNotFound

// Extraction components reported by ExtractionError.
const (
	ComponentLoad  = "load"
	ComponentParse = "parse"
	ComponentStore = "store"
)

// ExtractionError represents an error while ingesting one workbook.
type ExtractionError struct {
	File      string
	SheetName string
	Component string // "load", "parse", "store"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in %s sheet %q (%s): %v", e.File, e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(file, sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		File:      file,
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
