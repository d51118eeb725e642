// Package parser implements the row-driven extraction of survey questions,
// answer options and response counts from a cleaned report sheet.
package parser

import (
	"errors"

	"go.uber.org/zap"
)

// DefaultMainColumn is the column that carries table, question, base and option labels.
const DefaultMainColumn = "Return to Index"

// ErrMissingMainColumn indicates the row sequence lacks the configured main column.
var ErrMissingMainColumn = errors.New("main column not found")

// Windows holds the lookahead and lookback bounds used by the heuristics.
// All row counts are relative to the question row (the row after a table header)
// unless noted otherwise.
type Windows struct {
	// HeaderScanRows is the number of leading rows searched for the demographic header row.
	HeaderScanRows int
	// SummaryLookahead is the number of rows after the question row checked for a summary marker.
	SummaryLookahead int
	// BaseLookahead is the number of rows after the question row checked for a "Base:" line.
	BaseLookahead int
	// VariantTextLookahead is the number of rows after the question row searched for variant text.
	VariantTextLookahead int
	// VariantTextMinLen is the shortest text accepted as variant text.
	VariantTextMinLen int
	// PrefixLookback is the number of rows before the question row searched for a question prefix.
	PrefixLookback int
	// PrefixMaxLen is the longest row text accepted as a recovered question prefix.
	PrefixMaxLen int
}

// DefaultWindows returns the bounds matching the historical report layout.
func DefaultWindows() Windows {
	return Windows{
		HeaderScanRows:       20,
		SummaryLookahead:     3,
		BaseLookahead:        3,
		VariantTextLookahead: 6,
		VariantTextMinLen:    6,
		PrefixLookback:       10,
		PrefixMaxLen:         150,
	}
}

// withDefaults fills every non-positive bound from DefaultWindows.
func (w Windows) withDefaults() Windows {
	d := DefaultWindows()
	fill := func(dst *int, def int) {
		if *dst <= 0 {
			*dst = def
		}
	}
	fill(&w.HeaderScanRows, d.HeaderScanRows)
	fill(&w.SummaryLookahead, d.SummaryLookahead)
	fill(&w.BaseLookahead, d.BaseLookahead)
	fill(&w.VariantTextLookahead, d.VariantTextLookahead)
	fill(&w.VariantTextMinLen, d.VariantTextMinLen)
	fill(&w.PrefixLookback, d.PrefixLookback)
	fill(&w.PrefixMaxLen, d.PrefixMaxLen)
	return w
}

// Config configures a sheet extraction.
type Config struct {
	// MainColumn is the column holding all structural marker text.
	MainColumn string
	// Windows bounds the lookahead heuristics. Non-positive fields take their default.
	Windows Windows
	// Logger receives progress and skip messages. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		MainColumn: DefaultMainColumn,
		Windows:    DefaultWindows(),
	}
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c Config) mainColumn() string {
	if c.MainColumn == "" {
		return DefaultMainColumn
	}
	return c.MainColumn
}
