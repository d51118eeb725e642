// Package pollfacts ingests survey report workbooks into a normalized fact store.
package pollfacts

import (
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/parser"
	"go.uber.org/zap"
)

// DefaultSheetName is the worksheet holding the main results tables.
const DefaultSheetName = "P1"

// Options configures ingestion behavior.
type Options struct {
	// SheetName is the worksheet to extract. Defaults to "P1".
	SheetName string
	// MainColumn is the column carrying table, question and option labels.
	// Defaults to "Return to Index".
	MainColumn string
	// Windows bounds the row lookahead heuristics. Zero fields select their defaults.
	Windows parser.Windows
	// Logger receives progress messages. Nil disables logging.
	Logger *zap.Logger
	// DryRun leaves files unmarked after ingestion so they are picked up again.
	DryRun bool
}

// DefaultOptions returns default ingestion options.
func DefaultOptions() Options {
	return Options{
		SheetName:  DefaultSheetName,
		MainColumn: parser.DefaultMainColumn,
		Windows:    parser.DefaultWindows(),
	}
}

func (o Options) sheetName() string {
	if o.SheetName == "" {
		return DefaultSheetName
	}
	return o.SheetName
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// parserConfig returns the extraction engine configuration.
func (o Options) parserConfig() parser.Config {
	cfg := parser.DefaultConfig()
	if o.MainColumn != "" {
		cfg.MainColumn = o.MainColumn
	}
	cfg.Windows = o.Windows
	cfg.Logger = o.Logger
	return cfg
}
