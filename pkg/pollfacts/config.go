package pollfacts

import (
	"fmt"
	"os"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/parser"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted when the config file leaves a value empty.
const (
	EnvDatabase     = "POLLFACTS_DB"
	EnvDatabaseType = "POLLFACTS_DB_TYPE"
)

// DefaultDatabase is the SQLite file used when nothing else is configured.
const DefaultDatabase = "pollfacts.db"

// Config is the on-disk configuration of the pollfacts command.
type Config struct {
	Database   DatabaseConfig `yaml:"database"`
	InputDir   string         `yaml:"input_dir"`
	SheetName  string         `yaml:"sheet_name"`
	MainColumn string         `yaml:"main_column"`
	Windows    WindowsConfig  `yaml:"windows"`
	// Verbose enables debug logging in the pollfacts command.
	Verbose bool `yaml:"verbose"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	// Type is "sqlite" or "postgres".
	Type string `yaml:"type"`
	// DSN is a SQLite file path or a PostgreSQL connection URL.
	DSN string `yaml:"dsn"`
}

// WindowsConfig overrides individual lookahead windows. Zero keeps the default.
type WindowsConfig struct {
	HeaderScanRows       int `yaml:"header_scan_rows"`
	SummaryLookahead     int `yaml:"summary_lookahead"`
	BaseLookahead        int `yaml:"base_lookahead"`
	VariantTextLookahead int `yaml:"variant_text_lookahead"`
	VariantTextMinLen    int `yaml:"variant_text_min_len"`
	PrefixLookback       int `yaml:"prefix_lookback"`
	PrefixMaxLen         int `yaml:"prefix_max_len"`
}

// Apply returns w with every non-zero override applied.
func (c WindowsConfig) Apply(w parser.Windows) parser.Windows {
	set := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	set(&w.HeaderScanRows, c.HeaderScanRows)
	set(&w.SummaryLookahead, c.SummaryLookahead)
	set(&w.BaseLookahead, c.BaseLookahead)
	set(&w.VariantTextLookahead, c.VariantTextLookahead)
	set(&w.VariantTextMinLen, c.VariantTextMinLen)
	set(&w.PrefixLookback, c.PrefixLookback)
	set(&w.PrefixMaxLen, c.PrefixMaxLen)
	return w
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		InputDir:   "excel_files",
		SheetName:  DefaultSheetName,
		MainColumn: parser.DefaultMainColumn,
	}
}

// LoadConfig reads a YAML configuration file. An empty path or a missing file
// yields the defaults. Database settings left empty fall back to the
// POLLFACTS_DB and POLLFACTS_DB_TYPE environment variables, then to a local
// SQLite file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvFallbacks()
	return cfg, nil
}

func (c *Config) applyEnvFallbacks() {
	if c.Database.DSN == "" {
		c.Database.DSN = os.Getenv(EnvDatabase)
	}
	if c.Database.DSN == "" {
		c.Database.DSN = DefaultDatabase
	}
	if c.Database.Type == "" {
		c.Database.Type = os.Getenv(EnvDatabaseType)
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
}

// Options converts the configuration into ingestion options.
func (c Config) Options(logger *zap.Logger) Options {
	opts := DefaultOptions()
	if c.SheetName != "" {
		opts.SheetName = c.SheetName
	}
	if c.MainColumn != "" {
		opts.MainColumn = c.MainColumn
	}
	opts.Windows = c.Windows.Apply(opts.Windows)
	opts.Logger = logger
	return opts
}
