package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/sheetmerge/internal/codec"
	"github.com/harrison/sheetmerge/internal/fileutil"
	"github.com/harrison/sheetmerge/internal/pipeline"
)

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records every merge run in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the history database location (empty = <home>/history/runs.db)
	DBPath string `yaml:"db_path"`
}

// Config represents sheetmerge configuration options
type Config struct {
	// InputDir is the directory scanned for spreadsheets
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory the merged workbook is written to
	OutputDir string `yaml:"output_dir"`

	// OutputFilename is the merged workbook name without extension
	OutputFilename string `yaml:"output_filename"`

	// Extension is the input filename suffix
	Extension string `yaml:"extension"`

	// Sheet selects the worksheet read from each input (empty = first sheet)
	Sheet string `yaml:"sheet"`

	// Order is the file discovery order: listing or sorted
	Order string `yaml:"order"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written (empty = <home>/logs)
	LogDir string `yaml:"log_dir"`

	// ReportPath, if set, receives a Markdown or HTML run report
	ReportPath string `yaml:"report_path"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// FlagOverrides carries CLI flag values. Nil fields were not set on the
// command line and leave the configuration untouched.
type FlagOverrides struct {
	InputDir       *string
	OutputDir      *string
	OutputFilename *string
	Sheet          *string
	Order          *string
	LogLevel       *string
	LogDir         *string
	ReportPath     *string
	HistoryEnabled *bool
}

// DefaultConfig returns a Config that reproduces an unconfigured run
func DefaultConfig() *Config {
	return &Config{
		InputDir:       pipeline.DefaultInputDir,
		OutputDir:      pipeline.DefaultOutputDir,
		OutputFilename: pipeline.DefaultOutputFilename,
		Extension:      codec.Extension,
		Sheet:          "",
		Order:          fileutil.OrderListing.String(),
		LogLevel:       "info",
		LogDir:         "",
		ReportPath:     "",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.InputDir != "" {
		cfg.InputDir = fileCfg.InputDir
	}
	if fileCfg.OutputDir != "" {
		cfg.OutputDir = fileCfg.OutputDir
	}
	if fileCfg.OutputFilename != "" {
		cfg.OutputFilename = fileCfg.OutputFilename
	}
	if fileCfg.Extension != "" {
		cfg.Extension = fileCfg.Extension
	}
	if fileCfg.Sheet != "" {
		cfg.Sheet = fileCfg.Sheet
	}
	if fileCfg.Order != "" {
		cfg.Order = fileCfg.Order
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.ReportPath != "" {
		cfg.ReportPath = fileCfg.ReportPath
	}

	// history.enabled defaults to true, so a false in the file only counts
	// when the key is actually present
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, exists := rawMap["history"]; exists && section != nil {
			historyMap, _ := section.(map[string]interface{})
			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = fileCfg.History.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = fileCfg.History.DBPath
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromHome loads <home>/config.yaml, see GetHome.
// If the file doesn't exist, returns default configuration without error
func LoadConfigFromHome() (*Config, error) {
	home, err := GetHome()
	if err != nil {
		return nil, err
	}
	return LoadConfig(filepath.Join(home, ConfigFileName))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(f FlagOverrides) {
	if f.InputDir != nil {
		c.InputDir = *f.InputDir
	}
	if f.OutputDir != nil {
		c.OutputDir = *f.OutputDir
	}
	if f.OutputFilename != nil {
		c.OutputFilename = *f.OutputFilename
	}
	if f.Sheet != nil {
		c.Sheet = *f.Sheet
	}
	if f.Order != nil {
		c.Order = *f.Order
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.ReportPath != nil {
		c.ReportPath = *f.ReportPath
	}
	if f.HistoryEnabled != nil {
		c.History.Enabled = *f.HistoryEnabled
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return fmt.Errorf("input_dir cannot be empty")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if strings.TrimSpace(c.OutputFilename) == "" {
		return fmt.Errorf("output_filename cannot be empty")
	}
	if strings.ContainsAny(c.OutputFilename, `/\`) {
		return fmt.Errorf("output_filename %q must not contain path separators", c.OutputFilename)
	}
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return fmt.Errorf("extension %q must start with a dot, e.g. .xlsx", c.Extension)
	}

	if _, err := fileutil.ParseOrder(c.Order); err != nil {
		return err
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// PipelineOptions converts the configuration into merge run options.
// Call Validate first; an invalid order falls back to listing order.
func (c *Config) PipelineOptions() pipeline.Options {
	order, _ := fileutil.ParseOrder(c.Order)
	return pipeline.Options{
		InputDir:       c.InputDir,
		OutputDir:      c.OutputDir,
		OutputFilename: c.OutputFilename,
		Extension:      c.Extension,
		Sheet:          c.Sheet,
		Order:          order,
	}
}
