package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/sheetmerge/internal/config"
	"github.com/harrison/sheetmerge/internal/display"
	"github.com/harrison/sheetmerge/internal/filelock"
	"github.com/harrison/sheetmerge/internal/history"
	"github.com/harrison/sheetmerge/internal/logger"
	"github.com/harrison/sheetmerge/internal/models"
	"github.com/harrison/sheetmerge/internal/pipeline"
	"github.com/harrison/sheetmerge/internal/report"
)

// NewMergeCommand creates the 'sheetmerge merge' command
func NewMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the spreadsheets of the input directory",
		Long: `Merge reads every spreadsheet in the input directory, concatenates their
rows under the union of all column headers and writes <output>/<name>.xlsx.

Columns keep first-seen order. Cells a file does not have are left empty.
An existing output file is replaced.

Configuration is loaded from $SHEETMERGE_HOME/config.yaml (default
./.sheetmerge/config.yaml) if present. CLI flags override configuration.

Examples:
  sheetmerge merge
  sheetmerge merge --input exports/ --output merged/ --name all
  sheetmerge merge --sorted --report merged/report.html
  sheetmerge merge --sheet Data --verbose`,
		Args: cobra.NoArgs,
		RunE: runMerge,
	}

	addMergeFlags(cmd)
	return cmd
}

func addMergeFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: $SHEETMERGE_HOME/config.yaml)")
	cmd.Flags().String("input", "", "Directory containing the spreadsheets (default: data/input)")
	cmd.Flags().String("output", "", "Directory receiving the merged workbook (default: data/output)")
	cmd.Flags().String("name", "", "Merged workbook name without extension (default: dados_concatenados)")
	cmd.Flags().String("sheet", "", "Worksheet to read from each file (default: first sheet)")
	cmd.Flags().Bool("sorted", false, "Read files in name order instead of directory listing order")
	cmd.Flags().Bool("verbose", false, "Show per-file details")
	cmd.Flags().String("log-dir", "", "Directory for log files")
	cmd.Flags().String("report", "", "Write a run report (.md or .html)")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
}

// loadConfig loads --config or the home config and applies changed flags.
// Flags not defined on cmd are ignored.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromHome()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	var overrides config.FlagOverrides
	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	overrides.InputDir = stringFlag("input")
	overrides.OutputDir = stringFlag("output")
	overrides.OutputFilename = stringFlag("name")
	overrides.Sheet = stringFlag("sheet")
	overrides.LogDir = stringFlag("log-dir")
	overrides.ReportPath = stringFlag("report")

	if sorted, _ := flags.GetBool("sorted"); sorted && flags.Changed("sorted") {
		order := "sorted"
		overrides.Order = &order
	}
	if verbose, _ := flags.GetBool("verbose"); verbose && flags.Changed("verbose") {
		level := "debug"
		overrides.LogLevel = &level
	}
	if noHistory, _ := flags.GetBool("no-history"); noHistory && flags.Changed("no-history") {
		enabled := false
		overrides.HistoryEnabled = &enabled
	}

	cfg.MergeWithFlags(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runMerge implements the merge command and the bare root command
func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	lockPath, err := config.GetLockPath()
	if err != nil {
		return fmt.Errorf("failed to resolve lock path: %w", err)
	}
	lock, err := filelock.AcquireRunLock(lockPath)
	if err != nil {
		if errors.Is(err, filelock.ErrLocked) {
			return fmt.Errorf("another merge is already running (lock %s)", lockPath)
		}
		return fmt.Errorf("failed to acquire run lock: %w", err)
	}
	defer lock.Unlock()

	logDir, err := config.GetLogDir(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to resolve log directory: %w", err)
	}
	consoleLog := logger.NewConsoleLogger(out, cfg.LogLevel)
	fileLog, err := logger.NewFileLoggerWithLevel(logDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()

	multiLog := &multiLogger{
		loggers: []runLogger{consoleLog, fileLog},
	}

	if owners, err := display.FindOwnerFiles(cfg.InputDir, cfg.Extension); err == nil && len(owners) > 0 {
		display.WarnOwnerFiles(owners).Display(cmd.ErrOrStderr())
	}

	opts := cfg.PipelineOptions()

	// Discovery errors are left for Run to report with stage context
	var progress *display.ProgressIndicator
	if files, err := pipeline.DiscoverFiles(opts.InputDir, pipeline.ExtractOptions{
		Extension: opts.Extension,
		Order:     opts.Order,
	}); err == nil && len(files) > 0 {
		progress = display.NewProgressIndicator(out, len(files))
		progress.Start()
		opts.OnFile = func(path string, table models.Table) {
			progress.Step(path, table.NumRows(), table.NumColumns())
		}
	}

	result, runErr := pipeline.Run(opts, multiLog)
	if progress != nil && runErr == nil {
		progress.Complete()
	}

	if cfg.History.Enabled {
		if err := recordHistory(cfg, result); err != nil {
			multiLog.LogWarn(fmt.Sprintf("run not recorded in history: %v", err))
		}
	}

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, result); err != nil {
			multiLog.LogWarn(fmt.Sprintf("report not written: %v", err))
		} else {
			multiLog.LogInfo(fmt.Sprintf("Report written to %s", cfg.ReportPath))
		}
	}

	if runErr != nil {
		return fmt.Errorf("merge failed: %w", runErr)
	}

	fmt.Fprintln(out, result.Message)
	return nil
}

func recordHistory(cfg *config.Config, result *models.RunResult) error {
	dbPath, err := config.GetHistoryDBPath(cfg.History.DBPath)
	if err != nil {
		return err
	}
	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return store.RecordRun(ctx, result)
}

// runLogger is what the merge command needs from each log destination
type runLogger interface {
	pipeline.Logger
	LogInfo(message string)
}

// multiLogger implements pipeline.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []runLogger
}

// LogStageStart forwards to all loggers
func (ml *multiLogger) LogStageStart(stage pipeline.Stage, detail string) {
	for _, l := range ml.loggers {
		l.LogStageStart(stage, detail)
	}
}

// LogStageComplete forwards to all loggers
func (ml *multiLogger) LogStageComplete(stage pipeline.Stage, duration time.Duration, detail string) {
	for _, l := range ml.loggers {
		l.LogStageComplete(stage, duration, detail)
	}
}

// LogFileRead forwards to all loggers
func (ml *multiLogger) LogFileRead(path string, rows, columns int) {
	for _, l := range ml.loggers {
		l.LogFileRead(path, rows, columns)
	}
}

// LogWarn forwards to all loggers
func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogInfo forwards to all loggers
func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(result models.RunResult) {
	for _, l := range ml.loggers {
		l.LogSummary(result)
	}
}
