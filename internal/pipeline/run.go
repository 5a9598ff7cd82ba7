// Package pipeline implements the extract, transform and load stages of a
// spreadsheet merge and the orchestrator that chains them.
//
// Each stage is a plain function over immutable models.Table values:
//
//	batch, err := pipeline.Extract(dir, pipeline.ExtractOptions{})
//	merged, err := pipeline.Concat(batch)
//	msg, err := pipeline.Load(merged, outDir, name)
//
// Run performs the three calls in order and stops at the first error, which
// is returned unchanged. All stage errors are *pipeline.Error values.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/sheetmerge/internal/codec"
	"github.com/harrison/sheetmerge/internal/fileutil"
	"github.com/harrison/sheetmerge/internal/models"
)

// Defaults used when nothing is configured
const (
	DefaultInputDir       = "data/input"
	DefaultOutputDir      = "data/output"
	DefaultOutputFilename = "dados_concatenados"
)

// Logger receives progress events from Run.
type Logger interface {
	LogStageStart(stage Stage, detail string)
	LogStageComplete(stage Stage, duration time.Duration, detail string)
	LogFileRead(path string, rows, columns int)
	LogWarn(message string)
	LogSummary(result models.RunResult)
}

// Options is everything a merge run needs to know.
type Options struct {
	InputDir       string         // Directory scanned for spreadsheets
	OutputDir      string         // Directory receiving the merged file
	OutputFilename string         // Output name without extension
	Extension      string         // Input filename suffix
	Sheet          string         // Worksheet to read; empty is the first
	Order          fileutil.Order // File discovery order

	// OnFile, if set, is called after each input file is parsed
	OnFile func(path string, table models.Table)
}

// DefaultOptions returns the options of a run with no configuration.
func DefaultOptions() Options {
	return Options{
		InputDir:       DefaultInputDir,
		OutputDir:      DefaultOutputDir,
		OutputFilename: DefaultOutputFilename,
		Extension:      codec.Extension,
		Order:          fileutil.OrderListing,
	}
}

// Run extracts every spreadsheet in opts.InputDir, concatenates them and
// writes the result to opts.OutputDir. The returned RunResult is never nil;
// on failure it carries whatever was learned before the failing stage.
func Run(opts Options, log Logger) (*models.RunResult, error) {
	if log == nil {
		log = discardLogger{}
	}

	start := time.Now()
	result := &models.RunResult{
		ID:             uuid.New().String(),
		StartedAt:      start,
		InputDir:       opts.InputDir,
		OutputDir:      opts.OutputDir,
		OutputFilename: opts.OutputFilename,
		Files:          []models.FileStat{},
	}

	finish := func(err error) (*models.RunResult, error) {
		result.Duration = time.Since(start)
		if err != nil {
			result.Status = models.RunFailed
			result.Error = err.Error()
		} else {
			result.Status = models.RunSucceeded
		}
		log.LogSummary(*result)
		return result, err
	}

	// Extract
	stageStart := time.Now()
	log.LogStageStart(StageExtract, opts.InputDir)
	batch, err := Extract(opts.InputDir, ExtractOptions{
		Extension: opts.Extension,
		Sheet:     opts.Sheet,
		Order:     opts.Order,
		OnFile: func(path string, table models.Table) {
			result.Files = append(result.Files, models.FileStat{
				Path:    path,
				Rows:    table.NumRows(),
				Columns: table.NumColumns(),
			})
			log.LogFileRead(path, table.NumRows(), table.NumColumns())
			if opts.OnFile != nil {
				opts.OnFile(path, table)
			}
		},
	})
	if err != nil {
		return finish(err)
	}
	log.LogStageComplete(StageExtract, time.Since(stageStart),
		fmt.Sprintf("%d file(s), %d row(s)", len(batch), batch.TotalRows()))

	// Transform
	stageStart = time.Now()
	log.LogStageStart(StageTransform, fmt.Sprintf("%d table(s)", len(batch)))
	_, added := UnionColumns(batch)
	for i := 1; i < len(added); i++ {
		if len(added[i]) > 0 {
			log.LogWarn(fmt.Sprintf("%s adds column(s) missing from earlier files: %s",
				batch[i].Source, strings.Join(added[i], ", ")))
		}
	}
	merged, err := Concat(batch)
	if err != nil {
		return finish(err)
	}
	result.Columns = merged.Columns()
	result.Rows = merged.NumRows()
	log.LogStageComplete(StageTransform, time.Since(stageStart),
		fmt.Sprintf("%d row(s), %d column(s)", merged.NumRows(), merged.NumColumns()))

	// Load
	stageStart = time.Now()
	path := OutputPath(opts.OutputDir, opts.OutputFilename)
	log.LogStageStart(StageLoad, path)
	msg, err := Load(merged, opts.OutputDir, opts.OutputFilename)
	if err != nil {
		return finish(err)
	}
	result.OutputPath = path
	result.Message = msg
	log.LogStageComplete(StageLoad, time.Since(stageStart), path)

	return finish(nil)
}

type discardLogger struct{}

func (discardLogger) LogStageStart(Stage, string)                  {}
func (discardLogger) LogStageComplete(Stage, time.Duration, string) {}
func (discardLogger) LogFileRead(string, int, int)                 {}
func (discardLogger) LogWarn(string)                               {}
func (discardLogger) LogSummary(models.RunResult)                  {}
