package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/sheetmerge/internal/models"
	"github.com/harrison/sheetmerge/internal/pipeline"
)

// FileLogger logs merge runs to files in a log directory.
// Each run gets a run-YYYYMMDD-HHMMSS.log file and latest.log is a
// symlink to the most recent one. It is thread-safe.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger in logDir with log level "info".
func NewFileLogger(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithLevel(logDir, "info")
}

// NewFileLoggerWithLevel creates the log directory if needed, opens a
// timestamped run log and points latest.log at it.
func NewFileLoggerWithLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== Sheetmerge Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of this run's log file.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogStageStart logs the start of a pipeline stage at INFO level.
func (fl *FileLogger) LogStageStart(stage pipeline.Stage, detail string) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Starting %s: %s\n", timestamp(), stage, detail))
}

// LogStageComplete logs the completion of a pipeline stage at INFO level.
func (fl *FileLogger) LogStageComplete(stage pipeline.Stage, duration time.Duration, detail string) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] %s complete (%s): %s\n", timestamp(), stage, formatDuration(duration), detail))
}

// LogFileRead records every parsed input file. The file log keeps these at
// INFO so a run can be audited after the fact.
func (fl *FileLogger) LogFileRead(path string, rows, columns int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Read %s: %s\n", timestamp(), path, formatShape(rows, columns, false)))
}

// LogSummary writes the run summary including the merged column list.
func (fl *FileLogger) LogSummary(result models.RunResult) {
	ts := timestamp()

	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] === Merge Summary ===\n", ts)
	fmt.Fprintf(&b, "[%s] Run ID: %s\n", ts, result.ID)
	fmt.Fprintf(&b, "[%s] Input: %s\n", ts, result.InputDir)
	fmt.Fprintf(&b, "[%s] Files read: %d\n", ts, len(result.Files))
	for _, f := range result.Files {
		fmt.Fprintf(&b, "[%s]   - %s (%s)\n", ts, f.Path, formatShape(f.Rows, f.Columns, false))
	}
	fmt.Fprintf(&b, "[%s] Rows: %d\n", ts, result.Rows)
	fmt.Fprintf(&b, "[%s] Columns: %s\n", ts, strings.Join(result.Columns, ", "))
	fmt.Fprintf(&b, "[%s] Duration: %s\n", ts, formatDuration(result.Duration))
	fmt.Fprintf(&b, "[%s] Status: %s\n", ts, result.Status)
	if result.Succeeded() {
		fmt.Fprintf(&b, "[%s] Output: %s\n", ts, result.OutputPath)
	} else {
		fmt.Fprintf(&b, "[%s] Error: %s\n", ts, result.Error)
	}

	fl.writeRunLog(b.String())
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}
	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
