// Package logger provides logging implementations for sheetmerge runs.
//
// Both loggers satisfy pipeline.Logger and add level-filtered free-form
// messages (trace, debug, info, warn, error). ConsoleLogger writes to any
// io.Writer and colors its output on a terminal; FileLogger keeps one
// timestamped log file per run plus a latest.log symlink.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/sheetmerge/internal/models"
	"github.com/harrison/sheetmerge/internal/pipeline"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is os.Stdout or os.Stderr and color is allowed.
// fatih/color already honors NO_COLOR and non-TTY output.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
// Format: "[HH:MM:SS] [WARN] <message>"
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	label := level
	if cl.colorOutput {
		label = levelColor(level).Sprint(level)
	}
	cl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), label, message))
}

func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgBlue)
	}
}

// LogStageStart logs the start of a pipeline stage at INFO level.
// Format: "[HH:MM:SS] Starting extract: <detail>"
func (cl *ConsoleLogger) LogStageStart(stage pipeline.Stage, detail string) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	name := stage.String()
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(name)
	}
	cl.write(fmt.Sprintf("[%s] Starting %s: %s\n", timestamp(), name, detail))
}

// LogStageComplete logs the completion of a pipeline stage at INFO level.
// Format: "[HH:MM:SS] extract complete (<duration>): <detail>"
func (cl *ConsoleLogger) LogStageComplete(stage pipeline.Stage, duration time.Duration, detail string) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	name, done := stage.String(), "complete"
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(name)
		done = color.New(color.FgGreen).Sprint(done)
	}
	cl.write(fmt.Sprintf("[%s] %s %s (%s): %s\n", timestamp(), name, done, formatDuration(duration), detail))
}

// LogFileRead logs one parsed input file at DEBUG level.
func (cl *ConsoleLogger) LogFileRead(path string, rows, columns int) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}
	cl.write(fmt.Sprintf("[%s] Read %s: %s\n", timestamp(), path, formatShape(rows, columns, cl.colorOutput)))
}

// LogSummary logs the run summary at INFO level, or at ERROR level for a
// failed run so the failure is visible even with a quiet log level.
func (cl *ConsoleLogger) LogSummary(result models.RunResult) {
	if cl.writer == nil {
		return
	}
	if result.Succeeded() && !cl.shouldLog("info") {
		return
	}

	ts := timestamp()
	scheme := newColorScheme(cl.colorOutput)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.header.Sprint("=== Merge Summary ==="))
	fmt.Fprintf(&b, "[%s] %s\n", ts, formatMetric("Files read", len(result.Files), scheme))
	fmt.Fprintf(&b, "[%s] %s\n", ts, formatMetric("Rows", result.Rows, scheme))
	fmt.Fprintf(&b, "[%s] %s\n", ts, formatMetric("Columns", len(result.Columns), scheme))
	fmt.Fprintf(&b, "[%s] %s\n", ts, formatMetric("Duration", formatDuration(result.Duration), scheme))
	if result.Succeeded() {
		fmt.Fprintf(&b, "[%s] %s\n", ts, formatMetric("Output", result.OutputPath, scheme))
		fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.success.Sprint("Status: "+result.Status))
	} else {
		fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.fail.Sprint("Status: "+result.Status))
		fmt.Fprintf(&b, "[%s] %s\n", ts, scheme.fail.Sprint("Error: "+result.Error))
	}

	cl.write(b.String())
}

func (cl *ConsoleLogger) write(s string) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.writer.Write([]byte(s))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		minutes := remainder / time.Minute
		seconds := (remainder % time.Minute) / time.Second
		switch {
		case remainder == 0:
			return fmt.Sprintf("%dh", hours)
		case seconds == 0:
			return fmt.Sprintf("%dh%dm", hours, minutes)
		default:
			return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
		}
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)                                        {}
func (n *NoOpLogger) LogDebug(string)                                        {}
func (n *NoOpLogger) LogInfo(string)                                         {}
func (n *NoOpLogger) LogWarn(string)                                         {}
func (n *NoOpLogger) LogError(string)                                        {}
func (n *NoOpLogger) LogStageStart(pipeline.Stage, string)                   {}
func (n *NoOpLogger) LogStageComplete(pipeline.Stage, time.Duration, string) {}
func (n *NoOpLogger) LogFileRead(string, int, int)                           {}
func (n *NoOpLogger) LogSummary(models.RunResult)                            {}
