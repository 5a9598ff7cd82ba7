package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/sheetmerge/internal/models"
	"github.com/harrison/sheetmerge/internal/pipeline"
)

func readRunLog(t *testing.T, logger *FileLogger) string {
	t.Helper()
	data, err := os.ReadFile(logger.RunFile())
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	return string(data)
}

// TestFileLoggerCreatesRunLog verifies directory, run file and header.
func TestFileLoggerCreatesRunLog(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "nested", "logs")

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	if filepath.Dir(logger.RunFile()) != logDir {
		t.Errorf("run file %s not in %s", logger.RunFile(), logDir)
	}
	base := filepath.Base(logger.RunFile())
	if !strings.HasPrefix(base, "run-") || !strings.HasSuffix(base, ".log") {
		t.Errorf("unexpected run file name %q", base)
	}

	content := readRunLog(t, logger)
	if !strings.Contains(content, "=== Sheetmerge Run Log ===") {
		t.Errorf("missing header, got:\n%s", content)
	}
}

// TestFileLoggerLatestSymlink verifies latest.log points at the run file.
func TestFileLoggerLatestSymlink(t *testing.T) {
	logDir := t.TempDir()

	// a stale symlink must be replaced
	if err := os.Symlink("run-old.log", filepath.Join(logDir, "latest.log")); err != nil {
		t.Fatalf("failed to create stale symlink: %v", err)
	}

	logger, err := NewFileLogger(logDir)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("Readlink() error = %v", err)
	}
	if target != filepath.Base(logger.RunFile()) {
		t.Errorf("latest.log -> %q, want %q", target, filepath.Base(logger.RunFile()))
	}
}

// TestFileLoggerRunEvents verifies a full run is recorded.
func TestFileLoggerRunEvents(t *testing.T) {
	logger, err := NewFileLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	logger.LogStageStart(pipeline.StageExtract, "in")
	logger.LogFileRead("in/a.xlsx", 2, 3)
	logger.LogStageComplete(pipeline.StageExtract, time.Second, "1 file(s), 2 row(s)")
	logger.LogWarn("in/b.xlsx adds column(s) missing from earlier files: D")
	logger.LogSummary(models.RunResult{
		ID:         "run-1",
		InputDir:   "in",
		Files:      []models.FileStat{{Path: "in/a.xlsx", Rows: 2, Columns: 3}},
		Columns:    []string{"A", "B", "C"},
		Rows:       2,
		Status:     models.RunSucceeded,
		OutputPath: "out/x.xlsx",
	})

	content := readRunLog(t, logger)
	for _, want := range []string{
		"Starting extract: in",
		"Read in/a.xlsx: 2 rows, 3 columns",
		"extract complete (1s)",
		"[WARN] in/b.xlsx adds column(s)",
		"Run ID: run-1",
		"Columns: A, B, C",
		"Output: out/x.xlsx",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected run log to contain %q, got:\n%s", want, content)
		}
	}
}

// TestFileLoggerFailedSummary verifies the error text is recorded.
func TestFileLoggerFailedSummary(t *testing.T) {
	logger, err := NewFileLoggerWithLevel(t.TempDir(), "error")
	if err != nil {
		t.Fatalf("NewFileLoggerWithLevel() error = %v", err)
	}
	defer logger.Close()

	logger.LogInfo("hidden")
	logger.LogSummary(models.RunResult{Status: models.RunFailed, Error: "load: cannot write"})

	content := readRunLog(t, logger)
	if strings.Contains(content, "hidden") {
		t.Error("info message should be filtered at error level")
	}
	if !strings.Contains(content, "Error: load: cannot write") {
		t.Errorf("missing error line, got:\n%s", content)
	}
}

// TestFileLoggerClose verifies Close is idempotent and later writes are dropped.
func TestFileLoggerClose(t *testing.T) {
	logger, err := NewFileLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	logger.LogInfo("after close")

	if strings.Contains(readRunLog(t, logger), "after close") {
		t.Error("writes after Close should be dropped")
	}
}
