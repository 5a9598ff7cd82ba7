package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrison/sheetmerge/internal/codec"
	"github.com/harrison/sheetmerge/internal/models"
	"github.com/stretchr/testify/require"
)

// writeTable saves table as dir/name using the xlsx codec
func writeTable(t *testing.T, dir, name string, table models.Table) string {
	t.Helper()

	data, err := codec.Encode(table)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// scenarioTables are the a.xlsx / b.xlsx fixtures with overlapping columns
func scenarioTables() (models.Table, models.Table) {
	a := models.MustTable([]string{"A", "B"}, [][]models.Value{
		{models.Int(1), models.String("x")},
	})
	b := models.MustTable([]string{"A", "C"}, [][]models.Value{
		{models.Int(2), models.Bool(true)},
	})
	return a, b
}

// recordingLogger captures Run events for assertions
type recordingLogger struct {
	started   []Stage
	completed []Stage
	files     []string
	warnings  []string
	summaries []models.RunResult
}

func (l *recordingLogger) LogStageStart(stage Stage, detail string) {
	l.started = append(l.started, stage)
}

func (l *recordingLogger) LogStageComplete(stage Stage, duration time.Duration, detail string) {
	l.completed = append(l.completed, stage)
}

func (l *recordingLogger) LogFileRead(path string, rows, columns int) {
	l.files = append(l.files, path)
}

func (l *recordingLogger) LogWarn(message string) {
	l.warnings = append(l.warnings, message)
}

func (l *recordingLogger) LogSummary(result models.RunResult) {
	l.summaries = append(l.summaries, result)
}
