package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/sheetmerge/internal/codec"
	"github.com/harrison/sheetmerge/internal/config"
	"github.com/harrison/sheetmerge/internal/filelock"
	"github.com/harrison/sheetmerge/internal/pipeline"
)

func TestMergeCommand_Success(t *testing.T) {
	home := setupHome(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in")
	output := filepath.Join(dir, "out")
	writeInputs(t, input)

	out, err := executeCommand(t, "merge", "--input", input, "--output", output, "--name", "merged", "--sorted")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Reading spreadsheets:")
	assert.Contains(t, out, "[1/2] a.xlsx (2 rows, 2 columns)")
	assert.Contains(t, out, "[2/2] b.xlsx (1 rows, 2 columns)")
	assert.Contains(t, out, "✓ Read 2 spreadsheet files")
	assert.Contains(t, out, "adds column(s) missing from earlier files: C")
	assert.True(t, strings.HasSuffix(out, pipeline.SuccessMessage+"\n"), "got:\n%s", out)

	merged, err := codec.ReadFile(filepath.Join(output, "merged.xlsx"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, merged.Columns())
	assert.Equal(t, 3, merged.NumRows())
	assert.True(t, merged.Cell(2, 0).IsMissing())

	entries, err := os.ReadDir(output)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the output directory holds exactly the merged file")

	assert.FileExists(t, filepath.Join(home, "history", "runs.db"))
	assert.FileExists(t, filepath.Join(home, "logs", "latest.log"))
}

func TestRootCommand_RunsMerge(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	writeInputs(t, filepath.Join(dir, "in"))

	out, err := executeCommand(t, "--input", filepath.Join(dir, "in"), "--output", filepath.Join(dir, "out"))
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(dir, "out", pipeline.DefaultOutputFilename+".xlsx"))
}

func TestMergeCommand_MissingInput(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()

	out, err := executeCommand(t, "merge", "--input", filepath.Join(dir, "nope"), "--output", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrNotFound), "got %v", err)
	assert.Contains(t, err.Error(), "nope")
	assert.Contains(t, out, "Status: failed")
	assert.NoDirExists(t, filepath.Join(dir, "out"), "load never runs after a failed extract")
}

func TestMergeCommand_EmptyInput(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "in"), 0755))

	_, err := executeCommand(t, "merge", "--input", filepath.Join(dir, "in"), "--output", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrInvalidInput), "got %v", err)
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestMergeCommand_CorruptFile(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in")
	writeInputs(t, input)
	require.NoError(t, os.WriteFile(filepath.Join(input, "~$a.xlsx"), []byte("owner"), 0644))

	out, err := executeCommand(t, "merge", "--input", input, "--output", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrParseFailure), "got %v", err)
	assert.Contains(t, err.Error(), "~$a.xlsx")
	assert.Contains(t, out, "Excel lock files detected")
}

func TestMergeCommand_ConfigFileAndHistory(t *testing.T) {
	home := setupHome(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in")
	output := filepath.Join(dir, "out")
	writeInputs(t, input)

	require.NoError(t, os.MkdirAll(home, 0755))
	cfgYAML := "input_dir: " + input + "\noutput_dir: " + output + "\noutput_filename: fromconfig\norder: sorted\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, config.ConfigFileName), []byte(cfgYAML), 0644))

	out, err := executeCommand(t, "merge")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(output, "fromconfig.xlsx"))

	out, err = executeCommand(t, "history", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "=== Merge History ===")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, filepath.Join(output, "fromconfig.xlsx"))
	assert.Contains(t, out, "1 run(s) recorded: 1 succeeded, 0 failed, 3 rows merged from 2 files")
}

func TestMergeCommand_NoHistory(t *testing.T) {
	home := setupHome(t)
	dir := t.TempDir()
	writeInputs(t, filepath.Join(dir, "in"))

	out, err := executeCommand(t, "merge", "--input", filepath.Join(dir, "in"), "--output", filepath.Join(dir, "out"), "--no-history")
	require.NoError(t, err, out)
	assert.NoFileExists(t, filepath.Join(home, "history", "runs.db"))
}

func TestMergeCommand_Report(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	writeInputs(t, filepath.Join(dir, "in"))
	reportPath := filepath.Join(dir, "reports", "run.html")

	out, err := executeCommand(t, "merge", "--input", filepath.Join(dir, "in"), "--output", filepath.Join(dir, "out"), "--report", reportPath)
	require.NoError(t, err, out)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<table>")
	assert.Contains(t, out, "Report written to "+reportPath)
}

func TestMergeCommand_Verbose(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	writeInputs(t, filepath.Join(dir, "in"))

	out, err := executeCommand(t, "merge", "--input", filepath.Join(dir, "in"), "--output", filepath.Join(dir, "out"), "--verbose")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Read "+filepath.Join(dir, "in", "a.xlsx"))
}

func TestMergeCommand_InvalidConfig(t *testing.T) {
	setupHome(t)

	_, err := executeCommand(t, "merge", "--name", "a/b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMergeCommand_Locked(t *testing.T) {
	setupHome(t)
	lockPath, err := config.GetLockPath()
	require.NoError(t, err)

	held, err := filelock.AcquireRunLock(lockPath)
	require.NoError(t, err)
	defer held.Unlock()

	dir := t.TempDir()
	writeInputs(t, filepath.Join(dir, "in"))
	_, err = executeCommand(t, "merge", "--input", filepath.Join(dir, "in"), "--output", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another merge is already running")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}
