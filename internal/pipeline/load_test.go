package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/sheetmerge/internal/codec"
	"github.com/harrison/sheetmerge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesFileAndReturnsMessage(t *testing.T) {
	df := models.MustTable([]string{"A", "B"}, [][]models.Value{
		{models.Int(1), models.String("x")},
		{models.Int(2), models.String("y")},
	})
	outDir := filepath.Join(t.TempDir(), "out")

	msg, err := Load(df, outDir, "test_file")
	require.NoError(t, err)
	assert.Equal(t, SuccessMessage, msg)

	saved := filepath.Join(outDir, "test_file.xlsx")
	require.FileExists(t, saved)

	read, err := codec.ReadFile(saved, "")
	require.NoError(t, err)
	assert.True(t, read.Equal(df), "file content should round-trip")
}

func TestLoad_CreatesNestedDirIfMissing(t *testing.T) {
	df := models.MustTable([]string{"A", "B"}, [][]models.Value{
		{models.Int(3), models.String("z")},
	})
	outDir := filepath.Join(t.TempDir(), "nested", "dir")
	_, err := os.Stat(outDir)
	require.True(t, os.IsNotExist(err))

	_, err = Load(df, outDir, "f2")
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "output directory holds exactly one file")
	assert.Equal(t, "f2.xlsx", entries[0].Name())
}

func TestLoad_RoundTripKeepsMissingCells(t *testing.T) {
	a, b := scenarioTables()
	merged, err := Concat(models.Batch{a, b})
	require.NoError(t, err)

	outDir := t.TempDir()
	_, err = Load(merged, outDir, "merged")
	require.NoError(t, err)

	read, err := codec.ReadFile(OutputPath(outDir, "merged"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, read.Columns())
	assert.True(t, read.Equal(merged))
	assert.True(t, read.Cell(0, 2).IsMissing())
	assert.True(t, read.Cell(1, 1).IsMissing())
}

func TestLoad_OverwritesExistingFile(t *testing.T) {
	outDir := t.TempDir()
	first := models.MustTable([]string{"old"}, [][]models.Value{{models.String("v1")}})
	second := models.MustTable([]string{"new"}, [][]models.Value{{models.String("v2")}})

	_, err := Load(first, outDir, "out")
	require.NoError(t, err)
	_, err = Load(second, outDir, "out")
	require.NoError(t, err)

	read, err := codec.ReadFile(OutputPath(outDir, "out"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, read.Columns())
}

func TestLoad_WriteFailure(t *testing.T) {
	df := models.MustTable([]string{"A"}, nil)

	// a regular file where the output directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := Load(df, filepath.Join(blocker, "out"), "f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWriteFailure))

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StageLoad, pe.Stage)
	assert.Equal(t, filepath.Join(blocker, "out"), pe.Path)
}

func TestLoad_EmptyFilename(t *testing.T) {
	_, err := Load(models.MustTable([]string{"A"}, nil), t.TempDir(), "")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "output", "dados_concatenados.xlsx"),
		OutputPath(DefaultOutputDir, DefaultOutputFilename))
}
