package pipeline

import (
	"os"
	"path/filepath"

	"github.com/harrison/sheetmerge/internal/codec"
	"github.com/harrison/sheetmerge/internal/filelock"
	"github.com/harrison/sheetmerge/internal/models"
)

// SuccessMessage is what Load returns after writing the output file
const SuccessMessage = "xlsx file saved successfully"

// OutputPath returns the file Load writes for dir and filename
func OutputPath(dir, filename string) string {
	return filepath.Join(dir, filename+codec.Extension)
}

// Load writes table to <dir>/<filename>.xlsx, creating dir and any missing
// parents. An existing file at that path is replaced. The row position is
// not written as a column.
func Load(table models.Table, dir, filename string) (string, error) {
	if filename == "" {
		return "", newError(StageLoad, KindInvalidInput, dir, "output filename is empty", nil)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", newError(StageLoad, KindWriteFailure, dir, "cannot create output directory", err)
	}

	path := OutputPath(dir, filename)

	data, err := codec.Encode(table)
	if err != nil {
		return "", newError(StageLoad, KindWriteFailure, path, "cannot encode workbook", err)
	}

	if err := filelock.AtomicWrite(path, data); err != nil {
		return "", newError(StageLoad, KindWriteFailure, path, "cannot write output file", err)
	}

	return SuccessMessage, nil
}
