package pipeline

import (
	"errors"

	"github.com/harrison/sheetmerge/internal/codec"
	"github.com/harrison/sheetmerge/internal/fileutil"
	"github.com/harrison/sheetmerge/internal/models"
)

// ExtractOptions configures how the input directory is read.
type ExtractOptions struct {
	// Extension is the filename suffix to pick up (default ".xlsx")
	Extension string
	// Sheet selects a worksheet by name; empty reads the first sheet
	Sheet string
	// Order is the discovery order of files
	Order fileutil.Order
	// OnFile, if set, is called after each file is parsed
	OnFile func(path string, table models.Table)
}

// DiscoverFiles returns the spreadsheet paths Extract would read, in order.
func DiscoverFiles(dir string, opts ExtractOptions) ([]string, error) {
	ext := opts.Extension
	if ext == "" {
		ext = codec.Extension
	}

	result, err := fileutil.ScanDirectory(dir, fileutil.ScanOptions{
		Extensions: []string{ext},
		Order:      opts.Order,
	})
	if err != nil {
		msg := "cannot read input directory"
		if errors.Is(err, fileutil.ErrNotDirectory) {
			msg = "input path is not a directory"
		}
		return nil, newError(StageExtract, KindNotFound, dir, msg, err)
	}
	return result.Files, nil
}

// Extract parses every matching spreadsheet directly inside dir.
//
// An empty batch with a nil error means no file matched. The first file
// that fails to parse aborts extraction with a KindParseFailure error
// naming that file; no partial batch is returned.
func Extract(dir string, opts ExtractOptions) (models.Batch, error) {
	files, err := DiscoverFiles(dir, opts)
	if err != nil {
		return nil, err
	}

	batch := make(models.Batch, 0, len(files))
	for _, path := range files {
		table, err := codec.ReadFile(path, opts.Sheet)
		if err != nil {
			return nil, newError(StageExtract, KindParseFailure, path, "cannot parse spreadsheet", err)
		}
		if opts.OnFile != nil {
			opts.OnFile(path, table)
		}
		batch = append(batch, table)
	}

	return batch, nil
}
