package display

import (
	"path/filepath"
	"strings"

	"github.com/harrison/sheetmerge/internal/fileutil"
)

// ownerPrefix starts the name of the lock file Excel writes next to an
// open workbook, e.g. "~$report.xlsx".
const ownerPrefix = "~$"

// IsOwnerFile reports whether filename is an Excel owner (lock) file for
// the given extension. The extension match is case-sensitive like discovery.
func IsOwnerFile(filename, ext string) bool {
	base := filepath.Base(filename)
	if !strings.HasPrefix(base, ownerPrefix) || !strings.HasSuffix(base, ext) {
		return false
	}
	return len(base) > len(ownerPrefix)+len(ext)
}

// FindOwnerFiles returns the basenames of owner files in dirPath.
// Only the immediate directory is scanned. A missing directory is an error.
func FindOwnerFiles(dirPath, ext string) ([]string, error) {
	result, err := fileutil.ScanDirectory(dirPath, fileutil.ScanOptions{
		Extensions: []string{ext},
		Pattern:    `^~\$`,
		Order:      fileutil.OrderSorted,
	})
	if err != nil {
		return nil, err
	}

	owners := make([]string, 0)
	for _, path := range result.Files {
		if IsOwnerFile(path, ext) {
			owners = append(owners, filepath.Base(path))
		}
	}
	return owners, nil
}
