// Package fileutil lists the spreadsheet files a merge run reads.
//
// ScanDirectory looks only at the entries directly inside one directory. It
// keeps regular files (or symlinks to regular files) whose name ends with one
// of the configured extensions and skips hidden names, which mirrors what a
// shell glob such as "data/input/*.xlsx" would match.
//
// # Ordering
//
// By default files come back in the order the operating system lists them,
// which is not guaranteed to be alphabetical. Set Order to OrderSorted when
// the merged output must be reproducible across machines:
//
//	result, err := fileutil.ScanDirectory("data/input", fileutil.ScanOptions{
//	    Extensions: []string{".xlsx"},
//	    Order:      fileutil.OrderSorted,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// # Errors
//
// A missing directory surfaces the underlying *fs.PathError (so
// errors.Is(err, fs.ErrNotExist) holds). A path that is not a directory
// returns an error wrapping ErrNotDirectory.
package fileutil
