package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNotDirectory is returned when the scanned path exists but is not a directory
var ErrNotDirectory = errors.New("not a directory")

// Order controls the order of scanned files
type Order int

const (
	// OrderListing keeps the order the operating system lists entries in
	OrderListing Order = iota
	// OrderSorted sorts file names lexicographically
	OrderSorted
)

// String returns the string representation of Order.
func (o Order) String() string {
	switch o {
	case OrderListing:
		return "listing"
	case OrderSorted:
		return "sorted"
	default:
		return "unknown"
	}
}

// ParseOrder converts "listing" or "sorted" into an Order
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "listing":
		return OrderListing, nil
	case "sorted":
		return OrderSorted, nil
	default:
		return OrderListing, fmt.Errorf("invalid order %q, must be one of: listing, sorted", s)
	}
}

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions lists accepted filename suffixes (e.g., ".xlsx").
	// Matching is case-sensitive. Empty accepts every file.
	Extensions []string
	// Pattern is a regex matched against the filename without extension
	Pattern string
	// Order selects listing or sorted output
	Order Order
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains dir joined with each matched name
	Files []string
}

// ScanDirectory lists the regular files directly inside dir that match opts.
// Subdirectories are never entered, even when their name matches.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	d, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	defer d.Close()

	info, err := d.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	var patternRegex *regexp.Regexp
	if opts.Pattern != "" {
		patternRegex, err = regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}

	// File.ReadDir, unlike os.ReadDir, does not sort
	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	result := &ScanResult{Files: make([]string, 0)}
	for _, entry := range entries {
		name := entry.Name()

		// hidden names never match a shell glob
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !hasExtension(name, opts.Extensions) {
			continue
		}
		if patternRegex != nil && !patternRegex.MatchString(strings.TrimSuffix(name, filepath.Ext(name))) {
			continue
		}

		path := filepath.Join(dir, name)
		if !isRegularFile(entry, path) {
			continue
		}
		result.Files = append(result.Files, path)
	}

	if opts.Order == OrderSorted {
		sort.Strings(result.Files)
	}

	return result, nil
}

func hasExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if len(name) > len(ext) && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isRegularFile follows symlinks the way a glob match followed by open would
func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
