package models

import "time"

// Run status values
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// FileStat describes one input file read by a merge run
type FileStat struct {
	Path    string // Path of the spreadsheet
	Rows    int    // Data rows (header excluded)
	Columns int    // Header columns
}

// RunResult summarises one merge run
type RunResult struct {
	ID             string        // Run identifier (uuid)
	StartedAt      time.Time     // When the run began
	Duration       time.Duration // Wall time of the run
	InputDir       string        // Directory scanned for spreadsheets
	OutputDir      string        // Directory the merged file goes to
	OutputFilename string        // Output name without extension
	OutputPath     string        // Full path written, empty if Load never ran
	Files          []FileStat    // Per-file statistics in discovery order
	Columns        []string      // Merged column union
	Rows           int           // Merged row count
	Message        string        // Loader confirmation
	Status         string        // RunSucceeded or RunFailed
	Error          string        // Error text of a failed run
}

// Succeeded reports whether the run completed all stages
func (r *RunResult) Succeeded() bool {
	return r.Status == RunSucceeded
}
