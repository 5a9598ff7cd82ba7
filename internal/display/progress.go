package display

import (
	"fmt"
	"io"
	"path/filepath"
)

// ProgressIndicator manages multi-step progress display
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	color   bool
}

// NewProgressIndicator creates a new progress indicator for total files
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		total:  total,
		color:  ColorEnabled(w),
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Reading spreadsheets:\n")
}

// Step displays progress for the current file: [N/Total] name (rows x columns)
func (p *ProgressIndicator) Step(filename string, rows, columns int) {
	p.current++
	line := fmt.Sprintf("  [%d/%d] %s (%d rows, %d columns)", p.current, p.total, filepath.Base(filename), rows, columns)
	fmt.Fprintln(p.writer, paint(p.color, ansiCyan, line))
}

// Complete displays success message with green checkmark
func (p *ProgressIndicator) Complete() {
	fmt.Fprintf(p.writer, "%s Read %d spreadsheet files\n", paint(p.color, ansiGreen, "✓"), p.current)
}

// Current returns the number of steps displayed so far
func (p *ProgressIndicator) Current() int {
	return p.current
}
