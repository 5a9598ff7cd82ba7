package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow on a terminal
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}
		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	text := b.String()
	if ColorEnabled(out) {
		text = ansiYellow + text + ansiReset
	}
	fmt.Fprint(out, text)
}

// WarnOwnerFiles creates the warning shown when Excel lock files sit in the
// input directory. They match the extension but cannot be parsed.
func WarnOwnerFiles(files []string) Warning {
	return Warning{
		Title:      "Excel lock files detected",
		Message:    "These files are created while a workbook is open and will fail to parse.",
		Files:      files,
		Suggestion: "Close the workbooks in Excel or remove the ~$ files, then run again.",
	}
}

// WarnNoDataRows creates the warning shown for files that hold a header, or
// nothing at all, and so contribute no rows.
func WarnNoDataRows(files []string) Warning {
	return Warning{
		Title:   "Files without data rows",
		Message: "Their columns still join the merged header.",
		Files:   files,
	}
}

// WarnColumnDrift creates the warning shown when a later file introduces
// columns earlier files lack. Their earlier rows are left empty.
func WarnColumnDrift(file string, columns []string) Warning {
	return Warning{
		Title:   "Column set differs between files",
		Message: fmt.Sprintf("New column(s): %s", strings.Join(columns, ", ")),
		Files:   []string{file},
	}
}
