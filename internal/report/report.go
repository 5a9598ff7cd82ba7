// Package report renders a merge run as a Markdown document, optionally
// converted to HTML with goldmark.
package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/sheetmerge/internal/filelock"
	"github.com/harrison/sheetmerge/internal/models"
)

// Format selects the report output format
type Format int

const (
	// FormatMarkdown writes the Markdown source
	FormatMarkdown Format = iota
	// FormatHTML writes a standalone HTML page
	FormatHTML
)

// FormatFor picks the format from a file extension: .html and .htm mean
// HTML, anything else Markdown.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatMarkdown
	}
}

// Markdown renders the run report
func Markdown(run *models.RunResult) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Merge run %s\n\n", run.ID)

	b.WriteString("| Field | Value |\n|---|---|\n")
	row := func(k, v string) {
		fmt.Fprintf(&b, "| %s | %s |\n", k, escapeCell(v))
	}
	row("Status", run.Status)
	row("Started", run.StartedAt.Format(time.RFC3339))
	row("Duration", run.Duration.Round(time.Millisecond).String())
	row("Input directory", run.InputDir)
	if run.OutputPath != "" {
		row("Output", run.OutputPath)
	} else {
		row("Output", filepath.Join(run.OutputDir, run.OutputFilename)+" (not written)")
	}
	row("Rows", fmt.Sprintf("%d", run.Rows))
	row("Columns", fmt.Sprintf("%d", len(run.Columns)))
	b.WriteString("\n")

	if run.Error != "" {
		fmt.Fprintf(&b, "## Error\n\n```\n%s\n```\n\n", run.Error)
	}

	fmt.Fprintf(&b, "## Input files (%d)\n\n", len(run.Files))
	if len(run.Files) == 0 {
		b.WriteString("No spreadsheet files were read.\n\n")
	} else {
		b.WriteString("| # | File | Rows | Columns |\n|---:|---|---:|---:|\n")
		for i, f := range run.Files {
			fmt.Fprintf(&b, "| %d | %s | %d | %d |\n", i+1, escapeCell(f.Path), f.Rows, f.Columns)
		}
		b.WriteString("\n")
	}

	if len(run.Columns) > 0 {
		b.WriteString("## Columns\n\n")
		for _, c := range run.Columns {
			fmt.Fprintf(&b, "- `%s`\n", strings.ReplaceAll(c, "`", "'"))
		}
		b.WriteString("\n")
	}

	return b.Bytes()
}

// HTML renders the run report as a standalone HTML page
func HTML(run *models.RunResult) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert(Markdown(run), &body); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>Merge run %s</title>\n", html.EscapeString(run.ID))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Write renders the report in the format chosen by the path extension and
// writes it atomically, creating the parent directory if needed.
func Write(path string, run *models.RunResult) error {
	var data []byte
	var err error
	switch FormatFor(path) {
	case FormatHTML:
		data, err = HTML(run)
		if err != nil {
			return err
		}
	default:
		data = Markdown(run)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := filelock.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// escapeCell keeps a value inside one Markdown table cell
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
