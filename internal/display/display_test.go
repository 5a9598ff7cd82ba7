package display

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProgressIndicator(t *testing.T) {
	var buf bytes.Buffer
	pi := NewProgressIndicator(&buf, 2)

	pi.Start()
	pi.Step("data/input/jan.xlsx", 10, 3)
	pi.Step("data/input/feb.xlsx", 0, 4)
	pi.Complete()

	want := "Reading spreadsheets:\n" +
		"  [1/2] jan.xlsx (10 rows, 3 columns)\n" +
		"  [2/2] feb.xlsx (0 rows, 4 columns)\n" +
		"✓ Read 2 spreadsheet files\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
	if pi.Current() != 2 {
		t.Errorf("Current() = %d, want 2", pi.Current())
	}
}

func TestProgressIndicator_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	pi := NewProgressIndicator(&buf, 1)
	pi.Step("a.xlsx", 1, 1)
	pi.Complete()

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no ANSI codes for a non-terminal writer, got %q", buf.String())
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	if ColorEnabled(&buf) {
		t.Error("buffer should never be colored")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if ColorEnabled(f) {
		t.Error("regular file should not be colored")
	}

	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(os.Stdout) {
		t.Error("NO_COLOR must disable color")
	}
}

func TestDisplayWarning_TitleOnly(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "Configuration Missing"}.Display(&buf)

	output := buf.String()
	if !strings.Contains(output, "⚠️  Warning: Configuration Missing") {
		t.Errorf("expected title line, got %q", output)
	}
	if strings.Contains(output, "Affected") || strings.Contains(output, "Suggestion") {
		t.Errorf("optional sections should be omitted, got %q", output)
	}
}

func TestDisplayWarning_AllSections(t *testing.T) {
	var buf bytes.Buffer
	Warning{
		Title:      "Title",
		Message:    "Details",
		Files:      []string{"a.xlsx", "b.xlsx"},
		Suggestion: "Do something",
	}.Display(&buf)

	want := "⚠️  Warning: Title\n" +
		"    Details\n" +
		"    Affected files:\n" +
		"      1. a.xlsx\n" +
		"      2. b.xlsx\n" +
		"    Suggestion:\n" +
		"    Do something\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestDisplayWarning_SingleFile(t *testing.T) {
	var buf bytes.Buffer
	WarnColumnDrift("feb.xlsx", []string{"D", "E"}).Display(&buf)

	output := buf.String()
	if !strings.Contains(output, "Affected file:\n") {
		t.Errorf("expected singular heading, got %q", output)
	}
	if !strings.Contains(output, "New column(s): D, E") {
		t.Errorf("expected column list, got %q", output)
	}
}

func TestWarnNoDataRows(t *testing.T) {
	var buf bytes.Buffer
	WarnNoDataRows([]string{"a.xlsx", "b.xlsx"}).Display(&buf)

	output := buf.String()
	if !strings.Contains(output, "Warning: Files without data rows") {
		t.Errorf("expected title, got %q", output)
	}
	if !strings.Contains(output, "Affected files:\n      1. a.xlsx\n      2. b.xlsx\n") {
		t.Errorf("expected numbered file list, got %q", output)
	}
}

func TestIsOwnerFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"~$report.xlsx", true},
		{"dir/~$report.xlsx", true},
		{"report.xlsx", false},
		{"~$.xlsx", false},
		{"~$report.XLSX", false},
		{"~report.xlsx", false},
	}

	for _, tt := range tests {
		if got := IsOwnerFile(tt.name, ".xlsx"); got != tt.want {
			t.Errorf("IsOwnerFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFindOwnerFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"~$b.xlsx", "a.xlsx", "~$a.xlsx", "~$notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	owners, err := FindOwnerFiles(dir, ".xlsx")
	if err != nil {
		t.Fatalf("FindOwnerFiles() error = %v", err)
	}
	if len(owners) != 2 || owners[0] != "~$a.xlsx" || owners[1] != "~$b.xlsx" {
		t.Errorf("FindOwnerFiles() = %v, want [~$a.xlsx ~$b.xlsx]", owners)
	}

	if _, err := FindOwnerFiles(filepath.Join(dir, "missing"), ".xlsx"); err == nil {
		t.Error("expected error for missing directory")
	}
}
