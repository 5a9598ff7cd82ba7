package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/sheetmerge/internal/codec"
	"github.com/harrison/sheetmerge/internal/config"
	"github.com/harrison/sheetmerge/internal/models"
)

// executeCommand runs the root command with args and returns combined output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := NewRootCommand()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

// setupHome points SHEETMERGE_HOME at a fresh directory
func setupHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv(config.HomeEnv, home)
	return home
}

func writeSheet(t *testing.T, path string, columns []string, rows [][]models.Value) {
	t.Helper()
	table, err := models.NewTable(columns, rows)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	data, err := codec.Encode(table)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// writeInputs creates two spreadsheets whose columns only partly overlap
func writeInputs(t *testing.T, dir string) {
	t.Helper()
	writeSheet(t, filepath.Join(dir, "a.xlsx"), []string{"A", "B"}, [][]models.Value{
		{models.Int(1), models.String("x")},
		{models.Int(2), models.String("y")},
	})
	writeSheet(t, filepath.Join(dir, "b.xlsx"), []string{"B", "C"}, [][]models.Value{
		{models.String("z"), models.Bool(true)},
	})
}

func TestRootCommandHelp(t *testing.T) {
	output, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("--help returned error: %v", err)
	}
	for _, want := range []string{"sheetmerge", "merge", "inspect", "history"} {
		if !strings.Contains(output, want) {
			t.Errorf("help should mention %q, got:\n%s", want, output)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	output, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("--version returned error: %v", err)
	}
	if !strings.Contains(output, Version) {
		t.Errorf("expected version %q in output, got %q", Version, output)
	}
}

func TestRootCommandRejectsArgs(t *testing.T) {
	setupHome(t)
	if _, err := executeCommand(t, "unexpected"); err == nil {
		t.Error("expected an error for a stray argument")
	}
}
