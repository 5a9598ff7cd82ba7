package display

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiReset  = "\x1b[0m"
)

// ColorEnabled reports whether w is a terminal that should receive ANSI
// colors. NO_COLOR disables color everywhere.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func paint(enabled bool, code, s string) string {
	if !enabled {
		return s
	}
	return code + s + ansiReset
}
