package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme defines consistent colors for summary output.
// Green: success, Red: failure, Cyan: labels.
type colorScheme struct {
	header  *color.Color
	success *color.Color
	fail    *color.Color
	label   *color.Color
	value   *color.Color
}

// newColorScheme creates the standard color scheme. With enabled false every
// color prints plain text, so callers never branch on color themselves.
func newColorScheme(enabled bool) *colorScheme {
	scheme := &colorScheme{
		header:  color.New(color.Bold),
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
	if !enabled {
		for _, c := range []*color.Color{scheme.header, scheme.success, scheme.fail, scheme.label, scheme.value} {
			c.DisableColor()
		}
	}
	return scheme
}

// formatMetric formats "label: value" with a colored label.
func formatMetric(label string, value interface{}, scheme *colorScheme) string {
	return fmt.Sprintf("%s: %s", scheme.label.Sprint(label), scheme.value.Sprintf("%v", value))
}

// formatShape renders a table shape, e.g. "12 rows, 4 columns".
// A table with no rows is highlighted since it contributes only columns.
func formatShape(rows, columns int, colored bool) string {
	scheme := newColorScheme(colored)
	shape := fmt.Sprintf("%d %s, %d %s", rows, plural(rows, "row"), columns, plural(columns, "column"))
	if rows == 0 {
		return scheme.label.Sprint(shape)
	}
	return shape
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
