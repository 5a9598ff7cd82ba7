// Package codec converts between xlsx workbook bytes and models.Table.
//
// Decoding reads one sheet: its first non-blank row is the header and every
// following non-blank row is data. Date and time cells are kept as the text
// the workbook displays. Encoding writes a single "Sheet1" with a header row
// and no index column.
package codec

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harrison/sheetmerge/internal/models"
	"github.com/xuri/excelize/v2"
)

// Extension is the file suffix handled by this codec
const Extension = ".xlsx"

// DefaultSheet is the sheet name written by Encode
const DefaultSheet = "Sheet1"

// ReadFile decodes the xlsx file at path.
// sheet selects a worksheet by name; empty means the first sheet.
func ReadFile(path string, sheet string) (models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Table{}, err
	}
	defer file.Close()

	table, err := Decode(file, sheet)
	if err != nil {
		return models.Table{}, err
	}
	return table.WithSource(path), nil
}

// Decode reads a workbook from r and returns one sheet as a Table.
func Decode(r io.Reader, sheet string) (models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name, err := resolveSheet(f, sheet)
	if err != nil {
		return models.Table{}, err
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Table{}, fmt.Errorf("read rows of sheet %q: %w", name, err)
	}

	// Skip blank rows above the header, remembering the sheet offset so
	// cell coordinates stay correct for type lookups.
	first := 0
	for first < len(raw) && isBlank(raw[first]) {
		first++
	}
	if first == len(raw) {
		return models.NewTable(nil, nil)
	}

	width := 0
	for _, row := range raw[first:] {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := headerNames(raw[first], width)

	dates := &dateStyles{f: f, known: make(map[int]bool)}

	rows := make([][]models.Value, 0, len(raw)-first-1)
	for i := first + 1; i < len(raw); i++ {
		// blank lines are dropped, as a text reader would
		if isBlank(raw[i]) {
			continue
		}
		cells := make([]models.Value, width)
		for c, text := range raw[i] {
			if text == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, i+1)
			if err != nil {
				return models.Table{}, fmt.Errorf("cell coordinates (%d, %d): %w", c+1, i+1, err)
			}
			typ, err := f.GetCellType(name, axis)
			if err != nil {
				return models.Table{}, fmt.Errorf("cell %s type: %w", axis, err)
			}
			if typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber {
				isDate, err := dates.at(name, axis)
				if err != nil {
					return models.Table{}, err
				}
				if isDate {
					shown, err := f.GetCellValue(name, axis)
					if err != nil {
						return models.Table{}, fmt.Errorf("cell %s value: %w", axis, err)
					}
					cells[c] = models.String(shown)
					continue
				}
			}
			cells[c] = cellValue(text, typ)
		}
		rows = append(rows, cells)
	}

	return models.NewTable(columns, rows)
}

// Encode serialises t as an xlsx workbook.
func Encode(t models.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	columns := t.Columns()
	header := make([]interface{}, len(columns))
	for i, name := range columns {
		header[i] = name
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for r := 0; r < t.NumRows(); r++ {
		cells := make([]interface{}, len(columns))
		for c, v := range t.Row(r) {
			cells[c] = v.Interface()
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("row %d coordinates: %w", r, err)
		}
		if err := f.SetSheetRow(DefaultSheet, axis, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialise workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return sheets[0], nil
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return "", fmt.Errorf("look up sheet %q: %w", sheet, err)
	}
	if idx == -1 {
		return "", fmt.Errorf("sheet %q not found", sheet)
	}
	return sheet, nil
}

// headerNames turns the header row into unique column names.
// Blank headers become "Unnamed: <i>"; repeats get ".1", ".2", ... suffixes.
func headerNames(row []string, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	counts := make(map[string]int, width)
	for i := 0; i < width; i++ {
		base := ""
		if i < len(row) {
			base = row[i]
		}
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name := base
		for used[name] {
			counts[base]++
			name = fmt.Sprintf("%s.%d", base, counts[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func cellValue(text string, typ excelize.CellType) models.Value {
	switch typ {
	case excelize.CellTypeBool:
		switch text {
		case "1", "TRUE", "true":
			return models.Bool(true)
		case "0", "FALSE", "false":
			return models.Bool(false)
		}
		return models.String(text)
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return models.Int(i)
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return models.Float(f)
		}
		return models.String(text)
	default:
		return models.String(text)
	}
}

// dateStyles remembers which cell style ids carry a date or time number
// format.
type dateStyles struct {
	f     *excelize.File
	known map[int]bool
}

func (d *dateStyles) at(sheet, axis string) (bool, error) {
	id, err := d.f.GetCellStyle(sheet, axis)
	if err != nil {
		return false, fmt.Errorf("cell %s style: %w", axis, err)
	}
	if isDate, ok := d.known[id]; ok {
		return isDate, nil
	}
	style, err := d.f.GetStyle(id)
	if err != nil {
		return false, fmt.Errorf("style %d: %w", id, err)
	}
	var isDate bool
	if style.CustomNumFmt != nil {
		isDate = isDateFormat(*style.CustomNumFmt)
	} else {
		isDate = isBuiltInDateFormat(style.NumFmt)
	}
	d.known[id] = isDate
	return isDate, nil
}

// isBuiltInDateFormat reports whether a built-in number format id renders
// a date or a time, including the East Asian locale formats.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a custom number format code uses date or
// time tokens outside quoted text, escapes and bracketed sections.
func isDateFormat(code string) bool {
	// only the first section formats positive numbers
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	inQuote := false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		case ch == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				return false
			}
			// [h], [mm] and [ss] are elapsed time
			inner := strings.ToLower(code[i+1 : i+end])
			if inner != "" && strings.Trim(inner, "hms") == "" {
				return true
			}
			i += end
		default:
			switch ch | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
