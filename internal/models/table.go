package models

import (
	"fmt"
)

// Table is an immutable in-memory sheet: ordered named columns and
// row-major cells. Every row has exactly one cell per column.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value

	// Source is the file the table was read from (empty for merged tables)
	Source string
}

// Batch is an ordered set of tables, one per discovered input file
type Batch []Table

// NewTable builds a Table from column names and rows.
// Inputs are copied. Rows shorter than the column list are padded with
// missing values; longer rows and repeated column names are rejected.
func NewTable(columns []string, rows [][]Value) (Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return Table{}, fmt.Errorf("duplicate column name %q", name)
		}
		index[name] = i
	}

	copied := make([][]Value, len(rows))
	for r, row := range rows {
		if len(row) > len(columns) {
			return Table{}, fmt.Errorf("row %d has %d cells, table has %d columns", r, len(row), len(columns))
		}
		cells := make([]Value, len(columns))
		copy(cells, row)
		copied[r] = cells
	}

	cols := make([]string, len(columns))
	copy(cols, columns)

	return Table{columns: cols, index: index, rows: copied}, nil
}

// MustTable is NewTable for statically known input. It panics on error.
func MustTable(columns []string, rows [][]Value) Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// WithSource returns a copy of t labelled with the file it came from.
// Cell storage is shared; it is never written after construction.
func (t Table) WithSource(path string) Table {
	t.Source = path
	return t
}

// Columns returns a copy of the column names in order
func (t Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// NumColumns returns the number of columns
func (t Table) NumColumns() int { return len(t.columns) }

// NumRows returns the number of rows
func (t Table) NumRows() int { return len(t.rows) }

// IsEmpty reports whether the table has no rows
func (t Table) IsEmpty() bool { return len(t.rows) == 0 }

// ColumnIndex returns the position of a column, or -1 when absent
func (t Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Row returns a copy of row i
func (t Table) Row(i int) []Value {
	row := make([]Value, len(t.rows[i]))
	copy(row, t.rows[i])
	return row
}

// Cell returns the value at row r, column c
func (t Table) Cell(r, c int) Value {
	return t.rows[r][c]
}

// Column returns a copy of every value in the named column
func (t Table) Column(name string) ([]Value, bool) {
	c := t.ColumnIndex(name)
	if c < 0 {
		return nil, false
	}
	values := make([]Value, len(t.rows))
	for r, row := range t.rows {
		values[r] = row[c]
	}
	return values, true
}

// Equal reports whether two tables have the same columns in the same order
// and equal cells row by row. Source is ignored.
func (t Table) Equal(other Table) bool {
	if len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != other.columns[i] {
			return false
		}
	}
	for r := range t.rows {
		for c := range t.rows[r] {
			if !t.rows[r][c].Equal(other.rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// TotalRows returns the sum of row counts across the batch
func (b Batch) TotalRows() int {
	total := 0
	for _, t := range b {
		total += t.NumRows()
	}
	return total
}
