package pipeline

import (
	"github.com/harrison/sheetmerge/internal/models"
)

// UnionColumns returns the ordered column union of a batch: the first
// table's columns, then every new column in the order it is first seen.
// added[i] lists the columns table i contributed beyond those before it.
func UnionColumns(batch models.Batch) (columns []string, added [][]string) {
	seen := make(map[string]bool)
	added = make([][]string, len(batch))
	for i, table := range batch {
		for _, name := range table.Columns() {
			if seen[name] {
				continue
			}
			seen[name] = true
			columns = append(columns, name)
			added[i] = append(added[i], name)
		}
	}
	return columns, added
}

// Concat stacks the tables of a batch into one table with column-union
// semantics. Rows keep batch order and their order within each table;
// cells a source table has no column for are missing.
// An empty batch is rejected with KindInvalidInput.
func Concat(batch models.Batch) (models.Table, error) {
	if len(batch) == 0 {
		return models.Table{}, newError(StageTransform, KindInvalidInput, "", "cannot concatenate an empty batch", nil)
	}

	columns, _ := UnionColumns(batch)

	rows := make([][]models.Value, 0, batch.TotalRows())
	for _, table := range batch {
		// position of each source column in the merged layout
		mapping := make([]int, table.NumColumns())
		for c, name := range table.Columns() {
			mapping[c] = indexOf(columns, name)
		}

		for r := 0; r < table.NumRows(); r++ {
			cells := make([]models.Value, len(columns))
			for c, dst := range mapping {
				cells[dst] = table.Cell(r, c)
			}
			rows = append(rows, cells)
		}
	}

	merged, err := models.NewTable(columns, rows)
	if err != nil {
		return models.Table{}, newError(StageTransform, KindInvalidInput, "", "cannot build merged table", err)
	}
	return merged, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
