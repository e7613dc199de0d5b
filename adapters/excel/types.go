package excel

import (
	"fmt"

	"zebu/domain/core"
)

// Table is a header row plus string cells. Every row has one cell per
// header; short rows are padded with empty strings.
type Table struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows
}

// ColumnIndex returns the position of a header
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Headers {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns the cells of one column
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, core.NewVariableError(name, "column not found")
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[idx]
	}
	return out, nil
}

// Select returns the named columns, in the given order, row by row
func (t *Table) Select(names []string) ([][]string, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no variables selected", core.ErrInvalidVariable)
	}
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := t.ColumnIndex(name)
		if !ok {
			return nil, core.NewVariableError(name, "column not found")
		}
		idx[i] = j
	}
	out := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		sel := make([]string, len(idx))
		for i, j := range idx {
			sel[i] = row[j]
		}
		out[r] = sel
	}
	return out, nil
}

// Replace overwrites a column, used after discretization
func (t *Table) Replace(name string, values []string) error {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return core.NewVariableError(name, "column not found")
	}
	if len(values) != len(t.Rows) {
		return core.NewParameterError(name, fmt.Sprintf("got %d values for %d rows", len(values), len(t.Rows)))
	}
	for r, row := range t.Rows {
		row[idx] = values[r]
	}
	return nil
}
