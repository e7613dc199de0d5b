package association

import (
	"fmt"
	"sort"
	"strings"

	"zebu/domain/core"
)

// Variable is a categorical column: a name and its ordered categories.
type Variable struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Cardinality is the number of distinct categories.
func (v Variable) Cardinality() int {
	return len(v.Categories)
}

// Dataset holds N complete observations of M categorical variables.
// Codes is column-major: Codes[v][row] indexes Variables[v].Categories.
type Dataset struct {
	Variables []Variable `json:"variables"`
	Codes     [][]int    `json:"codes"`
}

// Arity is the number of variables M.
func (d *Dataset) Arity() int {
	return len(d.Variables)
}

// Rows is the number of observations N.
func (d *Dataset) Rows() int {
	if len(d.Codes) == 0 {
		return 0
	}
	return len(d.Codes[0])
}

// Shape returns the cardinalities in variable order.
func (d *Dataset) Shape() []int {
	shape := make([]int, len(d.Variables))
	for i, v := range d.Variables {
		shape[i] = v.Cardinality()
	}
	return shape
}

// Names returns the variable names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Variables))
	for i, v := range d.Variables {
		names[i] = v.Name
	}
	return names
}

// NewDataset builds a dataset from row-oriented labels. Categories are the
// distinct observed labels in lexicographic order. Rows with an empty
// label in any column are dropped.
func NewDataset(names []string, rows [][]string) (*Dataset, error) {
	if err := checkNames(names); err != nil {
		return nil, err
	}

	complete, err := completeRows(names, rows)
	if err != nil {
		return nil, err
	}

	categories := make([][]string, len(names))
	for v := range names {
		seen := make(map[string]struct{})
		for _, row := range complete {
			if _, ok := seen[row[v]]; !ok {
				seen[row[v]] = struct{}{}
				categories[v] = append(categories[v], row[v])
			}
		}
		sort.Strings(categories[v])
	}

	return encode(names, complete, categories)
}

// NewDatasetWithCategories builds a dataset using caller supplied category
// orders. A label outside its declared set is an error; declared
// categories that never occur are kept and rejected later by estimation.
func NewDatasetWithCategories(names []string, rows [][]string, categories [][]string) (*Dataset, error) {
	if err := checkNames(names); err != nil {
		return nil, err
	}
	if len(categories) != len(names) {
		return nil, core.NewParameterError("categories", fmt.Sprintf("got %d category lists for %d variables", len(categories), len(names)))
	}
	for v, cats := range categories {
		seen := make(map[string]struct{}, len(cats))
		for _, c := range cats {
			if _, dup := seen[c]; dup {
				return nil, core.NewVariableError(names[v], fmt.Sprintf("duplicate category %q", c))
			}
			seen[c] = struct{}{}
		}
	}

	complete, err := completeRows(names, rows)
	if err != nil {
		return nil, err
	}
	return encode(names, complete, categories)
}

func checkNames(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: no variables selected", core.ErrInvalidVariable)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: empty variable name", core.ErrInvalidVariable)
		}
		if _, dup := seen[n]; dup {
			return core.NewVariableError(n, "selected twice")
		}
		seen[n] = struct{}{}
	}
	return nil
}

func completeRows(names []string, rows [][]string) ([][]string, error) {
	complete := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, core.NewParameterError("rows", fmt.Sprintf("row %d has %d labels, want %d", i, len(row), len(names)))
		}
		missing := false
		for _, label := range row {
			if label == "" {
				missing = true
				break
			}
		}
		if !missing {
			complete = append(complete, row)
		}
	}
	return complete, nil
}

func encode(names []string, rows [][]string, categories [][]string) (*Dataset, error) {
	ds := &Dataset{
		Variables: make([]Variable, len(names)),
		Codes:     make([][]int, len(names)),
	}
	for v, name := range names {
		ds.Variables[v] = Variable{Name: name, Categories: append([]string(nil), categories[v]...)}
		index := make(map[string]int, len(categories[v]))
		for i, c := range categories[v] {
			index[c] = i
		}
		col := make([]int, len(rows))
		for r, row := range rows {
			code, ok := index[row[v]]
			if !ok {
				return nil, core.NewVariableError(name, fmt.Sprintf("label %q is not a declared category", row[v]))
			}
			col[r] = code
		}
		ds.Codes[v] = col
	}
	return ds, nil
}
