package table

import (
	"slices"

	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Project returns a table holding the requested columns that exist in t, in
// the requested order. Unknown names are skipped and repeated names appear
// once, at their first position.
func Project(t *Table, names ...string) *Table {
	columns := make([]Column, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		seen[name] = struct{}{}
		columns = append(columns, col)
	}
	return t.derive(columns, t.rows)
}

// Filter returns a table with the rows of t whose value in column satisfies
// op against value, in their original order. The value is converted to the
// column's type first: numbers compare numerically, booleans with
// false < true and strings byte-wise.
func Filter(t *Table, column string, op ComparisonOperator, value interface{}) (*Table, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, tableerrors.ColumnNotFound(column)
	}
	if !op.Valid() {
		return nil, tableerrors.Newf(tableerrors.ErrorTypeValidation, "unknown comparison operator %d", int(op))
	}

	cv, err := toComparand(col, value)
	if err != nil {
		return nil, err
	}

	selected := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if op.holds(col.compareTo(i, cv)) {
			selected = append(selected, i)
		}
	}
	return t.gather(selected), nil
}

// Sort returns t with its rows reordered by column, ascending unless
// descending is set. The sort is stable in both directions.
func Sort(t *Table, column string, descending bool) (*Table, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, tableerrors.ColumnNotFound(column)
	}

	perm := make([]int, t.rows)
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		if descending {
			return col.compare(b, a)
		}
		return col.compare(a, b)
	})
	return t.gather(perm), nil
}

// gather applies one row selection to every column so rows stay aligned.
func (t *Table) gather(indices []int) *Table {
	columns := make([]Column, len(t.columns))
	for i, col := range t.columns {
		columns[i] = col.gather(indices)
	}
	return t.derive(columns, len(indices))
}

// Project is shorthand for the package-level Project.
func (t *Table) Project(names ...string) *Table { return Project(t, names...) }

// Filter is shorthand for the package-level Filter.
func (t *Table) Filter(column string, op ComparisonOperator, value interface{}) (*Table, error) {
	return Filter(t, column, op, value)
}

// Sort is shorthand for the package-level Sort.
func (t *Table) Sort(column string, descending bool) (*Table, error) {
	return Sort(t, column, descending)
}
